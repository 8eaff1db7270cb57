// Copyright © 2020 AMIS Technologies
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package goosig

import "errors"

var (
	// ErrNoQR is returned when no small prime in the table has a quadratic
	// residue modulo n = p*q.
	ErrNoQR = errors.New("goosig: no small prime is a quadratic residue mod n")
	// ErrEllRetryExhausted is returned when the first-move randomness had
	// to be re-rolled more times than the retry budget allows while
	// searching for a 128-bit ell.
	ErrEllRetryExhausted = errors.New("goosig: exhausted retries searching for a 128-bit ell")
	// ErrOverflow is returned when Eq comes out negative or wider than
	// EXPONENT_SIZE bits.
	ErrOverflow = errors.New("goosig: quotient exponent overflow")
	// ErrInvalidSignature is returned by Verify's internal checks; Verify
	// itself never returns this — it always collapses every failure to a
	// plain false, per the module's error-handling policy.
	ErrInvalidSignature = errors.New("goosig: invalid signature")
)
