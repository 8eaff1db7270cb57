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

// Package comb implements fixed-base simultaneous multi-exponentiation via a
// precomputed comb of a base's powers, trading storage for multiplication
// count the way a lookup table trades memory for recomputation anywhere
// else. Two combs (one per generator) are driven in lockstep by PowGH to
// compute g^e1 * h^e2 with one shared pass of squarings.
package comb

import (
	"errors"
	"math/big"
)

var (
	// ErrNoSuitableComb is returned when no (ppa, aps) candidate fits
	// within the requested storage budget.
	ErrNoSuitableComb = errors.New("comb: no candidate fits the storage budget")
	// ErrOverflow is returned when an exponent's bit length exceeds the
	// comb's supported range.
	ErrOverflow = errors.New("comb: exponent exceeds comb bit width")
)

// Spec describes one generated comb: how many bases are combined per add
// step (ppa), how many adds separate successive squarings (aps), how many
// squaring rounds there are (shifts), and the derived bit width and storage
// footprint.
type Spec struct {
	PPA    int // points-per-add
	APS    int // adds-per-shift
	Shifts int
	BPW    int // bits-per-window = shifts * aps
	Bits   int // bpw * ppa, the maximum supported exponent bit length
	Items  int // (2^ppa - 1) * aps precomputed elements
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 1
	for r*r <= n {
		r++
	}
	return r - 1
}

// Generate searches ppa in [2,17] for the (aps, shifts) orientation that
// minimizes multiplication count subject to a storage cap of maxSize items,
// per the standard comb cost/storage trade-off.
func Generate(bits, maxSize int) (*Spec, error) {
	type candidate struct {
		ops  int
		spec Spec
	}
	best := map[int]Spec{}

	consider := func(ppa, aps, shifts, bpw int) {
		ops := shifts*(aps+1) - 1
		size := (1<<uint(ppa) - 1) * aps
		spec := Spec{PPA: ppa, APS: aps, Shifts: shifts, BPW: bpw, Bits: bpw * ppa, Items: size}
		if cur, ok := best[ops]; !ok || size < cur.Items {
			best[ops] = spec
		}
	}

	for ppa := 2; ppa <= 17; ppa++ {
		bpw := (bits + ppa - 1) / ppa
		if bpw == 0 {
			continue
		}
		limit := isqrt(bpw) + 1
		for aps := 1; aps <= limit; aps++ {
			if bpw%aps != 0 {
				continue
			}
			shifts := bpw / aps
			consider(ppa, aps, shifts, bpw)
			if aps != shifts {
				consider(ppa, shifts, aps, bpw)
			}
		}
	}

	candidates := make([]candidate, 0, len(best))
	for ops, spec := range best {
		candidates = append(candidates, candidate{ops: ops, spec: spec})
	}
	// Sort candidates by ops ascending (simple insertion sort; the set is tiny).
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].ops < candidates[j-1].ops; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	minSeen := maxSize + 1
	for _, c := range candidates {
		if c.spec.Items <= maxSize && c.spec.Items < minSeen {
			spec := c.spec
			minSeen = c.spec.Items
			return &spec, nil
		}
	}
	return nil, ErrNoSuitableComb
}

// Table holds a comb's precomputed group elements for a fixed base and
// modulus, ready to drive PowGH.
type Table struct {
	Spec  Spec
	N     *big.Int
	Items []*big.Int
}

// Precompute fills a comb table for base modulo N following the spec's
// three-phase construction: the bottom row of all nonzero ppa-bit window
// selections, then aps-1 rounds of shifting that row by 2^shifts.
func Precompute(spec Spec, base, N *big.Int) *Table {
	items := make([]*big.Int, spec.Items)
	items[0] = new(big.Int).Mod(base, N)

	shiftAmt := new(big.Int).Lsh(big.NewInt(1), uint(spec.BPW))
	for i := 1; i < spec.PPA; i++ {
		items[1<<uint(i)-1] = new(big.Int).Exp(items[1<<uint(i-1)-1], shiftAmt, N)
		for j := 1<<uint(i) + 1; j < 1<<uint(i+1); j++ {
			items[j-1] = new(big.Int).Mod(new(big.Int).Mul(items[j-(1<<uint(i))-1], items[1<<uint(i)-1]), N)
		}
	}
	bottomRowSize := 1<<uint(spec.PPA) - 1
	shiftByShifts := new(big.Int).Lsh(big.NewInt(1), uint(spec.Shifts))
	for i := 1; i < spec.APS; i++ {
		for j := 0; j < bottomRowSize; j++ {
			prev := items[(i-1)*bottomRowSize+j]
			items[i*bottomRowSize+j] = new(big.Int).Exp(prev, shiftByShifts, N)
		}
	}
	return &Table{Spec: spec, N: N, Items: items}
}

// ToCombExp encodes e as a [shifts][aps] table of window selectors in
// [0, 2^ppa). Bit (bits-1-((i+k*aps)*shifts+j)) of e selects bit ppa-1-k of
// the selector at position (j, aps-1-i), i.e. selectors are assembled
// MSB-first.
func ToCombExp(spec Spec, e *big.Int) ([][]uint32, error) {
	if e.BitLen() > spec.Bits {
		return nil, ErrOverflow
	}
	wins := make([][]uint32, spec.Shifts)
	for j := 0; j < spec.Shifts; j++ {
		wins[j] = make([]uint32, spec.APS)
		for i := 0; i < spec.APS; i++ {
			var sel uint32
			for k := 0; k < spec.PPA; k++ {
				bitIndex := (spec.Bits - 1) - ((i+k*spec.APS)*spec.Shifts + j)
				if bitIndex >= 0 && e.Bit(bitIndex) == 1 {
					sel |= 1 << uint(spec.PPA-1-k)
				}
			}
			wins[j][spec.APS-1-i] = sel
		}
	}
	return wins, nil
}

// chooseComb returns the smallest of the given tables whose bit width covers
// both exponents.
func chooseComb(tables []*Table, bits1, bits2 int) (*Table, error) {
	need := bits1
	if bits2 > need {
		need = bits2
	}
	var chosen *Table
	for _, t := range tables {
		if t.Spec.Bits >= need {
			if chosen == nil || t.Spec.Bits < chosen.Spec.Bits {
				chosen = t
			}
		}
	}
	if chosen == nil {
		return nil, ErrOverflow
	}
	return chosen, nil
}

// PowGH computes g^e1 * h^e2 mod N by driving the g-comb and h-comb in
// lockstep, sharing one squaring of the accumulator per shift round
// (Shamir's trick at the comb level). gTables and hTables must be sized the
// same way and share the same N; the smallest pair covering both exponents
// is selected automatically.
func PowGH(gTables, hTables []*Table, e1, e2, N *big.Int) (*big.Int, error) {
	gTable, err := chooseComb(gTables, e1.BitLen(), e2.BitLen())
	if err != nil {
		return nil, err
	}
	hTable, err := chooseComb(hTables, e1.BitLen(), e2.BitLen())
	if err != nil {
		return nil, err
	}

	winsG, err := ToCombExp(gTable.Spec, e1)
	if err != nil {
		return nil, err
	}
	winsH, err := ToCombExp(hTable.Spec, e2)
	if err != nil {
		return nil, err
	}

	bottomRowSize := 1<<uint(gTable.Spec.PPA) - 1
	ret := big.NewInt(1)
	isIdentity := true
	for j := 0; j < gTable.Spec.Shifts; j++ {
		if !isIdentity {
			ret.Mod(new(big.Int).Mul(ret, ret), N)
		}
		for i := 0; i < gTable.Spec.APS; i++ {
			if sel := winsG[j][i]; sel != 0 {
				ret.Mod(new(big.Int).Mul(ret, gTable.Items[i*bottomRowSize+int(sel)-1]), N)
				isIdentity = false
			}
			if sel := winsH[j][i]; sel != 0 {
				ret.Mod(new(big.Int).Mul(ret, hTable.Items[i*bottomRowSize+int(sel)-1]), N)
				isIdentity = false
			}
		}
	}
	return ret, nil
}
