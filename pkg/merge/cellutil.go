// Copyright 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package merge

import (
	"fmt"
	"math"
	"strings"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

// ApplyMovedReferences runs the moved-reference pass: every local
// reference declaring MovedCell is relocated into that exterior's
// reference table. A moved reference whose declared destination does
// not exist (or whose cell slot is missing or ignored) means the
// plugin is internally inconsistent; that is a programming error, not
// a recoverable one, so this panics rather than silently dropping data.
func ApplyMovedReferences(pd *PluginData) {
	type moved struct {
		grid [2]int32
		key  esp.RefKey
		ref  *esp.Reference
	}
	var toMove []moved

	for grid, s := range pd.Cells.Exteriors {
		if s.Cell == nil {
			continue
		}
		for key, ref := range s.Cell.References {
			if key.MastIndex == 0 && ref.MovedCell != nil {
				toMove = append(toMove, moved{grid: grid, key: key, ref: ref})
			}
		}
	}
	for _, m := range toMove {
		delete(pd.Cells.Exteriors[m.grid].Cell.References, m.key)
	}

	for _, m := range toMove {
		dest, ok := pd.Cells.Exteriors[*m.ref.MovedCell]
		if !ok || dest.Cell == nil || dest.Cell.Flags().Ignored() {
			panic(fmt.Sprintf("moved reference '%s' (%v) has invalid cell %v", m.ref.ID, m.key, m.ref.MovedCell))
		}
		m.ref.MovedCell = nil
		dest.Cell.References[m.ref.Key()] = m.ref
	}
}

const maxAbsDiff = 1e-5

// affine is the 3x4 matrix (rotation+scale in the upper-left 3x3,
// translation in the last column) used to compare two references for
// equivalence.
type affine [12]float64 // row-major 3x4

func transformOf(ref *esp.Reference) affine {
	scale := float64(ref.Scale)
	if scale == 0 {
		scale = 1
	}
	x, y, z := float64(-ref.Rotation[0]), float64(-ref.Rotation[1]), float64(-ref.Rotation[2])

	sx, cx := math.Sincos(x)
	sy, cy := math.Sincos(y)
	sz, cz := math.Sincos(z)

	// Euler XYZ: R = Rx * Ry * Rz
	r00 := cy * cz
	r01 := -cy * sz
	r02 := sy
	r10 := cx*sz + sx*sy*cz
	r11 := cx*cz - sx*sy*sz
	r12 := -sx * cy
	r20 := sx*sz - cx*sy*cz
	r21 := sx*cz + cx*sy*sz
	r22 := cx * cy

	tx, ty, tz := float64(ref.Translation[0]), float64(ref.Translation[1]), float64(ref.Translation[2])

	return affine{
		r00 * scale, r01 * scale, r02 * scale, tx,
		r10 * scale, r11 * scale, r12 * scale, ty,
		r20 * scale, r21 * scale, r22 * scale, tz,
	}
}

func (a affine) approxEqual(b affine) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > maxAbsDiff {
			return false
		}
	}
	return true
}

// RemoveDuplicateReferences runs the duplicate-reference pass: within
// each cell, group surviving references by id and drop all but one
// representative of each transform-equivalence class.
func RemoveDuplicateReferences(pd *PluginData) {
	dedupeAll := func(s *Slot) {
		if s.Cell != nil {
			dedupeCell(s.Cell)
		}
	}
	for _, s := range pd.Cells.Interiors {
		dedupeAll(s)
	}
	for _, s := range pd.Cells.Exteriors {
		dedupeAll(s)
	}
}

func dedupeCell(c *esp.Cell) {
	byID := map[string][]esp.RefKey{}
	for key, ref := range c.References {
		if ref.Deleted {
			continue
		}
		byID[strings.ToLower(ref.ID)] = append(byID[strings.ToLower(ref.ID)], key)
	}

	for _, keys := range byID {
		kept := keys[:0:0]
		for _, key := range keys {
			ref := c.References[key]
			t := transformOf(ref)
			duplicate := false
			for _, kk := range kept {
				if t.approxEqual(transformOf(c.References[kk])) {
					duplicate = true
					break
				}
			}
			if duplicate {
				delete(c.References, key)
			} else {
				kept = append(kept, key)
			}
		}
	}
}
