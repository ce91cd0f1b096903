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
	"testing"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

func TestApplyMovedReferencesRelocates(t *testing.T) {
	pd := New()

	src := &esp.Cell{Exterior: true}
	dst := &esp.Cell{Exterior: true, References: map[esp.RefKey]*esp.Reference{}}

	destGrid := [2]int32{1, 0}
	src.References = map[esp.RefKey]*esp.Reference{
		{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "crate_01", MovedCell: &destGrid},
	}

	pd.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: src}
	pd.Cells.Exteriors[destGrid] = &Slot{Cell: dst}

	ApplyMovedReferences(pd)

	if len(src.References) != 0 {
		t.Errorf("expected source cell to have no references left, got %d", len(src.References))
	}
	if len(dst.References) != 1 {
		t.Fatalf("expected destination cell to gain 1 reference, got %d", len(dst.References))
	}
	for _, ref := range dst.References {
		if ref.ID != "crate_01" {
			t.Errorf("unexpected relocated reference: %+v", ref)
		}
		if ref.MovedCell != nil {
			t.Errorf("MovedCell should be cleared after relocation")
		}
	}
}

func TestApplyMovedReferencesPanicsOnMissingDestination(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for a moved reference with no destination cell")
		}
	}()

	pd := New()
	destGrid := [2]int32{9, 9}
	src := &esp.Cell{
		Exterior: true,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "crate_01", MovedCell: &destGrid},
		},
	}
	pd.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: src}

	ApplyMovedReferences(pd)
}

func TestRemoveDuplicateReferencesKeepsOneRepresentative(t *testing.T) {
	cell := &esp.Cell{
		Exterior: true,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "torch_01", Translation: [3]float32{1, 2, 3}},
			{MastIndex: 0, RefrIndex: 2}: {MastIndex: 0, RefrIndex: 2, ID: "torch_01", Translation: [3]float32{1, 2, 3}},
			{MastIndex: 0, RefrIndex: 3}: {MastIndex: 0, RefrIndex: 3, ID: "torch_01", Translation: [3]float32{500, 2, 3}},
		},
	}
	pd := New()
	pd.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: cell}

	RemoveDuplicateReferences(pd)

	if len(cell.References) != 2 {
		t.Errorf("expected 2 surviving references (one per transform class), got %d", len(cell.References))
	}
}

func TestRemoveDuplicateReferencesIgnoresDifferentIDs(t *testing.T) {
	cell := &esp.Cell{
		Exterior: true,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "torch_01", Translation: [3]float32{1, 2, 3}},
			{MastIndex: 0, RefrIndex: 2}: {MastIndex: 0, RefrIndex: 2, ID: "chair_01", Translation: [3]float32{1, 2, 3}},
		},
	}
	pd := New()
	pd.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: cell}

	RemoveDuplicateReferences(pd)

	if len(cell.References) != 2 {
		t.Errorf("expected both references to survive since ids differ, got %d", len(cell.References))
	}
}
