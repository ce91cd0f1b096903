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

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

func mastersVec(names ...string) []esp.MasterEntry {
	out := make([]esp.MasterEntry, len(names))
	for i, n := range names {
		out[i] = esp.MasterEntry{Name: n, Size: uint64(i + 1)}
	}
	return out
}

func TestGetIndexRemap(t *testing.T) {
	tests := []struct {
		name           string
		plugin, master []string
		target         string
		wantRemap      []uint32
		wantMasters    []string
	}{
		{
			name:        "no_masters",
			plugin:      nil,
			master:      []string{"A.esm", "B.esm"},
			target:      "Master.esm",
			wantRemap:   []uint32{0},
			wantMasters: []string{"A.esm", "B.esm"},
		},
		{
			name:        "one_identical_master",
			plugin:      []string{"A.esm"},
			master:      []string{"A.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 1},
			wantMasters: []string{"A.esm"},
		},
		{
			name:        "many_identical_masters",
			plugin:      []string{"A.esm", "B.esm", "C.esm"},
			master:      []string{"A.esm", "B.esm", "C.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 1, 2, 3},
			wantMasters: []string{"A.esm", "B.esm", "C.esm"},
		},
		{
			name:        "one_mismatched_master",
			plugin:      []string{"A.esm"},
			master:      []string{"B.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 2},
			wantMasters: []string{"B.esm", "A.esm"},
		},
		{
			name:        "many_mismatched_masters",
			plugin:      []string{"A.esm", "B.esm"},
			master:      []string{"C.esm", "D.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 3, 4},
			wantMasters: []string{"C.esm", "D.esm", "A.esm", "B.esm"},
		},
		{
			name:        "some_mismatched_masters",
			plugin:      []string{"A.esm", "B.esm", "C.esm"},
			master:      []string{"A.esm", "C.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 1, 3, 2},
			wantMasters: []string{"A.esm", "C.esm", "B.esm"},
		},
		{
			name:        "plugin_merging_into_master",
			plugin:      []string{"Master.esm"},
			master:      nil,
			target:      "Master.esm",
			wantRemap:   []uint32{0, 0},
			wantMasters: nil,
		},
		{
			name:        "mismatched_masters_of_consistent_order",
			plugin:      []string{"A.esm", "B.esm"},
			master:      []string{"X.esm", "A.esm", "Y.esm", "B.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 2, 4},
			wantMasters: []string{"X.esm", "A.esm", "Y.esm", "B.esm"},
		},
		{
			name:        "mismatched_masters_of_consistent_order_inv",
			plugin:      []string{"B.esm", "A.esm"},
			master:      []string{"X.esm", "A.esm", "Y.esm", "B.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 4, 2},
			wantMasters: []string{"X.esm", "A.esm", "Y.esm", "B.esm"},
		},
		{
			name:        "same_masters_in_different_order",
			plugin:      []string{"B.esm", "A.esm"},
			master:      []string{"A.esm", "B.esm"},
			target:      "Target.esm",
			wantRemap:   []uint32{0, 2, 1},
			wantMasters: []string{"A.esm", "B.esm"},
		},
		{
			name:        "either_side_empty",
			plugin:      nil,
			master:      nil,
			target:      "Target.esm",
			wantRemap:   []uint32{0},
			wantMasters: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir := GetIndexRemap(mastersVec(tt.plugin...), mastersVec(tt.master...), tt.target)

			if diff := cmp.Diff(tt.wantRemap, ir.Remap); diff != "" {
				t.Errorf("remap mismatch (-want +got):\n%s", diff)
			}

			gotNames := make([]string, len(ir.NewMasters))
			for i, m := range ir.NewMasters {
				gotNames[i] = m.Name
			}
			if diff := cmp.Diff(tt.wantMasters, gotNames, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("masters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyIndexRemapRenumbersLocalReferences(t *testing.T) {
	plugin := New()
	plugin.Header = &esp.Header{Masters: mastersVec("Target.esm")}
	plugin.Cells.Exteriors[[2]int32{0, 0}] = &Slot{
		Cell: &esp.Cell{
			Exterior: true,
			References: map[esp.RefKey]*esp.Reference{
				{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "torch_01"},
			},
		},
	}

	master := New()
	master.Header = &esp.Header{}
	master.Cells.Exteriors[[2]int32{0, 0}] = &Slot{
		Cell: &esp.Cell{
			Exterior: true,
			References: map[esp.RefKey]*esp.Reference{
				{MastIndex: 0, RefrIndex: 5}: {MastIndex: 0, RefrIndex: 5, ID: "chair_01"},
			},
		},
	}

	ApplyIndexRemap(plugin, master, "Target.esm")

	slot := plugin.Cells.Exteriors[[2]int32{0, 0}]
	if len(slot.Cell.References) != 1 {
		t.Fatalf("expected 1 reference, got %d", len(slot.Cell.References))
	}
	for key, ref := range slot.Cell.References {
		if key.RefrIndex != 6 || ref.RefrIndex != 6 {
			t.Errorf("expected renumbered local ref index 6, got %+v", ref)
		}
		if key.MastIndex != 0 {
			t.Errorf("expected local mast index 0, got %d", key.MastIndex)
		}
	}
}
