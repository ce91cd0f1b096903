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

	"github.com/greatness7/mergetomaster/pkg/esp"
)

func TestMergeIntoReplacesObjectsWholesale(t *testing.T) {
	plugin, target := New(), New()
	plugin.Header = &esp.Header{Author: "plugin"}
	target.Header = &esp.Header{Author: "master"}

	pluginScript := &esp.Script{Text: "new"}
	pluginScript.EditorID = "shared"
	plugin.Objects[objectKey(pluginScript)] = pluginScript

	masterScript := &esp.Script{Text: "old"}
	masterScript.EditorID = "shared"
	target.Objects[objectKey(masterScript)] = masterScript

	plugin.MergeInto(target)

	if target.Header != plugin.Header {
		t.Errorf("header was not committed from the plugin")
	}
	got := target.Objects[objectKey(masterScript)].(*esp.Script)
	if got.Text != "new" {
		t.Errorf("object was not overwritten, got %q", got.Text)
	}
}

func TestMergeIntoCellOverwritesOptionalsOnlyIfPresent(t *testing.T) {
	region := "old region"
	height := float32(12)
	targetCell := &esp.Cell{
		Exterior:    true,
		Region:      &region,
		WaterHeight: &height,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "old_ref"},
		},
	}
	newRegion := "new region"
	pluginCell := &esp.Cell{
		Exterior: true,
		Region:   &newRegion,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 2}: {MastIndex: 0, RefrIndex: 2, ID: "new_ref"},
		},
	}

	plugin, target := New(), New()
	target.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: targetCell}
	plugin.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: pluginCell}

	plugin.MergeInto(target)

	if *targetCell.Region != "new region" {
		t.Errorf("present optional was not overwritten: %q", *targetCell.Region)
	}
	if targetCell.WaterHeight == nil || *targetCell.WaterHeight != 12 {
		t.Errorf("absent optional must leave the master's value alone")
	}
	want := []string{"old_ref", "new_ref"}
	var got []string
	for _, k := range []esp.RefKey{{MastIndex: 0, RefrIndex: 1}, {MastIndex: 0, RefrIndex: 2}} {
		got = append(got, targetCell.References[k].ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("references not extended (-want +got):\n%s", diff)
	}
}

func TestMergeIntoMovesSlotWhenTargetEmpty(t *testing.T) {
	plugin, target := New(), New()
	cell := &esp.Cell{Name: "New Place"}
	plugin.Cells.Interiors["new place"] = &Slot{Cell: cell}

	plugin.MergeInto(target)

	if target.Cells.Interiors["new place"].Cell != cell {
		t.Errorf("plugin slot was not moved into the empty target bucket")
	}
}

func TestMergeIntoDialogueInsertsAndRepairs(t *testing.T) {
	targetGroup := &DialogueGroup{
		Dialogue: &esp.Dialogue{EditorID: "topic"},
		Infos:    []*esp.DialogueInfo{info("a", ""), info("c", "a")},
	}
	plugin, target := New(), New()
	target.Dialogues["topic"] = targetGroup
	plugin.Dialogues["topic"] = &DialogueGroup{
		Dialogue: &esp.Dialogue{EditorID: "topic"},
		Infos:    []*esp.DialogueInfo{info("b", "a")},
	}

	plugin.MergeInto(target)

	if diff := cmp.Diff([]string{"a", "b", "c"}, infoIDs(targetGroup)); diff != "" {
		t.Fatalf("insertion order mismatch (-want +got):\n%s", diff)
	}
	if targetGroup.Infos[0].NextID != "b" || targetGroup.Infos[2].PrevID != "b" {
		t.Errorf("links not repaired after dialogue merge: %+v", targetGroup.Infos)
	}
}

func TestMergeIntoPanicsWhenBucketVariantReachesObjectPath(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic for a Cell in the generic objects bucket")
		}
	}()

	plugin, target := New(), New()
	plugin.Objects[ObjectKey{Tag: esp.TagCell, ID: "bogus"}] = &esp.Cell{Name: "bogus"}
	plugin.MergeInto(target)
}
