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

func deletedFlags() esp.Flags {
	var f esp.Flags
	f.SetDeleted(true)
	return f
}

func TestRemoveDeletedDropsObjectAndCleansReferences(t *testing.T) {
	pd := New()

	deletedDoor := &esp.Door{}
	deletedDoor.SetFlags(deletedFlags())
	deletedDoor.EditorID = "rotten_door_01"
	pd.Objects[objectKey(deletedDoor)] = deletedDoor

	survivingDoor := &esp.Door{}
	survivingDoor.EditorID = "good_door_01"
	survivingDoor.Script = "rotten_script"
	pd.Objects[objectKey(survivingDoor)] = survivingDoor

	deletedScript := &esp.Script{}
	deletedScript.EditorID = "rotten_script"
	deletedScript.RecordFlags = deletedFlags()
	pd.Objects[objectKey(deletedScript)] = deletedScript

	cell := &esp.Cell{
		Exterior: true,
		References: map[esp.RefKey]*esp.Reference{
			{MastIndex: 0, RefrIndex: 1}: {MastIndex: 0, RefrIndex: 1, ID: "rotten_door_01"},
			{MastIndex: 0, RefrIndex: 2}: {MastIndex: 0, RefrIndex: 2, ID: "good_door_01"},
		},
	}
	pd.Cells.Exteriors[[2]int32{0, 0}] = &Slot{Cell: cell}

	RemoveDeleted(pd)

	if _, ok := pd.Objects[objectKey(deletedDoor)]; ok {
		t.Errorf("deleted door was not removed from Objects")
	}
	got, ok := pd.Objects[objectKey(survivingDoor)]
	if !ok {
		t.Fatalf("surviving door was removed")
	}
	if got.(*esp.Door).Script != "" {
		t.Errorf("surviving door's dangling script reference was not cleaned: %q", got.(*esp.Door).Script)
	}

	refs := pd.Cells.Exteriors[[2]int32{0, 0}].Cell.References
	if len(refs) != 1 {
		t.Fatalf("expected 1 surviving reference, got %d", len(refs))
	}
	for _, ref := range refs {
		if ref.ID != "good_door_01" {
			t.Errorf("expected only good_door_01 to survive, got %q", ref.ID)
		}
	}
}

func TestCleanRecordNeverTouchesNpcRace(t *testing.T) {
	npc := &esp.Npc{}
	npc.Race = "deleted_race"
	d := Deletions{"deleted_race": DelCell} // arbitrary non-zero flags; Race is exempt regardless

	cleanRecord(npc, d)

	if npc.Race != "deleted_race" {
		t.Errorf("Npc.Race must never be cleaned, got %q", npc.Race)
	}
}

func TestCleanRecordClearsNpcPhysicalFields(t *testing.T) {
	npc := &esp.Npc{}
	npc.Head = "deleted_head"
	npc.Hair = "deleted_hair"
	d := Deletions{"deleted_head": Physical, "deleted_hair": Physical}

	cleanRecord(npc, d)

	if npc.Head != "" || npc.Hair != "" {
		t.Errorf("expected Head/Hair cleared, got %q / %q", npc.Head, npc.Hair)
	}
}

func chainedInfo(id, prev, next string) *esp.DialogueInfo {
	return &esp.DialogueInfo{InfoID: id, PrevID: prev, NextID: next}
}

func deletedInfo(id, prev, next string) *esp.DialogueInfo {
	inf := chainedInfo(id, prev, next)
	inf.RecordFlags = deletedFlags()
	return inf
}

func TestRemoveDeletedInfoFront(t *testing.T) {
	g := &DialogueGroup{
		Dialogue: &esp.Dialogue{EditorID: "topic"},
		Infos: []*esp.DialogueInfo{
			deletedInfo("a", "external", "b"),
			chainedInfo("b", "a", "c"),
			chainedInfo("c", "b", "external"),
		},
	}
	removeDeletedInfos(g)

	if got := infoIDs(g); len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Fatalf("unexpected survivors: %v", got)
	}
	if g.Infos[0].PrevID != "" {
		t.Errorf("new front must drop its external anchor, got %q", g.Infos[0].PrevID)
	}
	if g.Infos[1].NextID != "external" {
		t.Errorf("back anchor must be preserved, got %q", g.Infos[1].NextID)
	}
}

func TestRemoveDeletedInfoEnd(t *testing.T) {
	g := &DialogueGroup{
		Dialogue: &esp.Dialogue{EditorID: "topic"},
		Infos: []*esp.DialogueInfo{
			chainedInfo("a", "external", "b"),
			deletedInfo("b", "a", "external"),
		},
	}
	removeDeletedInfos(g)

	if got := infoIDs(g); len(got) != 1 || got[0] != "a" {
		t.Fatalf("unexpected survivors: %v", got)
	}
	if g.Infos[0].NextID != "" {
		t.Errorf("new back must drop its external anchor, got %q", g.Infos[0].NextID)
	}
	if g.Infos[0].PrevID != "external" {
		t.Errorf("front anchor must be preserved, got %q", g.Infos[0].PrevID)
	}
}

func TestRemoveDeletedInfoMiddleRepairsChain(t *testing.T) {
	g := &DialogueGroup{
		Dialogue: &esp.Dialogue{EditorID: "topic"},
		Infos: []*esp.DialogueInfo{
			chainedInfo("a", "", "b"),
			deletedInfo("b", "a", "c"),
			chainedInfo("c", "b", ""),
		},
	}
	removeDeletedInfos(g)

	if got := infoIDs(g); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("unexpected survivors: %v", got)
	}
	if g.Infos[0].NextID != "c" || g.Infos[1].PrevID != "a" {
		t.Errorf("chain not repaired across the gap: %+v %+v", g.Infos[0], g.Infos[1])
	}
}

func TestCollectDeletionsRecoversSpecificBitForSentinelKeyedRecord(t *testing.T) {
	pd := New()
	spell := &esp.Spell{}
	spell.EditorID = "deleted_spell"
	spell.RecordFlags = deletedFlags()
	pd.Objects[objectKey(spell)] = spell

	deletions := CollectDeletions(pd)

	if deletions["deleted_spell"] != DelSpell {
		t.Errorf("expected DelSpell bit, got %v", deletions["deleted_spell"])
	}
	if deletions.intersects("deleted_spell", Physical) {
		t.Errorf("Spell must not be a member of the Physical union")
	}
}
