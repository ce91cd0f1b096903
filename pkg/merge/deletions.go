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
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

// DeletionFlags is a bitset identifying the kinds of a deleted id. One
// bit per variant in the closed record set, plus a synthetic Physical
// union.
type DeletionFlags uint64

const (
	DelHeader DeletionFlags = 1 << iota
	DelGameSetting
	DelGlobalVariable
	DelClass
	DelFaction
	DelRace
	DelSound
	DelSoundGen
	DelSkill
	DelMagicEffect
	DelScript
	DelRegion
	DelBirthsign
	DelStartScript
	DelLandscapeTexture
	DelSpell
	DelStatic
	DelDoor
	DelMiscItem
	DelWeapon
	DelContainer
	DelCreature
	DelBodypart
	DelLight
	DelEnchanting
	DelNpc
	DelArmor
	DelClothing
	DelRepairItem
	DelActivator
	DelApparatus
	DelLockpick
	DelProbe
	DelIngredient
	DelBook
	DelAlchemy
	DelLeveledItem
	DelLeveledCreature
	DelCell
	DelLandscape
	DelPathGrid
	DelDialogue
	DelDialogueInfo
)

// Physical is the union of every variant whose deletion invalidates a
// placed reference or a physical-object field. Note this is not the
// same set as the physical key sentinel: spells and enchantings share
// the sentinel namespace but have their own flag bits here.
const Physical = DelActivator | DelAlchemy | DelApparatus | DelArmor | DelBodypart |
	DelBook | DelClothing | DelContainer | DelCreature | DelDoor | DelIngredient |
	DelLeveledCreature | DelLeveledItem | DelLight | DelLockpick | DelMiscItem |
	DelNpc | DelProbe | DelRepairItem | DelStatic | DelWeapon

// tagFlags maps a record's tag to the bit set when that record is
// deleted, used when building the deletions map.
var tagFlags = map[esp.Tag]DeletionFlags{
	esp.TagHeader:           DelHeader,
	esp.TagGameSetting:      DelGameSetting,
	esp.TagGlobalVariable:   DelGlobalVariable,
	esp.TagClass:            DelClass,
	esp.TagFaction:          DelFaction,
	esp.TagRace:             DelRace,
	esp.TagSound:            DelSound,
	esp.TagSoundGen:         DelSoundGen,
	esp.TagSkill:            DelSkill,
	esp.TagMagicEffect:      DelMagicEffect,
	esp.TagScript:           DelScript,
	esp.TagRegion:           DelRegion,
	esp.TagBirthsign:        DelBirthsign,
	esp.TagStartScript:      DelStartScript,
	esp.TagLandscapeTexture: DelLandscapeTexture,
	esp.TagSpell:            DelSpell,
	esp.TagStatic:           DelStatic,
	esp.TagDoor:             DelDoor,
	esp.TagMiscItem:         DelMiscItem,
	esp.TagWeapon:           DelWeapon,
	esp.TagContainer:        DelContainer,
	esp.TagCreature:         DelCreature,
	esp.TagBodypart:         DelBodypart,
	esp.TagLight:            DelLight,
	esp.TagEnchanting:       DelEnchanting,
	esp.TagNpc:              DelNpc,
	esp.TagArmor:            DelArmor,
	esp.TagClothing:         DelClothing,
	esp.TagRepairItem:       DelRepairItem,
	esp.TagActivator:        DelActivator,
	esp.TagApparatus:        DelApparatus,
	esp.TagLockpick:         DelLockpick,
	esp.TagProbe:            DelProbe,
	esp.TagIngredient:       DelIngredient,
	esp.TagBook:             DelBook,
	esp.TagAlchemy:          DelAlchemy,
	esp.TagLeveledItem:      DelLeveledItem,
	esp.TagLeveledCreature:  DelLeveledCreature,
	esp.TagCell:             DelCell,
	esp.TagLandscape:        DelLandscape,
	esp.TagPathGrid:         DelPathGrid,
	esp.TagDialogue:         DelDialogue,
	esp.TagDialogueInfo:     DelDialogueInfo,
}

func flagFor(t esp.Tag) DeletionFlags { return tagFlags[t] }

// Deletions maps a lowercased id to the union of flags for every
// deleted record sharing that id.
type Deletions map[string]DeletionFlags

func (d Deletions) intersects(id string, flags DeletionFlags) bool {
	return d[strings.ToLower(id)]&flags != 0
}

// CollectDeletions gathers every deleted non-cell,
// non-landscape-texture object, plus every deleted interior cell
// (tagged CELL).
func CollectDeletions(pd *PluginData) Deletions {
	deletions := Deletions{}
	add := func(id string, bit DeletionFlags) {
		if id == "" || bit == 0 {
			return
		}
		key := strings.ToLower(id)
		deletions[key] |= bit
	}

	for k, r := range pd.Objects {
		if k.Tag == esp.TagLandscapeTexture {
			continue
		}
		// flagFor keys on the record's own tag, so sentinel-keyed
		// physical records still resolve to their specific bit.
		if r.Flags().Deleted() {
			add(r.ID(), flagFor(r.Tag()))
		}
	}
	for name, s := range pd.Cells.Interiors {
		if s.Cell != nil && s.Cell.Flags().Deleted() {
			add(name, DelCell)
		}
	}
	return deletions
}

// RemoveDeleted cleans surviving records against deletions, then drops
// the deleted records/slots/dialogue entries themselves.
//
// Cross-plugin dialogue/topic deletion (deletions driven by a record
// outside the plugin being merged) is not implemented; this matches
// the known gap in the source this behavior was ported from.
func RemoveDeleted(pd *PluginData) {
	deletions := CollectDeletions(pd)

	var survivors []esp.Record
	for k, r := range pd.Objects {
		if r.Flags().Deleted() {
			delete(pd.Objects, k)
			continue
		}
		survivors = append(survivors, r)
	}
	// Each record is cleaned against the read-only deletions map with no
	// cross-record coordination, so the pass runs as disjoint mutations
	// across goroutines rather than a sequential walk.
	var g errgroup.Group
	for _, r := range survivors {
		r := r
		g.Go(func() error {
			cleanRecord(r, deletions)
			return nil
		})
	}
	g.Wait()

	for name, s := range pd.Cells.Interiors {
		cleanSlot(s, deletions)
		if s.empty() {
			delete(pd.Cells.Interiors, name)
		}
	}
	for grid, s := range pd.Cells.Exteriors {
		cleanSlot(s, deletions)
		if s.empty() {
			delete(pd.Cells.Exteriors, grid)
		}
	}

	for id, g := range pd.Dialogues {
		if g.Dialogue.Flags().Deleted() {
			delete(pd.Dialogues, id)
			continue
		}
		removeDeletedInfos(g)
	}
}

func cleanSlot(s *Slot, d Deletions) {
	if s.Cell != nil {
		if s.Cell.Flags().Deleted() {
			s.Cell = nil
		} else {
			cleanCell(s.Cell, d)
		}
	}
	if s.Landscape != nil && s.Landscape.Flags().Deleted() {
		s.Landscape = nil
	}
	if s.PathGrid != nil && s.PathGrid.Flags().Deleted() {
		s.PathGrid = nil
	}
}

func removeDeletedInfos(g *DialogueGroup) {
	removedAny := false
	removedFront, removedBack := false, false
	var kept []*esp.DialogueInfo
	for i, info := range g.Infos {
		if info.Flags().Deleted() {
			removedAny = true
			if i == 0 {
				removedFront = true
			}
			if i == len(g.Infos)-1 {
				removedBack = true
			}
			continue
		}
		kept = append(kept, info)
	}
	if !removedAny {
		return
	}
	g.Infos = kept
	if len(g.Infos) == 0 {
		return
	}
	g.RepairLinks()
	// A deleted end no longer anchors the chain to external topics.
	if removedFront {
		g.Infos[0].PrevID = ""
	}
	if removedBack {
		g.Infos[len(g.Infos)-1].NextID = ""
	}
}

// cleanCell implements the Cell-specific field cleanup: the region
// field, and the reference-table filter.
func cleanCell(c *esp.Cell, d Deletions) {
	if c.Region != nil && d.intersects(*c.Region, DelRegion) {
		c.Region = nil
	}
	for key, ref := range c.References {
		if key.MastIndex != 0 {
			continue // not local: never filtered here
		}
		if ref.Deleted {
			delete(c.References, key)
			continue
		}
		if d.intersects(ref.ID, Physical) {
			delete(c.References, key)
		}
	}
}

func cleanString(s *string, d Deletions, flags DeletionFlags) {
	if s != nil && d.intersects(*s, flags) {
		*s = ""
	}
}

func cleanSlice(list *[]string, d Deletions, flags DeletionFlags) {
	out := (*list)[:0]
	for _, id := range *list {
		if !d.intersects(id, flags) {
			out = append(out, id)
		}
	}
	*list = out
}

func cleanInventory(list *[]esp.InventoryItem, d Deletions) {
	out := (*list)[:0]
	for _, item := range *list {
		if !d.intersects(item.Item, Physical) {
			out = append(out, item)
		}
	}
	*list = out
}

// cleanAiPackages clears (not removes) dangling package fields; the
// package itself survives so the actor keeps its schedule shape.
func cleanAiPackages(list []esp.AiPackage, d Deletions) {
	for i, pkg := range list {
		switch p := pkg.(type) {
		case esp.AiEscortPackage:
			cleanString(&p.Target, d, Physical)
			cleanString(&p.Cell, d, DelCell)
			list[i] = p
		case esp.AiFollowPackage:
			cleanString(&p.Target, d, Physical)
			cleanString(&p.Cell, d, DelCell)
			list[i] = p
		case esp.AiActivatePackage:
			cleanString(&p.Target, d, Physical)
			list[i] = p
		}
	}
}

func cleanTravelDestinations(list []esp.TravelDestination, d Deletions) {
	for i := range list {
		cleanString(&list[i].Cell, d, DelCell)
	}
}

func cleanBipedObjects(list *[]esp.BipedObject, d Deletions) {
	for i := range *list {
		b := &(*list)[i]
		if d.intersects(b.Male, Physical) {
			b.Male = ""
		}
		if d.intersects(b.Female, Physical) {
			b.Female = ""
		}
	}
}

// cleanRecord dispatches to each variant's field-level cleanup. Every
// variant not listed here has no fields that reference a deletable id,
// so it is a no-op.
func cleanRecord(r esp.Record, d Deletions) {
	switch rec := r.(type) {
	case *esp.Race:
		cleanSlice(&rec.Spells, d, DelSpell)
	case *esp.SoundGen:
		cleanString(&rec.Creature, d, Physical)
		cleanString(&rec.Sound, d, DelSound)
	case *esp.MagicEffect:
		cleanString(&rec.CastSound, d, DelSound)
		cleanString(&rec.BoltSound, d, DelSound)
		cleanString(&rec.HitSound, d, DelSound)
		cleanString(&rec.AreaSound, d, DelSound)
		cleanString(&rec.CastVisual, d, Physical)
		cleanString(&rec.BoltVisual, d, Physical)
		cleanString(&rec.HitVisual, d, Physical)
		cleanString(&rec.AreaVisual, d, Physical)
	case *esp.Region:
		cleanString(&rec.SleepCreature, d, Physical)
		cleanSlice(&rec.Sounds, d, DelSound)
	case *esp.Birthsign:
		cleanSlice(&rec.Spells, d, DelSpell)
	case *esp.StartScript:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Door:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.OpenSound, d, DelSound)
		cleanString(&rec.CloseSound, d, DelSound)
	case *esp.MiscItem:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Weapon:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.Enchanting, d, DelEnchanting)
	case *esp.Container:
		cleanString(&rec.Script, d, DelScript)
		cleanInventory(&rec.Inventory, d)
	case *esp.Creature:
		cleanString(&rec.Script, d, DelScript)
		cleanInventory(&rec.Inventory, d)
		cleanSlice(&rec.Spells, d, DelSpell)
		cleanAiPackages(rec.AiPackages, d)
		cleanTravelDestinations(rec.TravelDestinations, d)
	case *esp.Light:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.Sound, d, DelSound)
	case *esp.Npc:
		// rec.Race is intentionally never cleaned: the construction
		// set crashes if an NPC's race disappears.
		cleanString(&rec.Class, d, DelClass)
		cleanString(&rec.Faction, d, DelFaction)
		cleanString(&rec.Head, d, Physical)
		cleanString(&rec.Hair, d, Physical)
		cleanString(&rec.Script, d, DelScript)
		cleanSlice(&rec.Spells, d, DelSpell)
		cleanInventory(&rec.Inventory, d)
		cleanAiPackages(rec.AiPackages, d)
		cleanTravelDestinations(rec.TravelDestinations, d)
	case *esp.Armor:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.Enchanting, d, DelEnchanting)
		cleanBipedObjects(&rec.BipedObjects, d)
	case *esp.Clothing:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.Enchanting, d, DelEnchanting)
		cleanBipedObjects(&rec.BipedObjects, d)
	case *esp.RepairItem:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Activator:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Apparatus:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Lockpick:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Probe:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Ingredient:
		cleanString(&rec.Script, d, DelScript)
	case *esp.Book:
		cleanString(&rec.Script, d, DelScript)
		cleanString(&rec.Enchanting, d, DelEnchanting)
	case *esp.Alchemy:
		cleanString(&rec.Script, d, DelScript)
	case *esp.LeveledItem:
		cleanSlice(&rec.Items, d, Physical)
	case *esp.LeveledCreature:
		cleanSlice(&rec.Creatures, d, Physical)
	}
}
