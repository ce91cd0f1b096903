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

// Package esp models the tagged record stream a Morrowind plugin or
// master file is built from, and provides a minimal stand-in codec for
// reading and writing that stream. The real on-disk format and its
// full field set are an external collaborator; this package implements
// just enough of it for the merge engine in pkg/merge to operate on.
package esp

// Tag is a record's 4-byte type code, e.g. "NPC_" or "CELL".
type Tag [4]byte

func NewTag(s string) Tag {
	var t Tag
	copy(t[:], s)
	return t
}

func (t Tag) String() string { return string(t[:]) }

// Record tags, one per variant in the closed set.
var (
	TagHeader           = NewTag("TES3")
	TagGameSetting      = NewTag("GMST")
	TagGlobalVariable   = NewTag("GLOB")
	TagClass            = NewTag("CLAS")
	TagFaction          = NewTag("FACT")
	TagRace             = NewTag("RACE")
	TagSound            = NewTag("SOUN")
	TagSoundGen         = NewTag("SNDG")
	TagSkill            = NewTag("SKIL")
	TagMagicEffect      = NewTag("MGEF")
	TagScript           = NewTag("SCPT")
	TagRegion           = NewTag("REGN")
	TagBirthsign        = NewTag("BSGN")
	TagStartScript      = NewTag("SSCR")
	TagLandscapeTexture = NewTag("LTEX")
	TagSpell            = NewTag("SPEL")
	TagStatic           = NewTag("STAT")
	TagDoor             = NewTag("DOOR")
	TagMiscItem         = NewTag("MISC")
	TagWeapon           = NewTag("WEAP")
	TagContainer        = NewTag("CONT")
	TagCreature         = NewTag("CREA")
	TagBodypart         = NewTag("BODY")
	TagLight            = NewTag("LIGH")
	TagEnchanting       = NewTag("ENCH")
	TagNpc              = NewTag("NPC_")
	TagArmor            = NewTag("ARMO")
	TagClothing         = NewTag("CLOT")
	TagRepairItem       = NewTag("REPA")
	TagActivator        = NewTag("ACTI")
	TagApparatus        = NewTag("APPA")
	TagLockpick         = NewTag("LOCK")
	TagProbe            = NewTag("PROB")
	TagIngredient       = NewTag("INGR")
	TagBook             = NewTag("BOOK")
	TagAlchemy          = NewTag("ALCH")
	TagLeveledItem      = NewTag("LEVI")
	TagLeveledCreature  = NewTag("LEVC")
	TagCell             = NewTag("CELL")
	TagLandscape        = NewTag("LAND")
	TagPathGrid         = NewTag("PGRD")
	TagDialogue         = NewTag("DIAL")
	TagDialogueInfo     = NewTag("INFO")

	// SentinelTag is the fixed key tag under which "physical" variants
	// are stored in PluginData.Objects, so their editor ids are unique
	// across the whole physical set rather than per-variant.
	SentinelTag = Tag{0, 0, 0, 0}
)

// physicalTags is the set of variants whose editor ids share one
// global namespace.
var physicalTags = map[Tag]bool{
	TagActivator:       true,
	TagBodypart:        true,
	TagContainer:       true,
	TagCreature:        true,
	TagDoor:            true,
	TagEnchanting:      true,
	TagLeveledCreature: true,
	TagLeveledItem:     true,
	TagLight:           true,
	TagNpc:             true,
	TagSpell:           true,
	TagStatic:          true,
	TagArmor:           true,
	TagClothing:        true,
	TagRepairItem:      true,
	TagApparatus:       true,
	TagLockpick:        true,
	TagProbe:           true,
	TagIngredient:      true,
	TagBook:            true,
	TagAlchemy:         true,
	TagMiscItem:        true,
	TagWeapon:          true,
}

// IsPhysical reports whether t belongs to the physical sentinel class.
func IsPhysical(t Tag) bool { return physicalTags[t] }

// KeyTag returns the tag under which a record with tag t is stored in
// PluginData.Objects, applying the physical-sentinel rule.
func KeyTag(t Tag) Tag {
	if IsPhysical(t) {
		return SentinelTag
	}
	return t
}
