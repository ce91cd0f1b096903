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

package esp

// MasterEntry is one (name, size) pair in a Header's masters list.
type MasterEntry struct {
	Name string
	Size uint64
}

// Header is the single per-file record carrying the masters list,
// author, and description.
type Header struct {
	Base
	Version     uint32
	Author      string
	Description string
	NumRecords  uint32
	Masters     []MasterEntry
}

func (h *Header) Tag() Tag   { return TagHeader }
func (h *Header) ID() string { return "" }

// simple is embedded by every variant that carries nothing the merge
// engine inspects beyond its editor id and flags; the default "plugin
// overwrites master" policy applies to all of these.
type simple struct {
	Base
	EditorID string
}

func (s *simple) ID() string { return s.EditorID }

type GameSetting struct {
	simple
	Value any
}

func (r *GameSetting) Tag() Tag { return TagGameSetting }

type GlobalVariable struct {
	simple
	Value float32
}

func (r *GlobalVariable) Tag() Tag { return TagGlobalVariable }

type Class struct {
	simple
	Name        string
	Description string
}

func (r *Class) Tag() Tag { return TagClass }

type Faction struct {
	simple
	Name string
}

func (r *Faction) Tag() Tag { return TagFaction }

// Race carries a spell list cleaned against the SPELL flag.
type Race struct {
	simple
	Name   string
	Spells []string
}

func (r *Race) Tag() Tag { return TagRace }

type Sound struct {
	simple
	Filename string
}

func (r *Sound) Tag() Tag { return TagSound }

// SoundGen ties a creature (PHYSICAL) to a sound (SOUND).
type SoundGen struct {
	simple
	Creature string
	Sound    string
}

func (r *SoundGen) Tag() Tag { return TagSoundGen }

type Skill struct {
	simple
}

func (r *Skill) Tag() Tag { return TagSkill }

// MagicEffect carries four sound fields (SOUND) and four visual fields
// (PHYSICAL), each cleaned independently.
type MagicEffect struct {
	simple
	CastSound  string
	BoltSound  string
	HitSound   string
	AreaSound  string
	CastVisual string
	BoltVisual string
	HitVisual  string
	AreaVisual string
}

func (r *MagicEffect) Tag() Tag { return TagMagicEffect }

type Script struct {
	simple
	Text string
}

func (r *Script) Tag() Tag { return TagScript }

// Region carries a sleep-creature (PHYSICAL) and a sound list (SOUND).
type Region struct {
	simple
	Name          string
	SleepCreature string
	Sounds        []string
}

func (r *Region) Tag() Tag { return TagRegion }

type Birthsign struct {
	simple
	Name   string
	Spells []string
}

func (r *Birthsign) Tag() Tag { return TagBirthsign }

type StartScript struct {
	simple
	Script string
}

func (r *StartScript) Tag() Tag { return TagStartScript }

type LandscapeTexture struct {
	simple
	Index    uint32
	Filename string
}

func (r *LandscapeTexture) Tag() Tag { return TagLandscapeTexture }

type Spell struct {
	simple
	Name string
}

func (r *Spell) Tag() Tag { return TagSpell }

type Static struct {
	simple
}

func (r *Static) Tag() Tag { return TagStatic }

type Door struct {
	simple
	Script     string
	OpenSound  string
	CloseSound string
}

func (r *Door) Tag() Tag { return TagDoor }

type MiscItem struct {
	simple
	Script string
}

func (r *MiscItem) Tag() Tag { return TagMiscItem }

type Weapon struct {
	simple
	Script     string
	Enchanting string
}

func (r *Weapon) Tag() Tag { return TagWeapon }

// InventoryItem is one (count, item id) entry in an inventory list; the
// item id is cleaned against PHYSICAL.
type InventoryItem struct {
	Count int32
	Item  string
}

type Container struct {
	simple
	Script    string
	Inventory []InventoryItem
}

func (r *Container) Tag() Tag { return TagContainer }

// AiPackage is a closed family (Travel, Wander, Escort, Follow,
// Activate); Escort/Follow carry a target (PHYSICAL) and destination
// cell (CELL), Activate carries only a target, Travel/Wander carry
// neither and are no-ops under deletion cleanup.
type AiPackage interface {
	isAiPackage()
}

type AiTravelPackage struct{}
type AiWanderPackage struct{}

type AiEscortPackage struct {
	Target string
	Cell   string
}

type AiFollowPackage struct {
	Target string
	Cell   string
}

type AiActivatePackage struct {
	Target string
}

func (AiTravelPackage) isAiPackage()   {}
func (AiWanderPackage) isAiPackage()   {}
func (AiEscortPackage) isAiPackage()   {}
func (AiFollowPackage) isAiPackage()   {}
func (AiActivatePackage) isAiPackage() {}

// TravelDestination names a destination cell (CELL).
type TravelDestination struct {
	Cell string
}

type Creature struct {
	simple
	Script             string
	Inventory          []InventoryItem
	Spells             []string
	AiPackages         []AiPackage
	TravelDestinations []TravelDestination
}

func (r *Creature) Tag() Tag { return TagCreature }

type Bodypart struct {
	simple
}

func (r *Bodypart) Tag() Tag { return TagBodypart }

type Light struct {
	simple
	Script string
	Sound  string
}

func (r *Light) Tag() Tag { return TagLight }

type Enchanting struct {
	simple
}

func (r *Enchanting) Tag() Tag { return TagEnchanting }

// Npc carries the widest deletion-cleanup surface of any variant.
// Race is deliberately never cleaned: the game's construction set
// crashes if an NPC's race disappears out from under it.
type Npc struct {
	simple
	Name               string
	Race               string
	Class              string
	Faction            string
	Head               string
	Hair               string
	Script             string
	Spells             []string
	Inventory          []InventoryItem
	AiPackages         []AiPackage
	TravelDestinations []TravelDestination
}

func (r *Npc) Tag() Tag { return TagNpc }

// BipedObject names a male and female bodypart (both PHYSICAL).
type BipedObject struct {
	Male   string
	Female string
}

type Armor struct {
	simple
	Script       string
	Enchanting   string
	BipedObjects []BipedObject
}

func (r *Armor) Tag() Tag { return TagArmor }

type Clothing struct {
	simple
	Script       string
	Enchanting   string
	BipedObjects []BipedObject
}

func (r *Clothing) Tag() Tag { return TagClothing }

type RepairItem struct {
	simple
	Script string
}

func (r *RepairItem) Tag() Tag { return TagRepairItem }

type Activator struct {
	simple
	Script string
}

func (r *Activator) Tag() Tag { return TagActivator }

type Apparatus struct {
	simple
	Script string
}

func (r *Apparatus) Tag() Tag { return TagApparatus }

type Lockpick struct {
	simple
	Script string
}

func (r *Lockpick) Tag() Tag { return TagLockpick }

type Probe struct {
	simple
	Script string
}

func (r *Probe) Tag() Tag { return TagProbe }

type Ingredient struct {
	simple
	Script string
}

func (r *Ingredient) Tag() Tag { return TagIngredient }

type Book struct {
	simple
	Script     string
	Enchanting string
}

func (r *Book) Tag() Tag { return TagBook }

type Alchemy struct {
	simple
	Script string
}

func (r *Alchemy) Tag() Tag { return TagAlchemy }

type LeveledItem struct {
	simple
	Items []string
}

func (r *LeveledItem) Tag() Tag { return TagLeveledItem }

type LeveledCreature struct {
	simple
	Creatures []string
}

func (r *LeveledCreature) Tag() Tag { return TagLeveledCreature }
