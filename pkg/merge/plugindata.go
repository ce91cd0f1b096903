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
	"strings"

	"github.com/greatness7/mergetomaster/pkg/esp"
	"github.com/greatness7/mergetomaster/pkg/mlog"
)

// ObjectKey is the composite key under which non-cell, non-dialogue
// records are stored in PluginData.Objects: the record's tag (or the
// physical sentinel tag) paired with its lowercased editor id.
type ObjectKey struct {
	Tag esp.Tag
	ID  string
}

func objectKey(r esp.Record) ObjectKey {
	return ObjectKey{Tag: esp.KeyTag(r.Tag()), ID: esp.LowerID(r)}
}

// Slot is one cell's worth of co-located records: the cell itself, its
// landscape (exterior only), and its path grid.
type Slot struct {
	Cell      *esp.Cell
	Landscape *esp.Landscape
	PathGrid  *esp.PathGrid
}

func (s *Slot) empty() bool {
	return s.Cell == nil && s.Landscape == nil && s.PathGrid == nil
}

// Cells holds the two cell buckets.
type Cells struct {
	Interiors map[string]*Slot // keyed by lowercased name
	Exteriors map[[2]int32]*Slot
}

func newCells() Cells {
	return Cells{
		Interiors: map[string]*Slot{},
		Exteriors: map[[2]int32]*Slot{},
	}
}

func (c *Cells) interior(name string) *Slot {
	key := strings.ToLower(name)
	s, ok := c.Interiors[key]
	if !ok {
		s = &Slot{}
		c.Interiors[key] = s
	}
	return s
}

func (c *Cells) exterior(grid [2]int32) *Slot {
	s, ok := c.Exteriors[grid]
	if !ok {
		s = &Slot{}
		c.Exteriors[grid] = s
	}
	return s
}

// PluginData is the fully bucketed representation of a decoded record
// stream.
type PluginData struct {
	Header    *esp.Header
	Objects   map[ObjectKey]esp.Record
	Cells     Cells
	Dialogues map[string]*DialogueGroup // keyed by lowercased topic id
}

// New returns an empty PluginData.
func New() *PluginData {
	return &PluginData{
		Objects:   map[ObjectKey]esp.Record{},
		Cells:     newCells(),
		Dialogues: map[string]*DialogueGroup{},
	}
}

// Collect partitions records into a fresh PluginData, dispatching on
// each record's concrete type. A DialogueInfo appearing before any
// Dialogue means the stream is corrupt; Collect panics with the
// orphan's id rather than trying to recover.
func Collect(records []esp.Record) *PluginData {
	pd := New()
	var currentTopic string
	haveTopic := false

	for _, r := range records {
		switch rec := r.(type) {
		case *esp.Header:
			pd.Header = rec

		case *esp.Cell:
			if name := rec.Name; name != "" || rec.Exterior {
				if coords, ok := rec.ExteriorCoords(); ok {
					pd.Cells.exterior(coords).Cell = rec
				} else {
					pd.Cells.interior(name).Cell = rec
				}
			}

		case *esp.Landscape:
			pd.Cells.exterior(rec.Grid).Landscape = rec

		case *esp.PathGrid:
			pd.placePathGrid(rec)

		case *esp.Dialogue:
			id := rec.ID()
			if id == "" {
				continue
			}
			currentTopic = strings.ToLower(id)
			haveTopic = true
			pd.dialogueGroup(currentTopic).Dialogue = rec

		case *esp.DialogueInfo:
			if !haveTopic {
				panic(fmt.Sprintf("collect: DialogueInfo %q before any Dialogue", rec.ID()))
			}
			pd.dialogueGroup(currentTopic).InsertInfo(rec)

		default:
			id := r.ID()
			if id == "" {
				continue
			}
			pd.Objects[objectKey(r)] = r
		}
	}
	return pd
}

// placePathGrid implements the orphan-PathGrid disambiguation.
func (pd *PluginData) placePathGrid(pg *esp.PathGrid) {
	if pg.CellName != "" {
		if s, ok := pd.Cells.Interiors[strings.ToLower(pg.CellName)]; ok {
			s.PathGrid = pg
			return
		}
	}
	if s, ok := pd.Cells.Exteriors[pg.Grid]; ok {
		s.PathGrid = pg
		return
	}
	// Orphan: tes3cmd-cleaned cell with no surviving Cell record.
	// (0,0) with a non-empty name is ambiguous between "really is
	// exterior (0,0)" and "was an interior"; we preserve the source's
	// heuristic of treating that combination as an interior.
	if pg.Grid == [2]int32{} && pg.CellName != "" {
		mlog.Warnf("orphan PathGrid placed as interior: %s", pg.CellName)
		pd.Cells.interior(pg.CellName).PathGrid = pg
		return
	}
	mlog.Warnf("orphan PathGrid placed as exterior: %v", pg.Grid)
	pd.Cells.exterior(pg.Grid).PathGrid = pg
}

func (pd *PluginData) dialogueGroup(lowerID string) *DialogueGroup {
	g, ok := pd.Dialogues[lowerID]
	if !ok {
		g = &DialogueGroup{}
		pd.Dialogues[lowerID] = g
	}
	return g
}

// MarkIgnored sets the IGNORED flag on every record this PluginData
// holds, used for partial-master scratch data so it survives
// structural passes but is discarded (RemoveIgnored) before output.
func (pd *PluginData) MarkIgnored() {
	for _, r := range pd.Objects {
		fl := r.Flags()
		fl.SetIgnored(true)
		r.SetFlags(fl)
	}
	for _, s := range pd.Cells.Interiors {
		markSlotIgnored(s)
	}
	for _, s := range pd.Cells.Exteriors {
		markSlotIgnored(s)
	}
	for _, g := range pd.Dialogues {
		g.setIgnored(true)
	}
}

func markSlotIgnored(s *Slot) {
	setIgnored := func(f interface{ SetFlags(esp.Flags) }, get func() esp.Flags) {
		fl := get()
		fl.SetIgnored(true)
		f.SetFlags(fl)
	}
	if s.Cell != nil {
		setIgnored(s.Cell, s.Cell.Flags)
	}
	if s.Landscape != nil {
		setIgnored(s.Landscape, s.Landscape.Flags)
	}
	if s.PathGrid != nil {
		setIgnored(s.PathGrid, s.PathGrid.Flags)
	}
}
