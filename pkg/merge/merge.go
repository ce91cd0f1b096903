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
	"path/filepath"
	"sort"
	"strings"

	"github.com/greatness7/mergetomaster/pkg/esp"
	"github.com/greatness7/mergetomaster/pkg/mlog"
)

// partialKeepTags is the tag filter used when loading a plugin's
// non-target masters: only Cell/Dialogue/DialogueInfo are needed for
// dialogue-ordering seed data and cell-key correctness.
func partialKeepTags(t esp.Tag) bool {
	return t == esp.TagCell || t == esp.TagDialogue || t == esp.TagDialogueInfo
}

// stripPartialCell reduces a Cell loaded via the partial filter down to
// just the fields a structural pass needs: flags, name, and grid data.
// References, region, and every other field are discarded.
func stripPartialCell(c *esp.Cell) *esp.Cell {
	return &esp.Cell{
		Base:     c.Base,
		Name:     c.Name,
		Exterior: c.Exterior,
		Grid:     c.Grid,
	}
}

// EnsureMasterPresent checks the precondition that the plugin's
// masters list must name the target master (case-insensitively); if
// absent, it is appended with the master file's on-disk byte size. When
// requireLast is set, the target must already be the last entry or this
// returns an error rather than fixing it up.
func EnsureMasterPresent(header *esp.Header, masterName string, masterSize uint64, requireLast bool) error {
	for i, m := range header.Masters {
		if strings.EqualFold(m.Name, masterName) {
			if requireLast && i != len(header.Masters)-1 {
				return fmt.Errorf("master %q must be the last entry in the plugin's masters list", masterName)
			}
			return nil
		}
	}
	header.Masters = append(header.Masters, esp.MasterEntry{Name: masterName, Size: masterSize})
	return nil
}

// RemoveIgnored drops every record, slot, and dialogue entry marked
// IGNORED: the scratch data left behind by partial master loads.
func RemoveIgnored(pd *PluginData) {
	for k, r := range pd.Objects {
		if r.Flags().Ignored() {
			delete(pd.Objects, k)
		}
	}
	for name, s := range pd.Cells.Interiors {
		removeIgnoredSlot(s)
		if s.empty() {
			delete(pd.Cells.Interiors, name)
		}
	}
	for grid, s := range pd.Cells.Exteriors {
		removeIgnoredSlot(s)
		if s.empty() {
			delete(pd.Cells.Exteriors, grid)
		}
	}
	for id, g := range pd.Dialogues {
		// An ignored dialogue discards its whole group, infos included.
		if g.Dialogue.Flags().Ignored() {
			delete(pd.Dialogues, id)
			continue
		}
		kept := g.Infos[:0]
		for _, info := range g.Infos {
			if !info.Flags().Ignored() {
				kept = append(kept, info)
			}
		}
		g.Infos = kept
	}
}

func removeIgnoredSlot(s *Slot) {
	if s.Cell != nil && s.Cell.Flags().Ignored() {
		s.Cell = nil
	}
	if s.Landscape != nil && s.Landscape.Flags().Ignored() {
		s.Landscape = nil
	}
	if s.PathGrid != nil && s.PathGrid.Flags().Ignored() {
		s.PathGrid = nil
	}
}

// MergePlugins runs the full pipeline in leaves-first dependency order:
// collect records into buckets, seed a combined master from the plugin's
// declared masters, remap master/texture indices, merge buckets into the
// combined master, then deletion cleanup and the optional cell fix-ups.
//
// target is the one master loaded in full; the plugin's other declared
// masters are looked up by name in masterDir and partially decoded to
// just the records structural passes need, merged in masters-list order
// as ignored scratch data.
func MergePlugins(pluginRecords []esp.Record, target *PluginData, targetName, masterDir string, opts Options) (*PluginData, error) {
	plugin := Collect(pluginRecords)
	if plugin.Header == nil {
		return nil, fmt.Errorf("merge: plugin has no header record")
	}

	// The target's header is held aside while the masters are combined:
	// partial loads carry no header, and the remap pass needs the
	// combined data stamped with the target's own header.
	merged := New()
	header := target.Header
	target.Header = nil

	sawTarget := false
	for _, m := range plugin.Header.Masters {
		if strings.EqualFold(m.Name, targetName) {
			sawTarget = true
			target.MergeInto(merged)
			continue
		}
		path := filepath.Join(masterDir, m.Name)
		other, err := esp.DecodeFiltered(path, partialKeepTags)
		if err != nil {
			return nil, fmt.Errorf("merge: load partial master: %w", err)
		}
		opd := Collect(other.Records)
		for _, s := range opd.Cells.Interiors {
			if s.Cell != nil {
				s.Cell = stripPartialCell(s.Cell)
			}
		}
		for _, s := range opd.Cells.Exteriors {
			if s.Cell != nil {
				s.Cell = stripPartialCell(s.Cell)
			}
		}
		opd.MarkIgnored()
		opd.MergeInto(merged)
	}
	if !sawTarget {
		target.MergeInto(merged)
	}
	merged.Header = header

	ApplyIndexRemap(plugin, merged, targetName)
	RemapTextures(plugin, merged)

	plugin.MergeInto(merged)

	RemoveIgnored(merged)

	if opts.RemoveDeleted {
		mlog.Info("running deletion cleanup")
		RemoveDeleted(merged)
	}
	if opts.ApplyMovedReferences {
		mlog.Info("applying moved references")
		ApplyMovedReferences(merged)
	}
	if !opts.PreserveDuplicateReferences {
		mlog.Info("removing duplicate references")
		RemoveDuplicateReferences(merged)
	}

	return merged, nil
}

// IntoRecords flattens a PluginData back into the linear stream order
// the codec expects: header, objects, cells (cell, then landscape, then
// pathgrid, adjacent), dialogues (sorted by output priority, each
// dialogue followed by its infos in sequence). Within the objects and
// cell buckets the emission order is sorted by key so repeated encodes
// of the same data produce identical bytes.
func (pd *PluginData) IntoRecords() []esp.Record {
	var out []esp.Record
	if pd.Header != nil {
		out = append(out, pd.Header)
	}

	objKeys := make([]ObjectKey, 0, len(pd.Objects))
	for k := range pd.Objects {
		objKeys = append(objKeys, k)
	}
	sort.Slice(objKeys, func(i, j int) bool {
		a, b := objKeys[i], objKeys[j]
		if a.Tag != b.Tag {
			return string(a.Tag[:]) < string(b.Tag[:])
		}
		return a.ID < b.ID
	})
	for _, k := range objKeys {
		out = append(out, pd.Objects[k])
	}

	emitSlot := func(s *Slot) {
		if s.Cell != nil {
			out = append(out, s.Cell)
		}
		if s.Landscape != nil {
			out = append(out, s.Landscape)
		}
		if s.PathGrid != nil {
			out = append(out, s.PathGrid)
		}
	}
	intNames := make([]string, 0, len(pd.Cells.Interiors))
	for name := range pd.Cells.Interiors {
		intNames = append(intNames, name)
	}
	sort.Strings(intNames)
	for _, name := range intNames {
		emitSlot(pd.Cells.Interiors[name])
	}
	extGrids := make([][2]int32, 0, len(pd.Cells.Exteriors))
	for grid := range pd.Cells.Exteriors {
		extGrids = append(extGrids, grid)
	}
	sort.Slice(extGrids, func(i, j int) bool {
		if extGrids[i][0] != extGrids[j][0] {
			return extGrids[i][0] < extGrids[j][0]
		}
		return extGrids[i][1] < extGrids[j][1]
	})
	for _, grid := range extGrids {
		emitSlot(pd.Cells.Exteriors[grid])
	}

	for _, key := range SortedDialogueGroups(pd.Dialogues) {
		g := pd.Dialogues[key]
		out = append(out, g.Dialogue)
		for _, info := range g.Infos {
			out = append(out, info)
		}
	}
	return out
}
