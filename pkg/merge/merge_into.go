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

	"github.com/greatness7/mergetomaster/pkg/esp"
	"github.com/greatness7/mergetomaster/pkg/mlog"
)

// defaultPathTags must never be merged by MergeInto's generic "plugin
// overwrites master" fallback; each has its own bucket-specific policy
// below.
var defaultPathTags = map[esp.Tag]bool{
	esp.TagHeader:       true,
	esp.TagCell:         true,
	esp.TagLandscape:    true,
	esp.TagPathGrid:     true,
	esp.TagDialogue:     true,
	esp.TagDialogueInfo: true,
}

// MergeInto applies plugin onto target (the master) in place, using a
// per-bucket merge policy.
func (plugin *PluginData) MergeInto(target *PluginData) {
	if plugin.Header != nil {
		target.Header = plugin.Header
	}

	for key, obj := range plugin.Objects {
		if defaultPathTags[key.Tag] {
			panic(fmt.Sprintf("merge_into: %v reached the generic object path", key.Tag))
		}
		// None of the non-cell/dialogue variants carry a field-level
		// merge policy: the plugin's record replaces the master's
		// wholesale, whether or not a prior entry existed.
		if _, ok := target.Objects[key]; ok {
			mlog.Infof("Merging object to master: %s %s", obj.Tag(), obj.ID())
		} else {
			mlog.Infof("Copying object to master: %s %s", obj.Tag(), obj.ID())
		}
		target.Objects[key] = obj
	}

	mergeCellsInto(&plugin.Cells, &target.Cells)
	mergeDialoguesInto(plugin.Dialogues, target.Dialogues)
}

func mergeCellsInto(plugin, target *Cells) {
	for name, slot := range plugin.Interiors {
		if ts, ok := target.Interiors[name]; ok {
			mergeSlotInto(slot, ts)
		} else {
			target.Interiors[name] = slot
		}
	}
	for grid, slot := range plugin.Exteriors {
		if ts, ok := target.Exteriors[grid]; ok {
			mergeSlotInto(slot, ts)
		} else {
			target.Exteriors[grid] = slot
		}
	}
}

func mergeSlotInto(plugin, target *Slot) {
	switch {
	case target.Cell == nil:
		target.Cell = plugin.Cell
	case plugin.Cell != nil:
		mergeCellInto(plugin.Cell, target.Cell)
	}
	if plugin.Landscape != nil {
		target.Landscape = plugin.Landscape
	}
	if plugin.PathGrid != nil {
		target.PathGrid = plugin.PathGrid
	}
}

// mergeCellInto implements the Cell merge policy: always-overwrite core
// fields, optional-only-if-present fields, and reference-table extend
// (plugin wins on key collision).
func mergeCellInto(plugin, target *esp.Cell) {
	target.RecordFlags = plugin.RecordFlags
	target.Name = plugin.Name
	target.Grid = plugin.Grid
	target.Exterior = plugin.Exterior

	if plugin.Region != nil {
		target.Region = plugin.Region
	}
	if plugin.MapColor != nil {
		target.MapColor = plugin.MapColor
	}
	if plugin.WaterHeight != nil {
		target.WaterHeight = plugin.WaterHeight
	}
	if plugin.AtmosphereData != nil {
		target.AtmosphereData = plugin.AtmosphereData
	}

	if target.References == nil {
		target.References = map[esp.RefKey]*esp.Reference{}
	}
	for k, ref := range plugin.References {
		target.References[k] = ref
	}
}

func mergeDialoguesInto(plugin, target map[string]*DialogueGroup) {
	for id, group := range plugin {
		tg, ok := target[id]
		if !ok {
			target[id] = group
			continue
		}
		tg.Dialogue = group.Dialogue
		for _, info := range group.Infos {
			tg.InsertInfo(info)
		}
		tg.RepairLinks()
	}
}
