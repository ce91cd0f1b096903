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

	"github.com/greatness7/mergetomaster/pkg/esp"
)

// IndexRemap is the per-master remap vector produced by GetIndexRemap;
// Remap[0] is always 0 (the local/reserved slot).
type IndexRemap struct {
	NewMasters []esp.MasterEntry
	Remap      []uint32
}

// GetIndexRemap builds the merged masters list and the remap vector
// for pluginMasters against masterMasters, aliasing targetName to
// local (index 0).
func GetIndexRemap(pluginMasters, masterMasters []esp.MasterEntry, targetName string) IndexRemap {
	newMasters := append([]esp.MasterEntry(nil), masterMasters...)
	remap := []uint32{0}

	for _, pm := range pluginMasters {
		if strings.EqualFold(pm.Name, targetName) {
			remap = append(remap, 0)
			continue
		}
		if p, ok := findMaster(newMasters, pm.Name); ok {
			remap = append(remap, uint32(p+1))
			continue
		}
		newMasters = append(newMasters, pm)
		remap = append(remap, uint32(len(newMasters)))
	}
	return IndexRemap{NewMasters: newMasters, Remap: remap}
}

func findMaster(masters []esp.MasterEntry, name string) (int, bool) {
	for i, m := range masters {
		if strings.EqualFold(m.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// mastersEqual reports whether two masters lists are identical in
// order and content.
func mastersEqual(a, b []esp.MasterEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// nextReferenceIndex returns master.next_local_reference_index(): one
// more than the highest local (MastIndex==0) RefrIndex across every
// master cell, or 1 if the master has none.
func nextReferenceIndex(master *PluginData) uint32 {
	next := uint32(1)
	walk := func(s *Slot) {
		if s.Cell == nil {
			return
		}
		for key := range s.Cell.References {
			if key.MastIndex == 0 && key.RefrIndex >= next {
				next = key.RefrIndex + 1
			}
		}
	}
	for _, s := range master.Cells.Interiors {
		walk(s)
	}
	for _, s := range master.Cells.Exteriors {
		walk(s)
	}
	return next
}

// ApplyIndexRemap rewrites plugin's header and every cell reference so
// that it is expressed in terms of master's masters list. targetName
// must match the master plugin is merging against.
//
// Target-master aliasing is a documented wart, not a bug: when a
// plugin master remaps to local (remap[m] == 0), the reference keeps
// its original RefrIndex verbatim instead of being renumbered through
// nextReferenceIndex. That can in principle collide with the master's
// own local references; this reproduces the upstream behavior rather
// than inventing a fix for it.
func ApplyIndexRemap(plugin, master *PluginData, targetName string) {
	ir := GetIndexRemap(plugin.Header.Masters, master.Header.Masters, targetName)

	mastersChanged := !mastersEqual(ir.NewMasters, master.Header.Masters)
	indicesChanged := false
	for i, m := range ir.Remap {
		if m != uint32(i) {
			indicesChanged = true
			break
		}
	}

	newHeader := *master.Header
	if mastersChanged {
		newHeader.Masters = ir.NewMasters
	}
	plugin.Header = &newHeader

	if !indicesChanged {
		return
	}

	next := nextReferenceIndex(master)
	remapSlot := func(s *Slot) {
		if s.Cell == nil {
			return
		}
		remapped := make(map[esp.RefKey]*esp.Reference, len(s.Cell.References))
		for _, ref := range s.Cell.References {
			if ref.MastIndex == 0 {
				ref.RefrIndex = next
				next++
			} else {
				ref.MastIndex = ir.Remap[ref.MastIndex]
			}
			remapped[ref.Key()] = ref
		}
		s.Cell.References = remapped
	}
	for _, s := range plugin.Cells.Interiors {
		remapSlot(s)
	}
	for _, s := range plugin.Cells.Exteriors {
		remapSlot(s)
	}
}
