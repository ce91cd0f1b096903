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
	"sort"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

// DialogueGroup is a topic plus its ordered INFO sequence.
type DialogueGroup struct {
	Dialogue *esp.Dialogue
	Infos    []*esp.DialogueInfo
}

// InsertInfo implements the five-case insertion algorithm: in-place
// text replacement, reorder-and-replace, front push, mid-chain insert
// after a matching PrevID, or back push.
func (g *DialogueGroup) InsertInfo(info *esp.DialogueInfo) {
	if i, ok := g.find(info.ID()); ok {
		if g.Infos[i].PrevID == info.PrevID {
			g.Infos[i] = info
			return
		}
		g.Infos = append(g.Infos[:i], g.Infos[i+1:]...)
	}

	if info.PrevID == "" {
		g.Infos = append([]*esp.DialogueInfo{info}, g.Infos...)
		return
	}

	if j, ok := g.find(info.PrevID); ok {
		g.Infos = append(g.Infos, nil)
		copy(g.Infos[j+2:], g.Infos[j+1:])
		g.Infos[j+1] = info
		return
	}

	g.Infos = append(g.Infos, info)
}

// find searches in reverse, since most inserts target recently-added
// tails.
func (g *DialogueGroup) find(id string) (int, bool) {
	for i := len(g.Infos) - 1; i >= 0; i-- {
		if g.Infos[i].ID() == id {
			return i, true
		}
	}
	return 0, false
}

// RepairLinks rebuilds prev_id/next_id for every adjacent pair, leaving
// the front's PrevID and the back's NextID untouched.
func (g *DialogueGroup) RepairLinks() {
	for i := 1; i < len(g.Infos); i++ {
		prev, curr := g.Infos[i-1], g.Infos[i]
		if prev.NextID != curr.ID() {
			prev.NextID = curr.ID()
		}
		if curr.PrevID != prev.ID() {
			curr.PrevID = prev.ID()
		}
	}
}

func (g *DialogueGroup) setIgnored(v bool) {
	fl := g.Dialogue.Flags()
	fl.SetIgnored(v)
	g.Dialogue.SetFlags(fl)
	for _, info := range g.Infos {
		fl := info.Flags()
		fl.SetIgnored(v)
		info.SetFlags(fl)
	}
}

// SortedDialogueGroups returns lowered-topic-id keys in emission order:
// Journal strictly first, then Topic/Voice/Greeting/Persuasion, each
// priority class sorted by dialogue.id.
func SortedDialogueGroups(m map[string]*DialogueGroup) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := m[keys[i]].Dialogue, m[keys[j]].Dialogue
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.ID() < b.ID()
	})
	return keys
}
