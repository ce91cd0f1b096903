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
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/greatness7/mergetomaster/pkg/esp"
)

// RemapTextures rewrites the plugin's LandscapeTexture indices (and
// every exterior's stored texture references) so they refer to the
// same texture after merging into master.
func RemapTextures(plugin, master *PluginData) {
	nextIdx, ok := nextTextureIndex(master)
	if !ok {
		return
	}
	counter := &atomic.Uint32{}
	counter.Store(nextIdx)

	byKey := map[ObjectKey]*esp.LandscapeTexture{}
	for k, r := range master.Objects {
		if k.Tag == esp.TagLandscapeTexture {
			byKey[k] = r.(*esp.LandscapeTexture)
		}
	}

	// Allocation order across textures doesn't matter, only that each
	// new id is unique, so new-id assignment runs concurrently behind
	// the atomic counter; the counter and remap (guarded by mu) are the
	// only shared state, and each goroutine writes only its own tex.Index.
	var mu sync.Mutex
	remap := map[uint32]uint32{}
	var g errgroup.Group
	for k, r := range plugin.Objects {
		if k.Tag != esp.TagLandscapeTexture {
			continue
		}
		k, tex := k, r.(*esp.LandscapeTexture)
		g.Go(func() error {
			oldIndex := tex.Index

			var newIndex uint32
			if mtex, ok := byKey[k]; ok {
				newIndex = mtex.Index
			} else {
				newIndex = counter.Add(1) - 1
			}
			if oldIndex == newIndex {
				return nil
			}
			if oldIndex >= 0xFFFF || newIndex >= 0xFFFF {
				return fmt.Errorf("texture index overflow: old=%d new=%d", oldIndex, newIndex)
			}
			mu.Lock()
			remap[oldIndex] = newIndex
			mu.Unlock()
			tex.Index = newIndex
			return nil
		})
	}
	// Overflow is a wire-format impossibility, not a recoverable merge
	// failure; surface it as a panic from the pass itself rather than a
	// panic inside a worker goroutine.
	if err := g.Wait(); err != nil {
		panic(err.Error())
	}

	if len(remap) == 0 {
		return
	}
	for _, s := range plugin.Cells.Exteriors {
		if s.Landscape == nil {
			continue
		}
		for i, v := range s.Landscape.TextureIndices {
			if v == 0 {
				continue
			}
			logical := uint32(v) - 1
			if n, ok := remap[logical]; ok {
				s.Landscape.TextureIndices[i] = uint16(n + 1)
			}
		}
	}
}

// nextTextureIndex returns one more than the highest LandscapeTexture
// index in master, or (0, false) if master has no textures at all —
// in which case no remap is performed.
func nextTextureIndex(master *PluginData) (uint32, bool) {
	var max uint32
	found := false
	for k, r := range master.Objects {
		if k.Tag != esp.TagLandscapeTexture {
			continue
		}
		if idx := r.(*esp.LandscapeTexture).Index; !found || idx > max {
			max = idx
		}
		found = true
	}
	if !found {
		return 0, false
	}
	return max + 1, true
}
