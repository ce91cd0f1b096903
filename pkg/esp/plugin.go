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

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
)

func init() {
	// GameSetting.Value is an interface{} holding whichever scalar the
	// stream's own GMST type tag says it is.
	gob.Register(string(""))
	gob.Register(float32(0))
	gob.Register(int32(0))

	gob.Register(&Header{})
	gob.Register(&GameSetting{})
	gob.Register(&GlobalVariable{})
	gob.Register(&Class{})
	gob.Register(&Faction{})
	gob.Register(&Race{})
	gob.Register(&Sound{})
	gob.Register(&SoundGen{})
	gob.Register(&Skill{})
	gob.Register(&MagicEffect{})
	gob.Register(&Script{})
	gob.Register(&Region{})
	gob.Register(&Birthsign{})
	gob.Register(&StartScript{})
	gob.Register(&LandscapeTexture{})
	gob.Register(&Spell{})
	gob.Register(&Static{})
	gob.Register(&Door{})
	gob.Register(&MiscItem{})
	gob.Register(&Weapon{})
	gob.Register(&Container{})
	gob.Register(&Creature{})
	gob.Register(&Bodypart{})
	gob.Register(&Light{})
	gob.Register(&Enchanting{})
	gob.Register(&Npc{})
	gob.Register(&Armor{})
	gob.Register(&Clothing{})
	gob.Register(&RepairItem{})
	gob.Register(&Activator{})
	gob.Register(&Apparatus{})
	gob.Register(&Lockpick{})
	gob.Register(&Probe{})
	gob.Register(&Ingredient{})
	gob.Register(&Book{})
	gob.Register(&Alchemy{})
	gob.Register(&LeveledItem{})
	gob.Register(&LeveledCreature{})
	gob.Register(&Cell{})
	gob.Register(&Landscape{})
	gob.Register(&PathGrid{})
	gob.Register(&Dialogue{})
	gob.Register(&DialogueInfo{})
	gob.Register(AiTravelPackage{})
	gob.Register(AiWanderPackage{})
	gob.Register(AiEscortPackage{})
	gob.Register(AiFollowPackage{})
	gob.Register(AiActivatePackage{})
}

// Plugin is an ordered sequence of tagged records, the shape the real
// record codec presents to the merge engine. Decode/Encode here are a
// stand-in for that external collaborator: a tag-prefixed,
// length-delimited stream of gob-encoded record payloads, chosen over a
// hand-rolled per-field binary layout because the real wire format is
// owned by the game engine, not this tool.
type Plugin struct {
	Records []Record
}

// Decode reads every record in path.
func Decode(path string) (*Plugin, error) {
	return DecodeFiltered(path, func(Tag) bool { return true })
}

// DecodeFiltered reads only records whose tag satisfies keep, matching
// a partial master load that keeps only structural records.
func DecodeFiltered(path string, keep func(Tag) bool) (*Plugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer f.Close()

	p := &Plugin{}
	for {
		var tag Tag
		if _, err := io.ReadFull(f, tag[:]); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		var size uint32
		if err := binary.Read(f, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("decode %s: truncated record header: %w", path, err)
		}
		buf := make([]byte, size)
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("decode %s: truncated record body: %w", path, err)
		}
		if !keep(tag) {
			continue
		}
		var rec Record
		if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&rec); err != nil {
			return nil, fmt.Errorf("decode %s: record %s: %w", path, tag, err)
		}
		p.Records = append(p.Records, rec)
	}
	return p, nil
}

// Encode serializes p to the stand-in stream format.
func (p *Plugin) Encode() ([]byte, error) {
	var out bytes.Buffer
	for _, rec := range p.Records {
		var payload bytes.Buffer
		if err := gob.NewEncoder(&payload).Encode(&rec); err != nil {
			return nil, fmt.Errorf("encode record %s: %w", rec.Tag(), err)
		}
		tag := rec.Tag()
		out.Write(tag[:])
		binary.Write(&out, binary.LittleEndian, uint32(payload.Len()))
		out.Write(payload.Bytes())
	}
	return out.Bytes(), nil
}

// EncodeToPath writes p to path, truncating any existing file.
func (p *Plugin) EncodeToPath(path string) error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
