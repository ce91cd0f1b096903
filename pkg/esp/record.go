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

import "strings"

// Record is satisfied by every variant in the closed set of record
// types the engine understands. Go has no sum types, so the variant
// family is modeled as an interface with one concrete implementation
// per tag. There is no tag-keyed factory: the stand-in codec decodes
// payloads through the concrete types registered with gob in plugin.go.
type Record interface {
	Tag() Tag
	ID() string
	Flags() Flags
	SetFlags(Flags)
}

// LowerID returns a record's editor id, ASCII-lowercased. Object keys,
// deletion lookups, and cell names are always compared this way.
func LowerID(r Record) string { return strings.ToLower(r.ID()) }

// Base is embedded by every concrete record and supplies the Flags
// half of the Record interface.
type Base struct {
	RecordFlags Flags
}

func (b *Base) Flags() Flags     { return b.RecordFlags }
func (b *Base) SetFlags(f Flags) { b.RecordFlags = f }
