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

// Flags holds a record's on-disk flag bits. Only Deleted and Ignored
// matter to the merge engine; Persistent and Blocked are carried
// through unexamined.
type Flags uint32

const (
	FlagDeleted    Flags = 0x0020
	FlagPersistent Flags = 0x0400
	FlagIgnored    Flags = 0x1000
	FlagBlocked    Flags = 0x2000
)

func (f Flags) Deleted() bool { return f&FlagDeleted != 0 }
func (f Flags) Ignored() bool { return f&FlagIgnored != 0 }

func (f *Flags) SetDeleted(v bool) { f.set(FlagDeleted, v) }
func (f *Flags) SetIgnored(v bool) { f.set(FlagIgnored, v) }

func (f *Flags) set(bit Flags, v bool) {
	if v {
		*f |= bit
	} else {
		*f &^= bit
	}
}
