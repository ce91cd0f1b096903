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

// DialogueType orders topics in the output stream. Journal must
// sort strictly first; the numeric values below double as sort keys.
type DialogueType uint8

const (
	DialogueJournal DialogueType = iota
	DialogueTopic
	DialogueVoice
	DialogueGreeting
	DialoguePersuasion
)

// Dialogue is a topic header; its ordered INFO sequence lives alongside
// it in a merge.DialogueGroup, not on this struct, since the chain is
// maintained by the merge engine rather than the record itself.
type Dialogue struct {
	Base
	EditorID string
	Type     DialogueType
}

func (d *Dialogue) Tag() Tag   { return TagDialogue }
func (d *Dialogue) ID() string { return d.EditorID }

// DialogueInfo is one entry ("INFO") inside a topic. PrevID/NextID form
// the doubly-linked chain the engine expects; they are plain strings,
// not pointers, since the chain is rebuilt from sequence order rather
// than walked.
type DialogueInfo struct {
	Base
	InfoID string
	PrevID string
	NextID string
	Text   string
}

func (i *DialogueInfo) Tag() Tag   { return TagDialogueInfo }
func (i *DialogueInfo) ID() string { return i.InfoID }
