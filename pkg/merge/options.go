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

// Package merge implements the merge engine: record collection, master
// and texture index remapping, type-specific merge policy, dialogue
// ordering, deletion cleanup, and the post-merge cell fix-ups.
package merge

// Options controls which optional passes MergePlugins runs, mirroring
// the CLI flags.
type Options struct {
	// RemoveDeleted runs the deletion-cleanup pass after merging.
	RemoveDeleted bool
	// PreserveDuplicateReferences skips the duplicate-reference removal
	// pass that otherwise always runs.
	PreserveDuplicateReferences bool
	// ApplyMovedReferences runs the moved-reference pass.
	ApplyMovedReferences bool
}
