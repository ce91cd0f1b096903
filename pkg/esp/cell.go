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

// RefKey identifies a reference inside a cell's reference table;
// uniqueness of this key within a cell is an invariant the merge
// engine must preserve. MastIndex 0 means local to the containing
// file; otherwise it is a 1-based index into the owning file's
// Header.Masters.
type RefKey struct {
	MastIndex uint32
	RefrIndex uint32
}

// Reference is one placed object instance inside a cell.
type Reference struct {
	MastIndex   uint32
	RefrIndex   uint32
	ID          string // editor id of the placed object, cleaned against deletions
	Translation [3]float32
	Rotation    [3]float32 // radians, engine (not negated) convention
	Scale       float32
	Deleted     bool
	MovedCell   *[2]int32 // non-nil when this reference declares it now belongs elsewhere
}

func (r *Reference) Key() RefKey { return RefKey{r.MastIndex, r.RefrIndex} }

// AtmosphereData is the optional ambient/sun/fog color block on an
// exterior Cell.
type AtmosphereData struct {
	AmbientColor  [3]float32
	SunlightColor [3]float32
	FogColor      [3]float32
	FogDensity    float32
}

// Cell is the shared body used by both interior and exterior cell
// slots. Exterior-only fields (Region, MapColor) are nil for
// interiors.
type Cell struct {
	Base
	Name           string
	Exterior       bool // the stream's own interior/exterior bit
	Grid           [2]int32
	Region         *string
	MapColor       *uint32
	WaterHeight    *float32
	AtmosphereData *AtmosphereData
	References     map[RefKey]*Reference
}

func (c *Cell) Tag() Tag   { return TagCell }
func (c *Cell) ID() string { return c.Name }

// ExteriorCoords reports the cell's grid coordinates and whether it is
// exterior, per the record's own Exterior bit.
func (c *Cell) ExteriorCoords() (coords [2]int32, ok bool) {
	if !c.Exterior {
		return [2]int32{}, false
	}
	return c.Grid, true
}

// Landscape carries per-quadrant texture indices, stored as
// logical_index+1 with 0 reserved for "no texture".
type Landscape struct {
	Base
	Grid           [2]int32
	TextureIndices [256]uint16
}

func (l *Landscape) Tag() Tag   { return TagLandscape }
func (l *Landscape) ID() string { return "" }

// PathGrid is keyed either by cell name (interior) or grid (exterior);
// Data is the opaque point/edge payload, uninterpreted by the merge
// engine.
type PathGrid struct {
	Base
	CellName string
	Grid     [2]int32
	Data     []byte
}

func (p *PathGrid) Tag() Tag   { return TagPathGrid }
func (p *PathGrid) ID() string { return p.CellName }
