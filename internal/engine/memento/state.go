package memento

import (
	"maps"
	"slices"

	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// invalidNodeID is a local shorthand for the scene graph sentinel.
const invalidNodeID = scenegraph.InvalidNodeID

// Type identifies the kind of change a State records.
type Type int

const (
	// TypeModification records a voxel volume edit.
	TypeModification Type = iota
	// TypeSceneNodeMove records a parent change.
	TypeSceneNodeMove
	// TypeSceneNodeAdded records a node insertion.
	TypeSceneNodeAdded
	// TypeSceneNodeRemoved records a node deletion.
	TypeSceneNodeRemoved
	// TypeSceneNodeRenamed records a name change.
	TypeSceneNodeRenamed
	// TypeSceneNodeTransform records a pivot/key-frame transform change.
	TypeSceneNodeTransform
	// TypeSceneNodePaletteChanged records a node palette change.
	TypeSceneNodePaletteChanged
	// TypeSceneNodeKeyFrames records a key-frame map change.
	TypeSceneNodeKeyFrames
	// TypeSceneNodeProperties records a node property map change.
	TypeSceneNodeProperties
	// TypePaletteChanged records a document-wide palette change.
	TypePaletteChanged
)

var typeNames = [...]string{
	"Modification",
	"SceneNodeMove",
	"SceneNodeAdded",
	"SceneNodeRemoved",
	"SceneNodeRenamed",
	"SceneNodeTransform",
	"SceneNodePaletteChanged",
	"SceneNodeKeyFrames",
	"SceneNodeProperties",
	"PaletteChanged",
}

// String returns the type name.
func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

// State is one recorded delta: what changed about one node, captured after
// the edit was applied. States are immutable once added to the log except
// for node id rewrites via Handler.UpdateNodeID.
type State struct {
	Type Type

	// Data holds the compressed volume snapshot where one is meaningful
	// (modifications, node add/remove, palette change with modified region).
	Data Data

	ParentID    scenegraph.NodeID
	NodeID      scenegraph.NodeID
	ReferenceID scenegraph.NodeID
	Name        string
	NodeType    scenegraph.NodeType

	// Region is the affected region for modifications, InvalidRegion
	// otherwise.
	Region voxel.Region

	// Optional attributes; nil when the state does not carry them.
	Pivot      *scenegraph.Pivot
	KeyFrames  *scenegraph.KeyFramesMap
	Palette    *scenegraph.Palette
	Properties *scenegraph.Properties
}

// HasVolumeData reports whether the state carries a volume snapshot.
func (s State) HasVolumeData() bool {
	return s.Data.HasVolume()
}

// DataRegion returns the region of the carried snapshot, InvalidRegion when
// there is none.
func (s State) DataRegion() voxel.Region {
	return s.Data.Region()
}

// Clone returns a deep copy: the snapshot buffer and all optional attributes
// are duplicated.
func (s State) Clone() State {
	out := s
	out.Data = s.Data.Clone()
	if s.Pivot != nil {
		pivot := *s.Pivot
		out.Pivot = &pivot
	}
	if s.KeyFrames != nil {
		kf := s.KeyFrames.Clone()
		out.KeyFrames = &kf
	}
	if s.Palette != nil {
		pal := *s.Palette
		out.Palette = &pal
	}
	if s.Properties != nil {
		props := s.Properties.Clone()
		out.Properties = &props
	}
	return out
}

// cloneWithType returns a deep copy with the type overridden. Used by the
// backward scans, which take a predecessor's content but keep the undone
// state's type.
func (s State) cloneWithType(t Type) State {
	out := s.Clone()
	out.Type = t
	return out
}

// Equal compares two states structurally, ignoring the compressed snapshot
// bytes (only the snapshot regions are compared).
func (s State) Equal(other State) bool {
	if s.Type != other.Type ||
		s.ParentID != other.ParentID ||
		s.NodeID != other.NodeID ||
		s.ReferenceID != other.ReferenceID ||
		s.Name != other.Name ||
		s.NodeType != other.NodeType ||
		!s.Region.Equal(other.Region) ||
		!s.Data.Region().Equal(other.Data.Region()) {
		return false
	}
	if (s.Pivot == nil) != (other.Pivot == nil) {
		return false
	}
	if s.Pivot != nil && *s.Pivot != *other.Pivot {
		return false
	}
	if (s.Palette == nil) != (other.Palette == nil) {
		return false
	}
	if s.Palette != nil && !s.Palette.Equal(*other.Palette) {
		return false
	}
	if (s.KeyFrames == nil) != (other.KeyFrames == nil) {
		return false
	}
	if s.KeyFrames != nil && !maps.EqualFunc(*s.KeyFrames, *other.KeyFrames, func(a, b scenegraph.KeyFrames) bool {
		return slices.Equal(a, b)
	}) {
		return false
	}
	if (s.Properties == nil) != (other.Properties == nil) {
		return false
	}
	if s.Properties != nil && !maps.Equal(*s.Properties, *other.Properties) {
		return false
	}
	return true
}
