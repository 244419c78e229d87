package scenegraph

import (
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// NodeID identifies a node within one scene graph.
type NodeID int32

// InvalidNodeID is the "no node" sentinel.
const InvalidNodeID NodeID = -1

// RootNodeID is the id of the root group node of every scene graph.
const RootNodeID NodeID = 0

// NodeType categorizes scene graph nodes.
type NodeType int

const (
	// NodeTypeRoot is the singular root group of a scene graph.
	NodeTypeRoot NodeType = iota
	// NodeTypeModel is a node carrying a voxel volume.
	NodeTypeModel
	// NodeTypeGroup is a structural grouping node without a volume.
	NodeTypeGroup
	// NodeTypeReference points at another model node instead of owning voxels.
	NodeTypeReference
)

// String returns the node type name.
func (t NodeType) String() string {
	switch t {
	case NodeTypeRoot:
		return "root"
	case NodeTypeModel:
		return "model"
	case NodeTypeGroup:
		return "group"
	case NodeTypeReference:
		return "reference"
	default:
		return "unknown"
	}
}

// Pivot is the normalized rotation anchor of a node.
type Pivot struct {
	X, Y, Z float32
}

// Node is one element of the scene graph. The history engine reads a node's
// full tuple when recording and never holds a reference to it afterwards.
type Node struct {
	id         NodeID
	parent     NodeID
	reference  NodeID
	name       string
	nodeType   NodeType
	volume     *voxel.Volume
	pivot      Pivot
	keyFrames  KeyFramesMap
	palette    Palette
	properties Properties
	children   []NodeID
}

// NewNode creates a detached node of the given type. The id is assigned when
// the node is attached to a graph.
func NewNode(nodeType NodeType, name string) *Node {
	return &Node{
		id:         InvalidNodeID,
		parent:     InvalidNodeID,
		reference:  InvalidNodeID,
		name:       name,
		nodeType:   nodeType,
		keyFrames:  KeyFramesMap{},
		properties: Properties{},
	}
}

// NewNodeWithID creates a detached node carrying a preset id, used to
// re-create a removed node during undo.
func NewNodeWithID(id NodeID, nodeType NodeType, name string) *Node {
	n := NewNode(nodeType, name)
	n.id = id
	return n
}

// ID returns the node id, InvalidNodeID while detached.
func (n *Node) ID() NodeID { return n.id }

// Parent returns the parent node id, InvalidNodeID for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Reference returns the referenced model node id, InvalidNodeID when the
// node is not a reference.
func (n *Node) Reference() NodeID { return n.reference }

// SetReference points a reference node at a model node.
func (n *Node) SetReference(id NodeID) { n.reference = id }

// Name returns the node name, possibly empty.
func (n *Node) Name() string { return n.name }

// SetName renames the node.
func (n *Node) SetName(name string) { n.name = name }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.nodeType }

// Volume returns the node's voxel volume, nil for non-model nodes.
func (n *Node) Volume() *voxel.Volume { return n.volume }

// SetVolume replaces the node's volume.
func (n *Node) SetVolume(v *voxel.Volume) { n.volume = v }

// Pivot returns the node pivot.
func (n *Node) Pivot() Pivot { return n.pivot }

// SetPivot updates the node pivot.
func (n *Node) SetPivot(p Pivot) { n.pivot = p }

// KeyFrames returns the node's animation key frames.
func (n *Node) KeyFrames() KeyFramesMap { return n.keyFrames }

// SetKeyFrames replaces the node's key frames.
func (n *Node) SetKeyFrames(kf KeyFramesMap) { n.keyFrames = kf }

// Palette returns the node palette.
func (n *Node) Palette() Palette { return n.palette }

// SetPalette replaces the node palette.
func (n *Node) SetPalette(p Palette) { n.palette = p }

// Properties returns the node's property map.
func (n *Node) Properties() Properties { return n.properties }

// SetProperties replaces the node's property map.
func (n *Node) SetProperties(p Properties) { n.properties = p }

// SetProperty sets one property value.
func (n *Node) SetProperty(key, value string) {
	if n.properties == nil {
		n.properties = Properties{}
	}
	n.properties[key] = value
}

// Children returns the ids of the node's children in attach order.
func (n *Node) Children() []NodeID { return n.children }

func (n *Node) addChild(id NodeID) {
	n.children = append(n.children, id)
}

func (n *Node) removeChild(id NodeID) {
	for i, c := range n.children {
		if c == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
