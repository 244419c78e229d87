// Package scenegraph holds the node tree a voxel document is made of:
// model, group and reference nodes with their volumes, palettes, key frames
// and properties. The history engine treats these as opaque value types it
// can clone and compare.
package scenegraph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Common errors for scene graph operations.
var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrNodeAttached   = errors.New("node already attached")
	ErrRemoveRoot     = errors.New("cannot remove the root node")
	ErrCyclicReparent = errors.New("cannot move a node below itself")
)

// SceneGraph is the node container of one open document.
type SceneGraph struct {
	id     uuid.UUID
	nodes  map[NodeID]*Node
	nextID NodeID
}

// New creates a scene graph containing only the root group node (id 0).
func New() *SceneGraph {
	g := &SceneGraph{
		id:    uuid.New(),
		nodes: make(map[NodeID]*Node),
	}
	root := NewNode(NodeTypeRoot, "root")
	root.id = RootNodeID
	g.nodes[RootNodeID] = root
	g.nextID = RootNodeID + 1
	return g
}

// ID returns the document id.
func (g *SceneGraph) ID() uuid.UUID {
	return g.id
}

// Root returns the root node.
func (g *SceneGraph) Root() *Node {
	return g.nodes[RootNodeID]
}

// Node returns the node with the given id.
func (g *SceneGraph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of nodes including the root.
func (g *SceneGraph) Len() int {
	return len(g.nodes)
}

// Add attaches a detached node under the given parent and assigns it a
// fresh id.
func (g *SceneGraph) Add(node *Node, parent NodeID) (NodeID, error) {
	if node.id != InvalidNodeID {
		return InvalidNodeID, fmt.Errorf("add node %q: %w", node.name, ErrNodeAttached)
	}
	node.id = g.nextID
	g.nextID++
	if err := g.attach(node, parent); err != nil {
		node.id = InvalidNodeID
		return InvalidNodeID, err
	}
	return node.id, nil
}

// Attach inserts a node that already carries an id, re-creating a previously
// removed node during undo. The id must not be in use.
func (g *SceneGraph) Attach(node *Node, parent NodeID) error {
	if node.id == InvalidNodeID {
		return fmt.Errorf("attach: node %q has no id", node.name)
	}
	if _, exists := g.nodes[node.id]; exists {
		return fmt.Errorf("attach node %d: %w", node.id, ErrNodeAttached)
	}
	if node.id >= g.nextID {
		g.nextID = node.id + 1
	}
	return g.attach(node, parent)
}

func (g *SceneGraph) attach(node *Node, parent NodeID) error {
	p, ok := g.nodes[parent]
	if !ok {
		return fmt.Errorf("attach node %d under %d: %w", node.id, parent, ErrNodeNotFound)
	}
	node.parent = parent
	g.nodes[node.id] = node
	p.addChild(node.id)
	return nil
}

// Remove detaches the node and its whole subtree from the graph and returns
// the removed node.
func (g *SceneGraph) Remove(id NodeID) (*Node, error) {
	if id == RootNodeID {
		return nil, ErrRemoveRoot
	}
	node, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("remove node %d: %w", id, ErrNodeNotFound)
	}
	if parent, ok := g.nodes[node.parent]; ok {
		parent.removeChild(id)
	}
	g.removeSubtree(node)
	return node, nil
}

func (g *SceneGraph) removeSubtree(node *Node) {
	for _, child := range node.children {
		if c, ok := g.nodes[child]; ok {
			g.removeSubtree(c)
		}
	}
	delete(g.nodes, node.id)
}

// Move re-parents a node.
func (g *SceneGraph) Move(id, newParent NodeID) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("move node %d: %w", id, ErrNodeNotFound)
	}
	target, ok := g.nodes[newParent]
	if !ok {
		return fmt.Errorf("move node %d under %d: %w", id, newParent, ErrNodeNotFound)
	}
	// walk up from the target; moving below the own subtree would cut the
	// node loose
	for cur := target; cur != nil; {
		if cur.id == id {
			return fmt.Errorf("move node %d under %d: %w", id, newParent, ErrCyclicReparent)
		}
		next, ok := g.nodes[cur.parent]
		if !ok {
			break
		}
		cur = next
	}
	if parent, ok := g.nodes[node.parent]; ok {
		parent.removeChild(id)
	}
	node.parent = newParent
	target.addChild(id)
	return nil
}

// Rename sets a node's name.
func (g *SceneGraph) Rename(id NodeID, name string) error {
	node, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("rename node %d: %w", id, ErrNodeNotFound)
	}
	node.SetName(name)
	return nil
}
