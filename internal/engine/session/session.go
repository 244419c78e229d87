// Package session binds one scene graph to one memento handler: it records
// history for every edit and applies undo/redo results back to the graph.
package session

import (
	"fmt"
	"log/slog"

	"github.com/dshills/voxstorm/internal/engine/memento"
	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// Session is the editing surface of one open document.
type Session struct {
	graph   *scenegraph.SceneGraph
	history *memento.Handler
	logger  *slog.Logger
}

// New creates a session over a graph and a history handler. A nil logger
// falls back to slog.Default.
func New(graph *scenegraph.SceneGraph, history *memento.Handler, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{graph: graph, history: history, logger: logger}
}

// Graph returns the scene graph.
func (s *Session) Graph() *scenegraph.SceneGraph {
	return s.graph
}

// History returns the memento handler.
func (s *Session) History() *memento.Handler {
	return s.history
}

// NewModelNode creates a model node with a zeroed volume spanning region,
// attaches it under parent and records the insertion.
func (s *Session) NewModelNode(name string, region voxel.Region, parent scenegraph.NodeID) (scenegraph.NodeID, error) {
	node := scenegraph.NewNode(scenegraph.NodeTypeModel, name)
	node.SetVolume(voxel.New(region))
	id, err := s.graph.Add(node, parent)
	if err != nil {
		return scenegraph.InvalidNodeID, err
	}
	s.history.MarkNodeAdded(node)
	return id, nil
}

// NewGroupNode creates a group node under parent and records the insertion.
func (s *Session) NewGroupNode(name string, parent scenegraph.NodeID) (scenegraph.NodeID, error) {
	node := scenegraph.NewNode(scenegraph.NodeTypeGroup, name)
	id, err := s.graph.Add(node, parent)
	if err != nil {
		return scenegraph.InvalidNodeID, err
	}
	s.history.MarkNodeAdded(node)
	return id, nil
}

// NewReferenceNode creates a reference node pointing at target.
func (s *Session) NewReferenceNode(name string, target, parent scenegraph.NodeID) (scenegraph.NodeID, error) {
	if _, ok := s.graph.Node(target); !ok {
		return scenegraph.InvalidNodeID, fmt.Errorf("reference target %d: %w", target, scenegraph.ErrNodeNotFound)
	}
	node := scenegraph.NewNode(scenegraph.NodeTypeReference, name)
	node.SetReference(target)
	id, err := s.graph.Add(node, parent)
	if err != nil {
		return scenegraph.InvalidNodeID, err
	}
	s.history.MarkNodeAdded(node)
	return id, nil
}

// RemoveNode records the node's final state and removes it from the graph.
func (s *Session) RemoveNode(id scenegraph.NodeID) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("remove node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	s.history.MarkNodeRemoved(node)
	_, err := s.graph.Remove(id)
	return err
}

// RenameNode renames the node and records the change.
func (s *Session) RenameNode(id scenegraph.NodeID, name string) error {
	if err := s.graph.Rename(id, name); err != nil {
		return err
	}
	node, _ := s.graph.Node(id)
	s.history.MarkNodeRenamed(node)
	return nil
}

// MoveNode re-parents the node and records the change.
func (s *Session) MoveNode(id, newParent scenegraph.NodeID) error {
	if err := s.graph.Move(id, newParent); err != nil {
		return err
	}
	node, _ := s.graph.Node(id)
	s.history.MarkNodeMoved(node)
	return nil
}

// SetVoxel writes one voxel on a model node and records the modification.
func (s *Session) SetVoxel(id scenegraph.NodeID, p voxel.IVec3, v voxel.Voxel) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("set voxel on node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	vol := node.Volume()
	if vol == nil || !vol.Set(p, v) {
		return fmt.Errorf("set voxel on node %d: point %d:%d:%d outside volume", id, p.X, p.Y, p.Z)
	}
	s.history.MarkModification(node, voxel.NewRegion(p, p))
	return nil
}

// Fill writes one voxel value into every cell of region on a model node and
// records a single modification covering the region.
func (s *Session) Fill(id scenegraph.NodeID, region voxel.Region, v voxel.Voxel) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("fill node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	vol := node.Volume()
	if vol == nil {
		return fmt.Errorf("fill node %d: node has no volume", id)
	}
	clip := region.Intersect(vol.Region())
	if !clip.Valid() {
		return fmt.Errorf("fill node %d: %s outside volume", id, region)
	}
	for y := clip.Min.Y; y <= clip.Max.Y; y++ {
		for z := clip.Min.Z; z <= clip.Max.Z; z++ {
			for x := clip.Min.X; x <= clip.Max.X; x++ {
				vol.Set(voxel.IVec3{X: x, Y: y, Z: z}, v)
			}
		}
	}
	s.history.MarkModification(node, clip)
	return nil
}

// SetPivot updates a node's pivot and records the transform change.
func (s *Session) SetPivot(id scenegraph.NodeID, pivot scenegraph.Pivot) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("set pivot on node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	node.SetPivot(pivot)
	s.history.MarkNodeTransform(node)
	return nil
}

// SetKeyFrames replaces a node's key frames and records the change.
func (s *Session) SetKeyFrames(id scenegraph.NodeID, kf scenegraph.KeyFramesMap) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("set key frames on node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	node.SetKeyFrames(kf)
	s.history.MarkKeyFramesChange(node)
	return nil
}

// SetProperty sets one node property and records the change.
func (s *Session) SetProperty(id scenegraph.NodeID, key, value string) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("set property on node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	node.SetProperty(key, value)
	s.history.MarkNodePropertyChange(node)
	return nil
}

// SetPaletteColor changes one palette slot of a node and records the
// palette change. The volume is untouched, so no region is reported.
func (s *Session) SetPaletteColor(id scenegraph.NodeID, index int, rgba uint32) error {
	node, ok := s.graph.Node(id)
	if !ok {
		return fmt.Errorf("set palette color on node %d: %w", id, scenegraph.ErrNodeNotFound)
	}
	pal := node.Palette()
	pal.SetColor(index, rgba)
	node.SetPalette(pal)
	s.history.MarkPaletteChange(node, voxel.InvalidRegion)
	return nil
}

// Undo reverts the most recently applied group. Reports false when there is
// nothing to undo.
func (s *Session) Undo() bool {
	group, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.history.Lock()
	defer s.history.Unlock()
	// reverse order: edits recorded later in the group depend on earlier
	// ones (a node must still exist while its modifications unwind)
	for i := len(group.States) - 1; i >= 0; i-- {
		state := group.States[i]
		if err := s.applyUndo(state); err != nil {
			s.logger.Warn("undo apply failed", "type", state.Type.String(), "node", state.NodeID, "err", err)
		}
	}
	return true
}

// Redo re-applies the most recently undone group. Reports false when there
// is nothing to redo.
func (s *Session) Redo() bool {
	group, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.history.Lock()
	defer s.history.Unlock()
	for _, state := range group.States {
		if err := s.applyRedo(state); err != nil {
			s.logger.Warn("redo apply failed", "type", state.Type.String(), "node", state.NodeID, "err", err)
		}
	}
	return true
}

// applyUndo interprets a reconstructed state in the undo direction: an
// Added state means the node must go away, a Removed state means it comes
// back, everything else restores the carried previous value.
func (s *Session) applyUndo(state memento.State) error {
	switch state.Type {
	case memento.TypeSceneNodeAdded:
		_, err := s.graph.Remove(state.NodeID)
		return err
	case memento.TypeSceneNodeRemoved:
		return s.restoreNode(state)
	default:
		return s.applyState(state)
	}
}

// applyRedo interprets a state in the redo direction.
func (s *Session) applyRedo(state memento.State) error {
	switch state.Type {
	case memento.TypeSceneNodeAdded:
		return s.restoreNode(state)
	case memento.TypeSceneNodeRemoved:
		_, err := s.graph.Remove(state.NodeID)
		return err
	default:
		return s.applyState(state)
	}
}

// restoreNode re-creates a node from its recorded tuple.
func (s *Session) restoreNode(state memento.State) error {
	node := scenegraph.NewNodeWithID(state.NodeID, state.NodeType, state.Name)
	node.SetReference(state.ReferenceID)
	if vol, ok := state.Data.NewVolume(s.history.Codec()); ok {
		node.SetVolume(vol)
	}
	if state.Pivot != nil {
		node.SetPivot(*state.Pivot)
	}
	if state.KeyFrames != nil {
		node.SetKeyFrames(state.KeyFrames.Clone())
	}
	if state.Palette != nil {
		node.SetPalette(*state.Palette)
	}
	if state.Properties != nil {
		node.SetProperties(state.Properties.Clone())
	}
	return s.graph.Attach(node, state.ParentID)
}

// applyState writes a state's recorded attributes onto the live node.
func (s *Session) applyState(state memento.State) error {
	node, ok := s.graph.Node(state.NodeID)
	if !ok {
		return fmt.Errorf("apply %s: node %d: %w", state.Type, state.NodeID, scenegraph.ErrNodeNotFound)
	}
	switch state.Type {
	case memento.TypeModification:
		if vol, ok := state.Data.NewVolume(s.history.Codec()); ok {
			node.SetVolume(vol)
		}
	case memento.TypeSceneNodeRenamed:
		node.SetName(state.Name)
	case memento.TypeSceneNodeMove:
		return s.graph.Move(state.NodeID, state.ParentID)
	case memento.TypeSceneNodeTransform:
		if state.Pivot != nil {
			node.SetPivot(*state.Pivot)
		}
		if state.KeyFrames != nil {
			node.SetKeyFrames(state.KeyFrames.Clone())
		}
	case memento.TypeSceneNodeKeyFrames:
		if state.KeyFrames != nil {
			node.SetKeyFrames(state.KeyFrames.Clone())
		}
	case memento.TypeSceneNodeProperties:
		if state.Properties != nil {
			node.SetProperties(state.Properties.Clone())
		}
	case memento.TypeSceneNodePaletteChanged, memento.TypePaletteChanged:
		if state.Palette != nil {
			node.SetPalette(*state.Palette)
		}
		if vol, ok := state.Data.NewVolume(s.history.Codec()); ok {
			node.SetVolume(vol)
		}
	}
	return nil
}
