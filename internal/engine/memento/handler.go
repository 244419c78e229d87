package memento

import (
	"log/slog"

	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/snapshot"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// singleGroupName names the singleton groups created for ungrouped marks.
const singleGroupName = "single"

// Handler records state groups and resolves undo/redo over them. It is
// intended to be instantiated per document and used from the editor's main
// goroutine; Lock/Unlock gate recording, they are not mutexes.
type Handler struct {
	codec  snapshot.Codec
	logger *slog.Logger

	groups   []StateGroup
	position int // index of the group an undo would revert, -1 if none

	groupDepth int
	locked     int

	// maxStates caps the number of retained groups, 0 keeps everything.
	maxStates int
}

// Option configures a Handler.
type Option func(*Handler)

// WithCodec selects the snapshot codec. Default is zlib.
func WithCodec(c snapshot.Codec) Option {
	return func(h *Handler) {
		if c != nil {
			h.codec = c
		}
	}
}

// WithMaxStates bounds the log to n groups, dropping the oldest group when
// the cap is exceeded. n <= 0 keeps the log unbounded.
func WithMaxStates(n int) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxStates = n
		}
	}
}

// WithLogger sets the logger used for debug and recovery records.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates an empty history.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		codec:    snapshot.ZlibCodec{},
		logger:   slog.Default(),
		position: -1,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Codec returns the snapshot codec the handler records with. The editor
// needs it to inflate snapshots when applying undo results.
func (h *Handler) Codec() snapshot.Codec {
	return h.codec
}

// Lock suppresses recording until a matching Unlock. Calls nest. The editor
// locks while re-applying undo/redo results so replay records nothing.
func (h *Handler) Lock() {
	h.locked++
}

// Unlock re-enables recording once every Lock has been released.
func (h *Handler) Unlock() {
	if h.locked <= 0 {
		panic("memento: Unlock without matching Lock")
	}
	h.locked--
}

// Locked reports whether recording is currently suppressed.
func (h *Handler) Locked() bool {
	return h.locked > 0
}

// Len returns the number of recorded groups.
func (h *Handler) Len() int {
	return len(h.groups)
}

// Position returns the cursor: the index of the group an undo would revert,
// -1 when the log is empty or fully undone.
func (h *Handler) Position() int {
	return h.position
}

// CanUndo reports whether an undo step is available.
func (h *Handler) CanUndo() bool {
	return len(h.groups) > 0 && h.position >= 0
}

// CanRedo reports whether a redo step is available.
func (h *Handler) CanRedo() bool {
	return h.position < len(h.groups)-1
}

// BeginGroup opens a named group; marks recorded until the matching EndGroup
// undo as one step. Nested calls deepen the group without starting a new
// one. No-op while locked.
func (h *Handler) BeginGroup(name string) {
	if h.locked > 0 {
		h.logger.Debug("suppressed begin group while locked", "name", name)
		return
	}
	h.logger.Debug("begin memento group", "depth", h.groupDepth, "name", name)
	if h.groupDepth <= 0 {
		h.truncateRedoTail()
		h.groups = append(h.groups, StateGroup{Name: name})
		h.position = len(h.groups) - 1
		h.capStates()
	}
	h.groupDepth++
}

// EndGroup closes the innermost open group. Closing the outermost group
// removes it again when no mark was recorded into it. Calling EndGroup
// without an open group is a contract violation and panics; while locked,
// EndGroup is a no-op when no group is open and panics when one is.
func (h *Handler) EndGroup() {
	if h.locked > 0 {
		if h.groupDepth > 0 {
			panic("memento: EndGroup while locked inside an open group")
		}
		h.logger.Debug("suppressed end group while locked")
		return
	}
	if h.groupDepth <= 0 {
		panic("memento: EndGroup without matching BeginGroup")
	}
	h.logger.Debug("end memento group", "depth", h.groupDepth)
	h.groupDepth--
	if h.groupDepth <= 0 {
		if len(h.groups) > 0 && !h.groups[len(h.groups)-1].Valid() {
			h.removeLast()
		}
	}
}

// ClearStates empties the log. Clearing while a group is open is a contract
// violation.
func (h *Handler) ClearStates() {
	if h.groupDepth > 0 {
		panic("memento: ClearStates while recording a group")
	}
	h.groups = nil
	h.position = -1
}

// UpdateNodeID rewrites every stored state whose node or parent id equals
// id to newID. Needed when the scene graph reassigns node ids.
func (h *Handler) UpdateNodeID(id, newID scenegraph.NodeID) {
	for gi := range h.groups {
		states := h.groups[gi].States
		for si := range states {
			if states[si].NodeID == id {
				states[si].NodeID = newID
			}
			if states[si].ParentID == id {
				states[si].ParentID = newID
			}
		}
	}
}

// MarkModification records a voxel edit on the node covering modifiedRegion.
func (h *Handler) MarkModification(node *scenegraph.Node, modifiedRegion voxel.Region) {
	h.logger.Debug("mark node modification", "node", node.ID(), "name", node.Name())
	h.markUndo(node, node.Volume(), TypeModification, modifiedRegion)
}

// MarkNodeAdded records the insertion of a node, snapshotting its volume.
func (h *Handler) MarkNodeAdded(node *scenegraph.Node) {
	h.logger.Debug("mark node added", "node", node.ID(), "name", node.Name())
	h.markUndo(node, node.Volume(), TypeSceneNodeAdded, voxel.InvalidRegion)
}

// MarkInitialNodeState records the state a node had when the document was
// opened. Identical to MarkNodeAdded.
func (h *Handler) MarkInitialNodeState(node *scenegraph.Node) {
	h.MarkNodeAdded(node)
}

// MarkNodeRemoved records the deletion of a node, snapshotting its volume so
// undo can re-create it.
func (h *Handler) MarkNodeRemoved(node *scenegraph.Node) {
	h.logger.Debug("mark node removed", "node", node.ID(), "name", node.Name())
	h.markUndo(node, node.Volume(), TypeSceneNodeRemoved, voxel.InvalidRegion)
}

// MarkNodeRenamed records a name change.
func (h *Handler) MarkNodeRenamed(node *scenegraph.Node) {
	h.logger.Debug("mark node renamed", "node", node.ID(), "name", node.Name())
	h.markUndo(node, nil, TypeSceneNodeRenamed, voxel.InvalidRegion)
}

// MarkNodeMoved records a parent change.
func (h *Handler) MarkNodeMoved(node *scenegraph.Node) {
	h.logger.Debug("mark node moved", "node", node.ID(), "parent", node.Parent())
	h.markUndo(node, nil, TypeSceneNodeMove, voxel.InvalidRegion)
}

// MarkNodeTransform records a pivot/key-frame transform change without a
// volume snapshot.
func (h *Handler) MarkNodeTransform(node *scenegraph.Node) {
	h.logger.Debug("mark node transform", "node", node.ID(), "name", node.Name())
	h.markUndo(node, nil, TypeSceneNodeTransform, voxel.InvalidRegion)
}

// MarkPaletteChange records a palette change. When modifiedRegion is valid
// the palette change rewrote voxel indices, so the volume is snapshotted too.
func (h *Handler) MarkPaletteChange(node *scenegraph.Node, modifiedRegion voxel.Region) {
	var volume *voxel.Volume
	if modifiedRegion.Valid() {
		volume = node.Volume()
	}
	h.logger.Debug("mark palette change", "node", node.ID(), "name", node.Name())
	h.markUndo(node, volume, TypeSceneNodePaletteChanged, voxel.InvalidRegion)
}

// MarkKeyFramesChange records a key-frame map change.
func (h *Handler) MarkKeyFramesChange(node *scenegraph.Node) {
	h.logger.Debug("mark key frames change", "node", node.ID(), "name", node.Name())
	h.markUndo(node, nil, TypeSceneNodeKeyFrames, voxel.InvalidRegion)
}

// MarkNodePropertyChange records a property map change.
func (h *Handler) MarkNodePropertyChange(node *scenegraph.Node) {
	h.logger.Debug("mark node property change", "node", node.ID(), "name", node.Name())
	h.markUndo(node, nil, TypeSceneNodeProperties, voxel.InvalidRegion)
}

// markUndo captures the node's current tuple into a state and pushes it.
func (h *Handler) markUndo(node *scenegraph.Node, volume *voxel.Volume, t Type, region voxel.Region) {
	if !h.markUndoPreamble() {
		return
	}
	data := DataFromVolume(h.codec, volume, region)
	pivot := node.Pivot()
	keyFrames := node.KeyFrames().Clone()
	palette := node.Palette()
	properties := node.Properties().Clone()
	state := State{
		Type:        t,
		Data:        data,
		ParentID:    node.Parent(),
		NodeID:      node.ID(),
		ReferenceID: node.Reference(),
		Name:        node.Name(),
		NodeType:    node.Type(),
		Region:      region,
		Pivot:       &pivot,
		KeyFrames:   &keyFrames,
		Palette:     &palette,
		Properties:  &properties,
	}
	h.addState(state)
}

// markUndoPreamble checks the lock and discards the redo tail. Reports
// whether recording may proceed.
func (h *Handler) markUndoPreamble() bool {
	if h.locked > 0 {
		h.logger.Debug("suppressed undo state while locked")
		return false
	}
	h.truncateRedoTail()
	return true
}

// truncateRedoTail drops every group after the cursor.
func (h *Handler) truncateRedoTail() {
	if len(h.groups) > h.position+1 {
		h.groups = h.groups[:h.position+1]
	}
}

// addState pushes a state: into the open group while one is recording,
// otherwise as a fresh singleton group that becomes the new cursor.
func (h *Handler) addState(state State) {
	if h.groupDepth > 0 {
		last := len(h.groups) - 1
		h.groups[last].States = append(h.groups[last].States, state)
		return
	}
	h.groups = append(h.groups, StateGroup{Name: singleGroupName, States: []State{state}})
	h.position = len(h.groups) - 1
	h.capStates()
}

// capStates enforces the bounded-log cap by evicting from the front.
func (h *Handler) capStates() {
	if h.maxStates <= 0 {
		return
	}
	for len(h.groups) > h.maxStates {
		h.groups = h.groups[1:]
		h.position--
	}
	if h.position < -1 {
		h.position = -1
	}
}

// removeLast drops the most recent group.
func (h *Handler) removeLast() {
	if len(h.groups) == 0 {
		return
	}
	if h.position == len(h.groups)-1 {
		h.position--
	}
	h.groups = h.groups[:len(h.groups)-1]
}
