package memento

import (
	"strings"
	"testing"

	"github.com/dshills/voxstorm/internal/engine/scenegraph"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// newTestGraph creates a graph with one model node carrying a cubic volume.
func newTestGraph(t *testing.T, edge int32) (*scenegraph.SceneGraph, *scenegraph.Node) {
	t.Helper()
	g := scenegraph.New()
	node := scenegraph.NewNode(scenegraph.NodeTypeModel, "main")
	node.SetVolume(newTestVolume(t, edge))
	if _, err := g.Add(node, scenegraph.RootNodeID); err != nil {
		t.Fatalf("add node: %v", err)
	}
	return g, node
}

// newTestVolume creates a cubic volume whose voxels carry the edge length,
// so snapshots of different volumes are distinguishable.
func newTestVolume(t *testing.T, edge int32) *voxel.Volume {
	t.Helper()
	v := voxel.New(voxel.CubeRegion(edge))
	if v == nil {
		t.Fatalf("volume with edge %d", edge)
	}
	for i, data := 0, v.Data(); i < len(data); i += voxel.VoxelSize {
		data[i] = uint8(edge)
	}
	return v
}

func addModelNode(t *testing.T, g *scenegraph.SceneGraph, name string, edge int32) *scenegraph.Node {
	t.Helper()
	node := scenegraph.NewNode(scenegraph.NodeTypeModel, name)
	node.SetVolume(newTestVolume(t, edge))
	if _, err := g.Add(node, scenegraph.RootNodeID); err != nil {
		t.Fatalf("add node %s: %v", name, err)
	}
	return node
}

func TestMarkModification(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()

	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should allow neither undo nor redo")
	}

	for _, edge := range []int32{1, 2, 3} {
		node.SetVolume(newTestVolume(t, edge))
		h.MarkModification(node, node.Volume().Region())
	}
	if got := h.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := h.Position(); got != 2 {
		t.Errorf("Position() = %d, want 2", got)
	}
	if !h.CanUndo() {
		t.Error("should be able to undo")
	}
	if h.CanRedo() {
		t.Error("should not be able to redo")
	}
}

func TestUndoRedoLinear(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	for _, edge := range []int32{1, 2, 3} {
		node.SetVolume(newTestVolume(t, edge))
		h.MarkModification(node, node.Volume().Region())
	}

	// undo the edge-3 edit: the reconstructed state carries the edge-2
	// snapshot
	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if len(group.States) != 1 {
		t.Fatalf("undo group states = %d, want 1", len(group.States))
	}
	if got := group.States[0].DataRegion().Width(); got != 2 {
		t.Errorf("undo snapshot width = %d, want 2", got)
	}
	if got := h.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}

	group, ok = h.Undo()
	if !ok {
		t.Fatal("second undo failed")
	}
	if got := group.States[0].DataRegion().Width(); got != 1 {
		t.Errorf("undo snapshot width = %d, want 1", got)
	}

	// undoing the first edit has no predecessor; the recovery result is
	// the very first recorded state
	group, ok = h.Undo()
	if !ok {
		t.Fatal("third undo failed")
	}
	if got := group.States[0].DataRegion().Width(); got != 1 {
		t.Errorf("fallback snapshot width = %d, want 1", got)
	}
	if h.CanUndo() {
		t.Error("history is fully undone")
	}
	if _, ok := h.Undo(); ok {
		t.Error("undo beyond the log must fail")
	}

	// redo back to the edge-3 edit
	for want := int32(1); want <= 3; want++ {
		group, ok = h.Redo()
		if !ok {
			t.Fatalf("redo to edge %d failed", want)
		}
		if got := group.States[0].DataRegion().Width(); got != want {
			t.Errorf("redo snapshot width = %d, want %d", got, want)
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo past the newest state")
	}
	if _, ok := h.Redo(); ok {
		t.Error("redo beyond the log must fail")
	}
}

func TestRedoTailTruncation(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	for _, edge := range []int32{1, 2, 3} {
		node.SetVolume(newTestVolume(t, edge))
		h.MarkModification(node, node.Volume().Region())
	}
	h.Undo()
	h.Undo()
	if got := h.Position(); got != 0 {
		t.Fatalf("Position() = %d, want 0", got)
	}

	node.SetVolume(newTestVolume(t, 4))
	h.MarkModification(node, node.Volume().Region())

	if got := h.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := h.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}
	if h.CanRedo() {
		t.Error("the redo tail must be gone")
	}
	// the previous value of the new edit is the edge-1 snapshot, not a
	// leftover from the truncated tail
	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if got := group.States[0].DataRegion().Width(); got != 1 {
		t.Errorf("undo snapshot width = %d, want 1", got)
	}
}

func TestAddRemoveSymmetry(t *testing.T) {
	g, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())

	other := addModelNode(t, g, "other", 2)
	h.MarkNodeAdded(other)
	h.MarkNodeRemoved(other)

	if got, want := h.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if got := h.Position(); got != 2 {
		t.Fatalf("Position() = %d, want 2", got)
	}

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if got := group.States[0].Type; got != TypeSceneNodeRemoved {
		t.Errorf("undo type = %s, want SceneNodeRemoved", got)
	}
	if got := group.States[0].DataRegion().Width(); got != 2 {
		t.Errorf("removed snapshot width = %d, want 2", got)
	}

	group, ok = h.Undo()
	if !ok {
		t.Fatal("second undo failed")
	}
	if got := group.States[0].Type; got != TypeSceneNodeAdded {
		t.Errorf("undo type = %s, want SceneNodeAdded", got)
	}

	group, ok = h.Undo()
	if !ok {
		t.Fatal("third undo failed")
	}
	if got := group.States[0].Type; got != TypeModification {
		t.Errorf("undo type = %s, want Modification", got)
	}
	if got := group.States[0].NodeID; got != node.ID() {
		t.Errorf("undo node = %d, want %d", got, node.ID())
	}
}

func TestGrouping(t *testing.T) {
	g, node := newTestGraph(t, 1)
	other := addModelNode(t, g, "other", 1)
	h := NewHandler()

	h.BeginGroup("paint")
	h.MarkModification(node, node.Volume().Region())
	h.MarkModification(other, other.Volume().Region())
	h.EndGroup()

	if got := h.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if got := len(h.groups[0].States); got != 2 {
		t.Fatalf("group states = %d, want 2", got)
	}
	if got := h.groups[0].Name; got != "paint" {
		t.Errorf("group name = %q, want %q", got, "paint")
	}

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if got := len(group.States); got != 2 {
		t.Errorf("undo group states = %d, want 2", got)
	}
}

func TestGroupingNested(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()

	h.BeginGroup("outer")
	h.BeginGroup("inner")
	h.MarkModification(node, node.Volume().Region())
	h.EndGroup()
	h.MarkModification(node, node.Volume().Region())
	h.EndGroup()

	if got := h.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if got := h.groups[0].Name; got != "outer" {
		t.Errorf("group name = %q, want %q", got, "outer")
	}
	if got := len(h.groups[0].States); got != 2 {
		t.Errorf("group states = %d, want 2", got)
	}
}

func TestEmptyGroupRemoved(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())

	h.BeginGroup("empty")
	h.EndGroup()

	if got := h.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if got := h.Position(); got != 0 {
		t.Errorf("Position() = %d, want 0", got)
	}
}

func TestEndGroupWithoutBegin(t *testing.T) {
	h := NewHandler()
	defer func() {
		if recover() == nil {
			t.Error("EndGroup without BeginGroup must panic")
		}
	}()
	h.EndGroup()
}

func TestClearStatesWhileGrouping(t *testing.T) {
	h := NewHandler()
	h.BeginGroup("open")
	defer func() {
		if recover() == nil {
			t.Error("ClearStates with an open group must panic")
		}
	}()
	h.ClearStates()
}

func TestClearStates(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())
	h.ClearStates()
	if got := h.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
	if got := h.Position(); got != -1 {
		t.Errorf("Position() = %d, want -1", got)
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("cleared history should allow neither undo nor redo")
	}
}

func TestLockedRecording(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())
	node.SetVolume(newTestVolume(t, 2))
	h.MarkModification(node, node.Volume().Region())
	wantLen, wantPos := h.Len(), h.Position()

	h.Lock()
	node.SetVolume(newTestVolume(t, 9))
	h.MarkModification(node, node.Volume().Region())
	h.BeginGroup("suppressed")
	h.MarkNodeRenamed(node)
	h.EndGroup()
	h.Unlock()

	if got := h.Len(); got != wantLen {
		t.Errorf("Len() = %d, want %d", got, wantLen)
	}
	if got := h.Position(); got != wantPos {
		t.Errorf("Position() = %d, want %d", got, wantPos)
	}
}

func TestUnlockWithoutLock(t *testing.T) {
	h := NewHandler()
	defer func() {
		if recover() == nil {
			t.Error("Unlock without Lock must panic")
		}
	}()
	h.Unlock()
}

func TestUpdateNodeID(t *testing.T) {
	g, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())
	other := addModelNode(t, g, "other", 2)
	h.MarkNodeAdded(other)
	h.MarkNodeRemoved(other)

	oldID := other.ID()
	h.UpdateNodeID(oldID, 42)

	for gi, group := range h.groups {
		for si, state := range group.States {
			if state.NodeID == oldID || state.ParentID == oldID {
				t.Errorf("group %d state %d still refers to node %d", gi, si, oldID)
			}
		}
	}
	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	if got := group.States[0].NodeID; got != 42 {
		t.Errorf("undo node = %d, want 42", got)
	}
	if got := group.States[0].Type; got != TypeSceneNodeRemoved {
		t.Errorf("undo type = %s, want SceneNodeRemoved", got)
	}
}

func TestUpdateNodeIDAbsent(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())
	before := h.Dump()
	h.UpdateNodeID(999, 1000)
	if after := h.Dump(); after != before {
		t.Error("rewriting an absent id must not change the log")
	}
}

func TestBoundedStates(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler(WithMaxStates(2))
	for _, edge := range []int32{1, 2, 3} {
		node.SetVolume(newTestVolume(t, edge))
		h.MarkModification(node, node.Volume().Region())
	}
	if got := h.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := h.Position(); got != 1 {
		t.Errorf("Position() = %d, want 1", got)
	}
	// the oldest group (edge 1) is the one that was dropped
	if got := h.groups[0].States[0].DataRegion().Width(); got != 2 {
		t.Errorf("oldest retained width = %d, want 2", got)
	}
}

func TestUndoRename(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "first", 1)
	h := NewHandler()
	h.MarkNodeAdded(node)

	node.SetName("second")
	h.MarkNodeRenamed(node)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodeRenamed {
		t.Errorf("undo type = %s, want SceneNodeRenamed", state.Type)
	}
	if state.Name != "first" {
		t.Errorf("undo name = %q, want %q", state.Name, "first")
	}
}

func TestUndoMove(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "mover", 1)
	folder := scenegraph.NewNode(scenegraph.NodeTypeGroup, "folder")
	if _, err := g.Add(folder, scenegraph.RootNodeID); err != nil {
		t.Fatalf("add folder: %v", err)
	}
	h := NewHandler()
	h.MarkNodeAdded(node)

	if err := g.Move(node.ID(), folder.ID()); err != nil {
		t.Fatalf("move: %v", err)
	}
	h.MarkNodeMoved(node)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodeMove {
		t.Errorf("undo type = %s, want SceneNodeMove", state.Type)
	}
	if state.ParentID != scenegraph.RootNodeID {
		t.Errorf("undo parent = %d, want root", state.ParentID)
	}
}

func TestUndoTransform(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "pivoted", 1)
	h := NewHandler()
	h.MarkNodeAdded(node)

	node.SetPivot(scenegraph.Pivot{X: 0.5, Y: 0.5, Z: 0.5})
	h.MarkNodeTransform(node)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodeTransform {
		t.Errorf("undo type = %s, want SceneNodeTransform", state.Type)
	}
	if state.Pivot == nil || *state.Pivot != (scenegraph.Pivot{}) {
		t.Errorf("undo pivot = %v, want zero pivot", state.Pivot)
	}
}

func TestUndoProperties(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "props", 1)
	h := NewHandler()
	h.MarkNodeAdded(node)

	node.SetProperty("locked", "true")
	h.MarkNodePropertyChange(node)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodeProperties {
		t.Errorf("undo type = %s, want SceneNodeProperties", state.Type)
	}
	if state.Properties == nil {
		t.Fatal("undo properties missing")
	}
	if _, exists := (*state.Properties)["locked"]; exists {
		t.Error("undo properties should predate the change")
	}
}

func TestUndoKeyFrames(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "animated", 1)
	h := NewHandler()
	h.MarkNodeAdded(node)

	node.SetKeyFrames(scenegraph.KeyFramesMap{
		"walk": {{FrameIdx: 0}, {FrameIdx: 10}},
	})
	h.MarkKeyFramesChange(node)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodeKeyFrames {
		t.Errorf("undo type = %s, want SceneNodeKeyFrames", state.Type)
	}
	if state.KeyFrames == nil {
		t.Fatal("undo key frames missing")
	}
	if len(*state.KeyFrames) != 0 {
		t.Errorf("undo key frames = %d animations, want 0", len(*state.KeyFrames))
	}
}

func TestUndoPaletteChange(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "painted", 1)
	h := NewHandler()
	h.MarkNodeAdded(node)

	pal := node.Palette()
	pal.SetColor(1, 0xff0000ff)
	node.SetPalette(pal)
	h.MarkPaletteChange(node, voxel.InvalidRegion)

	group, ok := h.Undo()
	if !ok {
		t.Fatal("undo failed")
	}
	state := group.States[0]
	if state.Type != TypeSceneNodePaletteChanged {
		t.Errorf("undo type = %s, want SceneNodePaletteChanged", state.Type)
	}
	if state.Palette == nil {
		t.Fatal("undo palette missing")
	}
	if state.Palette.ColorCount != 0 {
		t.Errorf("undo palette colors = %d, want 0", state.Palette.ColorCount)
	}
	if state.HasVolumeData() {
		t.Error("palette change without region must not snapshot the volume")
	}
}

func TestPaletteChangeWithRegionSnapshotsVolume(t *testing.T) {
	g, _ := newTestGraph(t, 1)
	node := addModelNode(t, g, "painted", 2)
	h := NewHandler()
	h.MarkPaletteChange(node, node.Volume().Region())
	if got := h.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if !h.groups[0].States[0].HasVolumeData() {
		t.Error("palette change with modified region must snapshot the volume")
	}
}

func TestUndoRedoIdentity(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	for _, edge := range []int32{1, 2, 3} {
		node.SetVolume(newTestVolume(t, edge))
		h.MarkModification(node, node.Volume().Region())
	}
	before := h.Dump()
	posBefore := h.Position()
	h.Undo()
	h.Redo()
	if got := h.Position(); got != posBefore {
		t.Errorf("Position() = %d, want %d", got, posBefore)
	}
	if after := h.Dump(); after != before {
		t.Error("undo followed by redo must not change the log")
	}
}

func TestDump(t *testing.T) {
	_, node := newTestGraph(t, 1)
	h := NewHandler()
	h.MarkModification(node, node.Volume().Region())
	dump := h.Dump()
	if dump == "" {
		t.Fatal("dump is empty")
	}
	for _, want := range []string{"Modification", "single", "node id: 1"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}
