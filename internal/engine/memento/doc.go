// Package memento records every semantically meaningful change to a scene
// graph and provides transactional undo/redo across them.
//
// # States and groups
//
// Each recorded change is a State: a typed record of what changed about one
// node, optionally carrying a compressed snapshot of the node's voxel volume
// (Data). States are bundled into named StateGroups that undo and redo
// atomically; ungrouped marks become singleton groups.
//
// # Recording
//
// The Handler is the recording surface. The editor calls one of the Mark*
// methods after applying an edit:
//
//	h := memento.NewHandler()
//	h.MarkNodeAdded(node)
//	h.MarkModification(node, modifiedRegion)
//
// Mark* records the node's state after the edit. Recording can be suppressed
// with Lock/Unlock, which the editor holds while it re-applies undo results
// so replay does not generate further history. BeginGroup/EndGroup bundle
// several marks into one undo step; nesting is allowed and only the
// outermost pair delimits the group.
//
// # Replay
//
// Undo consumes the group at the cursor and reconstructs, for every state in
// it, the previous value of the affected attribute by scanning the log
// backwards with a type-specific predicate. Storing only the post-edit value
// per state keeps memory at one snapshot per edit; the pre-edit value is
// recovered from the history itself. The reconstructed group is returned to
// the editor, which applies it to the scene graph.
package memento
