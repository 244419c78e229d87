package memento

// Undo consumes the group at the cursor and returns a reconstructed group
// holding, for every state, the previous value of the affected attribute.
// The editor applies the returned group (with the handler locked). Reports
// false when there is nothing to undo.
func (h *Handler) Undo() (StateGroup, bool) {
	if !h.CanUndo() {
		return StateGroup{}, false
	}
	h.logger.Debug("undo", "groups", len(h.groups), "position", h.position)
	group := h.groups[h.position]
	h.position--

	target := StateGroup{
		Name:   group.Name,
		States: make([]State, 0, len(group.States)),
	}
	for _, s := range group.States {
		h.logger.Debug("undo memento state", "type", s.Type.String(), "node", s.NodeID)
		switch s.Type {
		case TypeModification:
			target.States = append(target.States, h.undoModification(s))
		case TypeSceneNodeTransform:
			target.States = append(target.States, h.undoTransform(s))
		case TypeSceneNodePaletteChanged:
			target.States = append(target.States, h.undoPaletteChange(s))
		case TypeSceneNodeProperties:
			target.States = append(target.States, h.undoNodeProperties(s))
		case TypeSceneNodeKeyFrames:
			target.States = append(target.States, h.undoKeyFrames(s))
		case TypeSceneNodeRenamed:
			target.States = append(target.States, h.undoRename(s))
		case TypeSceneNodeMove:
			target.States = append(target.States, h.undoMove(s))
		default:
			target.States = append(target.States, s.Clone())
		}
	}
	return target, true
}

// Redo advances the cursor and returns a clone of the group there. Reports
// false when there is nothing to redo.
func (h *Handler) Redo() (StateGroup, bool) {
	if !h.CanRedo() {
		return StateGroup{}, false
	}
	h.position++
	h.logger.Debug("redo", "groups", len(h.groups), "position", h.position)
	return h.groups[h.position].Clone(), true
}

// undoModification finds the node's previous volume snapshot. The
// reconstructed state keeps the undone state's identity and region but takes
// the volume data, reference and node type from the predecessor.
func (h *Handler) undoModification(s State) State {
	for i := h.position; i >= 0; i-- {
		for _, prev := range h.groups[i].States {
			if prev.NodeID != s.NodeID {
				continue
			}
			if prev.Type != TypeModification && prev.Type != TypeSceneNodeAdded {
				continue
			}
			if !prev.HasVolumeData() &&
				!(prev.Type == TypeSceneNodeAdded && prev.ReferenceID != invalidNodeID) {
				continue
			}
			out := s.Clone()
			out.Data = prev.Data.Clone()
			out.ReferenceID = prev.ReferenceID
			out.NodeType = prev.NodeType
			return out
		}
	}
	h.logger.Warn("no previous modification state found", "node", s.NodeID)
	return h.firstState()
}

// undoTransform finds the node's previous transform state.
func (h *Handler) undoTransform(s State) State {
	return h.scanPrevious(s, "transform", func(prev State) bool {
		return true
	})
}

// undoPaletteChange finds the node's previous palette.
func (h *Handler) undoPaletteChange(s State) State {
	return h.scanPrevious(s, "palette", func(prev State) bool {
		return prev.Palette != nil
	})
}

// undoNodeProperties finds the node's previous property map.
func (h *Handler) undoNodeProperties(s State) State {
	return h.scanPrevious(s, "properties", func(prev State) bool {
		return prev.Properties != nil
	})
}

// undoKeyFrames finds the node's previous key frames.
func (h *Handler) undoKeyFrames(s State) State {
	return h.scanPrevious(s, "key frames", func(prev State) bool {
		return prev.KeyFrames != nil
	})
}

// undoRename finds the node's previous name.
func (h *Handler) undoRename(s State) State {
	return h.scanPrevious(s, "name", func(prev State) bool {
		return prev.Name != ""
	})
}

// undoMove finds the node's previous parent.
func (h *Handler) undoMove(s State) State {
	return h.scanPrevious(s, "parent", func(prev State) bool {
		return prev.ParentID != invalidNodeID
	})
}

// scanPrevious walks the log backwards from the cursor, group by group,
// looking for a state of the node satisfying pred; within a group the states
// are checked in append order, so the earliest match of the nearest matching
// group wins. The match is returned as a clone carrying the undone state's
// type. Falls back to the first recorded state when nothing matches.
func (h *Handler) scanPrevious(s State, what string, pred func(State) bool) State {
	for i := h.position; i >= 0; i-- {
		for _, prev := range h.groups[i].States {
			if prev.NodeID == s.NodeID && pred(prev) {
				return prev.cloneWithType(s.Type)
			}
		}
	}
	h.logger.Warn("no previous state found", "kind", what, "node", s.NodeID)
	return h.firstState()
}

// firstState returns the very first recorded state as the best-effort
// recovery when no predecessor matched.
func (h *Handler) firstState() State {
	return h.groups[0].States[0].Clone()
}
