package memento

import (
	"fmt"
	"strings"
)

// Dump renders the log in a human-readable form for the diagnostic
// `mementoinfo` command. It is not part of the load-bearing API.
func (h *Handler) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "current memento state index: %d\n", h.position)
	fmt.Fprintf(&b, "groups: %d\n", len(h.groups))
	for gi, group := range h.groups {
		fmt.Fprintf(&b, "group %d: %s\n", gi, group.Name)
		for _, state := range group.States {
			dumpState(&b, state)
		}
	}
	return b.String()
}

func dumpState(b *strings.Builder, s State) {
	volume := "empty"
	if s.HasVolumeData() {
		volume = "volume"
	}
	fmt.Fprintf(b, "  %s: node id: %d\n", s.Type, s.NodeID)
	fmt.Fprintf(b, "   - parent: %d\n", s.ParentID)
	fmt.Fprintf(b, "   - name: %s\n", s.Name)
	fmt.Fprintf(b, "   - node type: %s\n", s.NodeType)
	fmt.Fprintf(b, "   - volume: %s (%db compressed)\n", volume, s.Data.Size())
	fmt.Fprintf(b, "   - region: %s\n", s.Region)
	if s.Pivot != nil {
		fmt.Fprintf(b, "   - pivot: %g:%g:%g\n", s.Pivot.X, s.Pivot.Y, s.Pivot.Z)
	} else {
		fmt.Fprintf(b, "   - pivot: none\n")
	}
	if s.Palette != nil {
		fmt.Fprintf(b, "   - palette: %d colors [hash: %d]\n", s.Palette.ColorCount, s.Palette.Hash())
	} else {
		fmt.Fprintf(b, "   - palette: none\n")
	}
	if s.KeyFrames != nil {
		fmt.Fprintf(b, "   - key frames:\n")
		for animation, frames := range *s.KeyFrames {
			fmt.Fprintf(b, "     - animation %s: %d frames\n", animation, len(frames))
		}
	} else {
		fmt.Fprintf(b, "   - key frames: none\n")
	}
	if s.Properties != nil {
		fmt.Fprintf(b, "   - properties:\n")
		for key, value := range *s.Properties {
			fmt.Fprintf(b, "     - %s: %s\n", key, value)
		}
	} else {
		fmt.Fprintf(b, "   - properties: none\n")
	}
}
