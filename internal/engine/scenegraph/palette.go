package scenegraph

import (
	"encoding/binary"
	"hash/fnv"
)

// PaletteSize is the number of color slots in a palette.
const PaletteSize = 256

// Palette is a fixed table of RGBA colors. It is a value type: assignment
// copies the whole table.
type Palette struct {
	Colors     [PaletteSize]uint32
	ColorCount int
}

// SetColor sets one palette slot, growing ColorCount as needed.
func (p *Palette) SetColor(index int, rgba uint32) {
	if index < 0 || index >= PaletteSize {
		return
	}
	p.Colors[index] = rgba
	if index >= p.ColorCount {
		p.ColorCount = index + 1
	}
}

// Hash returns a stable hash over the used color slots.
func (p Palette) Hash() uint64 {
	h := fnv.New64a()
	var buf [4]byte
	for i := 0; i < p.ColorCount; i++ {
		binary.LittleEndian.PutUint32(buf[:], p.Colors[i])
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Equal compares two palettes by content.
func (p Palette) Equal(other Palette) bool {
	if p.ColorCount != other.ColorCount {
		return false
	}
	for i := 0; i < p.ColorCount; i++ {
		if p.Colors[i] != other.Colors[i] {
			return false
		}
	}
	return true
}
