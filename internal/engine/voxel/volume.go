package voxel

import "fmt"

// VoxelSize is the number of bytes one voxel occupies in a volume buffer.
const VoxelSize = 2

// Voxel is a single cell value: a palette color index plus flag bits.
type Voxel struct {
	Color uint8
	Flags uint8
}

// Empty reports whether the voxel is the zero (air) voxel.
func (v Voxel) Empty() bool {
	return v.Color == 0 && v.Flags == 0
}

// Volume is a dense voxel buffer bound to a region. The buffer layout is
// X-major within Z within Y, VoxelSize bytes per voxel.
type Volume struct {
	region Region
	data   []byte
}

// New creates a zeroed volume spanning the given region.
// Returns nil if the region is invalid.
func New(region Region) *Volume {
	if !region.Valid() {
		return nil
	}
	return &Volume{
		region: region,
		data:   make([]byte, region.Voxels()*VoxelSize),
	}
}

// FromData constructs a volume over an existing buffer. The buffer length
// must be exactly region.Voxels() * VoxelSize; the volume takes ownership.
func FromData(data []byte, region Region) (*Volume, error) {
	if !region.Valid() {
		return nil, fmt.Errorf("volume from data: %s", region)
	}
	want := region.Voxels() * VoxelSize
	if len(data) != want {
		return nil, fmt.Errorf("volume from data: buffer size %d, want %d for %s", len(data), want, region)
	}
	return &Volume{region: region, data: data}, nil
}

// Region returns the region the volume spans.
func (v *Volume) Region() Region {
	return v.region
}

// Data returns the raw voxel buffer. Callers must not resize it.
func (v *Volume) Data() []byte {
	return v.data
}

// index returns the buffer offset for a point, or -1 when outside the region.
func (v *Volume) index(p IVec3) int {
	if !v.region.Contains(p) {
		return -1
	}
	w := int(v.region.Width())
	d := int(v.region.Depth())
	x := int(p.X - v.region.Min.X)
	y := int(p.Y - v.region.Min.Y)
	z := int(p.Z - v.region.Min.Z)
	return ((y*d+z)*w + x) * VoxelSize
}

// At returns the voxel at the given point; the zero voxel outside the region.
func (v *Volume) At(p IVec3) Voxel {
	i := v.index(p)
	if i < 0 {
		return Voxel{}
	}
	return Voxel{Color: v.data[i], Flags: v.data[i+1]}
}

// Set writes the voxel at the given point. Reports whether the point was
// inside the region.
func (v *Volume) Set(p IVec3, vox Voxel) bool {
	i := v.index(p)
	if i < 0 {
		return false
	}
	v.data[i] = vox.Color
	v.data[i+1] = vox.Flags
	return true
}

// Clone returns a deep copy.
func (v *Volume) Clone() *Volume {
	if v == nil {
		return nil
	}
	data := make([]byte, len(v.data))
	copy(data, v.data)
	return &Volume{region: v.region, data: data}
}

// CopyInto copies the overlapping voxels of v into dst, clipped by the
// intersection of the two regions.
func (v *Volume) CopyInto(dst *Volume) {
	if v == nil || dst == nil {
		return
	}
	overlap := v.region.Intersect(dst.region)
	if !overlap.Valid() {
		return
	}
	for y := overlap.Min.Y; y <= overlap.Max.Y; y++ {
		for z := overlap.Min.Z; z <= overlap.Max.Z; z++ {
			for x := overlap.Min.X; x <= overlap.Max.X; x++ {
				p := IVec3{x, y, z}
				dst.Set(p, v.At(p))
			}
		}
	}
}
