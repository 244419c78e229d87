package voxel

import "fmt"

// IVec3 is an integer point in volume space.
type IVec3 struct {
	X, Y, Z int32
}

// Region is an axis-aligned integer box spanning Min..Max inclusive.
type Region struct {
	Min IVec3
	Max IVec3
}

// InvalidRegion is the distinguished empty region. Its voxel count is zero
// and Valid() reports false.
var InvalidRegion = Region{Min: IVec3{0, 0, 0}, Max: IVec3{-1, -1, -1}}

// NewRegion creates a region from two corner points.
func NewRegion(min, max IVec3) Region {
	return Region{Min: min, Max: max}
}

// CubeRegion creates a cubic region with the given edge length starting at
// the origin. Used heavily by tests.
func CubeRegion(edge int32) Region {
	return Region{Min: IVec3{0, 0, 0}, Max: IVec3{edge - 1, edge - 1, edge - 1}}
}

// Valid reports whether the region spans at least one voxel on every axis.
func (r Region) Valid() bool {
	return r.Max.X >= r.Min.X && r.Max.Y >= r.Min.Y && r.Max.Z >= r.Min.Z
}

// Width returns the extent in voxels along the X axis.
func (r Region) Width() int32 {
	return r.Max.X - r.Min.X + 1
}

// Height returns the extent in voxels along the Y axis.
func (r Region) Height() int32 {
	return r.Max.Y - r.Min.Y + 1
}

// Depth returns the extent in voxels along the Z axis.
func (r Region) Depth() int32 {
	return r.Max.Z - r.Min.Z + 1
}

// Voxels returns the number of voxels the region spans, zero if invalid.
func (r Region) Voxels() int {
	if !r.Valid() {
		return 0
	}
	return int(r.Width()) * int(r.Height()) * int(r.Depth())
}

// Contains reports whether the point lies inside the region.
func (r Region) Contains(p IVec3) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y &&
		p.Z >= r.Min.Z && p.Z <= r.Max.Z
}

// ContainsRegion reports whether other lies fully inside the region.
func (r Region) ContainsRegion(other Region) bool {
	return r.Contains(other.Min) && r.Contains(other.Max)
}

// Intersect returns the overlapping region, or InvalidRegion if the two
// regions do not overlap.
func (r Region) Intersect(other Region) Region {
	out := Region{
		Min: IVec3{max32(r.Min.X, other.Min.X), max32(r.Min.Y, other.Min.Y), max32(r.Min.Z, other.Min.Z)},
		Max: IVec3{min32(r.Max.X, other.Max.X), min32(r.Max.Y, other.Max.Y), min32(r.Max.Z, other.Max.Z)},
	}
	if !out.Valid() {
		return InvalidRegion
	}
	return out
}

// Equal reports coordinate equality.
func (r Region) Equal(other Region) bool {
	return r.Min == other.Min && r.Max == other.Max
}

// String returns a compact mins/maxs representation.
func (r Region) String() string {
	if !r.Valid() {
		return "region(invalid)"
	}
	return fmt.Sprintf("region(mins(%d:%d:%d)/maxs(%d:%d:%d))",
		r.Min.X, r.Min.Y, r.Min.Z, r.Max.X, r.Max.Y, r.Max.Z)
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
