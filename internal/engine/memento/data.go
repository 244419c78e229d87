package memento

import (
	"github.com/dshills/voxstorm/internal/engine/snapshot"
	"github.com/dshills/voxstorm/internal/engine/voxel"
)

// Data is a compressed snapshot of a node's voxel volume bound to the region
// it was captured from. The zero value and EmptyData are "no snapshot". Data
// owns its byte buffer exclusively; Clone deep-copies it.
type Data struct {
	compressed []byte
	region     voxel.Region
}

// EmptyData returns a Data carrying no snapshot.
func EmptyData() Data {
	return Data{region: voxel.InvalidRegion}
}

// DataFromVolume captures and compresses the volume's full buffer. A nil
// volume or a codec failure yields EmptyData; recording proceeds without a
// snapshot in that case.
//
// Partial-region snapshots are disabled: the region argument is accepted
// from the mark path but the captured region is always the volume's own.
func DataFromVolume(codec snapshot.Codec, volume *voxel.Volume, _ voxel.Region) Data {
	if volume == nil {
		return EmptyData()
	}
	compressed, err := codec.Compress(volume.Data())
	if err != nil {
		return EmptyData()
	}
	return Data{compressed: compressed, region: volume.Region()}
}

// ToVolume decompresses the snapshot and copies its voxels into target,
// clipped by the stored region. Reports false when the data is empty or the
// compressed stream cannot be inflated; target is untouched then.
func (d Data) ToVolume(codec snapshot.Codec, target *voxel.Volume) bool {
	if !d.HasVolume() || target == nil {
		return false
	}
	raw, err := codec.Decompress(d.compressed, d.region.Voxels()*voxel.VoxelSize)
	if err != nil {
		return false
	}
	src, err := voxel.FromData(raw, d.region)
	if err != nil {
		return false
	}
	src.CopyInto(target)
	return true
}

// NewVolume inflates the snapshot into a freshly allocated volume spanning
// the stored region. Reports false when the data is empty or corrupt.
func (d Data) NewVolume(codec snapshot.Codec) (*voxel.Volume, bool) {
	if !d.HasVolume() {
		return nil, false
	}
	raw, err := codec.Decompress(d.compressed, d.region.Voxels()*voxel.VoxelSize)
	if err != nil {
		return nil, false
	}
	v, err := voxel.FromData(raw, d.region)
	if err != nil {
		return nil, false
	}
	return v, true
}

// HasVolume reports whether a snapshot was captured.
func (d Data) HasVolume() bool {
	return len(d.compressed) > 0
}

// Region returns the region the snapshot was captured from.
func (d Data) Region() voxel.Region {
	return d.region
}

// Size returns the compressed size in bytes.
func (d Data) Size() int {
	return len(d.compressed)
}

// UncompressedSize returns the size of the inflated voxel buffer.
func (d Data) UncompressedSize() int {
	return d.region.Voxels() * voxel.VoxelSize
}

// Clone returns a deep copy owning its own byte buffer.
func (d Data) Clone() Data {
	out := Data{region: d.region}
	if d.compressed != nil {
		out.compressed = make([]byte, len(d.compressed))
		copy(out.compressed, d.compressed)
	}
	return out
}
