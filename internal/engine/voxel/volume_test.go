package voxel

import "testing"

func TestVolumeSetAt(t *testing.T) {
	v := New(CubeRegion(3))
	p := IVec3{X: 1, Y: 2, Z: 0}
	if !v.Set(p, Voxel{Color: 9, Flags: 1}) {
		t.Fatal("set inside the region failed")
	}
	got := v.At(p)
	if got.Color != 9 || got.Flags != 1 {
		t.Errorf("At(%v) = %+v", p, got)
	}
	if v.Set(IVec3{X: 3, Y: 0, Z: 0}, Voxel{Color: 1}) {
		t.Error("set outside the region must fail")
	}
	if !v.At(IVec3{X: 5, Y: 5, Z: 5}).Empty() {
		t.Error("At outside the region must return the empty voxel")
	}
}

func TestVolumeOffsetRegion(t *testing.T) {
	v := New(NewRegion(IVec3{-1, -1, -1}, IVec3{1, 1, 1}))
	p := IVec3{X: -1, Y: 0, Z: 1}
	v.Set(p, Voxel{Color: 3})
	if got := v.At(p).Color; got != 3 {
		t.Errorf("At(%v).Color = %d, want 3", p, got)
	}
}

func TestVolumeFromData(t *testing.T) {
	region := CubeRegion(2)
	data := make([]byte, region.Voxels()*VoxelSize)
	data[0] = 42
	v, err := FromData(data, region)
	if err != nil {
		t.Fatalf("FromData: %v", err)
	}
	if got := v.At(region.Min).Color; got != 42 {
		t.Errorf("first voxel color = %d, want 42", got)
	}

	if _, err := FromData(make([]byte, 3), region); err == nil {
		t.Error("mismatched buffer size must fail")
	}
	if _, err := FromData(nil, InvalidRegion); err == nil {
		t.Error("invalid region must fail")
	}
}

func TestVolumeClone(t *testing.T) {
	v := New(CubeRegion(2))
	v.Set(IVec3{}, Voxel{Color: 5})
	c := v.Clone()
	v.Set(IVec3{}, Voxel{Color: 6})
	if got := c.At(IVec3{}).Color; got != 5 {
		t.Errorf("clone voxel = %d, want 5", got)
	}
}

func TestVolumeCopyInto(t *testing.T) {
	src := New(CubeRegion(2))
	for y := int32(0); y < 2; y++ {
		for z := int32(0); z < 2; z++ {
			for x := int32(0); x < 2; x++ {
				src.Set(IVec3{x, y, z}, Voxel{Color: 1})
			}
		}
	}
	dst := New(NewRegion(IVec3{1, 1, 1}, IVec3{3, 3, 3}))
	src.CopyInto(dst)
	if got := dst.At(IVec3{1, 1, 1}).Color; got != 1 {
		t.Errorf("overlap voxel = %d, want 1", got)
	}
	if got := dst.At(IVec3{2, 2, 2}).Color; got != 0 {
		t.Errorf("non-overlap voxel = %d, want 0", got)
	}

	// disjoint regions leave dst untouched
	far := New(NewRegion(IVec3{10, 10, 10}, IVec3{11, 11, 11}))
	src.CopyInto(far)
	for _, b := range far.Data() {
		if b != 0 {
			t.Fatal("disjoint copy wrote data")
		}
	}
}
