// Package snapshot compresses voxel buffers for history snapshots.
//
// The codecs are stateless and safe for concurrent use. Zlib is the default;
// zstd trades a larger dependency for faster compression of big volumes.
package snapshot

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Codec compresses and decompresses raw voxel buffers.
type Codec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress inflates src into a buffer of exactly uncompressedSize
	// bytes. It fails if the stream is truncated or corrupt.
	Decompress(src []byte, uncompressedSize int) ([]byte, error)

	// Name returns the codec name used in configuration files.
	Name() string
}

// ForName returns the codec registered under the given config name.
func ForName(name string) (Codec, error) {
	switch name {
	case "", "zlib":
		return ZlibCodec{}, nil
	case "zstd":
		return ZstdCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot codec %q", name)
	}
}

// ZlibCodec is a streaming deflate codec.
type ZlibCodec struct{}

// Name returns "zlib".
func (ZlibCodec) Name() string { return "zlib" }

// Compress deflates src with best compression.
func (ZlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if _, err := zw.Write(src); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress inflates src into exactly uncompressedSize bytes.
func (ZlibCodec) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	defer zr.Close()
	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return out, nil
}

// ZstdCodec compresses with zstandard at the default speed level.
type ZstdCodec struct{}

// Name returns "zstd".
func (ZstdCodec) Name() string { return "zstd" }

// Compress encodes src as a single zstd frame.
func (ZstdCodec) Compress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	out := enc.EncodeAll(src, nil)
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return out, nil
}

// Decompress decodes a zstd frame into exactly uncompressedSize bytes.
func (ZstdCodec) Decompress(src []byte, uncompressedSize int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, make([]byte, 0, uncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("zstd decompress: got %d bytes, want %d", len(out), uncompressedSize)
	}
	return out, nil
}
