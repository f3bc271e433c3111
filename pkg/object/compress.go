package object

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Compression selects how object records are encoded at rest.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// zstdMagic is the frame magic number that starts every zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ParseCompression validates a configured compression name. The empty
// string means CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd:
		return CompressionZstd, nil
	default:
		return "", fmt.Errorf("unknown compression %q", s)
	}
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// encodeRecord applies the store's compression to a raw envelope.
func encodeRecord(c Compression, raw []byte) ([]byte, error) {
	if c != CompressionZstd {
		return raw, nil
	}
	out, err := compressZstd(raw)
	if err != nil {
		return nil, fmt.Errorf("compress object: %w", err)
	}
	return out, nil
}

// decodeRecord undoes encodeRecord. Plain envelopes always begin with an
// ASCII type name, so the zstd magic is unambiguous and stores written with
// different settings stay readable.
func decodeRecord(stored []byte) ([]byte, error) {
	if !bytes.HasPrefix(stored, zstdMagic) {
		return stored, nil
	}
	out, err := decompressZstd(stored)
	if err != nil {
		return nil, fmt.Errorf("decompress object: %w", err)
	}
	return out, nil
}
