package record

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the body compression of a packet log.
type Codec uint8

const (
	// CodecNone stores the body uncompressed.
	CodecNone Codec = iota
	// CodecZstd compresses the body with Zstandard.
	CodecZstd
	// CodecLZ4 compresses the body with the LZ4 frame format.
	CodecLZ4
)

// String returns the codec name.
func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// ParseCodec maps a codec name to its identifier.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "none", "":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

func (c Codec) compress(raw []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return raw, nil

	case CodecZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("record: zstd: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil

	case CodecLZ4:
		var buf bytes.Buffer
		zw := lz4.NewWriter(&buf)
		if _, err := zw.Write(raw); err != nil {
			return nil, fmt.Errorf("record: lz4: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("record: lz4: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
	}
}

func (c Codec) decompress(body []byte) ([]byte, error) {
	switch c {
	case CodecNone:
		return body, nil

	case CodecZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("record: zstd: %w", err)
		}
		defer dec.Close()
		raw, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("record: zstd: %w", err)
		}
		return raw, nil

	case CodecLZ4:
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("record: lz4: %w", err)
		}
		return raw, nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodec, c)
	}
}
