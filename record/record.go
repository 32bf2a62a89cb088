// Package record persists compressor output as a framed packet log: a
// fixed header carrying a codec identifier, packet count, and an
// XXH64 integrity checksum, followed by a (possibly compressed) body of
// 8-byte packet records. The log is the archival form of the pipeline's
// output channel; round-tripping through it is lossless for all four
// packet tags and the frame markers.
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/cwbudde/algo-neurostream/fixed"
	"github.com/cwbudde/algo-neurostream/stream"
)

// Sentinel errors surfaced by Read.
var (
	ErrBadMagic     = errors.New("record: bad magic")
	ErrBadVersion   = errors.New("record: unsupported version")
	ErrUnknownCodec = errors.New("record: unknown codec")
	ErrChecksum     = errors.New("record: checksum mismatch")
	ErrTruncated    = errors.New("record: truncated body")
)

var magic = [4]byte{'N', 'S', 'P', 'K'}

const (
	version    = 1
	headerSize = 4 + 1 + 1 + 2 + 4 + 8
	packetSize = 8

	flagLast = 1 << 0
)

// Write encodes packets to w using the given body codec.
func Write(w io.Writer, packets []stream.Packet, codec Codec) error {
	raw := make([]byte, len(packets)*packetSize)
	for i, p := range packets {
		rec := raw[i*packetSize:]
		binary.LittleEndian.PutUint32(rec, uint32(p.Payload))
		rec[4] = byte(p.Tag)
		if p.Last {
			rec[5] = flagLast
		}
	}

	body, err := codec.compress(raw)
	if err != nil {
		return err
	}

	var hdr [headerSize]byte
	copy(hdr[:4], magic[:])
	hdr[4] = version
	hdr[5] = byte(codec)
	binary.LittleEndian.PutUint32(hdr[8:], uint32(len(packets)))
	binary.LittleEndian.PutUint64(hdr[12:], xxhash.Sum64(raw))

	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("record: write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("record: write body: %w", err)
	}
	return nil
}

// Read decodes a packet log from r, verifying the header checksum.
func Read(r io.Reader) ([]stream.Packet, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("record: read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return nil, ErrBadMagic
	}
	if hdr[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, hdr[4])
	}
	codec := Codec(hdr[5])
	count := binary.LittleEndian.Uint32(hdr[8:])
	sum := binary.LittleEndian.Uint64(hdr[12:])

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("record: read body: %w", err)
	}
	raw, err := codec.decompress(body)
	if err != nil {
		return nil, err
	}
	if len(raw) != int(count)*packetSize {
		return nil, fmt.Errorf("%w: %d bytes for %d packets", ErrTruncated, len(raw), count)
	}
	if xxhash.Sum64(raw) != sum {
		return nil, ErrChecksum
	}

	packets := make([]stream.Packet, count)
	for i := range packets {
		rec := raw[i*packetSize:]
		packets[i] = stream.Packet{
			Payload: fixed.Sample(binary.LittleEndian.Uint32(rec)),
			Tag:     stream.Tag(rec[4]),
			Last:    rec[5]&flagLast != 0,
		}
	}
	return packets, nil
}

// WriteFile encodes packets to the named file.
func WriteFile(path string, packets []stream.Packet, codec Codec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if err := Write(f, packets, codec); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("record: close: %w", err)
	}
	return nil
}

// ReadFile decodes a packet log from the named file.
func ReadFile(path string) ([]stream.Packet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("record: %w", err)
	}
	defer f.Close()
	return Read(f)
}
