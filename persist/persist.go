// Package persist stores a built kd-tree and restores it later without
// rebuilding.
//
// A snapshot is a little-endian FileHeader followed by a zstd stream holding
// one record per level-order slot (an occupancy byte, then Dims coordinates
// widened to 8 bytes each) and a trailing CRC32 (IEEE) of those records. The
// exact slot layout is preserved, so a restored tree answers every query
// identically to the saved one.
package persist

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/TrevorS/kdtree"
)

// Save writes a snapshot of t to w.
func Save[C kdtree.Coordinate, D kdtree.Scalar](w io.Writer, t *kdtree.Tree[C, D]) error {
	kind := kindOf[C]()
	slots := t.Array()
	bounds := t.Bounds()
	header := FileHeader{
		Magic:   MagicNumber,
		Version: Version,
		Kind:    kind,
		Dims:    uint32(t.Dims()),
		Count:   uint64(t.Len()),
		Slots:   uint64(len(slots)),
		Min:     encode(kind, bounds.Min),
		Max:     encode(kind, bounds.Max),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("persist: write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("persist: create zstd writer: %w", err)
	}

	crc := crc32.NewIEEE()
	bw := bufio.NewWriterSize(io.MultiWriter(enc, crc), 1<<16)
	record := make([]byte, 1+8*t.Dims())
	for _, p := range slots {
		if p == nil {
			if err := bw.WriteByte(0); err != nil {
				enc.Close()
				return fmt.Errorf("persist: write slot: %w", err)
			}
			continue
		}
		record[0] = 1
		for d, v := range p {
			binary.LittleEndian.PutUint64(record[1+8*d:], encode(kind, v))
		}
		if _, err := bw.Write(record); err != nil {
			enc.Close()
			return fmt.Errorf("persist: write slot: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return fmt.Errorf("persist: flush body: %w", err)
	}

	if err := binary.Write(enc, binary.LittleEndian, crc.Sum32()); err != nil {
		enc.Close()
		return fmt.Errorf("persist: write checksum: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("persist: close zstd writer: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save and restores the tree with the given
// metric, which should be the one the tree was built with. logger may be nil.
//
// Errors caused by malformed input wrap kdtree.ErrInvalidSnapshot.
func Load[C kdtree.Coordinate, D kdtree.Scalar](r io.Reader, metric kdtree.Metric[C, D], logger *kdtree.Logger) (*kdtree.Tree[C, D], error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", kdtree.ErrInvalidSnapshot, err)
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: %w: got 0x%08x", kdtree.ErrInvalidSnapshot, ErrInvalidMagic, header.Magic)
	}
	if header.Version != Version {
		return nil, fmt.Errorf("%w: %w: got %d", kdtree.ErrInvalidSnapshot, ErrInvalidVersion, header.Version)
	}
	kind := kindOf[C]()
	if header.Kind != kind {
		return nil, fmt.Errorf("%w: %w: snapshot 0x%02x, requested 0x%02x", kdtree.ErrInvalidSnapshot, ErrKindMismatch, header.Kind, kind)
	}
	if err := checkHeader(&header); err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("persist: create zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 1<<16)
	crc := crc32.NewIEEE()
	body := io.TeeReader(br, crc)

	// Slots and data grow with the records actually read, so a lying header
	// cannot force a large allocation up front.
	dims := int(header.Dims)
	var (
		offsets []int // start of each slot in data, -1 when empty
		data    []C
		word    [8]byte
		flag    [1]byte
	)
	for i := uint64(0); i < header.Slots; i++ {
		if _, err := io.ReadFull(body, flag[:]); err != nil {
			return nil, fmt.Errorf("%w: read slot %d: %w", kdtree.ErrInvalidSnapshot, i, err)
		}
		if flag[0] == 0 {
			offsets = append(offsets, -1)
			continue
		}
		offsets = append(offsets, len(data))
		for d := 0; d < dims; d++ {
			if _, err := io.ReadFull(body, word[:]); err != nil {
				return nil, fmt.Errorf("%w: read slot %d: %w", kdtree.ErrInvalidSnapshot, i, err)
			}
			data = append(data, decode[C](kind, binary.LittleEndian.Uint64(word[:])))
		}
	}

	slots := make([][]C, len(offsets))
	for i, off := range offsets {
		if off >= 0 {
			slots[i] = data[off : off+dims : off+dims]
		}
	}

	var want uint32
	if err := binary.Read(br, binary.LittleEndian, &want); err != nil {
		return nil, fmt.Errorf("%w: read checksum: %w", kdtree.ErrInvalidSnapshot, err)
	}
	if got := crc.Sum32(); got != want {
		return nil, fmt.Errorf("%w: %w: computed 0x%08x, stored 0x%08x", kdtree.ErrInvalidSnapshot, ErrChecksumMismatch, got, want)
	}

	cfg := kdtree.Config[C]{
		Bounds: &kdtree.Bounds[C]{
			Min: decode[C](kind, header.Min),
			Max: decode[C](kind, header.Max),
		},
		Logger: logger,
	}
	t, err := kdtree.Restore(dims, slots, metric, cfg)
	if err != nil {
		return nil, err
	}
	if uint64(t.Len()) != header.Count {
		return nil, fmt.Errorf("%w: header count %d, restored %d points", kdtree.ErrInvalidSnapshot, header.Count, t.Len())
	}
	return t, nil
}

// checkHeader rejects headers whose sizes cannot describe a tree Save
// wrote: Slots must be a power of two >= 2 holding at most 2*Count+2 slots,
// and Count*Dims coordinates must fit in an int.
func checkHeader(h *FileHeader) error {
	switch {
	case h.Dims == 0 || h.Count == 0:
		return fmt.Errorf("%w: empty header (dims=%d count=%d)", kdtree.ErrInvalidSnapshot, h.Dims, h.Count)
	case h.Count > uint64(math.MaxInt)/uint64(h.Dims):
		return fmt.Errorf("%w: count %d x dims %d overflows", kdtree.ErrInvalidSnapshot, h.Count, h.Dims)
	case h.Slots < 2 || h.Slots&(h.Slots-1) != 0:
		return fmt.Errorf("%w: slots must be a power of two >= 2, got %d", kdtree.ErrInvalidSnapshot, h.Slots)
	case h.Count > h.Slots || h.Slots > 2*h.Count+2:
		return fmt.Errorf("%w: %d slots cannot hold %d points", kdtree.ErrInvalidSnapshot, h.Slots, h.Count)
	}
	return nil
}

// SaveFile writes a snapshot of t to path. The file is written to a
// temporary name in the same directory and renamed into place.
func SaveFile[C kdtree.Coordinate, D kdtree.Scalar](path string, t *kdtree.Tree[C, D]) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("persist: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := Save(tmp, t); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("persist: sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("persist: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("persist: rename: %w", err)
	}
	return nil
}

// LoadFile reads a snapshot from path. See Load.
func LoadFile[C kdtree.Coordinate, D kdtree.Scalar](path string, metric kdtree.Metric[C, D], logger *kdtree.Logger) (*kdtree.Tree[C, D], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: open: %w", err)
	}
	defer f.Close()
	return Load(bufio.NewReader(f), metric, logger)
}
