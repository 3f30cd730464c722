// Package cfb reads Microsoft Compound File Binary (OLE/CFB) containers,
// the stream container format Altium uses for .SchDoc files. The whole file
// is loaded into memory; named streams are extracted by walking the FAT and
// mini-FAT sector chains.
package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"unicode/utf16"
)

// Sector chain sentinels.
const (
	endOfChain = 0xFFFFFFFE
	freeSect   = 0xFFFFFFFF
	fatSect    = 0xFFFFFFFD
	difSect    = 0xFFFFFFFC
)

// maxChainLen caps sector chain walks so corrupt or malicious containers
// cannot spin the reader indefinitely.
const maxChainLen = 1_000_000

const (
	headerSize       = 512
	dirEntrySize     = 128
	embeddedDifatLen = 109
)

var magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// dirEntry is one 128-byte directory entry.
type dirEntry struct {
	name        string
	objectType  byte
	startSector uint32
	size        uint32
}

const (
	typeStream  = 2
	typeRootDir = 5
)

// Reader provides random access to the named streams of one container.
type Reader struct {
	data           []byte
	sectorSize     int
	miniSectorSize int
	miniCutoff     uint32
	fat            []uint32
	miniFat        []uint32
	dir            []dirEntry
	miniStream     []byte
}

// Open loads the container at path into memory and parses its header, FAT,
// mini-FAT, and directory. Any structural inconsistency is fatal.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return New(data)
}

// New parses an in-memory container image.
func New(data []byte) (*Reader, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("file too short for compound file header (%d bytes)", len(data))
	}
	if !bytes.Equal(data[:8], magic) {
		return nil, fmt.Errorf("not a compound file: bad magic % X", data[:8])
	}
	if bo := binary.LittleEndian.Uint16(data[28:]); bo != 0xFFFE {
		return nil, fmt.Errorf("unsupported byte order marker 0x%04X", bo)
	}

	sectorExp := binary.LittleEndian.Uint16(data[30:])
	miniExp := binary.LittleEndian.Uint16(data[32:])
	if sectorExp < 7 || sectorExp > 20 || miniExp >= sectorExp {
		return nil, fmt.Errorf("implausible sector sizes (exp %d, mini exp %d)", sectorExp, miniExp)
	}

	r := &Reader{
		data:           data,
		sectorSize:     1 << sectorExp,
		miniSectorSize: 1 << miniExp,
		miniCutoff:     binary.LittleEndian.Uint32(data[56:]),
	}

	if err := r.buildFAT(); err != nil {
		return nil, err
	}
	if err := r.buildMiniFAT(); err != nil {
		return nil, err
	}
	if err := r.readDirectory(); err != nil {
		return nil, err
	}
	return r, nil
}

// sector returns the raw bytes of one sector. Sector 0 starts immediately
// after the 512-byte header regardless of sector size.
func (r *Reader) sector(id uint32) ([]byte, error) {
	start := headerSize + int64(id)*int64(r.sectorSize)
	end := start + int64(r.sectorSize)
	if start < 0 || end > int64(len(r.data)) {
		return nil, fmt.Errorf("sector %d out of bounds", id)
	}
	return r.data[start:end], nil
}

// buildFAT concatenates the FAT sectors named by the embedded DIFAT and any
// chained DIFAT sectors.
func (r *Reader) buildFAT() error {
	header := r.data[:headerSize]
	var fatSectors []uint32
	for i := 0; i < embeddedDifatLen; i++ {
		ref := binary.LittleEndian.Uint32(header[76+4*i:])
		if ref == freeSect || ref == endOfChain {
			continue
		}
		fatSectors = append(fatSectors, ref)
	}

	difatStart := binary.LittleEndian.Uint32(header[68:])
	refsPerSector := r.sectorSize/4 - 1
	sect := difatStart
	for n := 0; sect != endOfChain && sect != freeSect; n++ {
		if n >= maxChainLen {
			return fmt.Errorf("DIFAT chain exceeds %d sectors", maxChainLen)
		}
		raw, err := r.sector(sect)
		if err != nil {
			return fmt.Errorf("bad DIFAT chain: %w", err)
		}
		for i := 0; i < refsPerSector; i++ {
			ref := binary.LittleEndian.Uint32(raw[4*i:])
			if ref == freeSect || ref == endOfChain {
				continue
			}
			fatSectors = append(fatSectors, ref)
		}
		sect = binary.LittleEndian.Uint32(raw[4*refsPerSector:])
	}

	entriesPerSector := r.sectorSize / 4
	r.fat = make([]uint32, 0, len(fatSectors)*entriesPerSector)
	for _, id := range fatSectors {
		raw, err := r.sector(id)
		if err != nil {
			return fmt.Errorf("bad FAT sector: %w", err)
		}
		for i := 0; i < entriesPerSector; i++ {
			r.fat = append(r.fat, binary.LittleEndian.Uint32(raw[4*i:]))
		}
	}
	return nil
}

// buildMiniFAT walks the chain starting at the header's mini-FAT sector.
func (r *Reader) buildMiniFAT() error {
	start := binary.LittleEndian.Uint32(r.data[60:])
	if start == endOfChain || start == freeSect {
		return nil
	}
	raw, err := r.readChain(start, 0)
	if err != nil {
		return fmt.Errorf("bad mini-FAT chain: %w", err)
	}
	r.miniFat = make([]uint32, len(raw)/4)
	for i := range r.miniFat {
		r.miniFat[i] = binary.LittleEndian.Uint32(raw[4*i:])
	}
	return nil
}

// readChain follows a FAT chain from start and returns the concatenated
// sector bytes, truncated to size when size > 0.
func (r *Reader) readChain(start uint32, size uint32) ([]byte, error) {
	var out []byte
	sect := start
	for n := 0; !isChainEnd(sect); n++ {
		if n >= maxChainLen {
			return nil, fmt.Errorf("sector chain exceeds %d sectors", maxChainLen)
		}
		raw, err := r.sector(sect)
		if err != nil {
			return nil, err
		}
		out = append(out, raw...)
		if int(sect) >= len(r.fat) {
			return nil, fmt.Errorf("sector %d has no FAT entry", sect)
		}
		sect = r.fat[sect]
	}
	if size > 0 {
		if uint32(len(out)) < size {
			return nil, fmt.Errorf("chain holds %d bytes, stream claims %d", len(out), size)
		}
		out = out[:size]
	}
	return out, nil
}

// readMiniChain follows a mini-FAT chain inside the mini stream.
func (r *Reader) readMiniChain(start uint32, size uint32) ([]byte, error) {
	var out []byte
	sect := start
	for n := 0; !isChainEnd(sect); n++ {
		if n >= maxChainLen {
			return nil, fmt.Errorf("mini chain exceeds %d sectors", maxChainLen)
		}
		off := int(sect) * r.miniSectorSize
		end := off + r.miniSectorSize
		if off < 0 || end > len(r.miniStream) {
			return nil, fmt.Errorf("mini sector %d out of bounds", sect)
		}
		out = append(out, r.miniStream[off:end]...)
		if int(sect) >= len(r.miniFat) {
			return nil, fmt.Errorf("mini sector %d has no mini-FAT entry", sect)
		}
		sect = r.miniFat[sect]
	}
	if uint32(len(out)) < size {
		return nil, fmt.Errorf("mini chain holds %d bytes, stream claims %d", len(out), size)
	}
	return out[:size], nil
}

func isChainEnd(sect uint32) bool {
	switch sect {
	case endOfChain, freeSect, fatSect, difSect:
		return true
	}
	return false
}

// readDirectory walks the directory chain and materializes the mini stream
// from the root entry.
func (r *Reader) readDirectory() error {
	start := binary.LittleEndian.Uint32(r.data[48:])
	raw, err := r.readChain(start, 0)
	if err != nil {
		return fmt.Errorf("bad directory chain: %w", err)
	}
	for off := 0; off+dirEntrySize <= len(raw); off += dirEntrySize {
		entry := raw[off : off+dirEntrySize]
		nameLen := int(binary.LittleEndian.Uint16(entry[64:]))
		objectType := entry[66]
		if nameLen < 2 || nameLen > 64 || objectType == 0 {
			continue
		}
		codes := make([]uint16, (nameLen-2)/2)
		for i := range codes {
			codes[i] = binary.LittleEndian.Uint16(entry[2*i:])
		}
		r.dir = append(r.dir, dirEntry{
			name:        string(utf16.Decode(codes)),
			objectType:  objectType,
			startSector: binary.LittleEndian.Uint32(entry[116:]),
			size:        binary.LittleEndian.Uint32(entry[120:]),
		})
	}
	if len(r.dir) == 0 {
		return fmt.Errorf("directory has no entries")
	}

	// The first entry is the root; its own chain is the mini stream that
	// backs every stream smaller than the mini-stream cutoff.
	root := r.dir[0]
	if root.objectType != typeRootDir {
		return fmt.Errorf("first directory entry is not the root (type %d)", root.objectType)
	}
	if root.startSector != endOfChain && root.startSector != freeSect {
		mini, err := r.readChain(root.startSector, root.size)
		if err != nil {
			return fmt.Errorf("bad mini stream chain: %w", err)
		}
		r.miniStream = mini
	}
	return nil
}

// ListStreams returns the names of all streams in the container.
func (r *Reader) ListStreams() []string {
	var names []string
	for _, e := range r.dir {
		if e.objectType == typeStream {
			names = append(names, e.name)
		}
	}
	return names
}

// ReadStream returns the raw bytes of the named stream. The name match is
// case-insensitive. Streams smaller than the mini-stream cutoff live in the
// mini stream; larger ones in ordinary sectors.
func (r *Reader) ReadStream(name string) ([]byte, error) {
	for _, e := range r.dir {
		if e.objectType != typeStream || !strings.EqualFold(e.name, name) {
			continue
		}
		if e.size == 0 {
			return nil, nil
		}
		if e.size < r.miniCutoff {
			data, err := r.readMiniChain(e.startSector, e.size)
			if err != nil {
				return nil, fmt.Errorf("stream %q: %w", name, err)
			}
			return data, nil
		}
		data, err := r.readChain(e.startSector, e.size)
		if err != nil {
			return nil, fmt.Errorf("stream %q: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("stream %q not found (have: %s)", name, strings.Join(r.ListStreams(), ", "))
}
