package fontname

import (
	"encoding/binary"
	"fmt"
)

// Scaler types found at the start of an sfnt file or collection.
const (
	scalerTrueType   = 0x00010000
	scalerCFF        = 0x4F54544F // "OTTO"
	scalerApple      = 0x74727565 // "true"
	scalerCollection = 0x74746366 // "ttcf"
)

// maxTables bounds the table count of a single face. The largest real fonts
// carry a few dozen tables.
const maxTables = 280

type tableRecord struct {
	Offset uint32
	Length uint32
}

// directory is the table of contents of one face.
type directory map[string]tableRecord

func isSfnt(scaler uint32) bool {
	return scaler == scalerTrueType || scaler == scalerCFF || scaler == scalerApple
}

func isCollection(data []byte) bool {
	return len(data) >= 4 && binary.BigEndian.Uint32(data) == scalerCollection
}

// faceOffsets returns the offset of every face's table directory. A plain
// sfnt file has a single face at offset 0.
func faceOffsets(data []byte) ([]uint32, error) {
	if len(data) < 12 {
		return nil, ErrNotFont
	}
	scaler := binary.BigEndian.Uint32(data)
	if isSfnt(scaler) {
		return []uint32{0}, nil
	}
	if scaler != scalerCollection {
		return nil, fmt.Errorf("%w: scaler type 0x%08x", ErrNotFont, scaler)
	}

	numFonts := binary.BigEndian.Uint32(data[8:])
	if numFonts == 0 || uint64(12)+4*uint64(numFonts) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: collection header claims %d faces", ErrMalformed, numFonts)
	}
	offsets := make([]uint32, numFonts)
	for i := range offsets {
		offsets[i] = binary.BigEndian.Uint32(data[12+4*i:])
	}
	return offsets, nil
}

// FaceCount returns the number of faces in data: the collection size for
// .ttc/.otc files and 1 for a single font.
func FaceCount(data []byte) (int, error) {
	offsets, err := faceOffsets(data)
	if err != nil {
		return 0, &ParseError{Op: "count faces", Err: err}
	}
	return len(offsets), nil
}

// readDirectory reads the table directory found at offset. Table offsets are
// relative to the start of data, also inside collections.
func readDirectory(data []byte, offset uint32) (directory, error) {
	base := int(offset)
	if base < 0 || base+12 > len(data) {
		return nil, fmt.Errorf("%w: table directory at %d beyond end of data", ErrMalformed, offset)
	}
	scaler := binary.BigEndian.Uint32(data[base:])
	if !isSfnt(scaler) {
		return nil, fmt.Errorf("%w: face scaler type 0x%08x", ErrNotFont, scaler)
	}
	numTables := int(binary.BigEndian.Uint16(data[base+4:]))
	if numTables == 0 || numTables > maxTables {
		return nil, fmt.Errorf("%w: %d tables", ErrMalformed, numTables)
	}
	if base+12+16*numTables > len(data) {
		return nil, fmt.Errorf("%w: truncated table directory", ErrMalformed)
	}

	dir := make(directory, numTables)
	for i := 0; i < numTables; i++ {
		rec := data[base+12+16*i:]
		tag := string(rec[:4])
		off := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		end := uint64(off) + uint64(length)
		if end > uint64(len(data)) {
			return nil, fmt.Errorf("%w: table %q extends beyond end of data", ErrMalformed, tag)
		}
		dir[tag] = tableRecord{Offset: off, Length: length}
	}
	return dir, nil
}

// table returns the bytes of the named table, or ErrMissingTable.
func (d directory) table(data []byte, tag string) ([]byte, error) {
	rec, ok := d[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingTable, tag)
	}
	return data[rec.Offset : rec.Offset+rec.Length], nil
}
