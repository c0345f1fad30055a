// Package testutil builds synthetic font files for tests: name tables with
// arbitrary records, minimal sfnt containers, collections, and copies of real
// fonts with a replaced table.
package testutil

import (
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

// Name is one record of a synthetic "name" table. Value is stored as
// UTF-16BE for Unicode/Windows platforms and as raw bytes for Macintosh.
type Name struct {
	Platform uint16
	Encoding uint16
	Language uint16
	NameID   uint16
	Value    string
}

// Windows language ids used by tests.
const (
	LangEnglishUS  uint16 = 0x0409
	LangEnglishUK  uint16 = 0x0809
	LangChinesePRC uint16 = 0x0804
	LangChineseTW  uint16 = 0x0404
	LangGerman     uint16 = 0x0407
)

// Win is a Windows Unicode BMP record.
func Win(lang, nameID uint16, value string) Name {
	return Name{Platform: 3, Encoding: 1, Language: lang, NameID: nameID, Value: value}
}

// Mac is a Macintosh Roman record.
func Mac(nameID uint16, value string) Name {
	return Name{Platform: 1, Encoding: 0, Language: 0, NameID: nameID, Value: value}
}

// NameTable encodes records in the order given as a format 0 "name" table.
func NameTable(records ...Name) []byte {
	var storage []byte
	header := make([]byte, 6+12*len(records))
	binary.BigEndian.PutUint16(header[2:], uint16(len(records)))
	binary.BigEndian.PutUint16(header[4:], uint16(len(header)))
	for i, rec := range records {
		var val []byte
		if rec.Platform == 1 {
			val = []byte(rec.Value)
		} else {
			for _, u := range utf16.Encode([]rune(rec.Value)) {
				val = binary.BigEndian.AppendUint16(val, u)
			}
		}
		pos := 6 + 12*i
		binary.BigEndian.PutUint16(header[pos:], rec.Platform)
		binary.BigEndian.PutUint16(header[pos+2:], rec.Encoding)
		binary.BigEndian.PutUint16(header[pos+4:], rec.Language)
		binary.BigEndian.PutUint16(header[pos+6:], rec.NameID)
		binary.BigEndian.PutUint16(header[pos+8:], uint16(len(val)))
		binary.BigEndian.PutUint16(header[pos+10:], uint16(len(storage)))
		storage = append(storage, val...)
	}
	return append(header, storage...)
}

// OS2Table returns a version 0 "OS/2" table carrying weight.
func OS2Table(weight uint16) []byte {
	t := make([]byte, 78)
	binary.BigEndian.PutUint16(t[4:], weight)
	binary.BigEndian.PutUint16(t[6:], 5) // usWidthClass: medium
	return t
}

// Font builds a TrueType sfnt file from tables.
func Font(tables map[string][]byte) []byte {
	return buildFaces([]map[string][]byte{tables}, 0)
}

// Collection builds a "ttcf" collection with one face per table set.
func Collection(faces ...map[string][]byte) []byte {
	return buildFaces(faces, 12+4*len(faces))
}

// Tables splits an sfnt file into its tables.
func Tables(font []byte) map[string][]byte {
	numTables := int(binary.BigEndian.Uint16(font[4:]))
	res := make(map[string][]byte, numTables)
	for i := 0; i < numTables; i++ {
		rec := font[12+16*i:]
		off := binary.BigEndian.Uint32(rec[8:])
		length := binary.BigEndian.Uint32(rec[12:])
		res[string(rec[:4])] = append([]byte(nil), font[off:off+length]...)
	}
	return res
}

// WithTable returns a copy of the sfnt file font where table tag is replaced
// (or added) with data.
func WithTable(font []byte, tag string, data []byte) []byte {
	tables := Tables(font)
	tables[tag] = data
	return Font(tables)
}

// buildFaces lays out a single font (headerSize 0) or a collection whose
// header occupies headerSize bytes.
func buildFaces(faces []map[string][]byte, headerSize int) []byte {
	dirSize := 0
	tags := make([][]string, len(faces))
	for i, tables := range faces {
		for tag := range tables {
			tags[i] = append(tags[i], tag)
		}
		sort.Strings(tags[i])
		dirSize += 12 + 16*len(tables)
	}

	out := make([]byte, headerSize+dirSize)
	if headerSize > 0 {
		copy(out, "ttcf")
		binary.BigEndian.PutUint16(out[4:], 1)
		binary.BigEndian.PutUint32(out[8:], uint32(len(faces)))
	}

	dirPos := headerSize
	for i, tables := range faces {
		if headerSize > 0 {
			binary.BigEndian.PutUint32(out[12+4*i:], uint32(dirPos))
		}
		n := len(tags[i])
		binary.BigEndian.PutUint32(out[dirPos:], 0x00010000)
		binary.BigEndian.PutUint16(out[dirPos+4:], uint16(n))
		searchRange, entrySelector := 1, 0
		for searchRange*2 <= n {
			searchRange *= 2
			entrySelector++
		}
		binary.BigEndian.PutUint16(out[dirPos+6:], uint16(16*searchRange))
		binary.BigEndian.PutUint16(out[dirPos+8:], uint16(entrySelector))
		binary.BigEndian.PutUint16(out[dirPos+10:], uint16(16*(n-searchRange)))

		for j, tag := range tags[i] {
			data := tables[tag]
			for len(out)%4 != 0 {
				out = append(out, 0)
			}
			rec := out[dirPos+12+16*j:]
			copy(rec, tag)
			binary.BigEndian.PutUint32(rec[4:], checksum(data))
			binary.BigEndian.PutUint32(rec[8:], uint32(len(out)))
			binary.BigEndian.PutUint32(rec[12:], uint32(len(data)))
			out = append(out, data...)
		}
		dirPos += 12 + 16*n
	}
	for len(out)%4 != 0 {
		out = append(out, 0)
	}
	return out
}

func checksum(data []byte) uint32 {
	var sum uint32
	for i := 0; i < len(data); i += 4 {
		var word [4]byte
		copy(word[:], data[i:])
		sum += binary.BigEndian.Uint32(word[:])
	}
	return sum
}
