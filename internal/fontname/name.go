package fontname

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// Name IDs used by the parser.
// https://learn.microsoft.com/en-us/typography/opentype/spec/name#name-ids
const (
	NameIDFamily            = 1
	NameIDSubfamily         = 2
	NameIDFullName          = 4
	NameIDPostScript        = 6
	NameIDTypographicFamily = 16
)

const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformWindows   = 3
)

// Record is one entry of the "name" table.
type Record struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Value      []byte
}

// IsUnicode reports whether the record's string is stored as UTF-16BE:
// every Unicode platform record, and Windows records with the symbol or
// Unicode BMP encoding.
func (r Record) IsUnicode() bool {
	switch r.PlatformID {
	case platformUnicode:
		return true
	case platformWindows:
		return r.EncodingID == 0 || r.EncodingID == 1
	default:
		return false
	}
}

// String decodes a Unicode record. ok is false for non-Unicode records and
// for values that do not decode.
func (r Record) String() (string, bool) {
	if !r.IsUnicode() {
		return "", false
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	b, err := dec.Bytes(r.Value)
	if err != nil {
		return "", false
	}
	return string(b), true
}

// Language returns the English name of the record's primary language, e.g.
// "English" for both en-US and en-GB records.
func (r Record) Language() string {
	return primaryLanguage(r.PlatformID, r.LanguageID)
}

// decodeNames splits a "name" table into its records. Both format 0 and
// format 1 tables are accepted; language-tag records of format 1 are skipped.
func decodeNames(data []byte) ([]Record, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("%w: name table too short", ErrMalformed)
	}
	version := binary.BigEndian.Uint16(data)
	if version > 1 {
		return nil, fmt.Errorf("%w: name table version %d", ErrMalformed, version)
	}
	numRec := int(binary.BigEndian.Uint16(data[2:]))
	storageOffset := int(binary.BigEndian.Uint16(data[4:]))

	const recBase = 6
	endOfHeader := recBase + 12*numRec
	if endOfHeader > len(data) {
		return nil, fmt.Errorf("%w: truncated name records", ErrMalformed)
	}
	if version > 0 {
		if endOfHeader+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated language tags", ErrMalformed)
		}
		numLang := int(binary.BigEndian.Uint16(data[endOfHeader:]))
		if endOfHeader+2+4*numLang > len(data) {
			return nil, fmt.Errorf("%w: truncated language tags", ErrMalformed)
		}
	}
	if storageOffset > len(data) {
		return nil, fmt.Errorf("%w: storage offset beyond table", ErrMalformed)
	}

	records := make([]Record, 0, numRec)
	for i := 0; i < numRec; i++ {
		pos := recBase + 12*i
		length := int(binary.BigEndian.Uint16(data[pos+8:]))
		offset := int(binary.BigEndian.Uint16(data[pos+10:]))
		start := storageOffset + offset
		if start+length > len(data) {
			// one broken string does not invalidate the rest of the table
			continue
		}
		records = append(records, Record{
			PlatformID: binary.BigEndian.Uint16(data[pos:]),
			EncodingID: binary.BigEndian.Uint16(data[pos+2:]),
			LanguageID: binary.BigEndian.Uint16(data[pos+4:]),
			NameID:     binary.BigEndian.Uint16(data[pos+6:]),
			Value:      data[start : start+length],
		})
	}
	return records, nil
}
