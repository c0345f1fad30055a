// Package fontname extracts naming metadata from TrueType/OpenType fonts and
// font collections: family names per language, the style (subfamily), the
// PostScript and full names, and the OS/2 weight class.
package fontname

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// Languages whose family names are reported.
const (
	LanguageEnglish = "English"
	LanguageChinese = "Chinese"
)

// ParsedNames holds the raw naming information of one face.
type ParsedNames struct {
	EnglishFamily  *string
	ChineseFamily  *string
	Style          *string
	PostScriptName *string
	FullName       string
	Weight         int
}

// Parse reads the face with index faceIndex from data. Single fonts only
// have face 0. Any structural problem yields a *ParseError.
func Parse(data []byte, faceIndex int) (*ParsedNames, error) {
	offsets, err := faceOffsets(data)
	if err != nil {
		return nil, &ParseError{Op: "read header", Err: err}
	}
	if faceIndex < 0 || faceIndex >= len(offsets) {
		return nil, &ParseError{
			Op:  "select face",
			Err: fmt.Errorf("%w: %d of %d", ErrFaceIndex, faceIndex, len(offsets)),
		}
	}
	dir, err := readDirectory(data, offsets[faceIndex])
	if err != nil {
		return nil, &ParseError{Op: "read table directory", Err: err}
	}
	nameData, err := dir.table(data, "name")
	if err != nil {
		return nil, &ParseError{Op: "read name table", Err: err}
	}
	records, err := decodeNames(nameData)
	if err != nil {
		return nil, &ParseError{Op: "decode name table", Err: err}
	}

	res := walkRecords(records)

	res.Weight = WeightNormal
	if os2, err := dir.table(data, "OS/2"); err == nil {
		res.Weight = readWeight(os2)
	}

	if f, err := openFace(data, faceIndex, isCollection(data)); err == nil {
		var buf sfnt.Buffer
		if ps, err := f.Name(&buf, sfnt.NameIDPostScript); err == nil && ps != "" {
			res.PostScriptName = &ps
		}
		if full, err := f.Name(&buf, sfnt.NameIDFull); err == nil {
			res.FullName = full
		}
		return res, nil
	}

	// golang.org/x/image rejects some fonts that still carry a readable name
	// table (bitmap-only faces, for example)
	if ps, ok := lookupName(records, NameIDPostScript); ok && ps != "" {
		res.PostScriptName = &ps
	}
	res.FullName, _ = lookupName(records, NameIDFullName)
	return res, nil
}

// walkRecords collects family names per language and the style from the
// Unicode records. Later records overwrite earlier ones, so a typographic
// family name (ID 16) wins over the legacy family name (ID 1) of the same
// language when the table is sorted.
func walkRecords(records []Record) *ParsedNames {
	res := &ParsedNames{}
	for _, rec := range records {
		if !rec.IsUnicode() {
			continue
		}
		switch rec.NameID {
		case NameIDTypographicFamily, NameIDFamily:
			val, ok := rec.String()
			if !ok {
				continue
			}
			switch rec.Language() {
			case LanguageEnglish:
				res.EnglishFamily = &val
			case LanguageChinese:
				res.ChineseFamily = &val
			}
		case NameIDSubfamily:
			if val, ok := rec.String(); ok {
				res.Style = &val
			}
		}
	}
	return res
}

// lookupName returns the value of nameID, preferring English Windows records.
func lookupName(records []Record, nameID uint16) (string, bool) {
	var fallback string
	found := false
	for _, rec := range records {
		if rec.NameID != nameID {
			continue
		}
		val, ok := rec.String()
		if !ok {
			continue
		}
		if rec.Language() == LanguageEnglish {
			return val, true
		}
		if !found {
			fallback, found = val, true
		}
	}
	return fallback, found
}

func openFace(data []byte, faceIndex int, collection bool) (*sfnt.Font, error) {
	if !collection {
		return sfnt.Parse(data)
	}
	c, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, err
	}
	if faceIndex >= c.NumFonts() {
		return nil, errors.New("face index out of range")
	}
	return c.Font(faceIndex)
}
