// Package fontmanager turns the fonts installed on the host into the records
// served by the font listing endpoint.
package fontmanager

import (
	"github.com/nantokaworks/fontbridge/internal/fontname"
	"github.com/nantokaworks/fontbridge/internal/fontsource"
)

// FamilyName is the family name of a font in one language.
type FamilyName struct {
	FontFamily *string `json:"font_family"`
	Language   string  `json:"language"`
	Style      *string `json:"style"`
}

// FontRecord describes one installed font.
type FontRecord struct {
	PostScript *string      `json:"post_script"`
	FileName   string       `json:"file_name"`
	FontName   string       `json:"font_name"`
	FamilyName []FamilyName `json:"family_name"`
	Weight     int          `json:"weight"`
	Path       string       `json:"path"`
}

// BuildRecord combines the location of h with its parsed names. The English
// family comes first, then the Chinese one; both carry the same style.
func BuildRecord(h fontsource.Handle, p *fontname.ParsedNames) FontRecord {
	rec := FontRecord{
		FileName:   h.FileName(),
		Path:       h.DisplayPath(),
		FamilyName: []FamilyName{},
		Weight:     fontname.WeightNormal,
	}
	if p == nil {
		return rec
	}

	rec.PostScript = p.PostScriptName
	rec.FontName = p.FullName
	rec.Weight = p.Weight
	if p.EnglishFamily != nil {
		rec.FamilyName = append(rec.FamilyName, FamilyName{
			FontFamily: p.EnglishFamily,
			Language:   fontname.LanguageEnglish,
			Style:      p.Style,
		})
	}
	if p.ChineseFamily != nil {
		rec.FamilyName = append(rec.FamilyName, FamilyName{
			FontFamily: p.ChineseFamily,
			Language:   fontname.LanguageChinese,
			Style:      p.Style,
		})
	}
	return rec
}
