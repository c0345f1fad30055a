package fontname

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// UnknownLanguage is reported for records whose language cannot be named.
const UnknownLanguage = "Unknown"

// windowsPrimaryLanguages maps the primary language id (low 10 bits of a
// Windows LCID) to a language tag.
// https://learn.microsoft.com/en-us/openspecs/windows_protocols/ms-lcid
var windowsPrimaryLanguages = map[uint16]language.Tag{
	0x01: language.Arabic,
	0x02: language.Bulgarian,
	0x03: language.Catalan,
	0x04: language.Chinese,
	0x05: language.Czech,
	0x06: language.Danish,
	0x07: language.German,
	0x08: language.Greek,
	0x09: language.English,
	0x0A: language.Spanish,
	0x0B: language.Finnish,
	0x0C: language.French,
	0x0D: language.Hebrew,
	0x0E: language.Hungarian,
	0x0F: language.Icelandic,
	0x10: language.Italian,
	0x11: language.Japanese,
	0x12: language.Korean,
	0x13: language.Dutch,
	0x14: language.Norwegian,
	0x15: language.Polish,
	0x16: language.Portuguese,
	0x18: language.Romanian,
	0x19: language.Russian,
	0x1A: language.Croatian,
	0x1B: language.Slovak,
	0x1D: language.Swedish,
	0x1E: language.Thai,
	0x1F: language.Turkish,
	0x21: language.Indonesian,
	0x22: language.Ukrainian,
	0x24: language.Slovenian,
	0x25: language.Estonian,
	0x26: language.Latvian,
	0x27: language.Lithuanian,
	0x29: language.Persian,
	0x2A: language.Vietnamese,
	0x39: language.Hindi,
}

var languageNamer = display.English.Languages()

// primaryLanguage names the primary language of a record. Only Windows
// records carry a meaningful LCID; everything else is UnknownLanguage.
func primaryLanguage(platformID, languageID uint16) string {
	if platformID != platformWindows {
		return UnknownLanguage
	}
	tag, ok := windowsPrimaryLanguages[languageID&0x3FF]
	if !ok {
		return UnknownLanguage
	}
	return languageNamer.Name(tag)
}
