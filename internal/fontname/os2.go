package fontname

import (
	"bytes"
	"encoding/binary"

	"seehuhn.de/go/sfnt/os2"
)

// WeightNormal is the OS/2 weight class of a regular face, used when a font
// has no usable "OS/2" table.
const WeightNormal = 400

// readWeight returns usWeightClass from an "OS/2" table.
// https://learn.microsoft.com/en-us/typography/opentype/spec/os2#usweightclass
func readWeight(table []byte) int {
	if info, err := os2.Read(bytes.NewReader(table)); err == nil {
		return int(info.WeightClass)
	}

	// os2.Read rejects truncated tables and versions above 5, but the
	// weight class sits at the same offset in every version:
	// version (2) + xAvgCharWidth (2) + usWeightClass (2)
	if len(table) < 6 {
		return WeightNormal
	}
	return int(binary.BigEndian.Uint16(table[4:]))
}
