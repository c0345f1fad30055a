package fontname

import (
	"encoding/binary"
	"testing"

	"github.com/nantokaworks/fontbridge/internal/testutil"
)

func TestReadWeight(t *testing.T) {
	future := testutil.OS2Table(300)
	binary.BigEndian.PutUint16(future, 6)

	cases := []struct {
		name  string
		table []byte
		want  int
	}{
		{"version 0 table", testutil.OS2Table(700), 700},
		{"out of range weight kept", testutil.OS2Table(1200), 1200},
		{"unknown version", future, 300},
		{"truncated table", testutil.OS2Table(250)[:6], 250},
		{"too short", []byte{0, 0, 0, 0, 1}, WeightNormal},
		{"empty", nil, WeightNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := readWeight(tc.table); got != tc.want {
				t.Errorf("readWeight got=%d want=%d", got, tc.want)
			}
		})
	}
}
