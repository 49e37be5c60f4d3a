// Package testdata holds charts shared by tests.
package testdata

import (
	"io"
	"strings"
)

// SM is a small chart, 120 bpm for the first measure and 240 after.
// Beginner: Left 500ms, Down 1000ms, Up 1500ms, Right 2000ms, Left hold 2500ms-3000ms.
// The dance-double chart is skipped by the parser.
const SM = `#TITLE:Test Song;
#SUBTITLE:(sub);
#ARTIST:Nobody;
#CREDIT:eotj;
#MUSIC:song.ogg;
#OFFSET:-0.500;
#BPMS:0.000=120.000,
4.000=240.000;
#STOPS:;

//---------------dance-single - Beginner----------------
#NOTES:
     dance-single:
     eotj:
     Beginner:
     1:
     0.0,0.0,0.0,0.0,0.0:
1000
0100
0010
0001
,  // measure 2
2000
0000
3000
0M00
;
//---------------dance-double - Hard----------------
#NOTES:
     dance-double:
     eotj:
     Hard:
     5:
     0.0,0.0,0.0,0.0,0.0:
10000000
;
`

// TSV is the Beginner chart of SM as exported, the hold is a tap
const TSV = "Time\tDirection\n500\tL\n1000\tD\n1500\tU\n2000\tR\n2500\tL\n"

func GetChart() io.Reader {
	return strings.NewReader(SM)
}
