package textproc

import (
	"fmt"
	"strings"

	"newsreel/internal/domain/entity"
)

// FormatSRT renders subtitle segments as an SRT file. Segment indexes come
// from the slicer, so dropped short sentences leave gaps in the numbering.
func FormatSRT(segments []entity.SubtitleSegment) string {
	var b strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			seg.Index, srtTimestamp(seg.Start), srtTimestamp(seg.End), seg.Text)
	}
	return b.String()
}

func srtTimestamp(seconds float64) string {
	millis := int(seconds*1000 + 0.5)
	h := millis / 3600000
	millis %= 3600000
	m := millis / 60000
	millis %= 60000
	s := millis / 1000
	millis %= 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}
