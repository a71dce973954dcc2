package ratsinfo

import (
	"strings"

	"terminplaner-backend/lib/textutil"
)

// (date, time, committee) identifies the real-world event. The
// committee part is normalized so whitespace and casing variants
// merge, title differences never split a key.
func dedupeKey(m Meeting) string {
	return strings.Join([]string{
		m.Date,
		m.Time,
		textutil.NormalizeName(m.Committee),
	}, "|")
}

// Dedupe collapses repeated meetings observed across period
// boundaries or from redundant upstream entries. Single stable pass,
// the first occurrence of each key wins.
func Dedupe(meetings []Meeting) []Meeting {
	seen := make(map[string]struct{}, len(meetings))
	unique := meetings[:0:0]

	for _, meeting := range meetings {
		key := dedupeKey(meeting)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, meeting)
	}
	return unique
}
