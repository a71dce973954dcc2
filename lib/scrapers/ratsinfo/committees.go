package ratsinfo

import (
	"strings"

	"terminplaner-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

// RelevantCommittees is the configured allow-list of governing bodies
// considered in scope.
var RelevantCommittees = []string{
	"Rat der Stadt Lünen",
	"Rechnungsprüfungsausschuss",
	"Betriebsausschuss Zentrale Gebäudebewirtschaftung Lünen",
	"Ausschuss für Arbeitsmarkt, Wirtschaftsförderung und Innovation",
}

// lowercase fragments that catch the naming variants the upstream has
// used for the same four bodies (abbreviations, partial phrases).
// substring matching is deliberately permissive: a coincidental
// overlap is a better failure mode than silently dropping a session
var committeePatterns = []string{
	"betriebsausschuss zentrale gebäudebewirtschaftung",
	"betriebsausschuss zentrale",
	"betriebsausschuss zgb",
	"zentrale gebäudebewirtschaftung",
	"gebäudebewirtschaftung lünen",
	"zgb-ausschuss",
	"ausschuss für arbeitsmarkt",
	"arbeitsmarkt, wirtschaftsförderung",
	"rechnungsprüfungsausschuss",
}

// IsRelevantCommittee reports whether the given governing body name
// matches the allow-list, exactly or through a known naming variant.
// Matching is case-insensitive and substring-based so session
// suffixes ("…, 4. Sitzung") do not defeat it.
func IsRelevantCommittee(name string) bool {
	normalized := textutil.NormalizeName(name)
	for _, relevant := range RelevantCommittees {
		if strings.Contains(normalized, textutil.NormalizeName(relevant)) {
			return true
		}
	}
	return textutil.MatchName(name, committeePatterns)
}

// CanonicalCommittee maps a free-text committee name onto its
// allow-list entry for display grouping: substring containment first,
// then a Jaro-Winkler pass for misspelled variants. Names that match
// nothing come back unchanged.
func CanonicalCommittee(name string) string {
	normalized := textutil.NormalizeName(name)
	for _, relevant := range RelevantCommittees {
		if strings.Contains(normalized, textutil.NormalizeName(relevant)) {
			return relevant
		}
	}

	var mostSimilar string
	var mostSimilarity float64
	for _, relevant := range RelevantCommittees {
		similarity := matchr.JaroWinkler(normalized, textutil.NormalizeName(relevant), false)
		if similarity > mostSimilarity {
			mostSimilarity = similarity
			mostSimilar = relevant
		}
	}
	if mostSimilarity >= 0.92 {
		return mostSimilar
	}
	return name
}
