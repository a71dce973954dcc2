package ratsinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsRelevantCommittee(t *testing.T) {
	relevant := []string{
		"Rat der Stadt Lünen",
		"RAT DER STADT LÜNEN",
		"rat der stadt lünen, 4. sitzung",
		"Rechnungsprüfungsausschuss",
		"Betriebsausschuss ZGB",
		"zgb-Ausschuss",
		"Ausschuss für Arbeitsmarkt, Wirtschaftsförderung und Innovation",
		"  Ausschuss für Arbeitsmarkt,   Wirtschaftsförderung und Innovation  ",
	}
	for _, name := range relevant {
		require.True(t, IsRelevantCommittee(name), name)
	}

	irrelevant := []string{
		"Sportausschuss",
		"Jugendhilfeausschuss",
		"",
	}
	for _, name := range irrelevant {
		require.False(t, IsRelevantCommittee(name), name)
	}
}

func TestCanonicalCommittee(t *testing.T) {
	require.Equal(t,
		"Rat der Stadt Lünen",
		CanonicalCommittee("Rat der Stadt Lünen, 4. Sitzung"),
	)
	require.Equal(t,
		"Rechnungsprüfungsausschuss",
		CanonicalCommittee("RECHNUNGSPRÜFUNGSAUSSCHUSS"),
	)
	// close misspelling still maps onto the allow-list entry
	require.Equal(t,
		"Rat der Stadt Lünen",
		CanonicalCommittee("Rat der Stat Lünen"),
	)
	// unrelated bodies come back unchanged
	require.Equal(t, "Sportausschuss", CanonicalCommittee("Sportausschuss"))
}
