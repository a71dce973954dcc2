package ratsinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDedupe(t *testing.T) {
	meetings := []Meeting{
		{Committee: "Rat der Stadt Lünen", Title: "Rat der Stadt Lünen", Date: "24.07.2025", Time: "17:00", Location: "Rathaus"},
		{Committee: "Rat der Stadt Lünen ", Title: "Rat der Stadt Lünen, 4. Sitzung", Date: "24.07.2025", Time: "17:00"},
		{Committee: "Rat der Stadt Lünen", Date: "24.07.2025", Time: "18:00"},
		{Committee: "Rechnungsprüfungsausschuss", Date: "24.07.2025", Time: "17:00"},
	}

	unique := Dedupe(meetings)
	require.Len(t, unique, 3)

	// first occurrence wins, field variants of the duplicate are dropped
	require.Equal(t, "Rathaus", unique[0].Location)
	require.Equal(t, "Rat der Stadt Lünen", unique[0].Title)
	require.Equal(t, "18:00", unique[1].Time)
	require.Equal(t, "Rechnungsprüfungsausschuss", unique[2].Committee)
}

func TestDedupeKeepsSessionSuffixDistinct(t *testing.T) {
	meetings := []Meeting{
		{Committee: "Rat der Stadt Lünen", Date: "24.07.2025", Time: "17:00"},
		{Committee: "Rat der Stadt Lünen, 4. Sitzung", Date: "24.07.2025", Time: "17:00"},
	}
	require.Len(t, Dedupe(meetings), 2)
}

func TestDedupeEmpty(t *testing.T) {
	require.Empty(t, Dedupe(nil))
}
