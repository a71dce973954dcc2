package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const agendaText = `Der Rat der Stadt berät über den Haushalt. ` +
	`Der Haushalt umfasst die Mittel für Schulen und Straßen. ` +
	`Die Verwaltung empfiehlt die Annahme des Haushalts. ` +
	`Zwischendurch gab es eine kurze Pause. ` +
	`Der Haushalt wurde mit großer Mehrheit beschlossen.`

func TestSummarize(t *testing.T) {
	summary, err := Summarize(agendaText, 2)
	require.NoError(t, err)

	sentences := strings.Count(summary, ".")
	require.Equal(t, 2, sentences)
	// the filler sentence shares no terms with the rest and loses
	require.NotContains(t, summary, "Pause")
	require.Contains(t, summary, "Haushalt")
}

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	summary, err := Summarize(agendaText, 4)
	require.NoError(t, err)

	first := strings.Index(summary, "berät")
	last := strings.Index(summary, "beschlossen")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, last, first)
}

func TestSummarizeShortText(t *testing.T) {
	_, err := Summarize("Zu kurz.", 3)
	require.ErrorIs(t, err, ErrTextTooShort)

	_, err = Summarize("", 3)
	require.ErrorIs(t, err, ErrTextTooShort)
}

func TestSummarizeCountLargerThanText(t *testing.T) {
	summary, err := Summarize(agendaText, 50)
	require.NoError(t, err)
	require.Equal(t, 5, strings.Count(summary, "."))
}
