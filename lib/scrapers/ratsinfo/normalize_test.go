package ratsinfo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T) *Client {
	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	return client
}

func TestNormalizeJsonEvent(t *testing.T) {
	client := testClient(t)

	meeting, ok := client.normalizeJsonEvent(rawEvent{
		Title: "Rat der Stadt Lünen",
		Start: "2025-07-24T17:00:00",
		Url:   "/si0057.asp?__ksinr=1234",
	})
	require.True(t, ok)
	require.Equal(t, "24.07.2025", meeting.Date)
	require.Equal(t, "17:00", meeting.Time)
	require.Equal(t, "Rat der Stadt Lünen", meeting.Committee)
	require.Equal(t, "Rat der Stadt Lünen", meeting.Title)
	require.Equal(t, DefaultBaseUrl+"/si0057.asp?__ksinr=1234", meeting.DetailUrl)
}

func TestNormalizeJsonEventAlternateKeys(t *testing.T) {
	client := testClient(t)

	meeting, ok := client.normalizeJsonEvent(rawEvent{
		Summary:   "Rechnungsprüfungsausschuss",
		StartTime: "2025-03-05",
		Link:      "https://example.org/detail/5",
	})
	require.True(t, ok)
	require.Equal(t, "05.03.2025", meeting.Date)
	require.Equal(t, "", meeting.Time)
	require.Equal(t, "https://example.org/detail/5", meeting.DetailUrl)
}

func TestNormalizeJsonEventRejections(t *testing.T) {
	client := testClient(t)

	// no usable title
	_, ok := client.normalizeJsonEvent(rawEvent{Start: "2025-03-05"})
	require.False(t, ok)

	// unparsable dates are rejected, not defaulted to today
	_, ok = client.normalizeJsonEvent(rawEvent{Title: "Rat der Stadt Lünen", Start: "morgen"})
	require.False(t, ok)

	_, ok = client.normalizeJsonEvent(rawEvent{Title: "Rat der Stadt Lünen"})
	require.False(t, ok)
}

func TestDecodeEventList(t *testing.T) {
	ctx := context.Background()

	// bare array
	events := decodeEventList(ctx, []byte(`[{"title": "A", "start": "2025-07-24"}]`))
	require.Len(t, events, 1)
	require.Equal(t, "A", events[0].Title)

	// object with events key
	events = decodeEventList(ctx, []byte(`{"events": [{"title": "B", "start": "2025-07-24T17:00:00"}]}`))
	require.Len(t, events, 1)
	require.Equal(t, "B", events[0].Title)

	// object whose first array-valued entry is the event list
	events = decodeEventList(ctx, []byte(`{"count": 1, "termine": [{"title": "C"}]}`))
	require.Len(t, events, 1)
	require.Equal(t, "C", events[0].Title)

	// unknown shapes degrade to empty, never an error
	require.Empty(t, decodeEventList(ctx, []byte(`{"count": 3}`)))
	require.Empty(t, decodeEventList(ctx, []byte(`"nur text"`)))
	require.Empty(t, decodeEventList(ctx, []byte(`nicht mal json`)))
	require.Empty(t, decodeEventList(ctx, nil))
}
