package models

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reportIDPattern = regexp.MustCompile(`^DMD-\d{4}-\d{4}-\d{4}$`)

func TestNewReportID_Format(t *testing.T) {
	date := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
	id := NewReportID(date, func(int) int { return 234 })

	assert.Equal(t, "DMD-2026-0307-1234", id)
	assert.Regexp(t, reportIDPattern, id)
}

func TestUniqueReportID_SkipsTaken(t *testing.T) {
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	seq := []int{0, 0, 5}
	i := 0
	randN := func(int) int {
		v := seq[i]
		i++
		return v
	}
	existing := map[string]struct{}{"DMD-2026-0102-1000": {}}

	id, err := UniqueReportID(existing, date, randN)

	require.NoError(t, err)
	assert.Equal(t, "DMD-2026-0102-1005", id)
}

func TestUniqueReportID_Exhausted(t *testing.T) {
	date := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	existing := map[string]struct{}{"DMD-2026-0102-1000": {}}

	_, err := UniqueReportID(existing, date, func(int) int { return 0 })

	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("Em andamento")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, st)

	st, ok = ParseStatus("resolved")
	assert.True(t, ok)
	assert.Equal(t, StatusResolved, st)

	_, ok = ParseStatus("closed")
	assert.False(t, ok)
}

func TestNormalizeSeed(t *testing.T) {
	now := time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)
	n := 0
	randN := func(int) int {
		n++
		return n
	}

	reports, err := NormalizeSeed(SeedReports, now, randN)
	require.NoError(t, err)
	require.Len(t, reports, len(SeedReports))

	first := reports[0]
	assert.Regexp(t, reportIDPattern, first.ID)
	assert.Contains(t, first.ID, "DMD-2025-1212-")
	assert.Equal(t, StatusUnderReview, first.Status)
	assert.Equal(t, "recife", first.FocusCity)
	assert.Equal(t, "2025-12-12", first.CreatedAt.String())
	require.Len(t, first.History, 2)
	assert.Equal(t, HistoryRegistered, first.History[0].Event)
	assert.Equal(t, ActorSystem, first.History[1].Actor)
	assert.Equal(t, 35, first.Impact.Confirmations)

	assert.Equal(t, StatusResolved, reports[4].Status)
	assert.Len(t, IDSet(reports), len(reports))
}

func TestReport_Photos(t *testing.T) {
	r := &Report{Photos: []string{"data:image/jpeg;base64,AAAA", "local:pending-1", "/mock/a.jpg"}}

	assert.Equal(t, []string{"data:image/jpeg;base64,AAAA", "/mock/a.jpg"}, r.PublicPhotos())
	assert.Equal(t, 1, r.PendingPhotos())
}

func TestReport_PublicEvidenceKeepsMetadataAligned(t *testing.T) {
	r := &Report{
		Photos: []string{"data:image/jpeg;base64,AAAA", "local:pending-1", "data:image/jpeg;base64,CCCC"},
		PhotoMetadata: []PhotoMetadata{
			{FileIdentity: "a__1__0"},
			{FileIdentity: "b__2__0"},
			{FileIdentity: "c__3__0"},
		},
	}

	photos, meta := r.PublicEvidence()

	assert.Equal(t, []string{"data:image/jpeg;base64,AAAA", "data:image/jpeg;base64,CCCC"}, photos)
	require.Len(t, meta, 2)
	assert.Equal(t, "a__1__0", meta[0].FileIdentity)
	assert.Equal(t, "c__3__0", meta[1].FileIdentity)
}

func TestReport_PublicEvidenceShortMetadata(t *testing.T) {
	r := &Report{
		Photos:        []string{"local:pending-1", "/mock/a.jpg", "/mock/b.jpg"},
		PhotoMetadata: []PhotoMetadata{{FileIdentity: "p"}, {FileIdentity: "a"}},
	}

	photos, meta := r.PublicEvidence()

	assert.Len(t, photos, 2)
	require.Len(t, meta, 1)
	assert.Equal(t, "a", meta[0].FileIdentity)
}

func TestReport_ConfirmAndAttach(t *testing.T) {
	r := &Report{Impact: Impact{Confirmations: 2}}
	day := NewDate(time.Date(2026, time.May, 1, 15, 0, 0, 0, time.UTC))

	r.Confirm(day)
	r.AttachPhotos([]string{"p1", "p2"}, []PhotoMetadata{{FileIdentity: "a"}, {FileIdentity: "b"}})

	assert.Equal(t, 3, r.Impact.Confirmations)
	require.NotNil(t, r.Impact.LastConfirmedAt)
	assert.Equal(t, "2026-05-01", r.Impact.LastConfirmedAt.String())
	assert.Equal(t, len(r.Photos), len(r.PhotoMetadata))
}

func TestDate_JSON(t *testing.T) {
	var impact Impact
	require.NoError(t, json.Unmarshal([]byte(`{"confirmations":1,"last_confirmed_at":"2025-12-16"}`), &impact))
	require.NotNil(t, impact.LastConfirmedAt)
	assert.Equal(t, "2025-12-16", impact.LastConfirmedAt.String())

	var entry HistoryEntry
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-12-16T10:30:00Z","actor":"system","event":"x"}`), &entry))
	assert.Equal(t, "2025-12-16", entry.Date.String())

	out, err := json.Marshal(Impact{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"confirmations":0,"last_confirmed_at":null}`, string(out))
}
