package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stats-dashboard-service/internal/model"
)

func visit(ts time.Time, ip, location string, logged, mobile bool) model.TrackingEvent {
	return model.TrackingEvent{Timestamp: ts, IP: ip, Location: location, IsLogged: logged, IsMobile: mobile}
}

func TestAbbreviate(t *testing.T) {
	cases := map[string]string{
		"Buenos Aires, Argentina": "BA",
		"Rosario":                 "RO",
		"Mar del Plata":           "MDP",
		"córdoba, AR":             "CÓ",
		"  La   Plata ":           "LP",
		"X":                       "X",
		"":                        "",
		", Argentina":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Abbreviate(in), in)
	}
}

func TestLocationDistribution(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []model.TrackingEvent{
		visit(now.Add(-1*time.Hour), "1", "Rosario", false, false),
		visit(now.Add(-2*time.Hour), "2", "Buenos Aires, Argentina", false, false),
		visit(now.Add(-3*time.Hour), "3", "Buenos Aires, Argentina", false, false),
		visit(now.Add(-4*time.Hour), "4", "buenos aires", false, false),
		visit(now.Add(-25*time.Hour), "5", "Rosario", false, false),
		visit(now.Add(time.Hour), "6", "Rosario", false, false),
		visit(now.Add(-time.Minute), "7", "", false, false),
	}

	got := LocationDistribution(events, now)
	require.Len(t, got, 3)

	assert.Equal(t, "Buenos Aires, Argentina", got[0].Location)
	assert.Equal(t, "BA", got[0].Abbreviation)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, ColorFor("Buenos Aires, Argentina"), got[0].Fill)

	// misma ciudad con otra grafía queda en otro bucket
	assert.Equal(t, "Rosario", got[1].Location)
	assert.Equal(t, 1, got[1].Count)
	assert.Equal(t, "buenos aires", got[2].Location)
}

func TestHourlySessions_FixedTrailingWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	events := []model.TrackingEvent{
		visit(time.Date(2024, 3, 10, 15, 10, 0, 0, time.UTC), "A", "", true, false),
		visit(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), "B", "", false, false),
		visit(time.Date(2024, 3, 9, 16, 0, 0, 0, time.UTC), "C", "", true, false),
		visit(time.Date(2024, 3, 8, 15, 0, 0, 0, time.UTC), "D", "", true, false),
	}

	got := HourlySessions(events, now, HourlyOptions{})
	require.Len(t, got, 24)
	assert.Equal(t, "16:00", got[0].Hour)
	assert.Equal(t, "15:00", got[23].Hour)
	assert.Equal(t, "00:00", got[8].Hour)

	assert.Equal(t, HourBucket{Hour: "16:00", LoggedIn: 1}, got[0])
	assert.Equal(t, HourBucket{Hour: "14:00", Anonymous: 1}, got[22])
	assert.Equal(t, HourBucket{Hour: "15:00", LoggedIn: 1}, got[23])

	total := 0
	for _, b := range got {
		total += b.LoggedIn + b.Anonymous
	}
	assert.Equal(t, 3, total)
}

func TestHourlySessions_LocalHours(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	events := []model.TrackingEvent{
		visit(time.Date(2024, 3, 10, 15, 10, 0, 0, time.UTC), "A", "", true, false),
	}

	got := HourlySessions(events, now, HourlyOptions{Location: buenosAiresLoc(t)})
	require.Len(t, got, 24)
	assert.Equal(t, HourBucket{Hour: "12:00", LoggedIn: 1}, got[23])
}

func TestHourlySessions_DedupeKeepsMostRecentPerIP(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	events := []model.TrackingEvent{
		visit(time.Date(2024, 3, 10, 15, 10, 0, 0, time.UTC), "X", "", true, false),
		visit(time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), "X", "", false, false),
		visit(time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC), "", "", false, false),
		visit(time.Date(2024, 3, 10, 13, 5, 0, 0, time.UTC), "", "", false, false),
	}

	got := HourlySessions(events, now, HourlyOptions{DedupeByIP: true})
	assert.Equal(t, HourBucket{Hour: "15:00", LoggedIn: 1}, got[23])
	assert.Equal(t, HourBucket{Hour: "14:00"}, got[22])
	assert.Equal(t, HourBucket{Hour: "13:00", Anonymous: 2}, got[21])

	plain := HourlySessions(events, now, HourlyOptions{})
	assert.Equal(t, HourBucket{Hour: "14:00", Anonymous: 1}, plain[22])
}

func TestSessionSplit(t *testing.T) {
	events := []model.TrackingEvent{
		{IsLogged: true}, {IsLogged: false}, {IsLogged: false},
	}
	assert.Equal(t, SessionCounts{LoggedIn: 1, LoggedOut: 2}, SessionSplit(events))
	assert.Equal(t, SessionCounts{}, SessionSplit(nil))
}

func TestDeviceSplit(t *testing.T) {
	events := []model.TrackingEvent{
		{IP: "X", IsMobile: true},
		{IP: "X", IsMobile: false},
		{IP: "Y", IsMobile: false},
	}

	assert.Equal(t, DeviceCounts{Mobile: 1, Desktop: 1}, DeviceSplit(events, DeviceOptions{DedupeByIP: true}))
	assert.Equal(t, DeviceCounts{Mobile: 1, Desktop: 2}, DeviceSplit(events, DeviceOptions{}))
	assert.Equal(t, DeviceCounts{Desktop: 1}, DeviceSplit(events, DeviceOptions{ExcludedIPs: []string{"X"}}))
}

func TestVisitAggregations_DoNotMutateInput(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
	events := []model.TrackingEvent{
		visit(now.Add(-time.Hour), "X", "Rosario", true, true),
		visit(now.Add(-2*time.Hour), "X", "Rosario", false, false),
	}
	before := append([]model.TrackingEvent{}, events...)

	h1 := HourlySessions(events, now, HourlyOptions{DedupeByIP: true})
	h2 := HourlySessions(events, now, HourlyOptions{DedupeByIP: true})
	assert.Equal(t, h1, h2)
	assert.Equal(t, LocationDistribution(events, now), LocationDistribution(events, now))
	assert.Equal(t, before, events)
}
