package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stats-dashboard-service/internal/model"
)

func orderFrom(date, ip, total string) model.Order {
	o := order(date, "nueva", "", total)
	o.IPAddress = ip
	return o
}

func TestDailyRollup_GroupsByDayAndIP(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		orderFrom("2024-03-06T15:00:00Z", "C", "30"),
		orderFrom("2024-03-05T15:00:00Z", "A", "10"),
		orderFrom("2024-03-05T16:00:00Z", "A", "5"),
		orderFrom("2024-03-05T17:00:00Z", "B", ""),
	}

	got := DailyRollup(orders, now, buenosAiresLoc(t))
	require.Len(t, got, 2)

	assert.Equal(t, "2024-03-05", got[0].Date)
	assert.Equal(t, 3, got[0].Orders)
	assert.Equal(t, 2, got[0].UniqueIPs)
	assert.Equal(t, "15", got[0].Revenue.String())
	assert.Equal(t, "5 mar", got[0].Label)

	assert.Equal(t, "2024-03-06", got[1].Date)
	assert.Equal(t, 1, got[1].Orders)
	assert.Equal(t, 1, got[1].UniqueIPs)
}

func TestDailyRollup_UsesLocalCalendarDay(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	// 23:30 del 5/3 en Buenos Aires
	orders := []model.Order{orderFrom("2024-03-06T02:30:00Z", "A", "1")}

	got := DailyRollup(orders, now, buenosAiresLoc(t))
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-05", got[0].Date)

	got = DailyRollup(orders, now, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-06", got[0].Date)
}

func TestDailyRollup_KeepsLast30Days(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		orderFrom("2024-03-01T15:00:00Z", "A", "1"),
		orderFrom("2024-02-29T15:00:00Z", "A", "1"),
		orderFrom("", "A", "1"),
	}

	got := DailyRollup(orders, now, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-03-01", got[0].Date)
}

func TestDailyRollup_Empty(t *testing.T) {
	got := DailyRollup(nil, time.Now(), nil)
	assert.Empty(t, got)
}

func TestDailyRollup_EmptyIPNotCounted(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		orderFrom("2024-03-05T15:00:00Z", "", "1"),
		orderFrom("2024-03-05T15:00:00Z", "A", "1"),
	}

	got := DailyRollup(orders, now, time.UTC)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Orders)
	assert.Equal(t, 1, got[0].UniqueIPs)
}
