package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stats-dashboard-service/internal/model"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func order(date string, status, lastState, total string) model.Order {
	o := model.Order{Status: status, LastState: lastState}
	if date != "" {
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			panic(err)
		}
		o.Date = t
	}
	if total != "" {
		o.Total = amount(total)
	}
	return o
}

func buenosAiresLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	return loc
}

func TestIsConfirmedSale(t *testing.T) {
	cases := []struct {
		status, lastState string
		want              bool
	}{
		{"pagoRecibido", "", true},
		{"empaquetada", "nueva", true},
		{"enviada", "", true},
		{"nueva", "", false},
		{"cancelada", "enviada", false},
		{"archivada", "empaquetada", true},
		{"archivada", "enviada", true},
		{"archivada", "pagoRecibido", true},
		{"archivada", "nueva", false},
		{"archivada", "cancelada", false},
		{"archivada", "archivada", false},
		{"archivada", "", false},
	}
	for _, c := range cases {
		got := IsConfirmedSale(model.Order{Status: c.status, LastState: c.lastState})
		assert.Equal(t, c.want, got, "status=%s lastState=%s", c.status, c.lastState)
	}
}

func TestSumSales_AllTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		order("2024-03-01T15:00:00Z", "pagoRecibido", "", "100.50"),
		order("2023-01-01T15:00:00Z", "archivada", "enviada", "200"),
		order("2024-03-02T15:00:00Z", "archivada", "nueva", "999"),
		order("2024-03-02T15:00:00Z", "nueva", "", "999"),
		order("2024-03-02T15:00:00Z", "empaquetada", "", ""), // total no numérico
		order("", "enviada", "", "50"),
	}

	got := SumSales(orders, now, SalesOptions{Window: WindowAll})
	assert.Equal(t, "350.5", got.String())

	withCancelled := append(append([]model.Order{}, orders...), order("2024-03-05T15:00:00Z", "cancelada", "", "1000"))
	assert.True(t, got.Equal(SumSales(withCancelled, now, SalesOptions{Window: WindowAll})))
}

func TestSumSales_RemovingUnconfirmedDoesNotChangeSum(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		order("2024-03-01T15:00:00Z", "enviada", "", "10"),
		order("2024-03-01T15:00:00Z", "archivada", "cancelada", "20"),
		order("2024-03-01T15:00:00Z", "nueva", "", "30"),
	}
	var confirmed []model.Order
	for _, o := range orders {
		if IsConfirmedSale(o) {
			confirmed = append(confirmed, o)
		}
	}

	opts := SalesOptions{Window: WindowAll}
	assert.True(t, SumSales(orders, now, opts).Equal(SumSales(confirmed, now, opts)))
}

func TestSumSales_ReconciliationOffsetIsOptIn(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{order("2024-03-01T15:00:00Z", "enviada", "", "100")}

	assert.Equal(t, "100", SumSales(orders, now, SalesOptions{Window: WindowAll}).String())

	offset := decimal.RequireFromString("474.92")
	assert.Equal(t, "574.92", SumSales(orders, now, SalesOptions{Window: WindowAll, ReconciliationOffset: offset}).String())
	assert.Equal(t, "100", SumSales(orders, now, SalesOptions{Window: WindowLast30Days, ReconciliationOffset: offset}).String())
}

func TestSumSales_Last30Days(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	recent := []model.Order{
		order("2024-03-01T15:00:00Z", "enviada", "", "100"),
		order("2024-02-20T15:00:00Z", "archivada", "empaquetada", "40"),
	}
	old := order("2024-01-05T15:00:00Z", "enviada", "", "500")
	undated := order("", "enviada", "", "7")

	last30 := SalesOptions{Window: WindowLast30Days}
	all := SalesOptions{Window: WindowAll}

	assert.True(t, SumSales(recent, now, last30).Equal(SumSales(recent, now, all)))

	mixed := append(append([]model.Order{}, recent...), old, undated)
	assert.Equal(t, "140", SumSales(mixed, now, last30).String())
	assert.Equal(t, "647", SumSales(mixed, now, all).String())
}

func TestSumSales_LatestDayUsesMostRecentOrder(t *testing.T) {
	// "hoy" es el día de la última orden, no el día real
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	orders := []model.Order{
		order("2024-03-01T13:00:00Z", "enviada", "", "10"),
		order("2024-03-01T18:00:00Z", "pagoRecibido", "", "15"),
		order("2024-02-15T18:00:00Z", "enviada", "", "1000"),
	}

	got := SumSales(orders, now, SalesOptions{Window: WindowLatestDay, Location: buenosAiresLoc(t)})
	assert.Equal(t, "25", got.String())
}

func TestSumSales_LatestDayRespectsTimezone(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []model.Order{
		order("2024-03-01T13:00:00Z", "enviada", "", "10"),
		// 22:00 del 1/3 en Buenos Aires, pero 2/3 en UTC
		order("2024-03-02T01:00:00Z", "enviada", "", "5"),
	}

	ba := SumSales(orders, now, SalesOptions{Window: WindowLatestDay, Location: buenosAiresLoc(t)})
	assert.Equal(t, "15", ba.String())

	utc := SumSales(orders, now, SalesOptions{Window: WindowLatestDay})
	assert.Equal(t, "5", utc.String())
}

func TestSumSales_EmptyAndIdempotent(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, w := range []Window{WindowAll, WindowLast30Days, WindowLatestDay} {
		assert.True(t, SumSales(nil, now, SalesOptions{Window: w}).IsZero(), w.String())
	}

	orders := []model.Order{
		order("2024-03-01T13:00:00Z", "enviada", "", "10"),
		order("2024-03-09T13:00:00Z", "archivada", "enviada", "2.25"),
	}
	before := append([]model.Order{}, orders...)
	opts := SalesOptions{Window: WindowLatestDay, Location: buenosAiresLoc(t)}

	first := SumSales(orders, now, opts)
	second := SumSales(orders, now, opts)
	assert.True(t, first.Equal(second))
	assert.Equal(t, before, orders)
}
