package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"stats-dashboard-service/internal/model"
)

const dayLayout = "2006-01-02"

// DayRollup resume las órdenes de un día calendario.
type DayRollup struct {
	Date      string          `json:"date"` // YYYY-MM-DD en la zona configurada
	Label     string          `json:"label"`
	Orders    int             `json:"orders"`
	UniqueIPs int             `json:"uniqueIPs"`
	Revenue   decimal.Decimal `json:"totalSales"`
}

// DailyRollup agrupa todas las órdenes (confirmadas o no) por día en loc y
// devuelve los últimos 30 días en orden cronológico.
func DailyRollup(orders []model.Order, now time.Time, loc *time.Location) []DayRollup {
	if loc == nil {
		loc = time.UTC
	}

	type acc struct {
		count   int
		ips     map[string]struct{}
		revenue decimal.Decimal
	}
	byDay := make(map[string]*acc)

	for _, o := range orders {
		if o.Date.IsZero() {
			continue
		}
		key := o.Date.In(loc).Format(dayLayout)
		a, ok := byDay[key]
		if !ok {
			a = &acc{ips: make(map[string]struct{}), revenue: decimal.Zero}
			byDay[key] = a
		}
		a.count++
		if o.IPAddress != "" {
			a.ips[o.IPAddress] = struct{}{}
		}
		if o.Total.Valid {
			a.revenue = a.revenue.Add(o.Total.Decimal)
		}
	}

	from := now.In(loc).AddDate(0, 0, -30).Format(dayLayout)

	out := make([]DayRollup, 0, len(byDay))
	for day, a := range byDay {
		// YYYY-MM-DD se puede comparar como string
		if day < from {
			continue
		}
		out = append(out, DayRollup{
			Date:      day,
			Label:     ShortDate(day),
			Orders:    a.count,
			UniqueIPs: len(a.ips),
			Revenue:   a.revenue,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
