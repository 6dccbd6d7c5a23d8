package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"stats-dashboard-service/internal/model"
)

// LocationCount es una barra del gráfico de localidades.
type LocationCount struct {
	Location     string `json:"location"`
	Abbreviation string `json:"abbreviation"`
	Count        int    `json:"count"`
	Fill         string `json:"fill"`
}

// HourBucket cuenta visitas logueadas y anónimas de una hora del día.
type HourBucket struct {
	Hour      string `json:"hour"` // "HH:00"
	LoggedIn  int    `json:"loggedIn"`
	Anonymous int    `json:"notLoggedIn"`
}

type SessionCounts struct {
	LoggedIn  int `json:"loggedIn"`
	LoggedOut int `json:"loggedOut"`
}

type DeviceCounts struct {
	Mobile  int `json:"mobile"`
	Desktop int `json:"desktop"`
}

// HourlyOptions parametriza HourlySessions.
type HourlyOptions struct {
	Location *time.Location
	// DedupeByIP deja solo el evento más reciente de cada IP dentro de la ventana.
	DedupeByIP bool
}

// DeviceOptions parametriza DeviceSplit.
type DeviceOptions struct {
	// DedupeByIP cuenta solo el primer evento visto de cada IP.
	DedupeByIP bool
	// ExcludedIPs se descartan antes de contar (sondas internas, pruebas).
	ExcludedIPs []string
}

const visitWindow = 24 * time.Hour

func inLastDay(ts, now time.Time) bool {
	return !ts.IsZero() && !ts.Before(now.Add(-visitWindow)) && !ts.After(now)
}

// LocationDistribution cuenta las visitas de las últimas 24 horas por localidad,
// sin normalizar el texto, de mayor a menor.
func LocationDistribution(events []model.TrackingEvent, now time.Time) []LocationCount {
	counts := make(map[string]int)
	for _, e := range events {
		if e.Location == "" || !inLastDay(e.Timestamp, now) {
			continue
		}
		counts[e.Location]++
	}

	out := make([]LocationCount, 0, len(counts))
	for loc, n := range counts {
		out = append(out, LocationCount{
			Location:     loc,
			Abbreviation: Abbreviate(loc),
			Count:        n,
			Fill:         ColorFor(loc),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Location < out[j].Location
	})
	return out
}

// Abbreviate arma la etiqueta corta de una localidad: ignora lo que sigue a la
// primera coma; con una sola palabra toma las dos primeras letras y con varias
// la inicial de cada una.
func Abbreviate(location string) string {
	if i := strings.Index(location, ","); i >= 0 {
		location = location[:i]
	}
	words := strings.Fields(location)
	switch len(words) {
	case 0:
		return ""
	case 1:
		w := words[0]
		if utf8.RuneCountInString(w) > 2 {
			w = string([]rune(w)[:2])
		}
		return strings.ToUpper(w)
	}

	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

// HourlySessions arma 24 buckets por hora local, desde la hora actual-23 hasta
// la hora actual, con las visitas de las últimas 24 horas. Las horas sin
// visitas aparecen en cero.
func HourlySessions(events []model.TrackingEvent, now time.Time, opts HourlyOptions) []HourBucket {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	recent := make([]model.TrackingEvent, 0, len(events))
	for _, e := range events {
		if inLastDay(e.Timestamp, now) {
			recent = append(recent, e)
		}
	}
	if opts.DedupeByIP {
		recent = latestPerIP(recent)
	}

	var byHour [24]HourBucket
	for _, e := range recent {
		h := e.Timestamp.In(loc).Hour()
		if e.IsLogged {
			byHour[h].LoggedIn++
		} else {
			byHour[h].Anonymous++
		}
	}

	current := now.In(loc).Hour()
	out := make([]HourBucket, 0, 24)
	for i := 23; i >= 0; i-- {
		h := (current - i + 24) % 24
		b := byHour[h]
		b.Hour = fmt.Sprintf("%02d:00", h)
		out = append(out, b)
	}
	return out
}

// latestPerIP conserva el evento más reciente de cada IP. Los eventos sin IP
// no se agrupan.
func latestPerIP(events []model.TrackingEvent) []model.TrackingEvent {
	latest := make(map[string]int)
	var out []model.TrackingEvent
	for _, e := range events {
		if e.IP == "" {
			out = append(out, e)
			continue
		}
		if i, ok := latest[e.IP]; ok {
			if e.Timestamp.After(out[i].Timestamp) {
				out[i] = e
			}
			continue
		}
		latest[e.IP] = len(out)
		out = append(out, e)
	}
	return out
}

// SessionSplit cuenta todos los eventos según el usuario estuviera logueado.
func SessionSplit(events []model.TrackingEvent) SessionCounts {
	var c SessionCounts
	for _, e := range events {
		if e.IsLogged {
			c.LoggedIn++
		} else {
			c.LoggedOut++
		}
	}
	return c
}

// DeviceSplit cuenta eventos mobile y desktop.
func DeviceSplit(events []model.TrackingEvent, opts DeviceOptions) DeviceCounts {
	excluded := make(map[string]bool, len(opts.ExcludedIPs))
	for _, ip := range opts.ExcludedIPs {
		excluded[ip] = true
	}
	seen := make(map[string]bool)

	var c DeviceCounts
	for _, e := range events {
		if e.IP != "" && excluded[e.IP] {
			continue
		}
		if opts.DedupeByIP && e.IP != "" {
			if seen[e.IP] {
				continue
			}
			seen[e.IP] = true
		}
		if e.IsMobile {
			c.Mobile++
		} else {
			c.Desktop++
		}
	}
	return c
}
