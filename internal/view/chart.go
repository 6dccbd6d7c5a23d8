// Package view arma lo que se muestra: la descripción de cada gráfico (que el
// navegador dibuja con Chart.js) y las páginas HTML.
package view

import (
	"strconv"

	"stats-dashboard-service/internal/dto"
	"stats-dashboard-service/internal/stats"
)

type ChartKind string

const (
	KindBar    ChartKind = "bar"
	KindHBar   ChartKind = "hbar"
	KindPie    ChartKind = "pie"
	KindRadial ChartKind = "radial"
	KindLine   ChartKind = "line"
)

type Dataset struct {
	Label  string    `json:"label"`
	Data   []float64 `json:"data"`
	Colors []string  `json:"colors,omitempty"`
}

// Chart es todo lo que necesita una tarjeta del dashboard.
// Si Error no está vacío la tarjeta se muestra sin datos.
type Chart struct {
	ID          string    `json:"id"`
	Kind        ChartKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Footer      string    `json:"footer,omitempty"`
	Labels      []string  `json:"labels"`
	Datasets    []Dataset `json:"datasets"`
	Center      string    `json:"center,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Paleta del tema; el CSS define las variables para claro y oscuro.
const (
	colorPrimary   = "var(--chart-1)"
	colorSecondary = "var(--chart-2)"
)

func salesChart(id, description, footer string, section dto.Section[dto.SalesSummary], pick func(dto.SalesSummary) dto.SalesFigure) Chart {
	c := Chart{
		ID:          id,
		Kind:        KindRadial,
		Title:       "Ventas confirmadas",
		Description: description,
		Footer:      footer,
		Labels:      []string{"ventas"},
		Error:       section.Error,
	}
	if c.Error != "" {
		return c
	}
	fig := pick(section.Data)
	c.Datasets = []Dataset{{
		Label:  "ventas",
		Data:   []float64{fig.Amount.InexactFloat64()},
		Colors: []string{colorPrimary},
	}}
	c.Center = fig.Formatted
	return c
}

// SalesCharts son los tres radiales de ventas: del día, 30 días e histórico.
func SalesCharts(section dto.Section[dto.SalesSummary]) []Chart {
	today := "del día de hoy"
	if section.Data.LatestOrderDay != "" {
		today = "del " + stats.ShortDate(section.Data.LatestOrderDay)
	}
	return []Chart{
		salesChart("sales-today", today, "Total de ventas del día", section,
			func(s dto.SalesSummary) dto.SalesFigure { return s.Today }),
		salesChart("sales-30d", "últimos 30 días", "Ventas confirmadas del último mes", section,
			func(s dto.SalesSummary) dto.SalesFigure { return s.Last30Days }),
		salesChart("sales-all", "histórico", "Ventas confirmadas desde el inicio", section,
			func(s dto.SalesSummary) dto.SalesFigure { return s.AllTime }),
	}
}

func DailyOrdersChart(section dto.Section[[]stats.DayRollup]) Chart {
	c := Chart{
		ID:     "orders-daily",
		Kind:   KindBar,
		Title:  "Órdenes del último mes",
		Footer: "Órdenes e IPs distintas por día",
		Error:  section.Error,
	}
	if c.Error != "" {
		return c
	}
	orders := make([]float64, len(section.Data))
	ips := make([]float64, len(section.Data))
	c.Labels = make([]string, len(section.Data))
	for i, d := range section.Data {
		c.Labels[i] = d.Label
		orders[i] = float64(d.Orders)
		ips[i] = float64(d.UniqueIPs)
	}
	c.Datasets = []Dataset{
		{Label: "órdenes", Data: orders, Colors: []string{colorPrimary}},
		{Label: "IPs distintas", Data: ips, Colors: []string{colorSecondary}},
	}
	return c
}

func LocationsChart(section dto.Section[[]stats.LocationCount]) Chart {
	c := Chart{
		ID:          "visits-locations",
		Kind:        KindHBar,
		Title:       "Estadísticas por localidad",
		Description: "últimas 24 horas",
		Footer:      "Distribución de visitas por localidad",
		Error:       section.Error,
	}
	if c.Error != "" {
		return c
	}
	ds := Dataset{Label: "visitas"}
	for _, l := range section.Data {
		c.Labels = append(c.Labels, l.Abbreviation)
		ds.Data = append(ds.Data, float64(l.Count))
		ds.Colors = append(ds.Colors, l.Fill)
	}
	c.Datasets = []Dataset{ds}
	return c
}

func HourlyChart(section dto.Section[[]stats.HourBucket]) Chart {
	c := Chart{
		ID:          "visits-hourly",
		Kind:        KindLine,
		Title:       "Estadísticas en vivo",
		Description: "últimas 24 horas",
		Error:       section.Error,
	}
	if c.Error != "" {
		return c
	}
	logged := Dataset{Label: "logueados", Colors: []string{colorPrimary}}
	anon := Dataset{Label: "no logueados", Colors: []string{colorSecondary}}
	for _, b := range section.Data {
		c.Labels = append(c.Labels, b.Hour)
		logged.Data = append(logged.Data, float64(b.LoggedIn))
		anon.Data = append(anon.Data, float64(b.Anonymous))
	}
	c.Datasets = []Dataset{logged, anon}
	return c
}

func SessionsChart(section dto.Section[stats.SessionCounts]) Chart {
	c := Chart{
		ID:     "sessions",
		Kind:   KindBar,
		Title:  "Estado de sesión de usuarios",
		Footer: "Usuarios logueados y no logueados",
		Labels: []string{"Logueados", "No logueados"},
		Error:  section.Error,
	}
	if c.Error != "" {
		return c
	}
	c.Datasets = []Dataset{{
		Label:  "visitas",
		Data:   []float64{float64(section.Data.LoggedIn), float64(section.Data.LoggedOut)},
		Colors: []string{colorPrimary, colorSecondary},
	}}
	return c
}

func DevicesChart(section dto.Section[stats.DeviceCounts]) Chart {
	c := Chart{
		ID:     "devices",
		Kind:   KindPie,
		Title:  "Mobile vs Desktop",
		Labels: []string{"Mobile", "Desktop"},
		Error:  section.Error,
	}
	if c.Error != "" {
		return c
	}
	c.Datasets = []Dataset{{
		Label:  "usuarios",
		Data:   []float64{float64(section.Data.Mobile), float64(section.Data.Desktop)},
		Colors: []string{"var(--color-mobile)", "var(--color-desktop)"},
	}}
	return c
}

func ProvincesChart(section dto.Section[stats.ProvinceReport]) Chart {
	c := Chart{
		ID:     "users-provinces",
		Kind:   KindPie,
		Title:  "Usuarios por provincia",
		Footer: "Usuarios agrupados por provincia",
		Error:  section.Error,
	}
	if c.Error != "" {
		return c
	}
	ds := Dataset{Label: "usuarios"}
	for _, p := range section.Data.Provinces {
		c.Labels = append(c.Labels, p.Province)
		ds.Data = append(ds.Data, float64(p.Count))
		ds.Colors = append(ds.Colors, p.Fill)
	}
	c.Datasets = []Dataset{ds}
	c.Center = strconv.Itoa(section.Data.TotalUsers)
	return c
}

// Charts arma todas las tarjetas en el orden en que se muestran.
func Charts(d *dto.Dashboard) []Chart {
	out := SalesCharts(d.Sales)
	return append(out,
		DailyOrdersChart(d.DailyOrders),
		LocationsChart(d.Locations),
		HourlyChart(d.Hourly),
		SessionsChart(d.Sessions),
		DevicesChart(d.Devices),
		ProvincesChart(d.Provinces),
	)
}
