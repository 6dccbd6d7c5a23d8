package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stats-dashboard-service/internal/dto"
	"stats-dashboard-service/internal/stats"
)

func sampleDashboard() *dto.Dashboard {
	d := &dto.Dashboard{GeneratedAt: time.Date(2024, 3, 15, 21, 0, 0, 0, time.UTC)}
	d.Sales.Data = dto.SalesSummary{
		Today:          dto.SalesFigure{Amount: decimal.RequireFromString("1500.5"), Formatted: "$ 1.500,50"},
		Last30Days:     dto.SalesFigure{Amount: decimal.NewFromInt(2500), Formatted: "$ 2.500"},
		AllTime:        dto.SalesFigure{Amount: decimal.NewFromInt(9000), Formatted: "$ 9.000"},
		LatestOrderDay: "2024-03-15",
	}
	d.DailyOrders.Data = []stats.DayRollup{
		{Date: "2024-03-14", Label: "14 mar", Orders: 3, UniqueIPs: 2},
		{Date: "2024-03-15", Label: "15 mar", Orders: 1, UniqueIPs: 1},
	}
	d.Locations.Data = []stats.LocationCount{{Location: "Mar del Plata", Abbreviation: "MDP", Count: 4, Fill: "hsl(10, 70%, 50%)"}}
	d.Hourly.Data = []stats.HourBucket{{Hour: "20:00", LoggedIn: 1, Anonymous: 2}}
	d.Sessions.Data = stats.SessionCounts{LoggedIn: 3, LoggedOut: 5}
	d.Devices.Error = "no se pudieron cargar los datos"
	d.Provinces.Data = stats.ProvinceReport{
		TotalUsers: 7,
		Provinces:  []stats.ProvinceCount{{Province: "buenos aires", Count: 5, Fill: "var(--color-buenos-aires)"}},
	}
	return d
}

func TestCharts_OneSpecPerCard(t *testing.T) {
	charts := Charts(sampleDashboard())
	require.Len(t, charts, 9)

	byID := map[string]Chart{}
	for _, c := range charts {
		byID[c.ID] = c
	}

	today := byID["sales-today"]
	assert.Equal(t, KindRadial, today.Kind)
	assert.Equal(t, "$ 1.500,50", today.Center)
	assert.Equal(t, "del 15 mar", today.Description)
	assert.Equal(t, []float64{1500.5}, today.Datasets[0].Data)

	daily := byID["orders-daily"]
	assert.Equal(t, []string{"14 mar", "15 mar"}, daily.Labels)
	require.Len(t, daily.Datasets, 2)
	assert.Equal(t, []float64{3, 1}, daily.Datasets[0].Data)
	assert.Equal(t, []float64{2, 1}, daily.Datasets[1].Data)

	loc := byID["visits-locations"]
	assert.Equal(t, KindHBar, loc.Kind)
	assert.Equal(t, []string{"MDP"}, loc.Labels)
	assert.Equal(t, []string{"hsl(10, 70%, 50%)"}, loc.Datasets[0].Colors)

	assert.Equal(t, []float64{3, 5}, byID["sessions"].Datasets[0].Data)
	assert.Equal(t, "7", byID["users-provinces"].Center)

	devices := byID["devices"]
	assert.NotEmpty(t, devices.Error)
	assert.Empty(t, devices.Datasets)
}

func TestSalesCharts_ErrorMarksAllThree(t *testing.T) {
	charts := SalesCharts(dto.Section[dto.SalesSummary]{Error: "x"})
	require.Len(t, charts, 3)
	for _, c := range charts {
		assert.Equal(t, "x", c.Error)
		assert.Empty(t, c.Center)
	}
	assert.Equal(t, "del día de hoy", charts[0].Description)
}

func TestTemplates_Dashboard(t *testing.T) {
	var buf bytes.Buffer
	page := NewDashboardPage(ThemeDark, sampleDashboard(), nil)
	require.NoError(t, Templates().ExecuteTemplate(&buf, DashboardPageName, page))

	html := buf.String()
	assert.Contains(t, html, `<body class="dark">`)
	assert.Contains(t, html, `id="orders-daily"`)
	assert.Contains(t, html, "15/03/2024 21:00")
	// la tarjeta con error no tiene canvas
	assert.NotContains(t, html, `id="devices"`)
	assert.Contains(t, html, "no se pudieron cargar los datos")
	// los datos van como JSON dentro del script
	assert.Contains(t, html, `"kind":"radial"`)
}

func TestTemplates_LeadForm(t *testing.T) {
	tpl := Templates()

	page := NewLeadPage("")
	page.Form = dto.LeadRequest{Email: "mal", Name: "<b>Tienda</b>"}
	page.Errors["email"] = "Ingresá un email válido"

	var buf bytes.Buffer
	require.NoError(t, tpl.ExecuteTemplate(&buf, LeadPageName, page))
	html := buf.String()
	assert.Contains(t, html, `<body class="light">`)
	assert.Contains(t, html, "Ingresá un email válido")
	assert.Contains(t, html, "&lt;b&gt;Tienda&lt;/b&gt;")
	assert.Equal(t, 1, strings.Count(html, `class="error"`))

	page = NewLeadPage(ThemeLight)
	page.Form = dto.LeadRequest{Email: "a@b.com", Name: "Tienda"}
	page.Success = true
	buf.Reset()
	require.NoError(t, tpl.ExecuteTemplate(&buf, LeadPageName, page))
	assert.Contains(t, buf.String(), "¡Gracias Tienda!")
	assert.NotContains(t, buf.String(), "<form method=\"post\" action=\"/\"")
}

func TestTemplates_ErrorPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, ErrorPageName, NewErrorPage("dark", "/", "No pudimos registrar tus datos")))
	assert.Contains(t, buf.String(), "No pudimos registrar tus datos")
}
