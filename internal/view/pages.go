package view

import (
	"embed"
	"html/template"
	"time"

	"stats-dashboard-service/internal/dto"
)

//go:embed templates/*.html
var templateFS embed.FS

// Nombres con los que se renderizan las páginas (c.HTML).
const (
	LeadPageName      = "lead.html"
	DashboardPageName = "dashboard.html"
	ErrorPageName     = "error.html"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Templates parsea todas las páginas embebidas. Panic si alguna no compila:
// se llama una sola vez al arrancar.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Page son los datos comunes a todas las páginas.
type Page struct {
	Title string
	Theme string
	Path  string
}

type LeadPage struct {
	Page
	Form    dto.LeadRequest
	Errors  map[string]string
	Success bool
	Failure bool
}

type DashboardPage struct {
	Page
	GeneratedAt string
	Charts      []Chart
}

type ErrorPage struct {
	Page
	Message string
}

func NewLeadPage(theme string) LeadPage {
	return LeadPage{
		Page:   Page{Title: "Alimentos Naturales", Theme: normalizeTheme(theme), Path: "/"},
		Errors: map[string]string{},
	}
}

func NewDashboardPage(theme string, d *dto.Dashboard, loc *time.Location) DashboardPage {
	if loc == nil {
		loc = time.UTC
	}
	return DashboardPage{
		Page:        Page{Title: "Estadísticas", Theme: normalizeTheme(theme), Path: "/dashboard"},
		GeneratedAt: d.GeneratedAt.In(loc).Format("02/01/2006 15:04"),
		Charts:      Charts(d),
	}
}

func NewErrorPage(theme, path, message string) ErrorPage {
	return ErrorPage{
		Page:    Page{Title: "Error", Theme: normalizeTheme(theme), Path: path},
		Message: message,
	}
}

func normalizeTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
