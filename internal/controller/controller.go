package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stats-dashboard-service/internal/service"
	"stats-dashboard-service/internal/view"
)

type DashboardController struct {
	Service  *service.DashboardService
	Themes   *Themes
	Location *time.Location
	log      *zap.Logger
}

func NewDashboardController(s *service.DashboardService, themes *Themes, loc *time.Location, log *zap.Logger) *DashboardController {
	return &DashboardController{Service: s, Themes: themes, Location: loc, log: log}
}

// GET /dashboard — página con todos los gráficos
func (ctl *DashboardController) Page(c *gin.Context) {
	theme := ctl.Themes.Current(c)

	d, err := ctl.Service.Dashboard(c.Request.Context())
	if err != nil {
		// solo pasa si el cliente cortó: no hay a quién responderle
		ctl.log.Debug("dashboard cancelado", zap.Error(err))
		c.HTML(http.StatusServiceUnavailable, view.ErrorPageName,
			view.NewErrorPage(theme, "/dashboard", "No se pudo cargar el dashboard"))
		return
	}

	c.HTML(http.StatusOK, view.DashboardPageName, view.NewDashboardPage(theme, d, ctl.Location))
}

// GET /api/dashboard — todos los agregados; los errores van por sección
func (ctl *DashboardController) GetDashboard(c *gin.Context) {
	d, err := ctl.Service.Dashboard(c.Request.Context())
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/dashboard/sales
func (ctl *DashboardController) GetSales(c *gin.Context) {
	respond(ctl, c, ctl.Service.Sales)
}

// GET /api/dashboard/orders/daily
func (ctl *DashboardController) GetDailyOrders(c *gin.Context) {
	respond(ctl, c, ctl.Service.DailyOrders)
}

// GET /api/dashboard/visits/locations
func (ctl *DashboardController) GetLocations(c *gin.Context) {
	respond(ctl, c, ctl.Service.Locations)
}

// GET /api/dashboard/visits/hourly
func (ctl *DashboardController) GetHourly(c *gin.Context) {
	respond(ctl, c, ctl.Service.Hourly)
}

// GET /api/dashboard/sessions
func (ctl *DashboardController) GetSessions(c *gin.Context) {
	respond(ctl, c, ctl.Service.Sessions)
}

// GET /api/dashboard/devices
func (ctl *DashboardController) GetDevices(c *gin.Context) {
	respond(ctl, c, ctl.Service.Devices)
}

// GET /api/dashboard/users/provinces
func (ctl *DashboardController) GetProvinces(c *gin.Context) {
	respond(ctl, c, ctl.Service.Provinces)
}

func respond[T any](ctl *DashboardController, c *gin.Context, get func(context.Context) (T, error)) {
	data, err := get(c.Request.Context())
	if err != nil {
		ctl.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (ctl *DashboardController) writeError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrSourceUnavailable):
		ctl.log.Error("colección no disponible", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "no se pudieron cargar los datos"})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pedido cancelado"})
	default:
		ctl.log.Error("error inesperado en dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno"})
	}
}

// HealthController responde /healthz probando las dependencias.
type HealthController struct {
	checks map[string]func(context.Context) error
}

func NewHealthController(checks map[string]func(context.Context) error) *HealthController {
	return &HealthController{checks: checks}
}

// GET /healthz
func (h *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failing := gin.H{}
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			failing[name] = err.Error()
		}
	}
	if len(failing) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failing": failing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
