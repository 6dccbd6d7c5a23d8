package app

import (
	"github.com/gin-gonic/gin"

	"stats-dashboard-service/internal/controller"
	"stats-dashboard-service/internal/middleware"
	"stats-dashboard-service/internal/view"
)

// Router arma el engine de gin con todas las rutas.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(a.log.Named("http")))
	r.SetHTMLTemplate(view.Templates())

	themes := controller.NewThemes(a.sessions, a.log)
	dashCtrl := controller.NewDashboardController(a.dashboard, themes, a.location, a.log)
	leadCtrl := controller.NewLeadController(a.leads, themes, a.log)
	health := controller.NewHealthController(a.HealthChecks())
	limiter := middleware.NewIPRateLimiter(a.cfg.LeadRatePerMinute)

	// Rutas públicas
	r.GET("/healthz", health.Health)
	r.GET("/", leadCtrl.Form)
	r.POST("/", limiter.Middleware(), leadCtrl.SubmitForm)
	r.POST("/api/leads", limiter.Middleware(), leadCtrl.Create)
	r.POST("/preferences/theme", themes.SetTheme)

	// Dashboard: protegido solo si hay servicio de auth configurado
	dash := r.Group("/")
	if a.auth != nil {
		dash.Use(middleware.AuthMiddleware(a.auth), middleware.AdminOnly(a.log))
	}
	dash.GET("/dashboard", dashCtrl.Page)

	api := dash.Group("/api/dashboard")
	api.GET("", dashCtrl.GetDashboard)
	api.GET("/sales", dashCtrl.GetSales)
	api.GET("/orders/daily", dashCtrl.GetDailyOrders)
	api.GET("/visits/locations", dashCtrl.GetLocations)
	api.GET("/visits/hourly", dashCtrl.GetHourly)
	api.GET("/sessions", dashCtrl.GetSessions)
	api.GET("/devices", dashCtrl.GetDevices)
	api.GET("/users/provinces", dashCtrl.GetProvinces)

	return r
}
