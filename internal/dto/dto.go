// dto.go
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stats-dashboard-service/internal/stats"
)

// LeadRequest llega del formulario (form-urlencoded) o de la API (JSON).
type LeadRequest struct {
	Email            string `form:"email" json:"email" binding:"required,email"`
	Name             string `form:"name" json:"name" binding:"required"`
	Phone            string `form:"telefono" json:"telefono" binding:"required,numeric"`
	ScreenResolution string `form:"screenResolution" json:"screenResolution" binding:"max=32"`
}

type LeadResponse struct {
	Message  string  `json:"message"`
	Location *string `json:"location"`
}

// ValidationErrorResponse lista los errores por campo del formulario.
type ValidationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type ThemeRequest struct {
	Theme string `form:"theme" json:"theme" binding:"required,oneof=light dark"`
}

// SalesFigure es un importe con su versión formateada en pesos.
type SalesFigure struct {
	Amount    decimal.Decimal `json:"amount"`
	Formatted string          `json:"formatted"`
}

type SalesSummary struct {
	Today          SalesFigure `json:"today"`
	Last30Days     SalesFigure `json:"last30Days"`
	AllTime        SalesFigure `json:"allTime"`
	LatestOrderDay string      `json:"latestOrderDay,omitempty"`
}

// Section envuelve los datos de un gráfico. Error viene vacío si la
// colección de la que depende se pudo leer.
type Section[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

type Dashboard struct {
	GeneratedAt time.Time                      `json:"generatedAt"`
	Sales       Section[SalesSummary]          `json:"sales"`
	DailyOrders Section[[]stats.DayRollup]     `json:"dailyOrders"`
	Locations   Section[[]stats.LocationCount] `json:"locations"`
	Hourly      Section[[]stats.HourBucket]    `json:"hourly"`
	Sessions    Section[stats.SessionCounts]   `json:"sessions"`
	Devices     Section[stats.DeviceCounts]    `json:"devices"`
	Provinces   Section[stats.ProvinceReport]  `json:"provinces"`
}
