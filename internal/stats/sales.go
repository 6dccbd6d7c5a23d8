// Package stats agrupa los cálculos del tablero. Son funciones puras sobre
// snapshots en memoria: no hacen I/O y nunca modifican los slices de entrada.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"stats-dashboard-service/internal/model"
)

// Window define el rango de fechas de una suma de ventas.
type Window int

const (
	WindowAll Window = iota
	WindowLast30Days
	WindowLatestDay
)

func (w Window) String() string {
	switch w {
	case WindowLast30Days:
		return "last30days"
	case WindowLatestDay:
		return "latestDay"
	default:
		return "all"
	}
}

// SalesOptions parametriza SumSales.
type SalesOptions struct {
	Window Window
	// Location se usa para calcular "hoy" y los 30 días. nil = UTC.
	Location *time.Location
	// ReconciliationOffset es un ajuste manual que se suma al resultado.
	// Solo aplica a WindowAll y por defecto es cero.
	ReconciliationOffset decimal.Decimal
}

// estados previos al archivado que cuentan como venta cumplida
var fulfilledBeforeArchive = map[string]bool{
	model.StatusEmpaquetada:  true,
	model.StatusEnviada:      true,
	model.StatusPagoRecibido: true,
}

// IsConfirmedSale indica si la orden suma como venta confirmada: cualquier
// estado activo, o archivada después de haber llegado a un estado cumplido.
func IsConfirmedSale(o model.Order) bool {
	switch o.Status {
	case model.StatusCancelada, model.StatusNueva:
		return false
	case model.StatusArchivada:
		return fulfilledBeforeArchive[o.LastState]
	default:
		return true
	}
}

// SumSales suma el total de las ventas confirmadas dentro de la ventana pedida.
// Los totales no numéricos se ignoran.
func SumSales(orders []model.Order, now time.Time, opts SalesOptions) decimal.Decimal {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	var include func(model.Order) bool
	switch opts.Window {
	case WindowLast30Days:
		from := now.In(loc).AddDate(0, 0, -30)
		include = func(o model.Order) bool {
			return !o.Date.IsZero() && !o.Date.Before(from)
		}
	case WindowLatestDay:
		latest, ok := LatestOrderDate(orders)
		if !ok {
			return decimal.Zero
		}
		day := startOfDay(latest, loc)
		include = func(o model.Order) bool {
			return !o.Date.IsZero() && startOfDay(o.Date, loc).Equal(day)
		}
	default:
		include = func(model.Order) bool { return true }
	}

	total := decimal.Zero
	for _, o := range orders {
		if !o.Total.Valid || !IsConfirmedSale(o) || !include(o) {
			continue
		}
		total = total.Add(o.Total.Decimal)
	}

	if opts.Window == WindowAll {
		total = total.Add(opts.ReconciliationOffset)
	}
	return total
}

// LatestOrderDate devuelve la fecha más reciente del conjunto, sin importar el estado.
func LatestOrderDate(orders []model.Order) (time.Time, bool) {
	var latest time.Time
	for _, o := range orders {
		if o.Date.After(latest) {
			latest = o.Date
		}
	}
	return latest, !latest.IsZero()
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
