package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stats-dashboard-service/internal/dto"
	"stats-dashboard-service/internal/model"
	"stats-dashboard-service/internal/stats"
)

// Interfaces que deben implementar los repositorios
type OrderRepository interface {
	FindAll(ctx context.Context) ([]model.Order, error)
}

type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
}

type TrackingRepository interface {
	FindAll(ctx context.Context) ([]model.TrackingEvent, error)
}

// Mensaje que ve el usuario cuando un gráfico no pudo cargarse.
const sectionUnavailable = "no se pudieron cargar los datos"

// DashboardOptions reúne las variantes de cálculo configurables.
type DashboardOptions struct {
	Location             *time.Location
	ReconciliationOffset decimal.Decimal
	DeviceDedupeByIP     bool
	HourlyDedupeByIP     bool
	ExcludedIPs          []string
	SnapshotTTL          time.Duration
	ReadTimeout          time.Duration
	Now                  func() time.Time
}

type DashboardService struct {
	orders   OrderRepository
	users    UserRepository
	tracking TrackingRepository
	opts     DashboardOptions
	loader   *snapshotLoader
	log      *zap.Logger
}

func NewDashboardService(orders OrderRepository, users UserRepository, tracking TrackingRepository, opts DashboardOptions, log *zap.Logger) *DashboardService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = 10 * time.Second
	}
	return &DashboardService{
		orders:   orders,
		users:    users,
		tracking: tracking,
		opts:     opts,
		loader:   newSnapshotLoader(opts.SnapshotTTL, opts.ReadTimeout, opts.Now, log),
		log:      log,
	}
}

// Invalidate descarta la copia en memoria de una colección (SourceOrders, ...).
func (s *DashboardService) Invalidate(source string) {
	s.loader.Invalidate(source)
}

func (s *DashboardService) loadOrders(ctx context.Context) ([]model.Order, error) {
	return load(ctx, s.loader, SourceOrders, s.orders.FindAll)
}

func (s *DashboardService) loadUsers(ctx context.Context) ([]model.User, error) {
	return load(ctx, s.loader, SourceUsers, s.users.FindAll)
}

func (s *DashboardService) loadTracking(ctx context.Context) ([]model.TrackingEvent, error) {
	return load(ctx, s.loader, SourceTracking, s.tracking.FindAll)
}

// Dashboard lee cada colección una sola vez (en paralelo) y arma todos los
// gráficos. Si una colección falla solo se marcan los gráficos que dependen de ella.
func (s *DashboardService) Dashboard(ctx context.Context) (*dto.Dashboard, error) {
	var (
		wg                            sync.WaitGroup
		orders                        []model.Order
		users                         []model.User
		events                        []model.TrackingEvent
		ordersErr, usersErr, eventErr error
	)
	wg.Add(3)
	go func() { defer wg.Done(); orders, ordersErr = s.loadOrders(ctx) }()
	go func() { defer wg.Done(); users, usersErr = s.loadUsers(ctx) }()
	go func() { defer wg.Done(); events, eventErr = s.loadTracking(ctx) }()
	wg.Wait()

	// el cliente se fue: no tiene sentido armar nada
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.opts.Now()
	out := &dto.Dashboard{GeneratedAt: now}

	if s.sectionFailed(SourceOrders, ordersErr) {
		out.Sales.Error = sectionUnavailable
		out.DailyOrders.Error = sectionUnavailable
	} else {
		out.Sales.Data = s.salesSummary(orders, now)
		out.DailyOrders.Data = stats.DailyRollup(orders, now, s.opts.Location)
	}

	if s.sectionFailed(SourceTracking, eventErr) {
		out.Locations.Error = sectionUnavailable
		out.Hourly.Error = sectionUnavailable
		out.Sessions.Error = sectionUnavailable
		out.Devices.Error = sectionUnavailable
	} else {
		out.Locations.Data = stats.LocationDistribution(events, now)
		out.Hourly.Data = s.hourly(events, now)
		out.Sessions.Data = stats.SessionSplit(events)
		out.Devices.Data = s.devices(events)
	}

	if s.sectionFailed(SourceUsers, usersErr) {
		out.Provinces.Error = sectionUnavailable
	} else {
		out.Provinces.Data = stats.Provinces(users)
	}

	return out, nil
}

func (s *DashboardService) sectionFailed(source string, err error) bool {
	if err == nil {
		return false
	}
	s.log.Error("error leyendo colección", zap.String("source", source), zap.Error(err))
	return true
}

// Sales devuelve las ventas confirmadas del día, de los últimos 30 días y el histórico.
func (s *DashboardService) Sales(ctx context.Context) (dto.SalesSummary, error) {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return dto.SalesSummary{}, err
	}
	return s.salesSummary(orders, s.opts.Now()), nil
}

func (s *DashboardService) DailyOrders(ctx context.Context) ([]stats.DayRollup, error) {
	orders, err := s.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	return stats.DailyRollup(orders, s.opts.Now(), s.opts.Location), nil
}

func (s *DashboardService) Locations(ctx context.Context) ([]stats.LocationCount, error) {
	events, err := s.loadTracking(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LocationDistribution(events, s.opts.Now()), nil
}

func (s *DashboardService) Hourly(ctx context.Context) ([]stats.HourBucket, error) {
	events, err := s.loadTracking(ctx)
	if err != nil {
		return nil, err
	}
	return s.hourly(events, s.opts.Now()), nil
}

func (s *DashboardService) Sessions(ctx context.Context) (stats.SessionCounts, error) {
	events, err := s.loadTracking(ctx)
	if err != nil {
		return stats.SessionCounts{}, err
	}
	return stats.SessionSplit(events), nil
}

func (s *DashboardService) Devices(ctx context.Context) (stats.DeviceCounts, error) {
	events, err := s.loadTracking(ctx)
	if err != nil {
		return stats.DeviceCounts{}, err
	}
	return s.devices(events), nil
}

func (s *DashboardService) Provinces(ctx context.Context) (stats.ProvinceReport, error) {
	users, err := s.loadUsers(ctx)
	if err != nil {
		return stats.ProvinceReport{}, err
	}
	return stats.Provinces(users), nil
}

func (s *DashboardService) salesSummary(orders []model.Order, now time.Time) dto.SalesSummary {
	figure := func(w stats.Window, digits int) dto.SalesFigure {
		amount := stats.SumSales(orders, now, stats.SalesOptions{
			Window:               w,
			Location:             s.opts.Location,
			ReconciliationOffset: s.opts.ReconciliationOffset,
		})
		return dto.SalesFigure{Amount: amount, Formatted: stats.FormatARS(amount, digits)}
	}

	out := dto.SalesSummary{
		Today:      figure(stats.WindowLatestDay, 2),
		Last30Days: figure(stats.WindowLast30Days, 0),
		AllTime:    figure(stats.WindowAll, 0),
	}
	if latest, ok := stats.LatestOrderDate(orders); ok {
		out.LatestOrderDay = latest.In(s.opts.Location).Format("2006-01-02")
	}
	return out
}

func (s *DashboardService) hourly(events []model.TrackingEvent, now time.Time) []stats.HourBucket {
	return stats.HourlySessions(events, now, stats.HourlyOptions{
		Location:   s.opts.Location,
		DedupeByIP: s.opts.HourlyDedupeByIP,
	})
}

func (s *DashboardService) devices(events []model.TrackingEvent) stats.DeviceCounts {
	return stats.DeviceSplit(events, stats.DeviceOptions{
		DedupeByIP:  s.opts.DeviceDedupeByIP,
		ExcludedIPs: s.opts.ExcludedIPs,
	})
}
