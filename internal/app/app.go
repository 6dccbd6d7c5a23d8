// Package app arma el servicio: conexiones, servicios y rutas.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/rabbitmq/amqp091-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"stats-dashboard-service/internal/client"
	"stats-dashboard-service/internal/config"
	"stats-dashboard-service/internal/rabbit"
	"stats-dashboard-service/internal/repository"
	"stats-dashboard-service/internal/service"
	"stats-dashboard-service/internal/stats"
)

type App struct {
	cfg      *config.Config
	log      *zap.Logger
	location *time.Location

	dashboard *service.DashboardService
	leads     *service.LeadService
	auth      *service.AuthService // nil si no hay AUTH_URL
	sessions  sessions.Store

	mainClient     *mongo.Client
	trackingClient *mongo.Client
	rabbitConn     *amqp091.Connection
}

// New conecta las bases y arma los servicios. RabbitMQ y auth son opcionales.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	loc, err := stats.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	a := &App{cfg: cfg, log: log, location: loc}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	a.mainClient, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("conectando a mongo: %w", err)
	}
	a.trackingClient = a.mainClient
	if cfg.TrackingMongoURI != cfg.MongoURI {
		a.trackingClient, err = mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.TrackingMongoURI))
		if err != nil {
			_ = a.mainClient.Disconnect(ctx)
			return nil, fmt.Errorf("conectando a mongo de trackeo: %w", err)
		}
	}

	mainDB := a.mainClient.Database(cfg.MongoDBName)
	trackingDB := a.trackingClient.Database(cfg.TrackingDBName)

	a.dashboard = service.NewDashboardService(
		repository.NewMongoOrderRepository(mainDB, cfg.OrdersCollection),
		repository.NewMongoUserRepository(mainDB, cfg.UsersCollection),
		repository.NewMongoTrackingRepository(trackingDB, cfg.TrackingCollection),
		service.DashboardOptions{
			Location:             loc,
			ReconciliationOffset: cfg.SalesReconciliationOffset,
			DeviceDedupeByIP:     cfg.DeviceDedupeByIP,
			HourlyDedupeByIP:     cfg.HourlyDedupeByIP,
			ExcludedIPs:          cfg.ExcludedIPs,
			SnapshotTTL:          cfg.SnapshotTTL,
			ReadTimeout:          cfg.MongoReadTimeout,
		},
		log.Named("dashboard"),
	)

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	a.leads = service.NewLeadService(
		repository.NewMongoLeadRepository(trackingDB, cfg.LeadsCollection),
		client.NewEmailRelay(cfg.EmailRelayURL, cfg.EmailServiceID, cfg.EmailTemplateID, cfg.EmailPublicKey, httpClient),
		client.NewGeoLocator(cfg.IPLookupURL, cfg.GeoLookupURL, httpClient),
		log.Named("leads"),
	)

	if cfg.AuthURL != "" {
		a.auth = service.NewAuthService(cfg.AuthURL, httpClient)
	}

	warnDefaultSessionKey(cfg, log)
	a.sessions = newSessionStore(cfg.SessionKey, cfg.GinMode == "release")

	if cfg.RabbitURL != "" {
		a.connectRabbit()
	}

	return a, nil
}

// warnDefaultSessionKey avisa si producción firma las cookies con la clave de desarrollo.
func warnDefaultSessionKey(cfg *config.Config, log *zap.Logger) bool {
	if cfg.GinMode != "release" || cfg.SessionKey != config.DefaultSessionKey {
		return false
	}
	log.Warn("SESSION_KEY no configurada: las cookies se firman con la clave de desarrollo")
	return true
}

func newSessionStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// connectRabbit se suscribe a order_placed. Si falla el dashboard sigue
// andando; el snapshot solo se renueva por TTL.
func (a *App) connectRabbit() {
	conn, err := amqp091.Dial(a.cfg.RabbitURL)
	if err != nil {
		a.log.Warn("no se pudo conectar a RabbitMQ", zap.Error(err))
		return
	}
	ch, err := conn.Channel()
	if err != nil {
		a.log.Warn("no se pudo abrir canal en RabbitMQ", zap.Error(err))
		_ = conn.Close()
		return
	}

	consumer := rabbit.NewOrderPlacedConsumer(a.dashboard, service.SourceOrders, a.log.Named("rabbit"))
	if err := rabbit.SetupConsumers(ch, consumer, a.log.Named("rabbit")); err != nil {
		_ = conn.Close()
		return
	}
	a.rabbitConn = conn
}

// HealthChecks son los pings que usa /healthz.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if a.mainClient != nil {
		checks["mongo"] = func(ctx context.Context) error { return a.mainClient.Ping(ctx, readpref.Primary()) }
	}
	if a.trackingClient != nil && a.trackingClient != a.mainClient {
		checks["mongo_tracking"] = func(ctx context.Context) error { return a.trackingClient.Ping(ctx, readpref.Primary()) }
	}
	if a.rabbitConn != nil {
		checks["rabbit"] = func(context.Context) error {
			if a.rabbitConn.IsClosed() {
				return errors.New("conexión cerrada")
			}
			return nil
		}
	}
	return checks
}

// Close cierra RabbitMQ y los clientes de Mongo.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.rabbitConn != nil {
		a.log.Info("cerrando conexión a RabbitMQ")
		errs = append(errs, a.rabbitConn.Close())
	}
	if a.trackingClient != nil && a.trackingClient != a.mainClient {
		a.log.Info("desconectando Mongo de trackeo")
		errs = append(errs, a.trackingClient.Disconnect(ctx))
	}
	if a.mainClient != nil {
		a.log.Info("desconectando Mongo")
		errs = append(errs, a.mainClient.Disconnect(ctx))
	}
	return errors.Join(errs...)
}
