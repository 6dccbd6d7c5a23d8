// config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// DefaultSessionKey solo sirve para desarrollo local.
const DefaultSessionKey = "dev-session-key-change-me-please"

type Config struct {
	Port      string
	GinMode   string
	LogFormat string

	// Base principal (usuarios / órdenes)
	MongoURI         string
	MongoDBName      string
	OrdersCollection string
	UsersCollection  string

	// Base de trackeo (visitas / leads)
	TrackingMongoURI   string
	TrackingDBName     string
	TrackingCollection string
	LeadsCollection    string

	// Reglas de agregación
	Timezone                  string
	SalesReconciliationOffset decimal.Decimal
	DeviceDedupeByIP          bool
	HourlyDedupeByIP          bool
	ExcludedIPs               []string

	SnapshotTTL       time.Duration
	MongoReadTimeout  time.Duration
	HTTPClientTimeout time.Duration

	RabbitURL         string
	AuthURL           string
	SessionKey        string
	LeadRatePerMinute int

	// Relay de emails (EmailJS)
	EmailRelayURL   string
	EmailServiceID  string
	EmailTemplateID string
	EmailPublicKey  string
	IPLookupURL     string
	GeoLookupURL    string
}

// Load lee el .env (si existe) y después las variables de entorno.
func Load() *Config {
	_ = godotenv.Load()

	mongoURI := getEnv("MONGO_URI", "mongodb://host.docker.internal:27017")

	return &Config{
		Port:      getEnv("PORT", "8080"),
		GinMode:   getEnv("GIN_MODE", "release"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MongoURI:         mongoURI,
		MongoDBName:      getEnv("MONGO_DB_NAME", "kaury"),
		OrdersCollection: getEnv("ORDERS_COLLECTION", "userOrders"),
		UsersCollection:  getEnv("USERS_COLLECTION", "users"),

		TrackingMongoURI:   getEnv("TRACKING_MONGO_URI", mongoURI),
		TrackingDBName:     getEnv("TRACKING_DB_NAME", "trakeo"),
		TrackingCollection: getEnv("TRACKING_COLLECTION", "trakeoKaury"),
		LeadsCollection:    getEnv("LEADS_COLLECTION", "trakeoAlimentosNaturales"),

		Timezone:                  getEnv("TIMEZONE", "America/Argentina/Buenos_Aires"),
		SalesReconciliationOffset: getDecimal("SALES_RECONCILIATION_OFFSET", decimal.Zero),
		DeviceDedupeByIP:          getBool("DEVICE_DEDUPE_BY_IP", false),
		HourlyDedupeByIP:          getBool("HOURLY_DEDUPE_BY_IP", false),
		ExcludedIPs:               getList("EXCLUDED_IPS"),

		SnapshotTTL:       getDuration("SNAPSHOT_TTL", 0),
		MongoReadTimeout:  getDuration("MONGO_READ_TIMEOUT", 10*time.Second),
		HTTPClientTimeout: getDuration("HTTP_CLIENT_TIMEOUT", 5*time.Second),

		RabbitURL:         getEnv("RABBIT_URL", ""),
		AuthURL:           getEnv("AUTH_URL", ""),
		SessionKey:        getEnv("SESSION_KEY", DefaultSessionKey),
		LeadRatePerMinute: getInt("LEAD_RATE_PER_MINUTE", 10),

		EmailRelayURL:   getEnv("EMAIL_RELAY_URL", "https://api.emailjs.com/api/v1.0/email/send"),
		EmailServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),
		IPLookupURL:     getEnv("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
		GeoLookupURL:    getEnv("GEO_LOOKUP_URL", "https://ipapi.co/%s/json/"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v, err := decimal.NewFromString(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

// getList separa por comas y descarta los vacíos.
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(getEnv(key, ""), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
