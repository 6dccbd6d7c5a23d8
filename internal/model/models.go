// models.go
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de orden que usa el sistema de pedidos (externo).
const (
	StatusNueva        = "nueva"
	StatusCancelada    = "cancelada"
	StatusArchivada    = "archivada"
	StatusEmpaquetada  = "empaquetada"
	StatusEnviada      = "enviada"
	StatusPagoRecibido = "pagoRecibido"
)

// Order es una venta tal como la guarda el sistema de pedidos. Solo lectura.
type Order struct {
	ID        string              `json:"id"`
	Date      time.Time           `json:"date"` // cero si falta o no se pudo leer
	Status    string              `json:"status"`
	LastState string              `json:"lastState"` // estado previo al archivado
	Total     decimal.NullDecimal `json:"total"`     // Valid=false si no es numérico
	Channel   string              `json:"canalVenta"`
	ClientID  string              `json:"clienteId"`
	IPAddress string              `json:"ipAddress"`
	Number    int64               `json:"numberOrder"`
	Note      string              `json:"note"`
}

// TrackingEvent es una visita o ping de sesión.
type TrackingEvent struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"dateTime"`
	IP        string       `json:"ip"`
	Location  string       `json:"location"`
	IsLogged  bool         `json:"isLogged"`
	IsMobile  bool         `json:"isMobile"`
	UserAgent string       `json:"userAgent"`
	User      *TrackedUser `json:"user,omitempty"`
}

type TrackedUser struct {
	Email string `bson:"email" json:"email"`
	Role  string `bson:"rol" json:"rol"`
}

// User es una cuenta registrada con su dirección de envío.
type User struct {
	ID       string        `json:"id"`
	Email    string        `json:"email"`
	Shipping *ShippingData `json:"datosEnvio,omitempty"`
}

type ShippingData struct {
	Province string `bson:"provincia" json:"provincia"`
}

// LeadRecord es el único documento que escribe este servicio.
type LeadRecord struct {
	Email      string     `bson:"email" json:"email"`
	Name       string     `bson:"name" json:"name"`
	Phone      string     `bson:"telefono" json:"telefono"`
	DeviceInfo DeviceInfo `bson:"deviceInfo" json:"deviceInfo"`
	IPAddress  *string    `bson:"ipAddress" json:"ipAddress"`
	Location   *string    `bson:"location" json:"location"`
	Timestamp  time.Time  `bson:"timestamp" json:"timestamp"`
}

type DeviceInfo struct {
	UserAgent        string `bson:"userAgent" json:"userAgent"`
	DeviceType       string `bson:"deviceType" json:"deviceType"`
	Language         string `bson:"language" json:"language"`
	ScreenResolution string `bson:"screenResolution" json:"screenResolution"`
}
