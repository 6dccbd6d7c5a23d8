package rabbit

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Invalidator descarta las órdenes que el dashboard tiene en memoria.
type Invalidator interface {
	Invalidate(source string)
}

type OrderPlacedConsumer struct {
	cache  Invalidator
	source string
	log    *zap.Logger
}

func NewOrderPlacedConsumer(cache Invalidator, source string, log *zap.Logger) *OrderPlacedConsumer {
	return &OrderPlacedConsumer{cache: cache, source: source, log: log}
}

// Solo se lee lo necesario para loguear; el resto del mensaje se ignora.
type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID string `json:"orderId"`
		UserID  string `json:"userId"`
	} `json:"message"`
}

// Handle invalida el snapshot de órdenes aunque el mensaje no se pueda
// parsear: alcanza con saber que hubo una orden nueva.
func (c *OrderPlacedConsumer) Handle(msg []byte) error {
	c.cache.Invalidate(c.source)

	var event PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		c.log.Warn("mensaje order_placed ilegible", zap.Error(err))
		return err
	}

	c.log.Info("snapshot de órdenes invalidado",
		zap.String("order_id", event.Message.OrderID),
		zap.String("correlation_id", event.CorrelationID),
	)
	return nil
}
