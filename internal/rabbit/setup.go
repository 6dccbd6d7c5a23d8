// setup.go
package rabbit

import (
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const OrderPlacedExchange = "order_placed"

// Channel es la parte de *amqp091.Channel que usa SetupConsumers.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp091.Table) (amqp091.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp091.Table) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error)
}

// SetupConsumers se suscribe al exchange fanout de órdenes. Cada instancia
// tiene su propia queue (nombre asignado por el broker, exclusiva) así todas
// reciben cada evento. Si algo falla el dashboard sigue funcionando, solo que
// sin invalidación por eventos.
func SetupConsumers(ch Channel, consumer *OrderPlacedConsumer, log *zap.Logger) error {
	// 1. Declarar la queue de esta instancia
	q, err := ch.QueueDeclare(
		"",    // nombre lo asigna el broker
		false, // no durable: un snapshot viejo no sobrevive al proceso
		true,  // auto-delete
		true,  // exclusiva de esta conexión
		false,
		nil,
	)
	if err != nil {
		log.Error("error declarando queue", zap.Error(err))
		return err
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		OrderPlacedExchange,
		false,
		nil,
	)
	if err != nil {
		log.Error("error binding exchange", zap.String("exchange", OrderPlacedExchange), zap.Error(err))
		return err
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error("error al consumir queue", zap.String("queue", q.Name), zap.Error(err))
		return err
	}

	go func() {
		for m := range msgs {
			_ = consumer.Handle(m.Body)
		}
		log.Info("canal de rabbit cerrado, se deja de consumir", zap.String("queue", q.Name))
	}()

	log.Info("suscrito a exchange fanout", zap.String("exchange", OrderPlacedExchange), zap.String("queue", q.Name))
	return nil
}
