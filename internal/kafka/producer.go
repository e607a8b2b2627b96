package kafka

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"payment-service/internal/models"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

func (p *Producer) publish(event models.PaymentEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(strconv.FormatInt(event.PaymentID, 10)),
			Value: msgBytes,
		},
	)
}

// PublishPaymentProcessed streams the outcome of a processed payment,
// completed or failed.
func (p *Producer) PublishPaymentProcessed(payment models.Payment) error {
	return p.publish(models.PaymentEvent{
		Type:           "payment.processed",
		PaymentID:      payment.ID,
		OrderReference: payment.OrderReference,
		Payment:        &payment,
		Timestamp:      time.Now(),
	})
}

// PublishPaymentUpdated streams a manual full-record update.
func (p *Producer) PublishPaymentUpdated(payment models.Payment) error {
	return p.publish(models.PaymentEvent{
		Type:           "payment.updated",
		PaymentID:      payment.ID,
		OrderReference: payment.OrderReference,
		Payment:        &payment,
		Timestamp:      time.Now(),
	})
}

// PublishPaymentDeleted streams a hard delete; only the id survives the
// record.
func (p *Producer) PublishPaymentDeleted(paymentID int64) error {
	return p.publish(models.PaymentEvent{
		Type:      "payment.deleted",
		PaymentID: paymentID,
		Timestamp: time.Now(),
	})
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
