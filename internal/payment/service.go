package payment

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"payment-service/internal/logger"
	"payment-service/internal/models"

	"github.com/google/uuid"
)

// ErrPaymentNotFound marks lookup, update and delete targets that do not
// exist. Every other failure propagates opaquely to the boundary.
var ErrPaymentNotFound = errors.New("payment not found")

const (
	// failureMarker denies the simulated gateway authorization when it occurs
	// anywhere in the card details (case-sensitive).
	failureMarker = "fail"

	// defaultPaymentMethod is the fixed label assigned to every processed
	// payment; card details are never parsed into a method type.
	defaultPaymentMethod = "Credit/Debit Card"
)

type DBLayer interface {
	CreatePayment(payment *models.Payment) error
	GetPaymentByID(id int64) (*models.Payment, error)
	GetPaymentByOrderReference(orderReference string) (*models.Payment, error)
	GetPaymentByTransactionID(transactionID string) (*models.Payment, error)
	ListPayments() ([]models.Payment, error)
	UpdatePayment(payment models.Payment) error
	PaymentExists(id int64) (bool, error)
	DeletePayment(id int64) error
}

type KafkaPublisher interface {
	PublishPaymentProcessed(payment models.Payment) error
	PublishPaymentUpdated(payment models.Payment) error
	PublishPaymentDeleted(paymentID int64) error
}

type PaymentService struct {
	DB     DBLayer
	Kafka  KafkaPublisher
	Logger *logger.Logger
}

// NewPaymentService wires the engine to its store. kafka may be nil when event
// publishing is disabled.
func NewPaymentService(db DBLayer, kafka KafkaPublisher, log *logger.Logger) *PaymentService {
	return &PaymentService{DB: db, Kafka: kafka, Logger: log}
}

// cardAuthorized is the gateway simulation: a pure predicate standing in for
// the external authorization call.
func cardAuthorized(methodDetails string) bool {
	return !strings.Contains(methodDetails, failureMarker)
}

// ProcessPayment derives an outcome for the request and persists the
// resulting record. A declined payment is a normal, persisted outcome, not an
// error: callers distinguish it by PaymentStatus alone.
func (s *PaymentService) ProcessPayment(req models.PaymentProcessingRequest) (*models.Payment, error) {
	payment := models.Payment{
		OrderReference: req.OrderReference,
		Amount:         req.Amount,
		PaymentMethod:  defaultPaymentMethod,
	}

	if cardAuthorized(req.MethodDetails) {
		payment.PaymentStatus = models.StatusCompleted
		payment.TransactionID = uuid.NewString()
		s.Logger.LogGateway("APPROVED", req.OrderReference,
			fmt.Sprintf("Simulated gateway authorized payment, transaction %s", payment.TransactionID))
	} else {
		payment.PaymentStatus = models.StatusFailed
		payment.TransactionID = ""
		s.Logger.LogGateway("DENIED", req.OrderReference, "Simulated gateway denied payment")
	}
	payment.TransactionDate = time.Now()

	if err := s.DB.CreatePayment(&payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishPaymentProcessed(payment); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish processed event for payment %d: %v", payment.ID, err))
		}
	}

	return &payment, nil
}

// GetPaymentByID returns (nil, nil) when no payment has the id; absence is not
// an error at this layer.
func (s *PaymentService) GetPaymentByID(id int64) (*models.Payment, error) {
	payment, err := s.DB.GetPaymentByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}
	return payment, nil
}

func (s *PaymentService) GetPaymentByOrderReference(orderReference string) (*models.Payment, error) {
	payment, err := s.DB.GetPaymentByOrderReference(orderReference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for order reference: %s", ErrPaymentNotFound, orderReference)
		}
		return nil, fmt.Errorf("failed to get payment for order reference %s: %w", orderReference, err)
	}
	return payment, nil
}

func (s *PaymentService) GetPaymentByTransactionID(transactionID string) (*models.Payment, error) {
	payment, err := s.DB.GetPaymentByTransactionID(transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for transaction id: %s", ErrPaymentNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to get payment for transaction id %s: %w", transactionID, err)
	}
	return payment, nil
}

func (s *PaymentService) GetAllPayments() ([]models.Payment, error) {
	payments, err := s.DB.ListPayments()
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// UpdatePayment replaces every field of the stored record except the id with
// the supplied values. No cross-field consistency check is performed: callers
// may persist a COMPLETED payment without a transaction id, and the record is
// stored exactly as supplied.
func (s *PaymentService) UpdatePayment(id int64, values models.Payment) (*models.Payment, error) {
	existing, err := s.DB.GetPaymentByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w for ID: %d", ErrPaymentNotFound, id)
		}
		return nil, fmt.Errorf("failed to get payment %d: %w", id, err)
	}

	updated := values
	updated.ID = existing.ID

	if err := s.DB.UpdatePayment(updated); err != nil {
		return nil, fmt.Errorf("failed to update payment %d: %w", id, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishPaymentUpdated(updated); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish updated event for payment %d: %v", id, err))
		}
	}

	return &updated, nil
}

// DeletePayment removes the record irrecoverably. The existence probe runs
// first so an unknown id fails with NotFound rather than a silent no-op.
func (s *PaymentService) DeletePayment(id int64) error {
	exists, err := s.DB.PaymentExists(id)
	if err != nil {
		return fmt.Errorf("failed to check payment %d: %w", id, err)
	}
	if !exists {
		return fmt.Errorf("%w for ID: %d", ErrPaymentNotFound, id)
	}

	if err := s.DB.DeletePayment(id); err != nil {
		return fmt.Errorf("failed to delete payment %d: %w", id, err)
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishPaymentDeleted(id); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("Failed to publish deleted event for payment %d: %v", id, err))
		}
	}

	return nil
}
