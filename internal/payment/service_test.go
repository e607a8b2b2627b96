package payment_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"payment-service/internal/logger"
	"payment-service/internal/models"
	"payment-service/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock implementations

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreatePayment(p *models.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockDBLayer) GetPaymentByID(id int64) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockDBLayer) GetPaymentByOrderReference(orderReference string) (*models.Payment, error) {
	args := m.Called(orderReference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockDBLayer) GetPaymentByTransactionID(transactionID string) (*models.Payment, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockDBLayer) ListPayments() ([]models.Payment, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockDBLayer) UpdatePayment(p models.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockDBLayer) PaymentExists(id int64) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBLayer) DeletePayment(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockKafkaPublisher struct {
	mock.Mock
}

func (m *MockKafkaPublisher) PublishPaymentProcessed(p models.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockKafkaPublisher) PublishPaymentUpdated(p models.Payment) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockKafkaPublisher) PublishPaymentDeleted(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func newService(db *MockDBLayer) *payment.PaymentService {
	return payment.NewPaymentService(db, nil, logger.NewLogger())
}

func TestProcessPayment_Approved(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Payment).ID = 1
	}).Return(nil)

	service := newService(mockDB)

	result, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-1",
		Amount:         100.00,
		MethodDetails:  "card-ok",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.PaymentStatus)
	assert.Equal(t, "ORD-1", result.OrderReference)
	assert.Equal(t, 100.00, result.Amount)
	assert.Equal(t, "Credit/Debit Card", result.PaymentMethod)
	assert.NotEmpty(t, result.TransactionID)
	assert.False(t, result.TransactionDate.IsZero())
	assert.Equal(t, int64(1), result.ID)
	mockDB.AssertNumberOfCalls(t, "CreatePayment", 1)
}

func TestProcessPayment_Declined(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Payment).ID = 2
	}).Return(nil)

	service := newService(mockDB)

	result, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-2",
		Amount:         50.00,
		MethodDetails:  "card-fail-test",
	})

	// Denial is a successfully persisted outcome, not an error
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFailed, result.PaymentStatus)
	assert.Empty(t, result.TransactionID)
	assert.Equal(t, "ORD-2", result.OrderReference)
	assert.Equal(t, 50.00, result.Amount)
	assert.False(t, result.TransactionDate.IsZero())
	mockDB.AssertNumberOfCalls(t, "CreatePayment", 1)
}

func TestProcessPayment_NegativeAmountAccepted(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(nil)

	service := newService(mockDB)

	result, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-3",
		Amount:         -5.00,
		MethodDetails:  "",
	})

	assert.NoError(t, err)
	assert.Equal(t, -5.00, result.Amount)
	assert.Equal(t, models.StatusCompleted, result.PaymentStatus)
}

func TestProcessPayment_TransactionIDsAreUnique(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(nil)

	service := newService(mockDB)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		result, err := service.ProcessPayment(models.PaymentProcessingRequest{
			OrderReference: "ORD-REPEAT",
			Amount:         10.00,
			MethodDetails:  "card-ok",
		})
		assert.NoError(t, err)
		assert.False(t, seen[result.TransactionID], "transaction id %s issued twice", result.TransactionID)
		seen[result.TransactionID] = true
	}
}

func TestProcessPayment_StoreFailurePropagates(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(errors.New("connection reset"))

	service := newService(mockDB)

	result, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-4",
		Amount:         1.00,
		MethodDetails:  "card-ok",
	})

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestProcessPayment_PublishesEvent(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Payment).ID = 7
	}).Return(nil)

	mockKafka := new(MockKafkaPublisher)
	mockKafka.On("PublishPaymentProcessed", mock.AnythingOfType("models.Payment")).Return(nil)

	service := payment.NewPaymentService(mockDB, mockKafka, logger.NewLogger())

	_, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-5",
		Amount:         20.00,
		MethodDetails:  "card-ok",
	})

	assert.NoError(t, err)
	mockKafka.AssertNumberOfCalls(t, "PublishPaymentProcessed", 1)
}

func TestProcessPayment_PublishFailureDoesNotFailCall(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("CreatePayment", mock.AnythingOfType("*models.Payment")).Return(nil)

	mockKafka := new(MockKafkaPublisher)
	mockKafka.On("PublishPaymentProcessed", mock.AnythingOfType("models.Payment")).Return(errors.New("broker down"))

	service := payment.NewPaymentService(mockDB, mockKafka, logger.NewLogger())

	result, err := service.ProcessPayment(models.PaymentProcessingRequest{
		OrderReference: "ORD-6",
		Amount:         30.00,
		MethodDetails:  "card-ok",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, result.PaymentStatus)
}

func TestGetPaymentByID_Absent(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetPaymentByID", int64(99)).Return(nil, sql.ErrNoRows)

	service := newService(mockDB)

	result, err := service.GetPaymentByID(99)

	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestGetPaymentByID_Found(t *testing.T) {
	mockDB := new(MockDBLayer)
	stored := &models.Payment{ID: 3, OrderReference: "ORD-7", PaymentStatus: models.StatusCompleted}
	mockDB.On("GetPaymentByID", int64(3)).Return(stored, nil)

	service := newService(mockDB)

	result, err := service.GetPaymentByID(3)

	assert.NoError(t, err)
	assert.Equal(t, stored, result)
}

func TestGetPaymentByOrderReference_NotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetPaymentByOrderReference", "ORD-404").Return(nil, sql.ErrNoRows)

	service := newService(mockDB)

	result, err := service.GetPaymentByOrderReference("ORD-404")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	assert.Contains(t, err.Error(), "ORD-404")
}

func TestGetPaymentByTransactionID_NotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetPaymentByTransactionID", "txn-missing").Return(nil, sql.ErrNoRows)

	service := newService(mockDB)

	result, err := service.GetPaymentByTransactionID("txn-missing")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	assert.Contains(t, err.Error(), "txn-missing")
}

func TestGetAllPayments(t *testing.T) {
	mockDB := new(MockDBLayer)
	stored := []models.Payment{
		{ID: 1, OrderReference: "ORD-1"},
		{ID: 2, OrderReference: "ORD-2"},
	}
	mockDB.On("ListPayments").Return(stored, nil)

	service := newService(mockDB)

	result, err := service.GetAllPayments()

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "ORD-1", result[0].OrderReference)
	assert.Equal(t, "ORD-2", result[1].OrderReference)
}

func TestUpdatePayment_NotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("GetPaymentByID", int64(42)).Return(nil, sql.ErrNoRows)

	service := newService(mockDB)

	result, err := service.UpdatePayment(42, models.Payment{OrderReference: "ORD-X"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	assert.Contains(t, err.Error(), "42")
	mockDB.AssertNotCalled(t, "UpdatePayment", mock.Anything)
	mockDB.AssertNotCalled(t, "CreatePayment", mock.Anything)
}

func TestUpdatePayment_OverwritesEveryField(t *testing.T) {
	existing := &models.Payment{
		ID:              5,
		OrderReference:  "ORD-8",
		Amount:          100.00,
		PaymentMethod:   "Credit/Debit Card",
		PaymentStatus:   models.StatusCompleted,
		TransactionID:   "txn-original",
		TransactionDate: time.Now().Add(-time.Hour),
	}

	// Internally inconsistent on purpose: REFUNDED status keeping a stale
	// transaction id. The engine must persist it exactly as supplied.
	newValues := models.Payment{
		OrderReference:  "ORD-8-NEW",
		Amount:          0,
		PaymentMethod:   "Wire Transfer",
		PaymentStatus:   models.PaymentStatus("REFUNDED"),
		TransactionID:   "txn-original",
		TransactionDate: time.Now(),
	}

	mockDB := new(MockDBLayer)
	mockDB.On("GetPaymentByID", int64(5)).Return(existing, nil)
	mockDB.On("UpdatePayment", mock.AnythingOfType("models.Payment")).Return(nil)

	service := newService(mockDB)

	result, err := service.UpdatePayment(5, newValues)

	assert.NoError(t, err)
	assert.Equal(t, int64(5), result.ID)
	assert.Equal(t, "ORD-8-NEW", result.OrderReference)
	assert.Equal(t, 0.0, result.Amount)
	assert.Equal(t, "Wire Transfer", result.PaymentMethod)
	assert.Equal(t, models.PaymentStatus("REFUNDED"), result.PaymentStatus)
	assert.Equal(t, "txn-original", result.TransactionID)

	expected := newValues
	expected.ID = 5
	mockDB.AssertCalled(t, "UpdatePayment", expected)
}

func TestDeletePayment_NotFound(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("PaymentExists", int64(77)).Return(false, nil)

	service := newService(mockDB)

	err := service.DeletePayment(77)

	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
	assert.Contains(t, err.Error(), "77")
	mockDB.AssertNotCalled(t, "DeletePayment", mock.Anything)
}

func TestDeletePayment_RemovesRecord(t *testing.T) {
	mockDB := new(MockDBLayer)
	mockDB.On("PaymentExists", int64(8)).Return(true, nil)
	mockDB.On("DeletePayment", int64(8)).Return(nil)

	service := newService(mockDB)

	err := service.DeletePayment(8)

	assert.NoError(t, err)
	mockDB.AssertCalled(t, "DeletePayment", int64(8))
}
