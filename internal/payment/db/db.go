package db

import (
	"context"
	"payment-service/internal/models"

	"github.com/uptrace/bun"
)

type DB struct {
	Bun *bun.DB
}

// CreatePayment → insert a new payment; the store assigns the surrogate id and
// writes it back into the model.
func (d *DB) CreatePayment(payment *models.Payment) error {
	_, err := d.Bun.NewInsert().Model(payment).Exec(context.Background())
	return err
}

// GetPaymentByID → fetch one payment by its surrogate id.
func (d *DB) GetPaymentByID(id int64) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentByOrderReference → fetch the payment recorded for an order
// reference. Uniqueness is not enforced; among duplicates the row returned is
// store-defined.
func (d *DB) GetPaymentByOrderReference(orderReference string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("order_reference = ?", orderReference).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetPaymentByTransactionID → fetch the payment carrying a gateway transaction
// id. Failed payments have no transaction id and are never matched.
func (d *DB) GetPaymentByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := d.Bun.NewSelect().
		Model(&payment).
		Where("transaction_id = ?", transactionID).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListPayments → fetch every payment in store order.
func (d *DB) ListPayments() ([]models.Payment, error) {
	var payments []models.Payment
	err := d.Bun.NewSelect().
		Model(&payments).
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// UpdatePayment → overwrite every field of the row except the id.
func (d *DB) UpdatePayment(payment models.Payment) error {
	_, err := d.Bun.NewUpdate().
		Model(&payment).
		Column("order_reference", "amount", "payment_method", "payment_status", "transaction_id", "transaction_date").
		Where("id = ?", payment.ID).
		Exec(context.Background())
	return err
}

// PaymentExists → existence probe by surrogate id.
func (d *DB) PaymentExists(id int64) (bool, error) {
	return d.Bun.NewSelect().
		Model((*models.Payment)(nil)).
		Where("id = ?", id).
		Exists(context.Background())
}

// DeletePayment → hard delete by surrogate id.
func (d *DB) DeletePayment(id int64) error {
	_, err := d.Bun.NewDelete().
		Model((*models.Payment)(nil)).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}
