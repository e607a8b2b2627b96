package payment_api

import (
	"fmt"

	"payment-service/internal/models"
)

type Link struct {
	Href string `json:"href"`
}

// PaymentDTO is the outbound payment representation, decorated with
// navigational links. The links are purely additive and never read back.
type PaymentDTO struct {
	models.Payment
	Links map[string]Link `json:"_links,omitempty"`
}

type PaymentCollectionDTO struct {
	Payments []PaymentDTO    `json:"payments"`
	Links    map[string]Link `json:"_links,omitempty"`
}

func convertToDTO(payment models.Payment) PaymentDTO {
	links := map[string]Link{
		"self":         {Href: fmt.Sprintf("/api/v1/payments/%d", payment.ID)},
		"by-order-id":  {Href: "/api/v1/payments/status/order/" + payment.OrderReference},
		"all-payments": {Href: "/api/v1/payments"},
	}
	if payment.TransactionID != "" {
		links["by-transaction-id"] = Link{Href: "/api/v1/payments/status/transaction/" + payment.TransactionID}
	}

	return PaymentDTO{
		Payment: payment,
		Links:   links,
	}
}

func convertToCollectionDTO(payments []models.Payment) PaymentCollectionDTO {
	dtos := make([]PaymentDTO, len(payments))
	for i, payment := range payments {
		dtos[i] = convertToDTO(payment)
	}
	return PaymentCollectionDTO{
		Payments: dtos,
		Links: map[string]Link{
			"self": {Href: "/api/v1/payments"},
		},
	}
}
