package payment_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"payment-service/internal/logger"
	"payment-service/internal/models"
	"payment-service/internal/payment"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	PaymentService *payment.PaymentService
	Logger         *logger.Logger
}

func NewHandler(paymentService *payment.PaymentService, log *logger.Logger) *Handler {
	return &Handler{
		PaymentService: paymentService,
		Logger:         log,
	}
}

// RegisterRoutes mounts the payment API under /api/v1/payments.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/payments", func(r chi.Router) {
		r.Post("/process", h.ProcessPayment)
		r.Get("/", h.GetAllPayments)
		r.Get("/{id}", h.GetPaymentByID)
		r.Get("/status/order/{orderId}", h.GetPaymentByOrderReference)
		r.Get("/status/transaction/{transactionId}", h.GetPaymentByTransactionID)
		r.Put("/{id}", h.UpdatePayment)
		r.Delete("/{id}", h.DeletePayment)
	})
}

// ProcessPayment handles POST /process. A denied payment is still persisted
// and returned in the body; only the status code distinguishes it (200 for
// COMPLETED, 400 otherwise).
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "ProcessPayment: received request")

	var req models.PaymentProcessingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("ProcessPayment: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	processed, err := h.PaymentService.ProcessPayment(req)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ProcessPayment: processing failed: %v", err))
		http.Error(w, "Could not process payment: "+err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if processed.PaymentStatus != models.StatusCompleted {
		status = http.StatusBadRequest
	}
	h.writeJSON(w, status, convertToDTO(*processed))
	h.Logger.LogAPI(r.Method, r.URL.Path, strconv.Itoa(status))
}

func (h *Handler) GetPaymentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}
	h.Logger.Info("API", fmt.Sprintf("GetPaymentByID: id=%d", id))

	paymentData, err := h.PaymentService.GetPaymentByID(id)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetPaymentByID: lookup failed: %v", err))
		http.Error(w, "Could not get payment: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if paymentData == nil {
		http.Error(w, fmt.Sprintf("payment not found for ID: %d", id), http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, convertToDTO(*paymentData))
}

func (h *Handler) GetPaymentByOrderReference(w http.ResponseWriter, r *http.Request) {
	orderReference := chi.URLParam(r, "orderId")
	h.Logger.Info("API", fmt.Sprintf("GetPaymentByOrderReference: orderId=%s", orderReference))

	paymentData, err := h.PaymentService.GetPaymentByOrderReference(orderReference)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, convertToDTO(*paymentData))
}

func (h *Handler) GetPaymentByTransactionID(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")
	h.Logger.Info("API", fmt.Sprintf("GetPaymentByTransactionID: transactionId=%s", transactionID))

	paymentData, err := h.PaymentService.GetPaymentByTransactionID(transactionID)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, convertToDTO(*paymentData))
}

func (h *Handler) GetAllPayments(w http.ResponseWriter, r *http.Request) {
	h.Logger.Info("API", "GetAllPayments: received request")

	payments, err := h.PaymentService.GetAllPayments()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAllPayments: listing failed: %v", err))
		http.Error(w, "Could not list payments: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, convertToCollectionDTO(payments))
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}
	h.Logger.Info("API", fmt.Sprintf("UpdatePayment: id=%d", id))

	var values models.Payment
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		h.Logger.Error("API", fmt.Sprintf("UpdatePayment: failed to decode request body: %v", err))
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.PaymentService.UpdatePayment(id, values)
	if err != nil {
		h.respondLookupError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, convertToDTO(*updated))
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.paymentID(w, r)
	if !ok {
		return
	}
	h.Logger.Info("API", fmt.Sprintf("DeletePayment: id=%d", id))

	if err := h.PaymentService.DeletePayment(id); err != nil {
		h.respondLookupError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) paymentID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Invalid payment id %q: %v", chi.URLParam(r, "id"), err))
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, payment.ErrPaymentNotFound) {
		h.Logger.Warn("API", err.Error())
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.Logger.Error("API", err.Error())
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to encode response: %v", err))
	}
}
