package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"bookbazaar/internal/middleware"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// TransactionHandler handles HTTP requests for purchases and payments.
// The whole surface requires a session.
type TransactionHandler struct {
	service  *services.TransactionService
	validate *validator.Validate
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(service *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the transaction and payment routes.
func (h *TransactionHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	transactions := router.Group("/transactions", protect)
	transactions.Get("/", h.HandleList)
	transactions.Get("/:id", h.HandleGet)
	transactions.Post("/", h.HandleCreate)
	transactions.Put("/:id/status", h.HandleUpdateStatus)

	payments := router.Group("/payments", protect)
	payments.Get("/:id", h.HandleGetPayment)
	payments.Post("/", h.HandleCreatePayment)
}

// HandleList returns every transaction the caller participates in.
func (h *TransactionHandler) HandleList(c *fiber.Ctx) error {
	transactions, err := h.service.ListForUser(middleware.CurrentUser(c))
	if err != nil {
		return respondError(c, err)
	}
	return respondCount(c, transactions, int64(len(transactions)))
}

// HandleGet returns one transaction for a participant or admin.
func (h *TransactionHandler) HandleGet(c *fiber.Ctx) error {
	tx, err := h.service.Get(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", tx)
}

// CreateTransactionRequest is the request body for a purchase.
type CreateTransactionRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=book note"`
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// HandleCreate records a purchase by the caller.
func (h *TransactionHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	tx, err := h.service.Create(middleware.CurrentUser(c), services.CreateTransactionInput{
		ItemType: models.ItemType(req.ItemType),
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Transaction created successfully", tx)
}

// UpdateStatusRequest is the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus moves a transaction to a new status.
func (h *TransactionHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	tx, err := h.service.UpdateStatus(middleware.CurrentUser(c), c.Params("id"), models.TransactionStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "Transaction updated successfully", tx)
}

// CreatePaymentRequest is the request body for a payment record.
type CreatePaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Method        string `json:"method"`
	GatewayRef    string `json:"gateway_ref"`
}

// HandleCreatePayment attaches a payment record to a transaction.
func (h *TransactionHandler) HandleCreatePayment(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	payment, err := h.service.CreatePayment(middleware.CurrentUser(c), services.CreatePaymentInput{
		TransactionID: req.TransactionID,
		Method:        models.PaymentMethod(req.Method),
		GatewayRef:    req.GatewayRef,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondCreated(c, "Payment recorded successfully", payment)
}

// HandleGetPayment returns one payment for a transaction participant or
// admin.
func (h *TransactionHandler) HandleGetPayment(c *fiber.Ctx) error {
	payment, err := h.service.GetPayment(middleware.CurrentUser(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respondOK(c, "", payment)
}
