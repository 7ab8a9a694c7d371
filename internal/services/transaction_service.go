package services

import (
	"github.com/shopspring/decimal"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/pkg/logger"
	"bookbazaar/pkg/rabbitmq"
)

// TransactionService handles purchase and payment records. These are
// thin: creating a transaction does not decrement inventory, and
// payments carry no gateway logic.
type TransactionService struct {
	transactions repositories.TransactionRepository
	payments     repositories.PaymentRepository
	books        repositories.BookRepository
	notes        repositories.NoteRepository
	events       rabbitmq.Publisher
	log          *logger.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(
	transactions repositories.TransactionRepository,
	payments repositories.PaymentRepository,
	books repositories.BookRepository,
	notes repositories.NoteRepository,
	events rabbitmq.Publisher,
	log *logger.Logger,
) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		payments:     payments,
		books:        books,
		notes:        notes,
		events:       events,
		log:          log,
	}
}

// ListForUser returns every transaction the caller participates in.
func (s *TransactionService) ListForUser(caller *models.User) ([]models.Transaction, error) {
	return s.transactions.GetByUser(caller.ID)
}

// Get returns one transaction; only participants and admins may see it.
func (s *TransactionService) Get(caller *models.User, id string) (*models.Transaction, error) {
	tx, err := s.transactions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != caller.ID && tx.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return tx, nil
}

// CreateTransactionInput carries the fields accepted for a purchase.
type CreateTransactionInput struct {
	ItemType models.ItemType
	ItemID   string
	Quantity int
}

// Create records a purchase of an available item at its current price
// and emits a transaction.created event. Sellers cannot buy their own
// listings.
func (s *TransactionService) Create(caller *models.User, in CreateTransactionInput) (*models.Transaction, error) {
	if in.Quantity < 1 {
		return nil, domain.Validationf("quantity must be at least 1")
	}

	item, err := resolveItem(s.books, s.notes, in.ItemType, in.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, domain.Validationf("item is not available")
	}
	if item.Quantity < in.Quantity {
		return nil, domain.Validationf("requested quantity %d exceeds available stock %d", in.Quantity, item.Quantity)
	}
	if item.SellerID == caller.ID {
		return nil, domain.Validationf("cannot purchase your own listing")
	}

	tx := &models.Transaction{
		BuyerID:     caller.ID,
		SellerID:    item.SellerID,
		ItemType:    in.ItemType,
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		TotalAmount: item.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Status:      models.TransactionPending,
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, err
	}

	err = s.events.PublishTransactionCreated(map[string]interface{}{
		"transaction_id": tx.ID,
		"buyer_id":       tx.BuyerID,
		"seller_id":      tx.SellerID,
		"item_type":      tx.ItemType,
		"item_id":        tx.ItemID,
		"quantity":       tx.Quantity,
		"total_amount":   tx.TotalAmount.String(),
		"status":         tx.Status,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("failed to publish transaction event")
	}
	return tx, nil
}

// UpdateStatus moves a transaction to a new status; only participants
// and admins may do so.
func (s *TransactionService) UpdateStatus(caller *models.User, id string, status models.TransactionStatus) (*models.Transaction, error) {
	if !models.ValidTransactionStatus(status) {
		return nil, domain.Validationf("unknown transaction status '%s'", status)
	}

	tx, err := s.transactions.GetByID(id)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != caller.ID && tx.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	tx.Status = status
	if err := s.transactions.Save(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// CreatePaymentInput carries the fields accepted for a payment record.
type CreatePaymentInput struct {
	TransactionID string
	Method        models.PaymentMethod
	GatewayRef    string
}

// CreatePayment attaches a payment record to a transaction. Only the
// buyer (or an admin) may pay; the amount is the transaction total.
func (s *TransactionService) CreatePayment(caller *models.User, in CreatePaymentInput) (*models.Payment, error) {
	method := in.Method
	if method == "" {
		method = models.MethodCard
	}
	if !models.ValidPaymentMethod(method) {
		return nil, domain.Validationf("unknown payment method '%s'", method)
	}

	tx, err := s.transactions.GetByID(in.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	payment := &models.Payment{
		TransactionID: tx.ID,
		Amount:        tx.TotalAmount,
		Method:        method,
		Status:        models.PaymentPending,
		GatewayRef:    in.GatewayRef,
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// GetPayment returns one payment; only participants of its transaction
// and admins may see it.
func (s *TransactionService) GetPayment(caller *models.User, id string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(id)
	if err != nil {
		return nil, err
	}
	tx, err := s.transactions.GetByID(payment.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != caller.ID && tx.SellerID != caller.ID && !caller.Roles.Has(models.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return payment, nil
}
