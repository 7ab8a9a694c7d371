package repositories

import "bookbazaar/internal/models"

// TransactionRepository defines the interface for transaction data
// access.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	GetByID(id string) (*models.Transaction, error)
	GetByUser(userID string) ([]models.Transaction, error)
	Save(tx *models.Transaction) error
}

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
}
