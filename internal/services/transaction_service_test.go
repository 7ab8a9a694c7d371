package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
	"bookbazaar/internal/services"
)

// MockNoteRepository is a mock implementation of repositories.NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) List(filter repositories.CatalogFilter) ([]models.Note, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Note), args.Get(1).(int64), args.Error(2)
}

func (m *MockNoteRepository) GetByID(id string) (*models.Note, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockNoteRepository) GetBySeller(sellerID string) ([]models.Note, error) {
	args := m.Called(sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Note), args.Error(1)
}

func (m *MockNoteRepository) Create(note *models.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockNoteRepository) Save(note *models.Note) error {
	args := m.Called(note)
	return args.Error(0)
}

func (m *MockNoteRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of
// repositories.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(id string) (*models.Transaction, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByUser(userID string) ([]models.Transaction, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Save(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of
// repositories.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

type txMocks struct {
	transactions *MockTransactionRepository
	payments     *MockPaymentRepository
	books        *MockBookRepository
	notes        *MockNoteRepository
	events       *MockPublisher
}

func newTransactionService() (*services.TransactionService, txMocks) {
	m := txMocks{
		transactions: new(MockTransactionRepository),
		payments:     new(MockPaymentRepository),
		books:        new(MockBookRepository),
		notes:        new(MockNoteRepository),
		events:       new(MockPublisher),
	}
	svc := services.NewTransactionService(m.transactions, m.payments, m.books, m.notes, m.events, testLog)
	return svc, m
}

func TestTransactionService_Create(t *testing.T) {
	svc, m := newTransactionService()

	m.books.On("GetByID", "book-1").Return(ownedBook("seller-1", 5), nil)
	m.transactions.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil).Once()
	m.events.On("PublishTransactionCreated", mock.Anything).Return(nil).Once()

	tx, err := svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook,
		ItemID:   "book-1",
		Quantity: 2,
	})
	assert.NoError(t, err)
	assert.Equal(t, "buyer-1", tx.BuyerID)
	assert.Equal(t, "seller-1", tx.SellerID)
	assert.Equal(t, models.TransactionPending, tx.Status)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(700)))
	m.transactions.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestTransactionService_CreateNoteItem(t *testing.T) {
	svc, m := newTransactionService()

	m.notes.On("GetByID", "note-1").Return(&models.Note{
		ID:          "note-1",
		SellerID:    "seller-1",
		Price:       decimal.NewFromInt(40),
		Quantity:    1,
		IsAvailable: true,
	}, nil)
	m.transactions.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil).Once()
	m.events.On("PublishTransactionCreated", mock.Anything).Return(nil).Once()

	tx, err := svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeNote,
		ItemID:   "note-1",
		Quantity: 1,
	})
	assert.NoError(t, err)
	assert.Equal(t, models.ItemTypeNote, tx.ItemType)
	assert.True(t, tx.TotalAmount.Equal(decimal.NewFromInt(40)))
	m.books.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestTransactionService_CreateRejections(t *testing.T) {
	svc, m := newTransactionService()

	// Quantity below 1
	_, err := svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "book-1", Quantity: 0,
	})
	assert.True(t, domain.IsValidation(err))

	// Unknown item type
	_, err = svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: "car", ItemID: "x", Quantity: 1,
	})
	assert.True(t, domain.IsValidation(err))

	// Missing item
	m.books.On("GetByID", "ghost").Return(nil, domain.ErrNotFound).Once()
	_, err = svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "ghost", Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Sold-out item
	m.books.On("GetByID", "book-1").Return(ownedBook("seller-1", 0), nil).Once()
	_, err = svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "book-1", Quantity: 1,
	})
	assert.True(t, domain.IsValidation(err))

	// More than stock
	m.books.On("GetByID", "book-1").Return(ownedBook("seller-1", 2), nil).Once()
	_, err = svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "book-1", Quantity: 3,
	})
	assert.True(t, domain.IsValidation(err))

	// Buying your own listing
	m.books.On("GetByID", "book-1").Return(ownedBook("seller-1", 5), nil).Once()
	_, err = svc.Create(seller(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "book-1", Quantity: 1,
	})
	assert.True(t, domain.IsValidation(err))

	m.transactions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTransactionService_CreatePublishFailureIsNotFatal(t *testing.T) {
	svc, m := newTransactionService()

	m.books.On("GetByID", "book-1").Return(ownedBook("seller-1", 5), nil)
	m.transactions.On("Create", mock.AnythingOfType("*models.Transaction")).Return(nil).Once()
	m.events.On("PublishTransactionCreated", mock.Anything).Return(assert.AnError).Once()

	_, err := svc.Create(buyer(), services.CreateTransactionInput{
		ItemType: models.ItemTypeBook, ItemID: "book-1", Quantity: 1,
	})
	assert.NoError(t, err)
	m.events.AssertExpectations(t)
}

func pendingTransaction() *models.Transaction {
	return &models.Transaction{
		ID:          "tx-1",
		BuyerID:     "buyer-1",
		SellerID:    "seller-1",
		ItemType:    models.ItemTypeBook,
		ItemID:      "book-1",
		Quantity:    1,
		TotalAmount: decimal.NewFromInt(350),
		Status:      models.TransactionPending,
	}
}

func TestTransactionService_GetParticipantsOnly(t *testing.T) {
	svc, m := newTransactionService()

	m.transactions.On("GetByID", "tx-1").Return(pendingTransaction(), nil)

	_, err := svc.Get(buyer(), "tx-1")
	assert.NoError(t, err)
	_, err = svc.Get(seller(), "tx-1")
	assert.NoError(t, err)
	_, err = svc.Get(admin(), "tx-1")
	assert.NoError(t, err)

	stranger := &models.User{ID: "stranger-1", Roles: models.RoleList{models.RoleBuyer}}
	_, err = svc.Get(stranger, "tx-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestTransactionService_UpdateStatus(t *testing.T) {
	svc, m := newTransactionService()

	m.transactions.On("GetByID", "tx-1").Return(pendingTransaction(), nil)
	m.transactions.On("Save", mock.AnythingOfType("*models.Transaction")).Return(nil)

	_, err := svc.UpdateStatus(buyer(), "tx-1", "paid")
	assert.True(t, domain.IsValidation(err))

	tx, err := svc.UpdateStatus(buyer(), "tx-1", models.TransactionCompleted)
	assert.NoError(t, err)
	assert.Equal(t, models.TransactionCompleted, tx.Status)
}

func TestTransactionService_CreatePayment(t *testing.T) {
	svc, m := newTransactionService()

	m.transactions.On("GetByID", "tx-1").Return(pendingTransaction(), nil)
	m.payments.On("Create", mock.AnythingOfType("*models.Payment")).Return(nil)

	// The seller cannot pay for the buyer
	_, err := svc.CreatePayment(seller(), services.CreatePaymentInput{TransactionID: "tx-1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreatePayment(buyer(), services.CreatePaymentInput{
		TransactionID: "tx-1", Method: "barter",
	})
	assert.True(t, domain.IsValidation(err))

	// Method defaults to card; the amount is the transaction total
	payment, err := svc.CreatePayment(buyer(), services.CreatePaymentInput{TransactionID: "tx-1"})
	assert.NoError(t, err)
	assert.Equal(t, models.MethodCard, payment.Method)
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(350)))
}

func TestTransactionService_GetPayment(t *testing.T) {
	svc, m := newTransactionService()

	payment := &models.Payment{
		ID:            "pay-1",
		TransactionID: "tx-1",
		Amount:        decimal.NewFromInt(350),
		Method:        models.MethodUPI,
		Status:        models.PaymentPending,
	}
	m.payments.On("GetByID", "pay-1").Return(payment, nil)
	m.transactions.On("GetByID", "tx-1").Return(pendingTransaction(), nil)

	_, err := svc.GetPayment(seller(), "pay-1")
	assert.NoError(t, err)

	stranger := &models.User{ID: "stranger-1", Roles: models.RoleList{models.RoleBuyer}}
	_, err = svc.GetPayment(stranger, "pay-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
