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
	"bookbazaar/pkg/logger"
	"bookbazaar/pkg/rabbitmq"
)

// MockBookRepository is a mock implementation of repositories.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) List(filter repositories.CatalogFilter) ([]models.Book, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Book), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookRepository) GetByID(id string) (*models.Book, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *MockBookRepository) GetBySeller(sellerID string) ([]models.Book, error) {
	args := m.Called(sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Book), args.Error(1)
}

func (m *MockBookRepository) Create(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Save(book *models.Book) error {
	args := m.Called(book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockPublisher records marketplace events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTransactionCreated(body map[string]interface{}) error {
	args := m.Called(body)
	return args.Error(0)
}

func (m *MockPublisher) PublishListingSoldOut(body map[string]interface{}) error {
	args := m.Called(body)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var testLog = logger.New(logger.Config{Env: "test", Level: "error"})

func buyer() *models.User {
	return &models.User{ID: "buyer-1", Roles: models.RoleList{models.RoleBuyer}}
}

func seller() *models.User {
	return &models.User{ID: "seller-1", Roles: models.RoleList{models.RoleSeller}}
}

func admin() *models.User {
	return &models.User{ID: "admin-1", Roles: models.RoleList{models.RoleAdmin}}
}

func TestBookService_CreateForcesSeller(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("Create", mock.AnythingOfType("*models.Book")).Return(nil).Once()

	book, err := svc.Create(seller(), services.CreateBookInput{
		Title:  "Algorithms",
		Author: "Sedgewick",
		Price:  decimal.NewFromInt(350),
	})
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", book.SellerID)
	// Defaults: one copy, good condition, available
	assert.Equal(t, 1, book.Quantity)
	assert.Equal(t, models.ConditionGood, book.Condition)
	assert.True(t, book.IsAvailable)
	mockRepo.AssertExpectations(t)
}

func TestBookService_CreateBuyerForbidden(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	_, err := svc.Create(buyer(), services.CreateBookInput{
		Title:  "Algorithms",
		Author: "Sedgewick",
		Price:  decimal.NewFromInt(350),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestBookService_CreateZeroQuantityUnavailable(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("Create", mock.AnythingOfType("*models.Book")).Return(nil).Once()

	zero := 0
	book, err := svc.Create(seller(), services.CreateBookInput{
		Title:    "Algorithms",
		Author:   "Sedgewick",
		Price:    decimal.NewFromInt(350),
		Quantity: &zero,
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, book.Quantity)
	assert.False(t, book.IsAvailable)
	mockRepo.AssertExpectations(t)
}

func TestBookService_CreateValidation(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	_, err := svc.Create(seller(), services.CreateBookInput{
		Author: "Sedgewick", Price: decimal.NewFromInt(350),
	})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(seller(), services.CreateBookInput{
		Title: "Algorithms", Author: "Sedgewick",
		Condition: "mint", Price: decimal.NewFromInt(350),
	})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(seller(), services.CreateBookInput{
		Title: "Algorithms", Author: "Sedgewick",
		Price: decimal.NewFromInt(-1),
	})
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func ownedBook(sellerID string, quantity int) *models.Book {
	return &models.Book{
		ID:          "book-1",
		Title:       "Algorithms",
		Author:      "Sedgewick",
		Condition:   models.ConditionGood,
		Price:       decimal.NewFromInt(350),
		Quantity:    quantity,
		SellerID:    sellerID,
		IsAvailable: quantity > 0,
	}
}

func TestBookService_UpdateOwnerOrAdmin(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("GetByID", "book-1").Return(ownedBook("seller-1", 3), nil)
	mockRepo.On("Save", mock.AnythingOfType("*models.Book")).Return(nil)

	title := "Algorithms, 4th ed."

	// A stranger gets 403
	other := &models.User{ID: "seller-2", Roles: models.RoleList{models.RoleSeller}}
	_, err := svc.Update(other, "book-1", services.BookPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// The owner may update
	book, err := svc.Update(seller(), "book-1", services.BookPatch{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, title, book.Title)

	// So may an admin
	book, err = svc.Update(admin(), "book-1", services.BookPatch{Title: &title})
	assert.NoError(t, err)
	assert.Equal(t, title, book.Title)
}

func TestBookService_UpdateMissingIsNotFoundBeforeForbidden(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("GetByID", "ghost").Return(nil, domain.ErrNotFound)

	title := "x"
	_, err := svc.Update(buyer(), "ghost", services.BookPatch{Title: &title})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookService_UpdateDerivesAvailability(t *testing.T) {
	mockRepo := new(MockBookRepository)
	events := new(MockPublisher)
	svc := services.NewBookService(mockRepo, events, testLog)

	mockRepo.On("GetByID", "book-1").Return(ownedBook("seller-1", 3), nil).Once()
	mockRepo.On("Save", mock.AnythingOfType("*models.Book")).Return(nil)
	events.On("PublishListingSoldOut", mock.Anything).Return(nil).Once()

	// Dropping quantity to zero flips availability and emits sold-out
	zero := 0
	book, err := svc.Update(seller(), "book-1", services.BookPatch{Quantity: &zero})
	assert.NoError(t, err)
	assert.False(t, book.IsAvailable)
	events.AssertExpectations(t)

	// Restocking flips it back, with no event
	mockRepo.On("GetByID", "book-1").Return(ownedBook("seller-1", 0), nil).Once()
	five := 5
	book, err = svc.Update(seller(), "book-1", services.BookPatch{Quantity: &five})
	assert.NoError(t, err)
	assert.True(t, book.IsAvailable)
	events.AssertNumberOfCalls(t, "PublishListingSoldOut", 1)
}

func TestBookService_UpdateSoldOutPublishFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockBookRepository)
	events := new(MockPublisher)
	svc := services.NewBookService(mockRepo, events, testLog)

	mockRepo.On("GetByID", "book-1").Return(ownedBook("seller-1", 1), nil).Once()
	mockRepo.On("Save", mock.AnythingOfType("*models.Book")).Return(nil)
	events.On("PublishListingSoldOut", mock.Anything).Return(assert.AnError).Once()

	zero := 0
	book, err := svc.Update(seller(), "book-1", services.BookPatch{Quantity: &zero})
	assert.NoError(t, err)
	assert.False(t, book.IsAvailable)
	events.AssertExpectations(t)
}

func TestBookService_Delete(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("GetByID", "book-1").Return(ownedBook("seller-1", 3), nil)
	mockRepo.On("Delete", "book-1").Return(nil).Once()

	assert.ErrorIs(t, svc.Delete(buyer(), "book-1"), domain.ErrForbidden)
	assert.NoError(t, svc.Delete(seller(), "book-1"))
	mockRepo.AssertExpectations(t)
}

func TestBookService_ListPagination(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	var captured repositories.CatalogFilter
	mockRepo.On("List", mock.AnythingOfType("repositories.CatalogFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(0).(repositories.CatalogFilter)
		}).
		Return([]models.Book{}, int64(25), nil)

	result, err := svc.List(services.CatalogQuery{Page: 2, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(25), result.Count)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 10, captured.Offset())
	assert.True(t, captured.AvailableOnly)

	// Out-of-range parameters are clamped to defaults
	result, err = svc.List(services.CatalogQuery{Page: -1, Limit: 1000})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, captured.Limit)
}

func TestBookService_ListRejectsBadInput(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	_, err := svc.List(services.CatalogQuery{Variant: "mint"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.List(services.CatalogQuery{SortBy: "seller_id"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.List(services.CatalogQuery{Order: "sideways"})
	assert.True(t, domain.IsValidation(err))

	negative := -5.0
	_, err = svc.List(services.CatalogQuery{MinPrice: &negative})
	assert.True(t, domain.IsValidation(err))

	mockRepo.AssertNotCalled(t, "List", mock.Anything)
}

func TestBookService_ListMine(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := services.NewBookService(mockRepo, rabbitmq.NoopPublisher{}, testLog)

	mockRepo.On("GetBySeller", "seller-1").Return([]models.Book{
		*ownedBook("seller-1", 3),
		*ownedBook("seller-1", 0),
	}, nil).Once()

	_, err := svc.ListMine(buyer())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Sellers see their unavailable listings too
	books, err := svc.ListMine(seller())
	assert.NoError(t, err)
	assert.Len(t, books, 2)
	mockRepo.AssertExpectations(t)
}
