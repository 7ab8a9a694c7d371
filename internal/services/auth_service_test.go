package services_test

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetAll() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Save(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository) *services.AuthService {
	return services.NewAuthService(repo, testJWTSecret, time.Hour)
}

func activeUser(password string) *models.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           "user-123",
		Name:         "Asha",
		Phone:        "9876543210",
		ContactEmail: "asha@example.com",
		Roles:        models.RoleList{models.RoleBuyer},
		PasswordHash: string(hashed),
		IsActive:     true,
	}
}

func TestAuthService_Register(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", "asha@example.com").Return(nil, domain.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, token, err := authService.Register(services.RegisterInput{
		Name:     "Asha",
		Phone:    "9876543210",
		Email:    "asha@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, user.IsActive)

	// Roles default to buyer when none supplied
	assert.Equal(t, models.RoleList{models.RoleBuyer}, user.Roles)

	// Password is stored hashed, never verbatim
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterMultiRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", "dev@example.com").Return(nil, domain.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, _, err := authService.Register(services.RegisterInput{
		Name:     "Dev",
		Phone:    "9876543210",
		Email:    "dev@example.com",
		Password: "password123",
		Roles:    []string{"buyer", "seller"},
	})
	assert.NoError(t, err)
	assert.Equal(t, models.RoleList{models.RoleBuyer, models.RoleSeller}, user.Roles)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	_, _, err := authService.Register(services.RegisterInput{
		Name: "Asha", Phone: "12345", Email: "a@example.com", Password: "password123",
	})
	assert.True(t, domain.IsValidation(err))

	_, _, err = authService.Register(services.RegisterInput{
		Name: "Asha", Phone: "9876543210", Email: "a@example.com", Password: "short",
	})
	assert.True(t, domain.IsValidation(err))

	_, _, err = authService.Register(services.RegisterInput{
		Name: "Asha", Phone: "9876543210", Email: "a@example.com", Password: "password123",
		Roles: []string{"superuser"},
	})
	assert.True(t, domain.IsValidation(err))

	// Nothing reached the repository
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	mockRepo.On("GetByEmail", "asha@example.com").Return(activeUser("password123"), nil).Once()

	_, _, err := authService.Register(services.RegisterInput{
		Name: "Asha", Phone: "9876543210", Email: "asha@example.com", Password: "password123",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_Login(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("password123")

	mockRepo.On("GetByEmail", user.ContactEmail).Return(user, nil).Once()

	got, token, err := authService.Login(user.ContactEmail, "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID, claims["user_id"])
	assert.Equal(t, []interface{}{"buyer"}, claims["roles"])
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginInvalidCredentials(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("password123")

	// Unknown email and wrong password surface the same error
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, domain.ErrNotFound).Once()
	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	mockRepo.On("GetByEmail", user.ContactEmail).Return(user, nil).Once()
	_, _, err = authService.Login(user.ContactEmail, "wrongpassword")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginDeactivated(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("password123")
	user.IsActive = false

	// The deactivated state is reported even with the right password
	mockRepo.On("GetByEmail", user.ContactEmail).Return(user, nil).Twice()

	_, _, err := authService.Login(user.ContactEmail, "password123")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)

	_, _, err = authService.Login(user.ContactEmail, "wrongpassword")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)

	sign := func(claims jwt.MapClaims, secret string) string {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, _ := token.SignedString([]byte(secret))
		return signed
	}

	valid := sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	userID, err := authService.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Expired and malformed tokens are distinct errors
	expired := sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(expired)
	assert.ErrorIs(t, err, domain.ErrExpiredToken)

	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	wrongKey := sign(jwt.MapClaims{
		"user_id": "user-123",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}, "other_secret")
	_, err = authService.ValidateToken(wrongKey)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	missingID := sign(jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testJWTSecret)
	_, err = authService.ValidateToken(missingID)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestAuthService_ResolveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("password123")

	mockRepo.On("GetByEmail", user.ContactEmail).Return(user, nil).Once()
	_, token, err := authService.Login(user.ContactEmail, "password123")
	assert.NoError(t, err)

	mockRepo.On("GetByID", user.ID).Return(user, nil).Once()
	got, err := authService.ResolveUser(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	// User deleted after issuance
	mockRepo.On("GetByID", user.ID).Return(nil, domain.ErrNotFound).Once()
	_, err = authService.ResolveUser(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// User deactivated after issuance
	deactivated := activeUser("password123")
	deactivated.IsActive = false
	mockRepo.On("GetByID", user.ID).Return(deactivated, nil).Once()
	_, err = authService.ResolveUser(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("oldpassword")

	mockRepo.On("GetByID", user.ID).Return(user, nil)
	mockRepo.On("Save", mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.ChangePassword(user.ID, "wrongpassword", "newpassword")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	err = authService.ChangePassword(user.ID, "oldpassword", "tiny")
	assert.True(t, domain.IsValidation(err))

	err = authService.ChangePassword(user.ID, "oldpassword", "newpassword")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpassword")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo)
	user := activeUser("password123")

	mockRepo.On("GetByID", user.ID).Return(user, nil)
	mockRepo.On("Save", mock.AnythingOfType("*models.User")).Return(nil).Once()

	name := "Asha Rao"
	address := "42 College Road"
	got, err := authService.UpdateProfile(user.ID, services.ProfilePatch{Name: &name, Address: &address})
	assert.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.Name)
	assert.Equal(t, "42 College Road", got.Address)
	// Untouched fields stay as they were
	assert.Equal(t, "9876543210", got.Phone)

	badPhone := "12"
	_, err = authService.UpdateProfile(user.ID, services.ProfilePatch{Phone: &badPhone})
	assert.True(t, domain.IsValidation(err))
	mockRepo.AssertExpectations(t)
}
