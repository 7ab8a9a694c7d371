package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"

	"bookbazaar/internal/domain"
	"bookbazaar/internal/models"
	"bookbazaar/internal/repositories"
)

var phoneRE = regexp.MustCompile(`^[0-9]{10,15}$`)

// AuthService handles registration, login and session tokens.
type AuthService struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService. tokenTTL bounds issued
// token lifetime; the default wiring passes 7 days.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Phone    string
	Address  string
	Email    string
	Password string
	Roles    []string
}

// Register creates a new user with a bcrypt-hashed password and
// returns it together with a freshly issued token. Roles default to
// buyer when none are supplied.
func (s *AuthService) Register(in RegisterInput) (*models.User, string, error) {
	if !phoneRE.MatchString(in.Phone) {
		return nil, "", domain.Validationf("phone must be 10-15 digits")
	}
	if len(in.Password) < 6 {
		return nil, "", domain.Validationf("password must be at least 6 characters")
	}

	roles := models.RoleList{models.RoleBuyer}
	if len(in.Roles) > 0 {
		roles = nil
		for _, raw := range in.Roles {
			role := models.Role(raw)
			if !models.ValidRole(role) {
				return nil, "", domain.Validationf("unknown role '%s'", raw)
			}
			roles = append(roles, role)
		}
	}

	if _, err := s.userRepo.GetByEmail(in.Email); err == nil {
		return nil, "", domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("failed to check existing email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Phone:        in.Phone,
		Address:      in.Address,
		ContactEmail: in.Email,
		Roles:        roles,
		PasswordHash: string(hashed),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user by email and password. Unknown email and
// wrong password both surface ErrInvalidCredentials so accounts cannot
// be enumerated; a deactivated account is reported before the password
// is compared.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", domain.ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// issueToken produces a signed HS256 token embedding the user id and
// the role list held at issuance time.
func (s *AuthService) issueToken(user *models.User) (string, error) {
	roles := make([]string, len(user.Roles))
	for i, role := range user.Roles {
		roles[i] = string(role)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"roles":   roles,
		"iat":     now.Unix(),
		"exp":     now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature and expiry, returning the embedded
// user id. Expired tokens and malformed/badly signed tokens are
// reported distinctly.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return "", domain.ErrExpiredToken
		}
		return "", domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}

// ResolveUser validates the token and re-loads the referenced user
// from the store. Token claims are only a hint: a user that vanished
// or was deactivated since issuance is rejected, and role checks
// downstream see the live role set.
func (s *AuthService) ResolveUser(tokenString string) (*models.User, error) {
	userID, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// GetUser retrieves a user by id.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// ProfilePatch carries optional profile fields; nil means unchanged.
type ProfilePatch struct {
	Name    *string
	Phone   *string
	Address *string
}

// UpdateProfile applies a partial profile update to the caller.
func (s *AuthService) UpdateProfile(userID string, patch ProfilePatch) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if len(*patch.Name) < 2 || len(*patch.Name) > 100 {
			return nil, domain.Validationf("name must be 2-100 characters")
		}
		user.Name = *patch.Name
	}
	if patch.Phone != nil {
		if !phoneRE.MatchString(*patch.Phone) {
			return nil, domain.Validationf("phone must be 10-15 digits")
		}
		user.Phone = *patch.Phone
	}
	if patch.Address != nil {
		user.Address = *patch.Address
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the caller's current password before
// rehashing and storing the new one.
func (s *AuthService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}
	if len(newPassword) < 6 {
		return domain.Validationf("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.userRepo.Save(user)
}
