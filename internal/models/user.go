package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Role is a capability tag. A user may hold several at once.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ValidRole reports whether r is one of the known role tags.
func ValidRole(r Role) bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// RoleList is the set of roles a user holds. The database column keeps
// the legacy comma-joined form ("buyer,seller"); everywhere else it is
// a typed slice so role handling never touches raw strings.
type RoleList []Role

// ParseRoles decodes a comma-joined role string. Empty segments are
// dropped, surrounding whitespace is ignored, duplicates are kept.
func ParseRoles(s string) RoleList {
	var roles RoleList
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		roles = append(roles, Role(part))
	}
	return roles
}

// String returns the comma-joined form used in storage.
func (r RoleList) String() string {
	parts := make([]string, len(r))
	for i, role := range r {
		parts[i] = string(role)
	}
	return strings.Join(parts, ",")
}

// Has reports whether the list contains role.
func (r RoleList) Has(role Role) bool {
	for _, got := range r {
		if got == role {
			return true
		}
	}
	return false
}

// HasAny reports whether the list intersects allowed (OR semantics).
func (r RoleList) HasAny(allowed ...Role) bool {
	for _, want := range allowed {
		if r.Has(want) {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer, storing the comma-joined form.
func (r RoleList) Value() (driver.Value, error) {
	return r.String(), nil
}

// Scan implements sql.Scanner.
func (r *RoleList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case string:
		*r = ParseRoles(v)
		return nil
	case []byte:
		*r = ParseRoles(string(v))
		return nil
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}
}

// User represents a registered marketplace user. The password hash is
// never serialized, regardless of the caller's role.
type User struct {
	ID           string    `json:"user_id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null" validate:"required,min=2,max=100"`
	Phone        string    `json:"phone" gorm:"type:varchar(15);not null" validate:"required"`
	Address      string    `json:"address,omitempty" gorm:"type:text"`
	ContactEmail string    `json:"contact_email" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email"`
	Roles        RoleList  `json:"roles" gorm:"column:role;type:varchar(100);not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
