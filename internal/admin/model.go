// Package admin manages synagogues (tenants), their users and the role
// checks a signed-in session is subject to.
package admin

import (
	"errors"
	"time"

	"github.com/tartampluch/go-gabbai/internal/config"
)

// ErrForbidden is returned when the session's role does not allow an operation.
var ErrForbidden = errors.New("operation not permitted for this role")

// Role is a user's permission level.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleUser       Role = "USER"
)

// User is a console account. Admins and users belong to one synagogue.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email" validate:"required,email"`
	Name        string     `json:"name" validate:"required"`
	Role        Role       `json:"role" validate:"required,oneof=SUPER_ADMIN ADMIN USER"`
	SynagogueID string     `json:"synagogueId,omitempty"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
}

// UserPatch holds the fields of a partial user update; nil fields are left unchanged.
type UserPatch struct {
	Email       *string
	Name        *string
	Role        *Role
	SynagogueID *string
	Active      *bool
}

// Settings are the per-synagogue locale preferences.
type Settings struct {
	Timezone string `json:"timezone"`
	Currency string `json:"currency"`
	Language string `json:"language" validate:"omitempty,oneof=he en"`
}

// DefaultSettings returns the Israeli defaults.
func DefaultSettings() Settings {
	return Settings{
		Timezone: config.DefaultTimezone,
		Currency: config.DefaultCurrency,
		Language: config.DefaultLanguage,
	}
}

// Location resolves the timezone, falling back to the default zone.
func (s Settings) Location() *time.Location {
	if loc, err := time.LoadLocation(s.Timezone); err == nil && s.Timezone != "" {
		return loc
	}
	if loc, err := time.LoadLocation(config.DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Synagogue is a tenant of the console.
type Synagogue struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	HebrewName   string    `json:"hebrewName"`
	Slug         string    `json:"slug"`
	Address      string    `json:"address,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty" validate:"omitempty,email"`
	AdminUserID  string    `json:"adminUserId,omitempty"`
	LogoURL      string    `json:"logoUrl,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	Settings     Settings  `json:"settings"`
}

// DisplayName prefers the Hebrew name.
func (s Synagogue) DisplayName() string {
	if s.HebrewName != "" {
		return s.HebrewName
	}
	return s.Name
}

// SynagoguePatch holds the fields of a partial synagogue update.
type SynagoguePatch struct {
	Name         *string
	HebrewName   *string
	Address      *string
	ContactPhone *string
	ContactEmail *string
	AdminUserID  *string
	LogoURL      *string
	Active       *bool
	Settings     *SettingsPatch `copier:"-"`
}

// SettingsPatch holds the fields of a partial settings update.
type SettingsPatch struct {
	Timezone *string
	Currency *string
	Language *string
}
