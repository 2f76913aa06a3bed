package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password length bounds. The upper bound is bcrypt's practical limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Maximum length for a user name, matching the accounts schema.
const MaxNomUtilisateurLength = 150

// Common user validation errors.
var (
	ErrEmptyUtilisateurID  = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyNomUtilisateur = errors.New("name cannot be empty")
	ErrNomUtilisateurLong  = errors.New("name must be at most 150 characters long")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrSuperuserNotStaff   = errors.New("superuser must have is_staff=true")
	ErrSuperuserFlag       = errors.New("superuser must have is_superuser=true")
)

// Utilisateur represents a registered account. The email address is the
// login identity; there is no separate username.
type Utilisateur struct {
	ID             uuid.UUID `json:"id"`
	Nom            string    `json:"nom"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, held only until hashing
	HashedPassword string    `json:"-"` // Never expose the password hash in JSON
	IsActive       bool      `json:"is_active"`
	IsStaff        bool      `json:"is_staff"`
	IsSuperuser    bool      `json:"is_superuser"`
	DateJoined     time.Time `json:"date_joined"`
}

// UtilisateurOption customizes a user at construction time. Options run
// after defaults are applied, mirroring administrative overrides.
type UtilisateurOption func(*Utilisateur)

// WithStaff sets the is_staff flag.
func WithStaff(staff bool) UtilisateurOption {
	return func(u *Utilisateur) { u.IsStaff = staff }
}

// WithSuperuser sets the is_superuser flag.
func WithSuperuser(superuser bool) UtilisateurOption {
	return func(u *Utilisateur) { u.IsSuperuser = superuser }
}

// WithActive sets the is_active flag.
func WithActive(active bool) UtilisateurOption {
	return func(u *Utilisateur) { u.IsActive = active }
}

// NewUtilisateur creates a regular user with the given email, name and
// plaintext password. The email is normalized before validation. New users
// are active by default and carry no administrative flags.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing the password before
// storing the user.
func NewUtilisateur(email, nom, password string, opts ...UtilisateurOption) (*Utilisateur, error) {
	user := &Utilisateur{
		ID:         uuid.New(),
		Nom:        nom,
		Email:      NormalizeEmail(email),
		Password:   password,
		IsActive:   true,
		DateJoined: time.Now().UTC(),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NewSuperUtilisateur creates a superuser. It forces is_staff, is_superuser
// and is_active to true before applying options, and fails if any option
// turned the staff or superuser flag back off. The check guards against
// silent misconfiguration by callers supplying their own overrides.
func NewSuperUtilisateur(email, nom, password string, opts ...UtilisateurOption) (*Utilisateur, error) {
	defaults := []UtilisateurOption{
		WithStaff(true),
		WithSuperuser(true),
		WithActive(true),
	}

	user, err := NewUtilisateur(email, nom, password, append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}

	if !user.IsStaff {
		return nil, ErrSuperuserNotStaff
	}
	if !user.IsSuperuser {
		return nil, ErrSuperuserFlag
	}

	return user, nil
}

// Validate checks if the Utilisateur has valid data.
// Returns an error if any field fails validation.
func (u *Utilisateur) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUtilisateurID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Nom == "" {
		return ErrEmptyNomUtilisateur
	}

	if len(u.Nom) > MaxNomUtilisateurLength {
		return ErrNomUtilisateurLong
	}

	// During creation or a password change the plaintext password is
	// present and must meet the length bounds. Otherwise the user must
	// already carry a hash (the case for rows loaded from storage).
	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// IsAdmin reports whether the user may perform administrative operations.
func (u *Utilisateur) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}

// NormalizeEmail lowercases the domain part of an email address so that
// lookups are case-insensitive where mail routing is.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}

// validateEmailFormat performs basic validation of email format.
// Returns true if the email appears to be in a valid format.
func validateEmailFormat(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return true
}
