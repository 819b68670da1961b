package domain

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

var (
	ErrEmptyUsername = errors.New("username is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 8 characters")
	ErrInvalidRole   = errors.New("role must be adopter or admin")
)

// User represents an account that can submit or decide adoption applications.
// Only the bcrypt hash of the password is ever stored.
type User struct {
	ID           int64
	Username     string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	Role         auth.Role
}

// NewUser builds a user ensuring required invariants, hashing the password.
func NewUser(id int64, username, password string, role auth.Role) (*User, error) {
	user := &User{ID: id}
	if err := user.SetUsername(username); err != nil {
		return nil, err
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := user.SetRole(role); err != nil {
		return nil, err
	}
	return user, nil
}

// SetUsername trims and validates the username.
func (u *User) SetUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrEmptyUsername
	}
	u.Username = username
	return nil
}

// SetPassword validates password strength and stores its bcrypt hash.
func (u *User) SetPassword(password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// SetRole validates and assigns the account role.
func (u *User) SetRole(role auth.Role) error {
	if role == "" {
		role = auth.RoleAdopter
	}
	if role != auth.RoleAdopter && role != auth.RoleAdmin {
		return ErrInvalidRole
	}
	u.Role = role
	return nil
}

// UpdateProfile applies optional profile fields and validates email if present.
func (u *User) UpdateProfile(firstName, lastName, email, phone string) error {
	u.FirstName = strings.TrimSpace(firstName)
	u.LastName = strings.TrimSpace(lastName)
	email = strings.TrimSpace(email)
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	u.Phone = strings.TrimSpace(phone)
	return nil
}

// CheckPassword compares the stored hash with the supplied credentials.
func (u *User) CheckPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Principal projects the account into the capability shape the workflow
// operations consume.
func (u *User) Principal() auth.Principal {
	return auth.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if err := u.SetUsername(u.Username); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return ErrEmptyPassword
	}
	if err := u.SetRole(u.Role); err != nil {
		return err
	}
	return u.UpdateProfile(u.FirstName, u.LastName, u.Email, u.Phone)
}
