package mapper

import (
	userdomain "github.com/pawhaven/adoption-api-server/internal/domains/users/domain"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

// User represents the transport-level user payload. Password is accepted on
// input only; responses never carry credential material.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is the login response.
type Session struct {
	Token string `json:"token"`
}

// ToDomainUser converts a transport user to its domain counterpart.
func ToDomainUser(model User) (*userdomain.User, error) {
	user, err := userdomain.NewUser(model.ID, model.Username, model.Password, auth.Role(model.Role))
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(model.FirstName, model.LastName, model.Email, model.Phone); err != nil {
		return nil, err
	}
	return user, nil
}

// ToDomainUserUpdate converts an update payload, leaving the password hash
// empty when no new password was supplied so the service keeps the old one.
func ToDomainUserUpdate(model User) (*userdomain.User, error) {
	user := &userdomain.User{ID: model.ID, Username: model.Username, Role: auth.Role(model.Role)}
	if model.Password != "" {
		if err := user.SetPassword(model.Password); err != nil {
			return nil, err
		}
	}
	if err := user.UpdateProfile(model.FirstName, model.LastName, model.Email, model.Phone); err != nil {
		return nil, err
	}
	return user, nil
}

// FromDomainUser converts a domain user into a transport representation.
func FromDomainUser(user *userdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      string(user.Role),
	}
}

// FromDomainUsers converts a slice of domain users to transport representation.
func FromDomainUsers(users []*userdomain.User) []User {
	result := make([]User, 0, len(users))
	for _, user := range users {
		result = append(result, FromDomainUser(user))
	}
	return result
}
