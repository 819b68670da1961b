package adoptionserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	userhttpmapper "github.com/pawhaven/adoption-api-server/internal/domains/users/adapters/http/mapper"
	userports "github.com/pawhaven/adoption-api-server/internal/domains/users/ports"
	"github.com/pawhaven/adoption-api-server/internal/shared/auth"
)

var errForeignAccount = errors.New("may not act on another user's account")

// UserAPI wires HTTP transport with the identity service.
type UserAPI struct {
	service userports.Service
}

// NewUserAPI creates a UserAPI backed by the provided service.
func NewUserAPI(service userports.Service) UserAPI {
	return UserAPI{service: service}
}

// Post /v1/users
// Register a new account
func (api *UserAPI) CreateUser(c *gin.Context) {
	var payload userhttpmapper.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	// Self-registration never grants admin; only an existing admin can.
	if payload.Role == string(auth.RoleAdmin) {
		if principal, ok := principalFrom(c); !ok || !principal.IsAdmin() {
			payload.Role = string(auth.RoleAdopter)
		}
	}
	user, err := userhttpmapper.ToDomainUser(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userhttpmapper.FromDomainUser(saved))
}

// Post /v1/users/login
// Logs user into the system
func (api *UserAPI) LoginUser(c *gin.Context) {
	var payload userhttpmapper.Credentials
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.Session{Token: token})
}

// Post /v1/users/logout
// Logs out current logged in user session
func (api *UserAPI) LogoutUser(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	api.service.Logout(c.Request.Context(), principal.Username)
	c.Status(http.StatusNoContent)
}

// Get /v1/users/:username
// Get user by user name
func (api *UserAPI) GetUserByName(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	username := c.Param("username")
	if principal.Username != username && !principal.IsAdmin() {
		respondError(c, http.StatusForbidden, errForeignAccount)
		return
	}
	user, err := api.service.GetByUsername(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(user))
}

// Put /v1/users/:username
// Update an account
func (api *UserAPI) UpdateUser(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	username := c.Param("username")
	if principal.Username != username && !principal.IsAdmin() {
		respondError(c, http.StatusForbidden, errForeignAccount)
		return
	}
	var payload userhttpmapper.User
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if !principal.IsAdmin() {
		payload.Role = ""
	}
	updated, err := userhttpmapper.ToDomainUserUpdate(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.Update(c.Request.Context(), username, updated)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userhttpmapper.FromDomainUser(saved))
}

// Delete /v1/users/:username
// Delete an account
func (api *UserAPI) DeleteUser(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	username := c.Param("username")
	if principal.Username != username && !principal.IsAdmin() {
		respondError(c, http.StatusForbidden, errForeignAccount)
		return
	}
	if err := api.service.Delete(c.Request.Context(), username); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
