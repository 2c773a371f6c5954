package handler

import (
	"net/http"

	"retailing/internal/dto"
	"retailing/internal/middleware"
	"retailing/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary  Obtain access and refresh tokens
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.LoginRequest true "Credentials"
// @Success  200 {object} dto.LoginResponse
// @Failure  401 {object} apierror.APIError
// @Router   /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary  Exchange a refresh token for a new token pair
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.RefreshRequest true "Refresh token"
// @Success  200 {object} dto.LoginResponse
// @Failure  401 {object} apierror.APIError
// @Router   /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary  Create a user account
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body body dto.RegisterUserRequest true "New user"
// @Success  201 {object} dto.UserResponse
// @Failure  409 {object} apierror.APIError
// @Router   /v1/users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListUsers godoc
// @Summary   List users (administrators)
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array} dto.UserResponse
// @Router    /v1/users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	resp, err := h.svc.ListUsers(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUser godoc
// @Summary   Retrieve a user (self or administrator)
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id path int true "User id"
// @Success   200 {object} dto.UserResponse
// @Failure   404 {object} apierror.APIError
// @Router    /v1/users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetUser(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateUser godoc
// @Summary   Update own account
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id   path int                   true "User id"
// @Param     body body dto.UpdateUserRequest true "Fields to change"
// @Success   200 {object} dto.UserResponse
// @Failure   403 {object} apierror.APIError
// @Router    /v1/users/{id} [patch]
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateUser(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteUser godoc
// @Summary   Delete a user (administrators)
// @Tags      users
// @Security  BearerAuth
// @Param     id path int true "User id"
// @Success   204
// @Failure   409 {object} apierror.APIError
// @Router    /v1/users/{id} [delete]
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteUser(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
