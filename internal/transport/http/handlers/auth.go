package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robertboulos/clearleads/internal/core/domain"
	"github.com/robertboulos/clearleads/internal/usecase"
)

// AuthHandler exposes session and profile management.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes wires the auth endpoints. Login and register stay outside
// the session guard; everything else requires one.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/login", h.Login)
	public.POST("/register", h.Register)

	protected.GET("/me", h.Me)
	protected.POST("/refresh", h.Refresh)
	protected.PATCH("/profile", h.UpdateProfile)
	protected.POST("/password", h.ChangePassword)
	protected.GET("/api-key", h.APIKey)
	protected.POST("/api-key/regenerate", h.RegenerateAPIKey)
	protected.POST("/logout", h.Logout)
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login signs the user in and mirrors the profile locally.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCredentialsRequired, Status: http.StatusBadRequest, Message: "email and password are required"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, toUserView(user))
}

// RegisterRequest is the payload for the register endpoint.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// Register creates an account and signs the new user in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Company:  req.Company,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Zip:      req.Zip,
		Country:  req.Country,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrCredentialsRequired, Status: http.StatusBadRequest, Message: "email and password are required"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, toUserView(user))
}

// Me returns the mirrored profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.auth.CurrentUser()
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "sign in required"))
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

// Refresh re-fetches the profile from the backend.
func (h *AuthHandler) Refresh(c *gin.Context) {
	if err := h.auth.RefreshUser(c.Request.Context()); err != nil {
		RespondWithMappedError(c, err, nil, http.StatusInternalServerError, "refresh failed")
		return
	}
	h.Me(c)
}

// ProfileUpdateRequest is the payload for profile edits.
type ProfileUpdateRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// UpdateProfile patches profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), domain.ProfileUpdate{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Zip:     req.Zip,
		Country: req.Country,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNotAuthenticated, Status: http.StatusUnauthorized, Message: "sign in required"},
		}, http.StatusInternalServerError, "profile update failed")
		return
	}

	c.JSON(http.StatusOK, toUserView(user))
}

// ChangePasswordRequest is the payload for password rotation.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword rotates the account password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNotAuthenticated, Status: http.StatusUnauthorized, Message: "sign in required"},
			{Err: usecase.ErrCredentialsRequired, Status: http.StatusBadRequest, Message: "current and new password are required"},
		}, http.StatusInternalServerError, "password change failed")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// APIKey returns the account's validation API key.
func (h *AuthHandler) APIKey(c *gin.Context) {
	key, err := h.auth.FetchAPIKey(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNotAuthenticated, Status: http.StatusUnauthorized, Message: "sign in required"},
		}, http.StatusInternalServerError, "api key lookup failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}

// RegenerateAPIKey rotates the validation API key.
func (h *AuthHandler) RegenerateAPIKey(c *gin.Context) {
	key, err := h.auth.RegenerateAPIKey(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrNotAuthenticated, Status: http.StatusUnauthorized, Message: "sign in required"},
		}, http.StatusInternalServerError, "api key regeneration failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"apiKey": key})
}

// Logout destroys the local session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout()
	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}
