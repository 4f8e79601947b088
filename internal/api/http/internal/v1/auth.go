package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signupflow/backend/internal/service"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")

	auth.POST("/signup", h.signUp)
	auth.POST("/otp/request", h.requestOTP)
	auth.POST("/otp/verify", h.verifyOTP)
}

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	// bcrypt rejects inputs longer than 72 bytes, so the bound is enforced here.
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name"`
}

type signUpResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	Status  string `json:"status"`
	OTP     string `json:"otp,omitempty"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Auth.SignUp(c.Request.Context(), service.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, signUpResponse{
		Message: result.Message,
		Email:   result.Email,
		Status:  string(result.Status),
		OTP:     result.OTP,
	})
}

type requestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type requestOTPResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	OTP     string `json:"otp,omitempty"`
}

func (h *Handler) requestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Auth.RequestOTP(c.Request.Context(), req.Email)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, requestOTPResponse{
		Message: result.Message,
		Email:   result.Email,
		OTP:     result.OTP,
	})
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type verifyOTPResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	// Milliseconds since epoch.
	VerifiedAt int64 `json:"verified_at"`
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrorResponse(c, err)
		return
	}

	result, err := h.services.Auth.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, verifyOTPResponse{
		Message:    result.Message,
		Email:      result.Email,
		VerifiedAt: result.VerifiedAt.UnixMilli(),
	})
}
