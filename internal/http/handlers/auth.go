package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/services"
)

type AuthHandler struct {
	authService      services.AuthService
	exposeResetToken bool
}

// NewAuthHandler builds the public auth endpoints. With exposeResetToken the
// forgot-password response carries the token itself, for setups without
// outbound mail.
func NewAuthHandler(authService services.AuthService, exposeResetToken bool) *AuthHandler {
	return &AuthHandler{authService: authService, exposeResetToken: exposeResetToken}
}

func (ah *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

func (ah *AuthHandler) Signin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	clientIP := ""
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
		clientIP = rd.ClientIP
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password, clientIP)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, res)
}

func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	token, err := ah.authService.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	out := gin.H{"message": "password reset requested"}
	if ah.exposeResetToken {
		out["reset_token"] = token
	}
	response.RespondOK(c, out)
}

func (ah *AuthHandler) CheckResetToken(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := ah.authService.CheckResetToken(c.Request.Context(), req.Token); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"valid": true})
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := ah.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "password updated"})
}

func (ah *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	if err := ah.authService.ChangePassword(ctx, ctxutil.UserID(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "password changed"})
}
