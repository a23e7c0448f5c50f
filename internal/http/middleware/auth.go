package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zerodesign/zerodesign-backend/internal/http/response"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type TokenAuthenticator interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type AuthMiddleware struct {
	log    *logger.Logger
	auth   TokenAuthenticator
	admins AdminChecker
}

func NewAuthMiddleware(log *logger.Logger, auth TokenAuthenticator, admins AdminChecker) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), auth: auth, admins: admins}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := am.auth.SetContextFromToken(c.Request.Context(), extractToken(c))
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		if ctxutil.UserID(ctx) == uuid.Nil {
			response.RespondErr(c, apierr.New(http.StatusForbidden, "forbidden", apierr.ErrForbidden))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth. The flag is re-read from the user
// row so revoked admins lose access before their token expires.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ok, err := am.admins.IsAdmin(ctx, ctxutil.UserID(ctx))
		if err != nil {
			response.RespondErr(c, err)
			return
		}
		if !ok {
			am.log.Warn("admin route denied", "user_id", ctxutil.UserID(ctx).String(), "path", c.FullPath())
			response.RespondErr(c, apierr.New(http.StatusForbidden, "admin_required", apierr.ErrForbidden))
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return c.Query("token")
}
