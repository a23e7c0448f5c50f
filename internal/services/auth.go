package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zerodesign/zerodesign-backend/internal/data/db"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

const resetTokenTTL = time.Hour

type JWTClaims struct {
	Admin bool `json:"adm,omitempty"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        *types.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	CheckResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
	GetAccessTTL() time.Duration
}

type authService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	resetTokenRepo repos.PasswordResetTokenRepo
	throttle       LoginThrottle
	jwtSecretKey   string
	accessTTL      time.Duration
	now            func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	resetTokenRepo repos.PasswordResetTokenRepo,
	throttle LoginThrottle,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &authService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		throttle:       throttle,
		jwtSecretKey:   jwtSecretKey,
		accessTTL:      accessTTL,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	firstName := SanitizeInput(in.FirstName)
	lastName := SanitizeInput(in.LastName)

	if firstName == "" || lastName == "" {
		return nil, apierr.Invalid("missing_name", "first and last name are required")
	}
	if !ValidateEmail(email) {
		return nil, apierr.Invalid("invalid_email", "invalid email address")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	dbc := dbctx.New(ctx)
	exists, err := as.userRepo.EmailExists(dbc, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("email_taken", "email already registered")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
	}
	if _, err := as.userRepo.Create(dbc, []*types.User{u}); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apierr.Conflict("email_taken", "email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("user registered", "user_id", u.ID.String())
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.Invalid("missing_credentials", "email and password are required")
	}

	if as.throttle != nil && clientIP != "" {
		blocked, err := as.throttle.Blocked(ctx, clientIP)
		if err != nil {
			as.log.Warn("login throttle unavailable", "error", err)
		} else if blocked {
			return nil, apierr.New(http.StatusTooManyRequests, "too_many_attempts",
				fmt.Errorf("%w: too many failed login attempts", apierr.ErrTooManyRequests))
		}
	}

	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !VerifyPassword(password, u.Password) {
		as.recordFailure(ctx, clientIP)
		return nil, apierr.Unauthorized("invalid_credentials", "invalid email or password")
	}

	if as.throttle != nil && clientIP != "" {
		if err := as.throttle.Reset(ctx, clientIP); err != nil {
			as.log.Warn("login throttle reset failed", "error", err)
		}
	}

	now := as.now()
	if err := as.userRepo.TouchLastLogin(dbc, u.ID, now); err != nil {
		as.log.Warn("update last login failed", "user_id", u.ID.String(), "error", err)
	}
	u.LastLoginAt = &now

	token, err := as.generateAccessToken(u, now)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(as.accessTTL / time.Second),
		User:        u,
	}, nil
}

func (as *authService) recordFailure(ctx context.Context, clientIP string) {
	if as.throttle == nil || clientIP == "" {
		return
	}
	if _, err := as.throttle.RecordFailure(ctx, clientIP); err != nil {
		as.log.Warn("login throttle record failed", "error", err)
	}
}

func (as *authService) generateAccessToken(u *types.User, now time.Time) (string, error) {
	claims := JWTClaims{
		Admin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing_token", "missing access token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Sprintf("failed to parse token: %v", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid_token", "invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", "invalid user id in token")
	}

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	}
	next := *rd
	next.UserID = userID
	next.IsAdmin = claims.Admin
	return ctxutil.WithRequestData(ctx, &next), nil
}

// RequestPasswordReset issues a single live token for the account, replacing
// any earlier ones. An unknown email yields an empty token and no error so
// callers cannot probe which accounts exist.
func (as *authService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !ValidateEmail(email) {
		return "", apierr.Invalid("invalid_email", "invalid email address")
	}
	u, err := as.userRepo.GetByEmail(dbctx.New(ctx), email)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		as.log.Debug("password reset for unknown email")
		return "", nil
	}

	token, err := newResetToken()
	if err != nil {
		return "", err
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := as.resetTokenRepo.DeleteByUserID(dbc, u.ID); err != nil {
			return fmt.Errorf("clear reset tokens: %w", err)
		}
		return as.resetTokenRepo.Create(dbc, &types.PasswordResetToken{
			UserID:    u.ID,
			Token:     token,
			ExpiresAt: as.now().Add(resetTokenTTL),
		})
	})
	if err != nil {
		return "", err
	}
	as.log.Info("password reset requested", "user_id", u.ID.String())
	return token, nil
}

func (as *authService) loadResetToken(dbc dbctx.Context, token string) (*types.PasswordResetToken, error) {
	if strings.TrimSpace(token) == "" {
		return nil, apierr.Invalid("invalid_reset_token", "reset token required")
	}
	row, err := as.resetTokenRepo.GetByToken(dbc, token)
	if err != nil {
		return nil, fmt.Errorf("load reset token: %w", err)
	}
	if !row.Valid(as.now()) {
		return nil, apierr.Invalid("invalid_reset_token", "reset token is invalid or expired")
	}
	return row, nil
}

func (as *authService) CheckResetToken(ctx context.Context, token string) error {
	_, err := as.loadResetToken(dbctx.New(ctx), token)
	return err
}

func (as *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := as.loadResetToken(dbc, token)
		if err != nil {
			return err
		}
		if err := as.userRepo.UpdatePassword(dbc, row.UserID, hash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := as.resetTokenRepo.MarkUsed(dbc, row.ID); err != nil {
			return fmt.Errorf("mark reset token used: %w", err)
		}
		as.log.Info("password reset", "user_id", row.UserID.String())
		return nil
	})
}

func (as *authService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	dbc := dbctx.New(ctx)
	u, err := as.userRepo.GetByID(dbc, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return apierr.NotFound("user_not_found", "user not found")
	}
	if !VerifyPassword(currentPassword, u.Password) {
		return apierr.Invalid("wrong_password", "current password is incorrect")
	}
	if currentPassword == newPassword {
		return apierr.Invalid("same_password", "new password must differ from the current one")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := as.userRepo.UpdatePassword(dbc, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func newResetToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
