package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/zerodesign/zerodesign-backend/internal/data/db"
	"github.com/zerodesign/zerodesign-backend/internal/data/repos"
	types "github.com/zerodesign/zerodesign-backend/internal/domain"
	"github.com/zerodesign/zerodesign-backend/internal/platform/apierr"
	"github.com/zerodesign/zerodesign-backend/internal/platform/ctxutil"
	"github.com/zerodesign/zerodesign-backend/internal/platform/dbctx"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, in UpdateProfileInput) (*types.User, error)
	GetPreferences(ctx context.Context) (map[string]any, error)
	SetPreferences(ctx context.Context, prefs map[string]any) error
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) currentUser(ctx context.Context) (*types.User, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", "not signed in")
	}
	u, err := us.userRepo.GetByID(dbctx.New(ctx), userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound("user_not_found", "user not found")
	}
	return u, nil
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	return us.currentUser(ctx)
}

func (us *userService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*types.User, error) {
	u, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	first := SanitizeInput(in.FirstName)
	last := SanitizeInput(in.LastName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if first == "" || last == "" || email == "" {
		return nil, apierr.Invalid("missing_fields", "first name, last name and email are required")
	}
	if !ValidateEmail(email) {
		return nil, apierr.Invalid("invalid_email", "invalid email address")
	}

	dbc := dbctx.New(ctx)
	taken, err := us.userRepo.EmailExists(dbc, email, u.ID)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apierr.Conflict("email_taken", "email already used by another account")
	}
	if err := us.userRepo.UpdateProfile(dbc, u.ID, first, last, email); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apierr.Conflict("email_taken", "email already used by another account")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	u.FirstName, u.LastName, u.Email = first, last, email
	return u, nil
}

func (us *userService) GetPreferences(ctx context.Context) (map[string]any, error) {
	u, err := us.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	prefs := map[string]any{}
	if len(u.Preferences) == 0 {
		return prefs, nil
	}
	if err := json.Unmarshal(u.Preferences, &prefs); err != nil {
		us.log.Warn("stored preferences unreadable", "user_id", u.ID.String(), "error", err)
		return map[string]any{}, nil
	}
	return prefs, nil
}

func (us *userService) SetPreferences(ctx context.Context, prefs map[string]any) error {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", "not signed in")
	}
	if prefs == nil {
		prefs = map[string]any{}
	}
	raw, err := json.Marshal(prefs)
	if err != nil {
		return apierr.Invalid("invalid_preferences", err.Error())
	}
	return us.userRepo.UpdatePreferences(dbctx.New(ctx), userID, datatypes.JSON(raw))
}

func (us *userService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := us.userRepo.GetByID(dbctx.New(ctx), userID)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsAdmin, nil
}
