// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/bookery/internal/auth"
	"github.com/olegiv/bookery/internal/model"
	"github.com/olegiv/bookery/internal/store"
)

// Sentinel errors returned by account operations.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// dummyHash is verified against when the email is unknown so that login
// failures take roughly the same time either way.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// AccountService handles user registration and credential verification.
type AccountService struct {
	queries *store.Queries
}

// NewAccountService creates a new AccountService.
func NewAccountService(db *sql.DB) *AccountService {
	return &AccountService{
		queries: store.New(db),
	}
}

// RegisterParams holds the fields for creating a new account.
type RegisterParams struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user account with the "user" role.
// Returns ErrEmailTaken when the email is already registered.
func (s *AccountService) Register(ctx context.Context, arg RegisterParams) (model.User, error) {
	exists, err := s.queries.EmailExists(ctx, arg.Email)
	if err != nil {
		return model.User{}, fmt.Errorf("checking email: %w", err)
	}
	if exists {
		return model.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     arg.Username,
		Email:        arg.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		// The pre-check races with concurrent registrations; the email
		// uniqueness constraint is the authority.
		if isUniqueEmailViolation(err) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// isUniqueEmailViolation matches the store's email uniqueness constraint.
func isUniqueEmailViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}

// VerifyCredentials checks an email/password pair and returns the user on
// success. Unknown email and wrong password both return
// ErrInvalidCredentials so callers cannot distinguish the two.
func (s *AccountService) VerifyCredentials(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a hash comparison to keep timing uniform
			_, _ = auth.CheckPassword(password, dummyHash)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredentials
	}

	// Upgrade the stored hash when parameters have changed
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				ID:           user.ID,
				PasswordHash: newHash,
			}); err != nil {
				slog.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	return user, nil
}
