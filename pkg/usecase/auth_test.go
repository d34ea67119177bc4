package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/repository"
	"github.com/umbrella-sec/umbrella/pkg/service/token"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

func newAuthUseCase(t *testing.T) usecase.AuthUseCase {
	t.Helper()
	repo := repository.NewMemory()
	tokens := token.New("test-secret", 15*time.Minute, 7*24*time.Hour)
	return usecase.NewAuth(repo, tokens)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuthUseCase(t)

	created, err := uc.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret", []string{"analyst"})
	gt.NoError(t, err).Required()

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		pair, err := uc.Login(ctx, &model.Credentials{Username: "reviewer", Password: "s3cret"})
		gt.NoError(t, err).Required()
		gt.True(t, pair.AccessToken != "")
		gt.True(t, pair.RefreshToken != "")
		gt.Equal(t, "bearer", pair.TokenType)

		authCtx, err := uc.ValidateAccessToken(ctx, pair.AccessToken)
		gt.NoError(t, err).Required()
		gt.Equal(t, created.ID, authCtx.UserID)
		gt.Equal(t, []string{"analyst"}, authCtx.Roles)
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, err := uc.Login(ctx, &model.Credentials{Username: "reviewer", Password: "wrong"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidCredentials))
	})

	t.Run("unknown user fails with the same error", func(t *testing.T) {
		_, err := uc.Login(ctx, &model.Credentials{Username: "nobody", Password: "s3cret"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidCredentials))
	})

	t.Run("empty credentials fail", func(t *testing.T) {
		_, err := uc.Login(ctx, &model.Credentials{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidCredentials))
	})
}

func TestLoginDeactivatedAccount(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	tokens := token.New("test-secret", 15*time.Minute, 7*24*time.Hour)
	uc := usecase.NewAuth(repo, tokens)

	user, err := uc.EnsureUser(ctx, "gone", "gone@example.com", "s3cret", nil)
	gt.NoError(t, err).Required()

	user.IsActive = false
	gt.NoError(t, repo.SaveUser(ctx, user))

	_, err = uc.Login(ctx, &model.Credentials{Username: "gone", Password: "s3cret"})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrAccountDeactivated))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	tokens := token.New("test-secret", 15*time.Minute, 7*24*time.Hour)
	uc := usecase.NewAuth(repo, tokens)

	user, err := uc.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret", []string{"analyst"})
	gt.NoError(t, err).Required()

	pair, err := uc.Login(ctx, &model.Credentials{Username: "reviewer", Password: "s3cret"})
	gt.NoError(t, err).Required()

	t.Run("refresh token rotates the pair", func(t *testing.T) {
		rotated, err := uc.Refresh(ctx, pair.RefreshToken)
		gt.NoError(t, err).Required()

		authCtx, err := uc.ValidateAccessToken(ctx, rotated.AccessToken)
		gt.NoError(t, err).Required()
		gt.Equal(t, user.ID, authCtx.UserID)
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		_, err := uc.Refresh(ctx, pair.AccessToken)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidToken))
	})

	t.Run("empty refresh token fails", func(t *testing.T) {
		_, err := uc.Refresh(ctx, "")
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrInvalidToken))
	})

	t.Run("deactivated account loses refresh", func(t *testing.T) {
		user.IsActive = false
		gt.NoError(t, repo.SaveUser(ctx, user))

		_, err := uc.Refresh(ctx, pair.RefreshToken)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, model.ErrAccountDeactivated))
	})
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()
	uc := newAuthUseCase(t)

	first, err := uc.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret", []string{"analyst"})
	gt.NoError(t, err).Required()
	gt.True(t, first.PasswordHash != "s3cret")

	t.Run("existing account is returned as is", func(t *testing.T) {
		again, err := uc.EnsureUser(ctx, "reviewer", "other@example.com", "different", nil)
		gt.NoError(t, err).Required()
		gt.Equal(t, first.ID, again.ID)
		gt.Equal(t, "reviewer@example.com", again.Email)
	})

	t.Run("missing password fails", func(t *testing.T) {
		_, err := uc.EnsureUser(ctx, "nopass", "", "", nil)
		gt.Error(t, err)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	uc := newAuthUseCase(t)

	created, err := uc.EnsureUser(ctx, "reviewer", "reviewer@example.com", "s3cret", nil)
	gt.NoError(t, err).Required()

	got, err := uc.GetUser(ctx, created.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, "reviewer", got.Username)

	_, err = uc.GetUser(ctx, "missing")
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrUserNotFound))
}
