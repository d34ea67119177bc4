package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/interfaces"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
	"github.com/umbrella-sec/umbrella/pkg/service/token"
	"golang.org/x/crypto/bcrypt"
)

// Auth implements AuthUseCase with repository-backed accounts and
// JWT token pairs
type Auth struct {
	repo   interfaces.Repository
	tokens *token.Service
}

// NewAuth creates a new Auth use case
func NewAuth(repo interfaces.Repository, tokens *token.Service) AuthUseCase {
	return &Auth{
		repo:   repo,
		tokens: tokens,
	}
}

// Login verifies username and password and issues a token pair. Unknown
// users and wrong passwords produce the same error so callers cannot
// probe for accounts.
func (a *Auth) Login(ctx context.Context, creds *model.Credentials) (*model.TokenPair, error) {
	logger := ctxlog.From(ctx)

	if creds == nil || creds.Username == "" || creds.Password == "" {
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "username and password are required")
	}

	user, err := a.repo.GetUserByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, goerr.Wrap(model.ErrInvalidCredentials, "login failed")
		}
		return nil, goerr.Wrap(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidCredentials, "login failed")
	}

	if !user.IsActive {
		return nil, goerr.Wrap(model.ErrAccountDeactivated, "login rejected",
			goerr.V("userID", user.ID))
	}

	pair, err := a.tokens.IssuePair(user.ID, user.Roles)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to issue tokens")
	}

	logger.Info("User logged in",
		"userID", user.ID,
		"username", user.Username,
		"roles", user.Roles,
	)

	return pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The user
// is re-resolved so deactivated accounts lose access at rotation time.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	if refreshToken == "" {
		return nil, goerr.Wrap(model.ErrInvalidToken, "refresh token is required")
	}

	claims, err := a.tokens.Verify(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, err
	}

	user, err := a.repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, goerr.Wrap(model.ErrInvalidToken, "user no longer exists")
		}
		return nil, goerr.Wrap(err, "failed to look up user")
	}

	if !user.IsActive {
		return nil, goerr.Wrap(model.ErrAccountDeactivated, "refresh rejected",
			goerr.V("userID", user.ID))
	}

	pair, err := a.tokens.IssuePair(user.ID, user.Roles)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to issue tokens")
	}

	return pair, nil
}

// ValidateAccessToken verifies an access token and returns its auth context
func (a *Auth) ValidateAccessToken(ctx context.Context, accessToken string) (*model.AuthContext, error) {
	if accessToken == "" {
		return nil, goerr.Wrap(model.ErrInvalidToken, "access token is required")
	}

	claims, err := a.tokens.Verify(accessToken, token.TypeAccess)
	if err != nil {
		return nil, err
	}

	return &model.AuthContext{
		UserID: claims.UserID,
		Roles:  claims.Roles,
	}, nil
}

// GetUser returns the user profile for an authenticated user
func (a *Auth) GetUser(ctx context.Context, id types.UserID) (*model.User, error) {
	user, err := a.repo.GetUser(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user")
	}
	return user, nil
}

// EnsureUser creates the user with a bcrypt password hash unless an
// account with the same username already exists
func (a *Auth) EnsureUser(ctx context.Context, username, email, password string, roles []string) (*model.User, error) {
	logger := ctxlog.From(ctx)

	if username == "" || password == "" {
		return nil, goerr.New("username and password are required")
	}

	if existing, err := a.repo.GetUserByUsername(ctx, username); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, goerr.Wrap(err, "failed to look up user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to hash password")
	}

	user := model.NewUser(username, email, roles)
	user.PasswordHash = string(hash)

	if err := a.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user")
	}

	logger.Info("Created new user",
		"userID", user.ID,
		"username", username,
		"roles", roles,
	)

	return user, nil
}
