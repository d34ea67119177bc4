// Package token issues and verifies the JWT access/refresh token pairs
// that back dashboard sessions.
package token

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

const (
	issuer = "umbrella"

	claimRoles = "roles"
	claimType  = "typ"

	// Token types embedded in the typ claim
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Service signs and verifies HS256 tokens
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a token service
func New(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair creates an access/refresh token pair for the user. The access
// token carries the user's roles; the refresh token only the subject.
func (s *Service) IssuePair(userID types.UserID, roles []string) (*model.TokenPair, error) {
	now := time.Now()

	accessToken, err := jwt.NewBuilder().
		Issuer(issuer).
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(s.accessTTL)).
		Claim(claimType, TypeAccess).
		Claim(claimRoles, roles).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build access token")
	}

	refreshToken, err := jwt.NewBuilder().
		Issuer(issuer).
		Subject(userID.String()).
		IssuedAt(now).
		Expiration(now.Add(s.refreshTTL)).
		Claim(claimType, TypeRefresh).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build refresh token")
	}

	signedAccess, err := jwt.Sign(accessToken, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign access token")
	}

	signedRefresh, err := jwt.Sign(refreshToken, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign refresh token")
	}

	return model.NewTokenPair(string(signedAccess), string(signedRefresh)), nil
}

// Claims holds the verified content of a token
type Claims struct {
	UserID types.UserID
	Roles  []string
	Type   string
}

// Verify parses and validates a signed token of the expected type
func (s *Service) Verify(raw string, expectedType string) (*Claims, error) {
	parsed, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return nil, goerr.Wrap(model.ErrInvalidToken, err.Error())
	}

	tokenType, _ := parsed.Get(claimType)
	typ, ok := tokenType.(string)
	if !ok || typ != expectedType {
		return nil, goerr.Wrap(model.ErrInvalidToken, "unexpected token type",
			goerr.V("expected", expectedType))
	}

	claims := &Claims{
		UserID: types.UserID(parsed.Subject()),
		Type:   typ,
	}

	if rawRoles, ok := parsed.Get(claimRoles); ok {
		// JSON round-trips role lists as []interface{}
		if list, ok := rawRoles.([]interface{}); ok {
			for _, r := range list {
				if role, ok := r.(string); ok {
					claims.Roles = append(claims.Roles, role)
				}
			}
		}
	}

	return claims, nil
}
