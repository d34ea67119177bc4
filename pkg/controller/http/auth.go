package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/umbrella-sec/umbrella/pkg/metrics"
	"github.com/umbrella-sec/umbrella/pkg/usecase"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authUC usecase.AuthUseCase
	mtr    *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC usecase.AuthUseCase, mtr *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authUC: authUC,
		mtr:    mtr,
	}
}

// HandleLogin authenticates username and password and returns a token pair
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
		return
	}

	pair, err := h.authUC.Login(r.Context(), &creds)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) || errors.Is(err, model.ErrAccountDeactivated) {
			h.mtr.RecordLoginFailure()
		}
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, pair)
}

// refreshRequest is the optional refresh body; the token may instead
// travel in the Authorization header
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// HandleRefresh exchanges a refresh token for a new token pair. The token
// is read from the Authorization header, falling back to the JSON body.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := bearerToken(r)
	if refreshToken == "" && r.Body != nil {
		var req refreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			refreshToken = req.RefreshToken
		}
	}

	pair, err := h.authUC.Refresh(r.Context(), refreshToken)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, pair)
}

// HandleMe returns the current user's profile
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.Wrap(model.ErrInvalidToken, "no auth context"))
		return
	}

	user, err := h.authUC.GetUser(r.Context(), authCtx.UserID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, user)
}
