package api

import (
	"encoding/json"
	"net/http"

	"github.com/nordbad/signage-core/internal/auth"
)

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// handleLogin authenticates the admin account and returns a JWT token.
// The credential comes from config: a username and an Argon2id hash set
// through SIGNAGE_ADMIN_PASSWORD_HASH.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	admin := s.secCfg.Admin
	if admin.PasswordHash == "" {
		s.logger.Error("login rejected: no admin password hash configured")
		writeUnauthorized(w, "invalid credentials")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		s.logger.Error("password verification failed", "error", err)
		writeUnauthorized(w, "invalid credentials")
		return
	}
	if req.Username != admin.Username || !ok {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	ttl := s.secCfg.JWT.AccessTokenTTL
	token, err := auth.GenerateAccessToken(req.Username, s.secCfg.JWT.Secret, ttl)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		writeInternalError(w, "failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   ttl * 60, // seconds
	})
}

// handleWSTicket generates a single-use WebSocket authentication ticket.
// The client uses this ticket to open the WebSocket connection without
// exposing the JWT in the URL.
func (s *Server) handleWSTicket(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(ctxKeyClaims).(*auth.Claims)
	if !ok {
		writeUnauthorized(w, "authentication required")
		return
	}

	ticket, err := s.tickets.Issue(claims.Subject)
	if err != nil {
		s.logger.Error("ticket generation failed", "error", err)
		writeInternalError(w, "failed to generate ticket")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticket": ticket,
	})
}
