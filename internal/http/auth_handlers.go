package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"village-records-backend-go/internal/services"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  AdminDTO `json:"user"`
}

type AdminDTO struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// Login authenticates the single configured administrator. Failed
// attempts are audited with metadata.success=false; the audit call is
// best-effort and never changes the response.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	ip := resolveClientIP(r)
	ua := r.Header.Get("User-Agent")
	if username != s.Config.AdminUsername ||
		!s.Tokens.VerifyPassword(req.Password, s.Config.AdminPasswordHash, s.Config.AdminDevPassword) {
		s.Activity.Record(services.ActivityEvent{
			Username:   username,
			ActionType: services.ActionLogin,
			IPAddress:  ip,
			UserAgent:  ua,
			Metadata:   map[string]interface{}{"success": false},
		})
		WriteError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token, _, err := s.Tokens.CreateToken(username)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.Activity.Record(services.ActivityEvent{
		Username:   username,
		ActionType: services.ActionLogin,
		IPAddress:  ip,
		UserAgent:  ua,
		Metadata:   map[string]interface{}{"success": true},
	})
	WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  AdminDTO{Username: username, IsAdmin: true},
	})
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	s.Activity.Record(services.ActivityEvent{
		Username:   s.Config.AdminUsername,
		ActionType: services.ActionLogout,
		IPAddress:  resolveClientIP(r),
		UserAgent:  r.Header.Get("User-Agent"),
	})
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Logged out"})
}
