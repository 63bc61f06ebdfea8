package httpapi

import (
	"log"
	"net/http"

	"village-records-backend-go/internal/services"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin UI runs on a different origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MetricsHistory returns the recent system samples, oldest first.
func (s *Server) MetricsHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 120)
	if limit < 1 || limit > 1000 {
		limit = 120
	}
	samples, err := services.LatestMetrics(s.Store, limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, samples)
}

// AdminSocket upgrades to a websocket feed of live metric and activity
// events. Browsers cannot set an Authorization header on a websocket
// handshake, so the token travels as a query parameter instead.
func (s *Server) AdminSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if _, err := s.Tokens.VerifyAdminToken(token); err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	s.Hub.Add(conn)
	go func() {
		defer func() {
			s.Hub.Remove(conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
