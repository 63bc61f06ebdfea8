package httpapi

import (
	"net/http"

	"village-records-backend-go/internal/services"
)

func (s *Server) DashboardStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.Store.DashboardCounts()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, counts)
}

// DashboardMemberStats aggregates the active member population by
// gender, age bracket, resident type and occupation.
func (s *Server) DashboardMemberStats(w http.ResponseWriter, r *http.Request) {
	members, err := s.Store.ListMembers()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, services.ComputeMemberStats(members))
}
