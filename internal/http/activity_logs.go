package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/services"
	"village-records-backend-go/internal/store"
)

type ActivityLogDTO struct {
	ID           string                 `json:"id"`
	Username     string                 `json:"username"`
	ActionType   string                 `json:"actionType"`
	ResourceType *string                `json:"resourceType"`
	ResourceID   *string                `json:"resourceId"`
	Description  *string                `json:"description"`
	IPAddress    *string                `json:"ipAddress"`
	UserAgent    *string                `json:"userAgent"`
	Metadata     map[string]interface{} `json:"metadata"`
	CreatedAt    time.Time              `json:"createdAt"`
}

type ActivityLogCreateRequest struct {
	ActionType   string                 `json:"actionType"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   string                 `json:"resourceId"`
	Description  string                 `json:"description"`
	Metadata     map[string]interface{} `json:"metadata"`
}

func activityLogToDTO(entry models.ActivityLogEntry) ActivityLogDTO {
	metadata := map[string]interface{}{}
	if len(entry.Metadata) > 0 {
		_ = json.Unmarshal(entry.Metadata, &metadata)
	}
	return ActivityLogDTO{
		ID:           entry.ID,
		Username:     entry.Username,
		ActionType:   entry.ActionType,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Description:  entry.Description,
		IPAddress:    entry.IPAddress,
		UserAgent:    entry.UserAgent,
		Metadata:     metadata,
		CreatedAt:    entry.CreatedAt,
	}
}

// parseLogDate accepts either a date-only or a full RFC 3339 stamp.
func parseLogDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return &ts
	}
	return nil
}

func (s *Server) ListActivityLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ActivityLogFilter{
		Username:     q.Get("username"),
		ActionType:   q.Get("action_type"),
		ResourceType: q.Get("resource_type"),
		Limit:        parseInt(q.Get("limit"), 100),
		Offset:       parseInt(q.Get("offset"), 0),
		StartDate:    parseLogDate(q.Get("start_date")),
		EndDate:      parseLogDate(q.Get("end_date")),
		RecentLogins: q.Get("recent_logins") == "true",
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	rows, err := s.Store.ListActivityLogs(filter)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]ActivityLogDTO, 0, len(rows))
	for _, entry := range rows {
		items = append(items, activityLogToDTO(entry))
	}
	WriteJSON(w, http.StatusOK, items)
}

// CreateActivityLog lets the frontend append client-side events, such
// as page views, to the same trail the server writes to.
func (s *Server) CreateActivityLog(w http.ResponseWriter, r *http.Request) {
	var req ActivityLogCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	actionType, err := services.NormalizeRequired(req.ActionType, "Action type is required")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	username := CurrentUsername(r)
	if username == "" {
		username = s.Config.AdminUsername
	}
	s.Activity.RecordSync(services.ActivityEvent{
		Username:     username,
		ActionType:   actionType,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Description:  req.Description,
		IPAddress:    resolveClientIP(r),
		UserAgent:    r.Header.Get("User-Agent"),
		Metadata:     req.Metadata,
	})
	WriteJSON(w, http.StatusCreated, MessageResponse{Message: "Activity recorded"})
}
