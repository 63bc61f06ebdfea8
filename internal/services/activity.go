package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"village-records-backend-go/internal/models"
	"village-records-backend-go/internal/store"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
)

// Action types recorded in the audit trail.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionView   = "view"
	ActionExport = "export"
)

// ActivityEvent is what callers hand to the logger. Metadata is
// augmented with a parsed device summary when a user agent is present.
type ActivityEvent struct {
	Username     string
	ActionType   string
	ResourceType string
	ResourceID   string
	Description  string
	IPAddress    string
	UserAgent    string
	Metadata     map[string]interface{}
}

// ActivityLogger is the best-effort audit trail. Record never blocks
// and never fails the caller: entries flow through a buffered channel
// to a single worker, and anything that goes wrong is logged and
// dropped.
type ActivityLogger struct {
	store store.Store
	hub   *AdminHub
	ch    chan models.ActivityLogEntry
}

func NewActivityLogger(st store.Store, hub *AdminHub) *ActivityLogger {
	return &ActivityLogger{
		store: st,
		hub:   hub,
		ch:    make(chan models.ActivityLogEntry, 256),
	}
}

func (l *ActivityLogger) Run(ctx context.Context) {
	for {
		select {
		case entry := <-l.ch:
			if err := l.store.InsertActivityLog(entry); err != nil {
				log.Printf("activity log insert: %v", err)
				continue
			}
			if l.hub != nil {
				l.hub.Broadcast(AdminEvent{Type: "activity", Payload: entry})
			}
		case <-ctx.Done():
			return
		}
	}
}

// Record queues an audit entry. A full queue drops the entry rather
// than stalling the request path.
func (l *ActivityLogger) Record(event ActivityEvent) {
	entry := buildEntry(event)
	select {
	case l.ch <- entry:
	default:
		log.Printf("activity log queue full, dropping %s/%s", event.ActionType, event.ResourceType)
	}
}

// RecordSync inserts directly, bypassing the queue. Tests use it to
// observe entries deterministically; failures are still swallowed.
func (l *ActivityLogger) RecordSync(event ActivityEvent) {
	if err := l.store.InsertActivityLog(buildEntry(event)); err != nil {
		log.Printf("activity log insert: %v", err)
	}
}

func buildEntry(event ActivityEvent) models.ActivityLogEntry {
	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if device := summarizeUserAgent(event.UserAgent); device != "" {
		metadata["device"] = device
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		raw = []byte("{}")
	}
	return models.ActivityLogEntry{
		ID:           uuid.NewString(),
		Username:     event.Username,
		ActionType:   event.ActionType,
		ResourceType: nilIfEmpty(event.ResourceType),
		ResourceID:   nilIfEmpty(event.ResourceID),
		Description:  nilIfEmpty(event.Description),
		IPAddress:    nilIfEmpty(event.IPAddress),
		UserAgent:    nilIfEmpty(event.UserAgent),
		Metadata:     raw,
		CreatedAt:    time.Now().UTC(),
	}
}

func summarizeUserAgent(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	parts := []string{}
	if name != "" {
		if version != "" {
			parts = append(parts, name+" "+version)
		} else {
			parts = append(parts, name)
		}
	}
	if os := ua.OS(); os != "" {
		parts = append(parts, os)
	}
	if ua.Mobile() {
		parts = append(parts, "mobile")
	}
	return strings.Join(parts, " / ")
}

func nilIfEmpty(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
