package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"village-records-backend-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestRecordSync(t *testing.T) {
	st := store.NewMemory()
	logger := NewActivityLogger(st, nil)

	logger.RecordSync(ActivityEvent{
		Username:     "admin",
		ActionType:   ActionCreate,
		ResourceType: "road",
		ResourceID:   "r1",
		Description:  "Created road Temple Road",
		IPAddress:    "10.0.0.1",
		UserAgent:    chromeUA,
	})

	rows, err := st.ListActivityLogs(store.ActivityLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	entry := rows[0]
	assert.Equal(t, "admin", entry.Username)
	assert.Equal(t, ActionCreate, entry.ActionType)
	require.NotNil(t, entry.ResourceType)
	assert.Equal(t, "road", *entry.ResourceType)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.1", *entry.IPAddress)

	metadata := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(entry.Metadata, &metadata))
	device, ok := metadata["device"].(string)
	require.True(t, ok, "user agent summarized into metadata.device")
	assert.Contains(t, device, "Chrome")
}

func TestRecordSyncKeepsCallerMetadata(t *testing.T) {
	st := store.NewMemory()
	logger := NewActivityLogger(st, nil)

	logger.RecordSync(ActivityEvent{
		Username:   "admin",
		ActionType: ActionLogin,
		Metadata:   map[string]interface{}{"success": false},
	})

	rows, err := st.ListActivityLogs(store.ActivityLogFilter{RecentLogins: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	metadata := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rows[0].Metadata, &metadata))
	assert.Equal(t, false, metadata["success"])
}

func TestRecordWorker(t *testing.T) {
	st := store.NewMemory()
	logger := NewActivityLogger(st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go logger.Run(ctx)

	logger.Record(ActivityEvent{Username: "admin", ActionType: ActionDelete})

	require.Eventually(t, func() bool {
		rows, err := st.ListActivityLogs(store.ActivityLogFilter{Limit: 10})
		return err == nil && len(rows) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
