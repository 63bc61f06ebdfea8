package store

import (
	"strconv"
	"strings"

	"village-records-backend-go/internal/models"
)

func (p *Postgres) InsertActivityLog(entry models.ActivityLogEntry) error {
	metadata := entry.Metadata
	if len(metadata) == 0 {
		metadata = []byte("{}")
	}
	_, err := p.DB.Exec(`
INSERT INTO activity_logs (
  id, username, action_type, resource_type, resource_id, description,
  ip_address, user_agent, metadata, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`, entry.ID, entry.Username, entry.ActionType, entry.ResourceType, entry.ResourceID,
		entry.Description, entry.IPAddress, entry.UserAgent, metadata, entry.CreatedAt)
	return err
}

func (p *Postgres) ListActivityLogs(filter ActivityLogFilter) ([]models.ActivityLogEntry, error) {
	where := []string{}
	args := []interface{}{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, strings.Replace(clause, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if filter.RecentLogins {
		where = append(where, `action_type = 'login'`)
	} else if filter.ActionType != "" {
		add(`action_type = ?`, filter.ActionType)
	}
	if filter.Username != "" {
		add(`username = ?`, filter.Username)
	}
	if filter.ResourceType != "" {
		add(`resource_type = ?`, filter.ResourceType)
	}
	if filter.StartDate != nil {
		add(`created_at >= ?`, *filter.StartDate)
	}
	if filter.EndDate != nil {
		add(`created_at <= ?`, *filter.EndDate)
	}
	query := `SELECT * FROM activity_logs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC`
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows := []models.ActivityLogEntry{}
	err := p.DB.Select(&rows, query, args...)
	return rows, err
}

func (p *Postgres) InsertMetricSample(sample models.ServerMetricSample) error {
	_, err := p.DB.Exec(`
INSERT INTO server_metric_samples (
  id, captured_at, process_rss_bytes, system_memory_total_bytes,
  system_memory_used_bytes, disk_total_bytes, disk_used_bytes,
  process_cpu_load, system_cpu_load
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, sample.ID, sample.CapturedAt, sample.ProcessRSSBytes, sample.SystemMemoryTotal,
		sample.SystemMemoryUsed, sample.DiskTotalBytes, sample.DiskUsedBytes,
		sample.ProcessCpuLoad, sample.SystemCpuLoad)
	return err
}

func (p *Postgres) ListMetricSamples(limit int) ([]models.ServerMetricSample, error) {
	rows := []models.ServerMetricSample{}
	err := p.DB.Select(&rows, `
SELECT * FROM server_metric_samples ORDER BY captured_at DESC LIMIT $1
`, limit)
	return rows, err
}
