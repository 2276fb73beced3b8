package database

import (
	"context"
	"fmt"

	"github.com/lukemoll/replay/internal/models"
)

// MetricRepository is the append-only store for engagement events. Records
// are immutable once inserted.
type MetricRepository struct {
	db *DB
}

func NewMetricRepository(db *DB) *MetricRepository {
	return &MetricRepository{db: db}
}

func (r *MetricRepository) Insert(ctx context.Context, m *models.Metric) error {
	query := `
		INSERT INTO metrics (id, event_type, user_id, session_id, song_id, details, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		m.ID,
		string(m.EventType),
		m.UserID,
		m.SessionID,
		m.SongID,
		m.Details,
		m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert metric: %w", err)
	}
	return nil
}

// List returns every stored metric, newest first.
func (r *MetricRepository) List(ctx context.Context) ([]models.Metric, error) {
	query := `
		SELECT id, event_type, user_id, session_id, song_id, details, timestamp
		FROM metrics
		ORDER BY timestamp DESC`

	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	var metrics []models.Metric
	for rows.Next() {
		var m models.Metric
		var eventType string
		if err := rows.Scan(&m.ID, &eventType, &m.UserID, &m.SessionID, &m.SongID, &m.Details, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		m.EventType = models.EventType(eventType)
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return metrics, nil
}
