package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glizzus/traytimer/internal/reminder"
	"github.com/glizzus/traytimer/internal/schedule"
)

// Record is one resolved notification.
type Record struct {
	SessionID      string
	NotificationID uint64
	Kind           string
	Title          string
	Body           string
	State          string
	Error          string
	ScheduledAt    time.Time
	FireAt         time.Time
	ResolvedAt     time.Time
}

type HistoryPersister interface {
	Save(ctx context.Context, record Record) error
}

type HistoryRepository interface {
	HistoryPersister
	// Recent returns up to limit records, most recently resolved first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

// RecordFromEvent converts an engine event into a history record.
func RecordFromEvent(sessionID string, ev schedule.Event) Record {
	n := ev.Notification
	r := Record{
		SessionID:      sessionID,
		NotificationID: uint64(n.ID),
		Kind:           kindOf(n.Payload),
		Title:          n.Payload.Title(),
		Body:           n.Payload.Body(),
		State:          ev.State.String(),
		ScheduledAt:    n.CreatedAt,
		FireAt:         n.FireAt,
		ResolvedAt:     ev.At,
	}
	if ev.Err != nil {
		r.Error = ev.Err.Error()
	}
	return r
}

func kindOf(p schedule.Payload) string {
	if r, ok := p.(reminder.Reminder); ok {
		return r.Kind().String()
	}
	return fmt.Sprintf("%T", p)
}

// Recorder returns an engine observer that saves every event to repo.
func Recorder(repo HistoryPersister, sessionID string, timeout time.Duration) schedule.Observer {
	return func(ev schedule.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := repo.Save(ctx, RecordFromEvent(sessionID, ev)); err != nil {
			slog.Error(
				"failed to save notification history",
				slog.Uint64("id", uint64(ev.Notification.ID)),
				slog.Any("error", err),
			)
		}
	}
}

type PostgresHistoryRepository struct {
	db *pgxpool.Pool
}

func NewPostgresHistoryRepository(db *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

func RecordToRowParams(r Record) []any {
	return []any{
		r.SessionID,
		int64(r.NotificationID),
		r.Kind,
		r.Title,
		r.Body,
		r.State,
		r.Error,
		r.ScheduledAt,
		r.FireAt,
		r.ResolvedAt,
	}
}

func (r *PostgresHistoryRepository) Save(ctx context.Context, record Record) error {
	const query = `
	INSERT INTO notification_history (
		session_id, notification_id, kind, title, body, state, error,
		scheduled_at, fire_at, resolved_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (session_id, notification_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, RecordToRowParams(record)...); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

func (r *PostgresHistoryRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	const query = `
	SELECT session_id, notification_id, kind, title, body, state, error,
		scheduled_at, fire_at, resolved_at
	FROM notification_history
	ORDER BY resolved_at DESC, notification_id DESC
	LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Record, error) {
		var rec Record
		var id int64
		err := row.Scan(
			&rec.SessionID,
			&id,
			&rec.Kind,
			&rec.Title,
			&rec.Body,
			&rec.State,
			&rec.Error,
			&rec.ScheduledAt,
			&rec.FireAt,
			&rec.ResolvedAt,
		)
		rec.NotificationID = uint64(id)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	return records, nil
}

var _ HistoryRepository = (*PostgresHistoryRepository)(nil)

// MemoryHistoryRepository keeps history in process memory.
type MemoryHistoryRepository struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (r *MemoryHistoryRepository) Save(ctx context.Context, record Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func (r *MemoryHistoryRepository) Recent(ctx context.Context, limit int) ([]Record, error) {
	r.mu.Lock()
	out := slices.Clone(r.records)
	r.mu.Unlock()

	// Newest insertion first among records resolved at the same time.
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.ResolvedAt.Compare(a.ResolvedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ HistoryRepository = (*MemoryHistoryRepository)(nil)
