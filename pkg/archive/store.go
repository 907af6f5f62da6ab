package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/callisto/pkg/logging"
	"mercator-hq/callisto/pkg/trace"
)

// Config configures the archive store.
type Config struct {
	// Path is the SQLite database file.
	Path string

	// RetentionDays is how long archived spans are kept. Zero disables
	// age-based pruning.
	RetentionDays int

	// PruneSchedule is a cron expression for the pruning job.
	PruneSchedule string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration
}

// Store persists spans in SQLite. It implements trace.SpanExporter so
// it can serve as a Tracer's export destination.
type Store struct {
	db     *sql.DB
	cfg    Config
	logger *slog.Logger

	mu        sync.Mutex
	done      chan struct{}
	closeOnce sync.Once

	insertStmt  *sql.Stmt
	byTraceStmt *sql.Stmt
	pruneStmt   *sql.Stmt
}

// New opens (creating if necessary) the archive database at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.Path, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		cfg:    cfg,
		logger: logging.Component("archive"),
		done:   make(chan struct{}),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go s.checkpointLoop()

	s.logger.Info("span archive opened",
		"path", cfg.Path,
		"retention_days", cfg.RetentionDays,
	)
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS spans (
		span_id TEXT NOT NULL PRIMARY KEY,
		trace_id TEXT NOT NULL,
		parent_span_id TEXT,
		name TEXT NOT NULL,
		kind INTEGER NOT NULL,
		start_time INTEGER NOT NULL,
		end_time INTEGER NOT NULL,
		status INTEGER NOT NULL,
		status_message TEXT,
		attributes TEXT,
		events TEXT,
		service_name TEXT NOT NULL,
		archived_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_spans_trace_id ON spans(trace_id);
	CREATE INDEX IF NOT EXISTS idx_spans_end_time ON spans(end_time);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.insertStmt, err = s.db.Prepare(`
		INSERT INTO spans (
			span_id, trace_id, parent_span_id, name, kind,
			start_time, end_time, status, status_message,
			attributes, events, service_name, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (span_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	s.byTraceStmt, err = s.db.Prepare(`
		SELECT span_id, trace_id, parent_span_id, name, kind,
		       start_time, end_time, status, status_message,
		       attributes, events, service_name
		FROM spans
		WHERE trace_id = ?
		ORDER BY start_time
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare query statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM spans
		WHERE end_time < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// ExportSpans writes spans to the archive in one transaction and
// reports how many were stored. A span whose ID is already archived is
// skipped, not an error.
func (s *Store) ExportSpans(ctx context.Context, spans []*trace.Span) (int, error) {
	if len(spans) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	archivedAt := time.Now().UnixNano()
	stored := 0
	for _, span := range spans {
		if span == nil {
			continue
		}

		attrs, err := marshalJSON(span.Attributes)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal attributes of span %s: %w", span.SpanID, err)
		}
		events, err := marshalJSON(span.Events)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal events of span %s: %w", span.SpanID, err)
		}

		res, err := tx.StmtContext(ctx, s.insertStmt).ExecContext(ctx,
			span.SpanID,
			span.TraceID,
			span.ParentSpanID,
			span.Name,
			int(span.Kind),
			span.StartTime,
			span.EndTime,
			int(span.Status),
			span.StatusMessage,
			attrs,
			events,
			span.ServiceName,
			archivedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to store span %s: %w", span.SpanID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			stored += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return stored, nil
}

// SpansByTrace returns every archived span of one trace, ordered by
// start time.
func (s *Store) SpansByTrace(ctx context.Context, traceID string) ([]*trace.Span, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.byTraceStmt.QueryContext(ctx, traceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trace %s: %w", traceID, err)
	}
	defer rows.Close()

	var spans []*trace.Span
	for rows.Next() {
		var (
			span          trace.Span
			kind, status  int
			attrs, events string
		)
		if err := rows.Scan(
			&span.SpanID,
			&span.TraceID,
			&span.ParentSpanID,
			&span.Name,
			&kind,
			&span.StartTime,
			&span.EndTime,
			&status,
			&span.StatusMessage,
			&attrs,
			&events,
			&span.ServiceName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan span row: %w", err)
		}

		span.Kind = trace.Kind(kind)
		span.Status = trace.Status(status)
		if attrs != "" {
			if err := json.Unmarshal([]byte(attrs), &span.Attributes); err != nil {
				return nil, fmt.Errorf("failed to unmarshal attributes of span %s: %w", span.SpanID, err)
			}
		}
		if events != "" {
			if err := json.Unmarshal([]byte(events), &span.Events); err != nil {
				return nil, fmt.Errorf("failed to unmarshal events of span %s: %w", span.SpanID, err)
			}
		}
		spans = append(spans, &span)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return spans, nil
}

// Prune deletes spans that ended before the cutoff and reports how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// PruneExpired prunes by the configured retention. With retention
// disabled it does nothing.
func (s *Store) PruneExpired(ctx context.Context) (int, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}
	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	return s.Prune(ctx, cutoff)
}

// Count reports the number of archived spans.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM spans`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count spans: %w", err)
	}
	return n, nil
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *Store) checkpointLoop() {
	ticker := time.NewTicker(s.cfg.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkpoint()
		case <-s.done:
			return
		}
	}
}

func (s *Store) checkpoint() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE);"); err != nil {
		s.logger.Warn("WAL checkpoint failed", "error", err)
	}
}

// Close releases the database and stops the checkpoint goroutine.
// Close is idempotent and safe to call multiple times.
func (s *Store) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		if s.insertStmt != nil {
			s.insertStmt.Close()
		}
		if s.byTraceStmt != nil {
			s.byTraceStmt.Close()
		}
		if s.pruneStmt != nil {
			s.pruneStmt.Close()
		}

		closeErr = s.db.Close()
		s.logger.Info("span archive closed", "path", s.cfg.Path)
	})

	return closeErr
}

// marshalJSON renders v as JSON, mapping empty collections to the empty
// string so the column stays NULL-ish and cheap to scan.
func marshalJSON(v any) (string, error) {
	switch val := v.(type) {
	case map[string]string:
		if len(val) == 0 {
			return "", nil
		}
	case []trace.Event:
		if len(val) == 0 {
			return "", nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
