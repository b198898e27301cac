package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"label-server/core"
)

type sqliteStore struct {
	db *sql.DB
}

// NewStore creates a new SQLite-based job store.
func NewStore(dataSourceName string) core.JobStore {
	s, err := Open(dataSourceName)
	if err != nil {
		log.Fatalf("failed to open sqlite database: %v", err)
	}
	return s
}

// Open opens the database and creates the jobs table if needed.
func Open(dataSourceName string) (*sqliteStore, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, err
	}

	jobTableStmt := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		label_size TEXT NOT NULL,
		text TEXT,
		font_family TEXT,
		font_style TEXT,
		font_size INTEGER,
		orientation TEXT,
		width INTEGER,
		height INTEGER,
		status TEXT NOT NULL,
		message TEXT,
		preview BLOB,
		created_at INTEGER NOT NULL
	);`
	if _, err = db.Exec(jobTableStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create jobs table: %w", err)
	}
	return &sqliteStore{db}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

func (s *sqliteStore) Create(ctx context.Context, job *core.PrintJob) (string, error) {
	id := ulid.Make().String()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	log := logrus.WithFields(logrus.Fields{
		"job_id":       id,
		"preview_size": len(job.Preview),
	})

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, label_size, text, font_family, font_style, font_size, orientation, width, height, status, message, preview, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, job.LabelSize, job.Text, job.FontFamily, job.FontStyle, job.FontSize, job.Orientation,
		job.Width, job.Height, string(job.Status), job.Message, job.Preview, job.CreatedAt.UnixNano())
	if err != nil {
		log.WithError(err).Error("Failed to record print job")
		return "", err
	}
	job.ID = id
	log.Info("Print job recorded")
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner, withPreview bool) (*core.PrintJob, error) {
	var job core.PrintJob
	var status string
	var createdAt int64
	dest := []any{&job.ID, &job.LabelSize, &job.Text, &job.FontFamily, &job.FontStyle, &job.FontSize,
		&job.Orientation, &job.Width, &job.Height, &status, &job.Message, &createdAt}
	if withPreview {
		dest = append(dest, &job.Preview)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	job.Status = core.JobStatus(status)
	job.CreatedAt = time.Unix(0, createdAt).UTC()
	return &job, nil
}

const columns = `id, label_size, text, font_family, font_style, font_size, orientation, width, height, status, message, created_at`

func (s *sqliteStore) Get(ctx context.Context, id string) (*core.PrintJob, error) {
	log := logrus.WithField("job_id", id)
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+", preview FROM jobs WHERE id = ?", id)
	job, err := scanJob(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Print job not found")
			return nil, fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
		}
		log.WithError(err).Error("Failed to retrieve print job")
		return nil, err
	}
	return job, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]*core.PrintJob, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM jobs ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*core.PrintJob{}
	for rows.Next() {
		job, err := scanJob(rows, false)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", core.ErrJobNotFound, id)
	}
	logrus.WithField("job_id", id).Info("Print job deleted")
	return nil
}
