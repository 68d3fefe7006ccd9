package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taskforge/internal/core/domain"
	"taskforge/internal/core/ports"
)

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS tasks (
  id                VARCHAR(64)  NOT NULL PRIMARY KEY,
  title             VARCHAR(255) NOT NULL,
  description       TEXT,
  variant           VARCHAR(32)  NOT NULL,
  priority          VARCHAR(16)  NOT NULL,
  status            VARCHAR(16)  NOT NULL,
  progress          INT          NOT NULL DEFAULT 0,
  due_date          VARCHAR(64),
  completed_at      VARCHAR(64),
  created_at        VARCHAR(64)  NOT NULL,
  updated_at        VARCHAR(64)  NOT NULL,
  tags              TEXT,
  estimated_minutes INT          NOT NULL DEFAULT 0,
  actual_minutes    INT          NOT NULL DEFAULT 0,
  billable_hours    DOUBLE,
  hourly_rate       DOUBLE,
  requires_approval TINYINT(1),
  approved_by       VARCHAR(255),
  motivation_level  INT,
  energy_level      VARCHAR(16),
  phase             VARCHAR(64),
  dependencies      TEXT,
  assignees         TEXT,
  story_points      INT,
  is_blocked        TINYINT(1)
);
`

const insertTaskQuery = `
INSERT INTO tasks (
  id, title, description, variant, priority, status, progress,
  due_date, completed_at, created_at, updated_at, tags,
  estimated_minutes, actual_minutes,
  billable_hours, hourly_rate, requires_approval, approved_by,
  motivation_level, energy_level,
  phase, dependencies, assignees, story_points, is_blocked
) VALUES (
  :id, :title, :description, :variant, :priority, :status, :progress,
  :due_date, :completed_at, :created_at, :updated_at, :tags,
  :estimated_minutes, :actual_minutes,
  :billable_hours, :hourly_rate, :requires_approval, :approved_by,
  :motivation_level, :energy_level,
  :phase, :dependencies, :assignees, :story_points, :is_blocked
);
`

// MySQLStore mirrors the collection into a single tasks table. SaveAll
// replaces the table contents inside one transaction, matching the
// provider contract of writing the full serialized collection.
type MySQLStore struct {
	db *sqlx.DB
}

var _ ports.Store = (*MySQLStore)(nil)

func NewMySQLStore(db *sqlx.DB) (*MySQLStore, error) {
	if _, err := db.Exec(mysqlSchema); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &MySQLStore{db: db}, nil
}

type taskRow struct {
	ID               string         `db:"id"`
	Title            string         `db:"title"`
	Description      sql.NullString `db:"description"`
	Variant          string         `db:"variant"`
	Priority         string         `db:"priority"`
	Status           string         `db:"status"`
	Progress         int            `db:"progress"`
	DueDate          sql.NullString `db:"due_date"`
	CompletedAt      sql.NullString `db:"completed_at"`
	CreatedAt        string         `db:"created_at"`
	UpdatedAt        string         `db:"updated_at"`
	Tags             sql.NullString `db:"tags"`
	EstimatedMinutes int            `db:"estimated_minutes"`
	ActualMinutes    int            `db:"actual_minutes"`

	BillableHours    sql.NullFloat64 `db:"billable_hours"`
	HourlyRate       sql.NullFloat64 `db:"hourly_rate"`
	RequiresApproval sql.NullBool    `db:"requires_approval"`
	ApprovedBy       sql.NullString  `db:"approved_by"`

	MotivationLevel sql.NullInt64  `db:"motivation_level"`
	EnergyLevel     sql.NullString `db:"energy_level"`

	Phase        sql.NullString `db:"phase"`
	Dependencies sql.NullString `db:"dependencies"`
	Assignees    sql.NullString `db:"assignees"`
	StoryPoints  sql.NullInt64  `db:"story_points"`
	IsBlocked    sql.NullBool   `db:"is_blocked"`
}

func (s *MySQLStore) LoadAll(ctx context.Context) ([]domain.Record, error) {
	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, "SELECT * FROM tasks ORDER BY created_at, id;"); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := mapRowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *MySQLStore) SaveAll(ctx context.Context, records []domain.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks;"); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	for _, rec := range records {
		row, err := mapRecordToRow(rec)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
		if _, err := tx.NamedExecContext(ctx, insertTaskQuery, row); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func mapRecordToRow(rec domain.Record) (taskRow, error) {
	row := taskRow{
		ID:               rec.ID,
		Title:            rec.Title,
		Variant:          rec.Variant,
		Priority:         rec.Priority,
		Status:           rec.Status,
		Progress:         rec.Progress,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
		EstimatedMinutes: rec.EstimatedMinutes,
		ActualMinutes:    rec.ActualMinutes,
	}
	if rec.Description != "" {
		row.Description = sql.NullString{String: rec.Description, Valid: true}
	}
	if rec.DueDate != nil {
		row.DueDate = sql.NullString{String: *rec.DueDate, Valid: true}
	}
	if rec.CompletedAt != nil {
		row.CompletedAt = sql.NullString{String: *rec.CompletedAt, Valid: true}
	}

	tags, err := marshalList(rec.Tags)
	if err != nil {
		return taskRow{}, err
	}
	row.Tags = tags

	if rec.BillableHours != nil {
		row.BillableHours = sql.NullFloat64{Float64: *rec.BillableHours, Valid: true}
	}
	if rec.HourlyRate != nil {
		row.HourlyRate = sql.NullFloat64{Float64: *rec.HourlyRate, Valid: true}
	}
	if rec.RequiresApproval != nil {
		row.RequiresApproval = sql.NullBool{Bool: *rec.RequiresApproval, Valid: true}
	}
	if rec.ApprovedBy != nil {
		row.ApprovedBy = sql.NullString{String: *rec.ApprovedBy, Valid: true}
	}
	if rec.MotivationLevel != nil {
		row.MotivationLevel = sql.NullInt64{Int64: int64(*rec.MotivationLevel), Valid: true}
	}
	if rec.EnergyLevel != nil {
		row.EnergyLevel = sql.NullString{String: *rec.EnergyLevel, Valid: true}
	}
	if rec.Phase != nil {
		row.Phase = sql.NullString{String: *rec.Phase, Valid: true}
	}
	deps, err := marshalList(rec.Dependencies)
	if err != nil {
		return taskRow{}, err
	}
	row.Dependencies = deps
	assignees, err := marshalList(rec.Assignees)
	if err != nil {
		return taskRow{}, err
	}
	row.Assignees = assignees
	if rec.StoryPoints != nil {
		row.StoryPoints = sql.NullInt64{Int64: int64(*rec.StoryPoints), Valid: true}
	}
	if rec.IsBlocked != nil {
		row.IsBlocked = sql.NullBool{Bool: *rec.IsBlocked, Valid: true}
	}
	return row, nil
}

func mapRowToRecord(row taskRow) (domain.Record, error) {
	rec := domain.Record{
		ID:               row.ID,
		Title:            row.Title,
		Variant:          row.Variant,
		Priority:         row.Priority,
		Status:           row.Status,
		Progress:         row.Progress,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
		EstimatedMinutes: row.EstimatedMinutes,
		ActualMinutes:    row.ActualMinutes,
	}
	if row.Description.Valid {
		rec.Description = row.Description.String
	}
	if row.DueDate.Valid {
		value := row.DueDate.String
		rec.DueDate = &value
	}
	if row.CompletedAt.Valid {
		value := row.CompletedAt.String
		rec.CompletedAt = &value
	}

	tags, err := unmarshalList(row.Tags)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Tags = tags

	if row.BillableHours.Valid {
		rec.BillableHours = &row.BillableHours.Float64
	}
	if row.HourlyRate.Valid {
		rec.HourlyRate = &row.HourlyRate.Float64
	}
	if row.RequiresApproval.Valid {
		rec.RequiresApproval = &row.RequiresApproval.Bool
	}
	if row.ApprovedBy.Valid {
		value := row.ApprovedBy.String
		rec.ApprovedBy = &value
	}
	if row.MotivationLevel.Valid {
		value := int(row.MotivationLevel.Int64)
		rec.MotivationLevel = &value
	}
	if row.EnergyLevel.Valid {
		value := row.EnergyLevel.String
		rec.EnergyLevel = &value
	}
	if row.Phase.Valid {
		value := row.Phase.String
		rec.Phase = &value
	}
	deps, err := unmarshalList(row.Dependencies)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Dependencies = deps
	assignees, err := unmarshalList(row.Assignees)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Assignees = assignees
	if row.StoryPoints.Valid {
		value := int(row.StoryPoints.Int64)
		rec.StoryPoints = &value
	}
	if row.IsBlocked.Valid {
		rec.IsBlocked = &row.IsBlocked.Bool
	}
	return rec, nil
}

func marshalList(values []string) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalList(value sql.NullString) ([]string, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(value.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}
