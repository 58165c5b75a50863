package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

const taskColumns = `id, client_id, date, description, status, priority, sla_date, completion_date, creation_timestamp, completion_timestamp`

// CreateTask inserts a new task for an existing client. The creation
// timestamp and the status-dependent completion fields are derived here;
// the caller's completion date is honored unless the transition rules say
// otherwise.
func (db *DB) CreateTask(ctx context.Context, t *models.Task) error {
	now := db.now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	client, err := db.getClient(ctx, tx, t.ClientID)
	if err != nil {
		return err
	}
	if client == nil {
		return notFound("client", t.ClientID)
	}

	t.CreationTimestamp = utcStamp(now)
	t.CompletionDate, t.CompletionTimestamp = resolveCreation(now, t.Status, t.CompletionDate)

	if err := db.insertTask(ctx, tx, t); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return validation("failed to commit task", err)
	}

	db.triggerChange(ctx)
	return nil
}

func (db *DB) insertTask(ctx context.Context, exec executor, t *models.Task) error {
	query := `
		INSERT INTO tasks (client_id, date, description, status, priority, sla_date, completion_date, creation_timestamp, completion_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := exec.QueryRowContext(ctx, query,
		t.ClientID, t.Date, t.Description, t.Status, t.Priority,
		t.SLADate, t.CompletionDate, t.CreationTimestamp, t.CompletionTimestamp,
	).Scan(&t.ID)
	if err != nil {
		return validation("failed to insert task", err)
	}
	return nil
}

// GetTask retrieves a task by its ID.
func (db *DB) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	t, err := db.getTask(ctx, db.DB, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("task", id)
	}
	return t, nil
}

func (db *DB) getTask(ctx context.Context, exec executor, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t := &models.Task{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ClientID, &t.Date, &t.Description, &t.Status, &t.Priority,
		&t.SLADate, &t.CompletionDate, &t.CreationTimestamp, &t.CompletionTimestamp,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// ListTasks returns tasks, optionally filtered by status or client.
func (db *DB) ListTasks(ctx context.Context, status *models.TaskStatus, clientID *string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE 1=1`
	args := []any{}

	if status != nil {
		query += " AND status = ?"
		args = append(args, *status)
	}

	if clientID != nil {
		query += " AND client_id = ?"
		args = append(args, *clientID)
	}

	return db.queryTasks(ctx, db.DB, query, args...)
}

func (db *DB) queryTasks(ctx context.Context, exec executor, query string, args ...any) ([]*models.Task, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t := &models.Task{}
		err := rows.Scan(
			&t.ID, &t.ClientID, &t.Date, &t.Description, &t.Status, &t.Priority,
			&t.SLADate, &t.CompletionDate, &t.CreationTimestamp, &t.CompletionTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return tasks, nil
}

// UpdateTask applies the supplied fields to an existing task, then resolves
// the status transition against the pre-update status. Omitted fields keep
// their stored value.
func (db *DB) UpdateTask(ctx context.Context, id int64, upd *models.TaskUpdate) (*models.Task, error) {
	now := db.now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := db.getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("task", id)
	}

	prev := t.Status

	if upd.ClientID != nil {
		t.ClientID = *upd.ClientID
	}
	if upd.Date != nil {
		t.Date = *upd.Date
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.SLADate != nil {
		t.SLADate = upd.SLADate
	}

	t.Status, t.CompletionDate, t.CompletionTimestamp = resolveTransition(
		now, prev, upd.Status, upd.CompletionDate, t.CompletionDate, t.CompletionTimestamp,
	)

	query := `
		UPDATE tasks
		SET client_id = ?, date = ?, description = ?, status = ?, priority = ?,
		    sla_date = ?, completion_date = ?, completion_timestamp = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query,
		t.ClientID, t.Date, t.Description, t.Status, t.Priority,
		t.SLADate, t.CompletionDate, t.CompletionTimestamp, t.ID,
	); err != nil {
		return nil, validation("failed to update task", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, validation("failed to commit task update", err)
	}

	db.triggerChange(ctx)
	return t, nil
}

// DeleteTask removes a task and returns its last known state. Comments are
// removed by the store's cascade.
func (db *DB) DeleteTask(ctx context.Context, id int64) (*models.Task, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := db.getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("task", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit task deletion: %w", err)
	}

	db.triggerChange(ctx)
	return t, nil
}
