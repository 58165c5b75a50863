package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nick-dorsch/taskdesk/pkg/models"
)

// CreateComment stores a comment against an existing task. If c.ID is empty
// an 8 character slice of a UUID's hex form is generated, which keeps the
// collision odds negligible at the scale comments are written. The author
// defaults to "User" when absent.
func (db *DB) CreateComment(ctx context.Context, c *models.Comment) error {
	now := db.now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	t, err := db.getTask(ctx, tx, c.TaskID)
	if err != nil {
		return err
	}
	if t == nil {
		return notFound("task", c.TaskID)
	}

	if c.ID == "" {
		c.ID = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if c.Author == "" {
		c.Author = "User"
	}
	c.Timestamp = utcStamp(now)

	query := `INSERT INTO comments (id, task_id, text, author, timestamp) VALUES (?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, query, c.ID, c.TaskID, c.Text, c.Author, c.Timestamp); err != nil {
		return validation("failed to insert comment", err)
	}

	if err := tx.Commit(); err != nil {
		return validation("failed to commit comment", err)
	}

	db.triggerChange(ctx)
	return nil
}

// ListComments returns all comments for an existing task, in store order.
func (db *DB) ListComments(ctx context.Context, taskID int64) ([]*models.Comment, error) {
	t, err := db.getTask(ctx, db.DB, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, notFound("task", taskID)
	}

	query := `SELECT id, task_id, text, author, timestamp FROM comments WHERE task_id = ?`
	rows, err := db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Text, &c.Author, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return comments, nil
}

// GetComment retrieves a comment by its ID.
func (db *DB) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	query := `SELECT id, task_id, text, author, timestamp FROM comments WHERE id = ?`
	c := &models.Comment{}
	err := db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.TaskID, &c.Text, &c.Author, &c.Timestamp)
	if err == sql.ErrNoRows {
		return nil, notFound("comment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return c, nil
}

// DeleteComment removes a comment and returns its last known state.
func (db *DB) DeleteComment(ctx context.Context, id string) (*models.Comment, error) {
	c, err := db.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, notFound("comment", id)
	}

	db.triggerChange(ctx)
	return c, nil
}
