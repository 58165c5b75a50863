package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

// CreateClient inserts a client together with any nested task payloads in a
// single transaction. Nested tasks skip the client-existence check and the
// status derivation applied by CreateTask; their fields are written as
// given, with only the creation timestamp stamped here.
func (db *DB) CreateClient(ctx context.Context, c *models.Client, tasks []*models.Task) error {
	now := db.now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := db.getClient(ctx, tx, c.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("client %s: %w", c.ID, ErrConflict)
	}

	if err := db.insertClient(ctx, tx, c); err != nil {
		return err
	}

	for _, t := range tasks {
		t.ClientID = c.ID
		t.CreationTimestamp = utcStamp(now)
		if err := db.insertTask(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return validation("failed to commit client", err)
	}

	db.triggerChange(ctx)
	return nil
}

// CreateClientOnly inserts a client without tasks.
func (db *DB) CreateClientOnly(ctx context.Context, c *models.Client) error {
	return db.CreateClient(ctx, c, nil)
}

func (db *DB) insertClient(ctx context.Context, exec executor, c *models.Client) error {
	query := `INSERT INTO clients (id, name, company, origin) VALUES (?, ?, ?, ?)`
	if _, err := exec.ExecContext(ctx, query, c.ID, c.Name, c.Company, c.Origin); err != nil {
		return validation("failed to insert client", err)
	}
	return nil
}

// GetClient retrieves a client and its tasks.
func (db *DB) GetClient(ctx context.Context, id string) (*models.Client, error) {
	c, err := db.getClient(ctx, db.DB, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("client", id)
	}

	tasks, err := db.queryTasks(ctx, db.DB, `SELECT `+taskColumns+` FROM tasks WHERE client_id = ?`, id)
	if err != nil {
		return nil, err
	}
	c.Tasks = tasks

	return c, nil
}

func (db *DB) getClient(ctx context.Context, exec executor, id string) (*models.Client, error) {
	query := `SELECT id, name, company, origin FROM clients WHERE id = ?`
	c := &models.Client{}
	err := exec.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Company, &c.Origin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return c, nil
}

// ListClients returns clients in store order. A limit of zero or less means
// no limit.
func (db *DB) ListClients(ctx context.Context, skip, limit int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT id, name, company, origin FROM clients LIMIT ? OFFSET ?`
	rows, err := db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c := &models.Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.Origin); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return clients, nil
}

// UpdateClient applies the supplied fields to an existing client. Omitted
// fields keep their stored value.
func (db *DB) UpdateClient(ctx context.Context, id string, upd *models.ClientUpdate) (*models.Client, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	c, err := db.getClient(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("client", id)
	}

	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Company != nil {
		c.Company = *upd.Company
	}
	if upd.Origin != nil {
		c.Origin = *upd.Origin
	}

	query := `UPDATE clients SET name = ?, company = ?, origin = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, query, c.Name, c.Company, c.Origin, c.ID); err != nil {
		return nil, validation("failed to update client", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, validation("failed to commit client update", err)
	}

	db.triggerChange(ctx)
	return c, nil
}

// DeleteClient removes a client and its tasks as one atomic unit and returns
// the deleted record. The tasks' comments fall to the store's cascade.
func (db *DB) DeleteClient(ctx context.Context, id string) (*models.Client, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	c, err := db.getClient(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, notFound("client", id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE client_id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete client tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete client: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit client deletion: %w", err)
	}

	db.triggerChange(ctx)
	return c, nil
}
