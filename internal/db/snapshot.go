package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

// snapshotClient is the on-disk shape: a client with its tasks nested.
type snapshotClient struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Company string          `json:"company"`
	Origin  string          `json:"origin"`
	Tasks   []*snapshotTask `json:"tasks"`
}

type snapshotTask struct {
	Date           string              `json:"date"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	SLADate        *string             `json:"sla_date,omitempty"`
	CompletionDate *string             `json:"completion_date,omitempty"`
}

// ImportSummary reports what a snapshot import actually did.
type ImportSummary struct {
	ClientsImported int `json:"clients_imported"`
	TasksImported   int `json:"tasks_imported"`
	ClientsSkipped  int `json:"clients_skipped"`
}

// EnableAutoSnapshot sets up a hook that exports a snapshot to the given
// path after every successful write operation.
func (db *DB) EnableAutoSnapshot(path string) {
	db.SetOnChange(func(ctx context.Context) {
		// Hooks are best-effort; a failed export must not fail the
		// original write.
		_ = db.ExportSnapshot(ctx, path)
	})
}

// ImportSnapshot loads a JSON snapshot of clients and their tasks in one
// transaction. Clients whose identifier is already present are skipped
// together with their tasks, so re-importing the same snapshot is a no-op.
// Nested tasks are written verbatim; no status derivation is applied.
func (db *DB) ImportSnapshot(ctx context.Context, path string) (*ImportSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var records []*snapshotClient
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	now := db.now()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	summary := &ImportSummary{}
	for _, rec := range records {
		existing, err := db.getClient(ctx, tx, rec.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			summary.ClientsSkipped++
			continue
		}

		c := &models.Client{ID: rec.ID, Name: rec.Name, Company: rec.Company, Origin: rec.Origin}
		if err := db.insertClient(ctx, tx, c); err != nil {
			return nil, fmt.Errorf("failed to import client %s: %w", rec.ID, err)
		}
		summary.ClientsImported++

		for _, st := range rec.Tasks {
			t := &models.Task{
				ClientID:          rec.ID,
				Date:              st.Date,
				Description:       st.Description,
				Status:            st.Status,
				Priority:          st.Priority,
				SLADate:           st.SLADate,
				CompletionDate:    st.CompletionDate,
				CreationTimestamp: utcStamp(now),
			}
			if err := db.insertTask(ctx, tx, t); err != nil {
				return nil, fmt.Errorf("failed to import task for client %s: %w", rec.ID, err)
			}
			summary.TasksImported++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot import: %w", err)
	}

	db.triggerChange(ctx)
	return summary, nil
}

// ExportSnapshot writes the full client/task state as JSON, atomically via
// a temporary file in the target directory.
func (db *DB) ExportSnapshot(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	clients, err := db.ListClients(ctx, 0, 0)
	if err != nil {
		return err
	}

	records := make([]*snapshotClient, 0, len(clients))
	for _, c := range clients {
		tasks, err := db.queryTasks(ctx, db.DB, `SELECT `+taskColumns+` FROM tasks WHERE client_id = ?`, c.ID)
		if err != nil {
			return err
		}

		rec := &snapshotClient{
			ID:      c.ID,
			Name:    c.Name,
			Company: c.Company,
			Origin:  c.Origin,
			Tasks:   make([]*snapshotTask, 0, len(tasks)),
		}
		for _, t := range tasks {
			rec.Tasks = append(rec.Tasks, &snapshotTask{
				Date:           t.Date,
				Description:    t.Description,
				Status:         t.Status,
				Priority:       t.Priority,
				SLADate:        t.SLADate,
				CompletionDate: t.CompletionDate,
			})
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempFile.Name())
		}
	}()

	if _, err := tempFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	filename := tempFile.Name()
	tempFile = nil // Prevent defer from removing it

	if err := os.Rename(filename, path); err != nil {
		os.Remove(filename)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
