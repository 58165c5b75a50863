package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nick-dorsch/taskdesk/internal/db"
)

func TestInit(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "taskdesk-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	dbPath = ".taskdesk/taskdesk.db"
	snapshotPath = ".taskdesk/snapshot.json"

	err = runInit([]string{tmpDir})
	if err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	workDir := filepath.Join(tmpDir, ".taskdesk")
	if _, err := os.Stat(workDir); os.IsNotExist(err) {
		t.Errorf(".taskdesk directory was not created")
	}

	gitignorePath := filepath.Join(workDir, ".gitignore")
	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		t.Errorf("failed to read .gitignore: %v", err)
	}
	if string(content) != "taskdesk.db*\n" {
		t.Errorf(".gitignore content mismatch: expected 'taskdesk.db*\\n', got %q", string(content))
	}

	dbFilePath := filepath.Join(workDir, "taskdesk.db")
	if _, err := os.Stat(dbFilePath); os.IsNotExist(err) {
		t.Errorf("database file was not created")
	}
}

func TestInitWithExistingSnapshot(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "taskdesk-test-snapshot-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	workDir := filepath.Join(tmpDir, ".taskdesk")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("failed to create .taskdesk dir: %v", err)
	}

	snapshotFile := filepath.Join(workDir, "snapshot.json")
	snapshotContent := `[
  {
    "id": "acme",
    "name": "Ada",
    "company": "Acme Corp",
    "origin": "referral",
    "tasks": [
      {"date": "2025-01-10", "description": "kickoff", "status": "pending", "priority": "high"}
    ]
  }
]
`
	if err := os.WriteFile(snapshotFile, []byte(snapshotContent), 0644); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	dbPath = ".taskdesk/taskdesk.db"
	snapshotPath = ".taskdesk/snapshot.json"

	err = runInit([]string{tmpDir})
	if err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	dbFilePath := filepath.Join(workDir, "taskdesk.db")
	database, err := db.Open(dbFilePath)
	if err != nil {
		t.Fatalf("failed to open initialized database: %v", err)
	}
	defer database.Close()

	var clients, tasks int
	if err := database.QueryRow("SELECT COUNT(*) FROM clients").Scan(&clients); err != nil {
		t.Fatalf("failed to count clients: %v", err)
	}
	if err := database.QueryRow("SELECT COUNT(*) FROM tasks").Scan(&tasks); err != nil {
		t.Fatalf("failed to count tasks: %v", err)
	}
	if clients != 1 || tasks != 1 {
		t.Errorf("expected snapshot to be imported, got %d clients and %d tasks", clients, tasks)
	}
}

func TestInitOverwritesGitignore(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "taskdesk-test-overwrite-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	workDir := filepath.Join(tmpDir, ".taskdesk")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("failed to create .taskdesk dir: %v", err)
	}

	gitignorePath := filepath.Join(workDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("old-content\n"), 0644); err != nil {
		t.Fatalf("failed to create initial .gitignore: %v", err)
	}

	dbPath = ".taskdesk/taskdesk.db"
	snapshotPath = ".taskdesk/snapshot.json"

	err = runInit([]string{tmpDir})
	if err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	content, err := os.ReadFile(gitignorePath)
	if err != nil {
		t.Fatalf("failed to read .gitignore: %v", err)
	}
	if string(content) != "taskdesk.db*\n" {
		t.Errorf(".gitignore was not overwritten: expected 'taskdesk.db*\\n', got %q", string(content))
	}
}
