package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

func TestAutoSnapshot(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}

	tempDir := t.TempDir()
	snapshotPath := filepath.Join(tempDir, "auto-snapshot.json")

	db.EnableAutoSnapshot(snapshotPath)

	c := &models.Client{ID: "acme", Name: "Ada", Company: "Acme", Origin: "web"}
	if err := db.CreateClientOnly(ctx, c); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	data, err := os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatalf("Snapshot file was not created after CreateClientOnly: %v", err)
	}
	if !strings.Contains(string(data), `"acme"`) {
		t.Errorf("Snapshot does not contain the new client: %s", data)
	}

	// While the hook is disabled, writes leave the snapshot alone.
	db.DisableOnChange()
	second := &models.Client{ID: "globex", Name: "Gus", Company: "Globex", Origin: "web"}
	if err := db.CreateClientOnly(ctx, second); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	data, err = os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if strings.Contains(string(data), `"globex"`) {
		t.Errorf("Snapshot was updated while the hook was disabled")
	}

	db.EnableOnChange()
	third := &models.Client{ID: "initech", Name: "Ina", Company: "Initech", Origin: "web"}
	if err := db.CreateClientOnly(ctx, third); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	data, err = os.ReadFile(snapshotPath)
	if err != nil {
		t.Fatalf("Failed to read snapshot: %v", err)
	}
	if !strings.Contains(string(data), `"globex"`) || !strings.Contains(string(data), `"initech"`) {
		t.Errorf("Snapshot missing clients after re-enabling the hook: %s", data)
	}
}
