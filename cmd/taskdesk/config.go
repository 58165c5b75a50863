package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultListLimit = 50
)

// workspaceConfig holds optional per-workspace defaults, read from
// config.json in the same directory as the database file.
type workspaceConfig struct {
	SnapshotPath string `json:"snapshot_path"`
	ListLimit    int    `json:"list_limit"`
}

// loadWorkspaceConfig reads config.json next to the database file. A missing
// file is not an error; built-in defaults apply.
func loadWorkspaceConfig() (*workspaceConfig, error) {
	cfg := &workspaceConfig{
		SnapshotPath: snapshotPath,
		ListLimit:    defaultListLimit,
	}

	configPath := filepath.Join(filepath.Dir(dbPath), "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fileCfg workspaceConfig
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if fileCfg.SnapshotPath != "" {
		cfg.SnapshotPath = fileCfg.SnapshotPath
	}
	if fileCfg.ListLimit > 0 {
		cfg.ListLimit = fileCfg.ListLimit
	}

	return cfg, nil
}
