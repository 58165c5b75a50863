package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-dorsch/taskdesk/internal/db"
	"github.com/nick-dorsch/taskdesk/internal/mcp"
	"github.com/nick-dorsch/taskdesk/pkg/models"
)

var (
	dbPath       string
	snapshotPath string
)

func main() {
	flag.StringVar(&dbPath, "db-path", ".taskdesk/taskdesk.db", "Path to database file")
	flag.StringVar(&snapshotPath, "snapshot-path", ".taskdesk/snapshot.json", "Path to snapshot file")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	var err error
	switch command {
	case "init":
		err = runInit(args)
	case "mcp":
		err = runMCP(args)
	case "list-clients":
		err = runListClients(args)
	case "list-tasks":
		err = runListTasks(args)
	case "status":
		err = runStatus(args)
	case "import":
		err = runImport(args)
	case "export":
		err = runExport(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: taskdesk [flags] <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  init          Initialize the workspace and database")
	fmt.Println("  mcp           Run the MCP server on stdio")
	fmt.Println("  list-clients  List clients")
	fmt.Println("  list-tasks    List tasks")
	fmt.Println("  status        Show task counts by status")
	fmt.Println("  import        Import a JSON snapshot")
	fmt.Println("  export        Export a JSON snapshot")
}

func runInit(args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	workDir := filepath.Join(targetDir, ".taskdesk")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("failed to create .taskdesk directory: %w", err)
	}
	fmt.Println("✓ Created .taskdesk/ directory")

	gitignorePath := filepath.Join(workDir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte("taskdesk.db*\n"), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}
	fmt.Println("✓ Created .taskdesk/.gitignore")

	// Default paths if not overridden by flags
	finalDBPath := dbPath
	if dbPath == ".taskdesk/taskdesk.db" {
		finalDBPath = filepath.Join(workDir, "taskdesk.db")
	}

	finalSnapshotPath := snapshotPath
	if snapshotPath == ".taskdesk/snapshot.json" {
		finalSnapshotPath = filepath.Join(workDir, "snapshot.json")
	}

	database, err := db.Open(finalDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	fmt.Printf("✓ Initialized database at %s\n", finalDBPath)

	// Check if snapshot exists and import it
	if _, err := os.Stat(finalSnapshotPath); err == nil {
		summary, err := database.ImportSnapshot(ctx, finalSnapshotPath)
		if err != nil {
			return fmt.Errorf("failed to import snapshot: %w", err)
		}
		fmt.Printf("✓ Imported snapshot from %s (%d clients, %d tasks, %d skipped)\n",
			finalSnapshotPath, summary.ClientsImported, summary.TasksImported, summary.ClientsSkipped)
	}

	fmt.Println("✓ Taskdesk initialized successfully")
	return nil
}

func runMCP(args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return err
	}

	// Keep a snapshot on disk in step with the database
	database.SetOnChange(func(ctx context.Context) {
		if err := database.ExportSnapshot(ctx, cfg.SnapshotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
		}
	})

	s := mcp.NewServer(database)
	return mcp.Serve(s)
}

func runListClients(args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	clientFlags := flag.NewFlagSet("list-clients", flag.ContinueOnError)
	skip := clientFlags.Int("skip", 0, "Number of clients to skip")
	limit := clientFlags.Int("limit", cfg.ListLimit, "Maximum number of clients to show (0 for all)")
	if err := clientFlags.Parse(args); err != nil {
		return err
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	clients, err := database.ListClients(ctx, *skip, *limit)
	if err != nil {
		return err
	}

	fmt.Printf("%-15s %-20s %-20s %-15s\n", "ID", "NAME", "COMPANY", "ORIGIN")
	fmt.Println("-----------------------------------------------------------------------")
	for _, c := range clients {
		fmt.Printf("%-15s %-20s %-20s %-15s\n", c.ID, c.Name, c.Company, c.Origin)
	}
	return nil
}

func runListTasks(args []string) error {
	taskFlags := flag.NewFlagSet("list-tasks", flag.ContinueOnError)
	statusFilter := taskFlags.String("status", "", "Filter by status (pending, in progress, completed, awaiting client)")
	clientFilter := taskFlags.String("client", "", "Filter by client id")
	if err := taskFlags.Parse(args); err != nil {
		return err
	}

	var status *models.TaskStatus
	if *statusFilter != "" {
		s := models.TaskStatus(*statusFilter)
		status = &s
	}

	var clientID *string
	if *clientFilter != "" {
		clientID = clientFilter
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	tasks, err := database.ListTasks(ctx, status, clientID)
	if err != nil {
		return err
	}

	fmt.Printf("%-6s %-15s %-30s %-10s %-16s\n", "ID", "CLIENT", "DESCRIPTION", "PRIORITY", "STATUS")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, t := range tasks {
		fmt.Printf("%-6d %-15s %-30s %-10s %-16s\n", t.ID, t.ClientID, t.Description, t.Priority, t.Status)
	}
	return nil
}

func runStatus(args []string) error {
	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	clients, err := database.ListClients(ctx, 0, 0)
	if err != nil {
		return err
	}

	tasks, err := database.ListTasks(ctx, nil, nil)
	if err != nil {
		return err
	}

	fmt.Println("Taskdesk Status")
	fmt.Println("===============")
	fmt.Printf("Clients:     %d\n", len(clients))
	fmt.Printf("Total Tasks: %d\n", len(tasks))

	statusCounts := make(map[models.TaskStatus]int)
	for _, t := range tasks {
		statusCounts[t.Status]++
	}

	fmt.Println("\nTask Breakdown:")
	fmt.Printf("  Pending:         %d\n", statusCounts[models.TaskStatusPending])
	fmt.Printf("  In Progress:     %d\n", statusCounts[models.TaskStatusInProgress])
	fmt.Printf("  Awaiting Client: %d\n", statusCounts[models.TaskStatusAwaitingClient])
	fmt.Printf("  Completed:       %d\n", statusCounts[models.TaskStatusCompleted])

	return nil
}

func runImport(args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	path := cfg.SnapshotPath
	if len(args) > 0 {
		path = args[0]
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.Init(ctx); err != nil {
		return err
	}

	summary, err := database.ImportSnapshot(ctx, path)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d clients and %d tasks (%d clients skipped)\n",
		summary.ClientsImported, summary.TasksImported, summary.ClientsSkipped)
	return nil
}

func runExport(args []string) error {
	cfg, err := loadWorkspaceConfig()
	if err != nil {
		return err
	}

	path := cfg.SnapshotPath
	if len(args) > 0 {
		path = args[0]
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := context.Background()
	if err := database.ExportSnapshot(ctx, path); err != nil {
		return err
	}

	fmt.Printf("Exported snapshot to %s\n", path)
	return nil
}
