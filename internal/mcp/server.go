package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/nick-dorsch/taskdesk/internal/db"
	"github.com/nick-dorsch/taskdesk/pkg/models"
)

// NewServer creates a new MCP server exposing the client, task and comment
// operations.
func NewServer(database *db.DB) *server.MCPServer {
	s := server.NewMCPServer("Taskdesk", "0.1.0")

	// Client Management
	s.AddTool(mcp.NewTool("create_client",
		mcp.WithDescription("Create a client, optionally with an initial batch of tasks."),
		mcp.WithString("id", mcp.Description("Client identifier (caller-chosen, unique)"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Contact name"), mcp.Required()),
		mcp.WithString("company", mcp.Description("Company name"), mcp.Required()),
		mcp.WithString("origin", mcp.Description("Where the client came from"), mcp.Required()),
		mcp.WithString("tasks_json", mcp.Description("Optional JSON array of task payloads created together with the client")),
	), createClientHandler(database))

	s.AddTool(mcp.NewTool("create_client_only",
		mcp.WithDescription("Create a client without tasks. Fails if the identifier already exists."),
		mcp.WithString("id", mcp.Description("Client identifier"), mcp.Required()),
		mcp.WithString("name", mcp.Description("Contact name"), mcp.Required()),
		mcp.WithString("company", mcp.Description("Company name"), mcp.Required()),
		mcp.WithString("origin", mcp.Description("Where the client came from"), mcp.Required()),
	), createClientOnlyHandler(database))

	s.AddTool(mcp.NewTool("get_client",
		mcp.WithDescription("Get a single client and its tasks."),
		mcp.WithString("id", mcp.Description("Client identifier"), mcp.Required()),
	), getClientHandler(database))

	s.AddTool(mcp.NewTool("list_clients",
		mcp.WithDescription("List clients with optional pagination."),
		mcp.WithNumber("skip", mcp.Description("Number of clients to skip")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of clients to return (0 for all)")),
	), listClientsHandler(database))

	s.AddTool(mcp.NewTool("update_client",
		mcp.WithDescription("Update a client's name, company or origin. Omitted fields are left unchanged."),
		mcp.WithString("id", mcp.Description("Client identifier"), mcp.Required()),
		mcp.WithString("name", mcp.Description("New contact name")),
		mcp.WithString("company", mcp.Description("New company name")),
		mcp.WithString("origin", mcp.Description("New origin")),
	), updateClientHandler(database))

	s.AddTool(mcp.NewTool("delete_client",
		mcp.WithDescription("Delete a client and all of its tasks and comments."),
		mcp.WithString("id", mcp.Description("Client identifier"), mcp.Required()),
	), deleteClientHandler(database))

	// Task Management
	s.AddTool(mcp.NewTool("create_task",
		mcp.WithDescription("Create a task for an existing client. Completion fields are derived from the status."),
		mcp.WithString("client_id", mcp.Description("Owning client identifier"), mcp.Required()),
		mcp.WithString("date", mcp.Description("Task date"), mcp.Required()),
		mcp.WithString("description", mcp.Description("Task description"), mcp.Required()),
		mcp.WithString("status", mcp.Description("Status (pending|in progress|completed|awaiting client)"), mcp.Required()),
		mcp.WithString("priority", mcp.Description("Priority (low|medium|high)"), mcp.Required()),
		mcp.WithString("sla_date", mcp.Description("Optional SLA deadline date")),
		mcp.WithString("completion_date", mcp.Description("Optional explicit completion date")),
	), createTaskHandler(database))

	s.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Get a single task."),
		mcp.WithNumber("task_id", mcp.Description("Task identifier"), mcp.Required()),
	), getTaskHandler(database))

	s.AddTool(mcp.NewTool("update_task",
		mcp.WithDescription("Update a task. Omitted fields are left unchanged; completion fields follow the status transition rules."),
		mcp.WithNumber("task_id", mcp.Description("Task identifier"), mcp.Required()),
		mcp.WithString("client_id", mcp.Description("New owning client identifier")),
		mcp.WithString("date", mcp.Description("New task date")),
		mcp.WithString("description", mcp.Description("New description")),
		mcp.WithString("status", mcp.Description("New status")),
		mcp.WithString("priority", mcp.Description("New priority")),
		mcp.WithString("sla_date", mcp.Description("New SLA deadline date")),
		mcp.WithString("completion_date", mcp.Description("Explicit completion date")),
	), updateTaskHandler(database))

	s.AddTool(mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task and its comments."),
		mcp.WithNumber("task_id", mcp.Description("Task identifier"), mcp.Required()),
	), deleteTaskHandler(database))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks with optional filters."),
		mcp.WithString("client_id", mcp.Description("Filter by client")),
		mcp.WithString("status", mcp.Description("Filter by status")),
	), listTasksHandler(database))

	// Comment Management
	s.AddTool(mcp.NewTool("create_comment",
		mcp.WithDescription("Add a comment to an existing task."),
		mcp.WithNumber("task_id", mcp.Description("Task identifier"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Comment text"), mcp.Required()),
		mcp.WithString("author", mcp.Description("Author (defaults to 'User')")),
	), createCommentHandler(database))

	s.AddTool(mcp.NewTool("list_comments",
		mcp.WithDescription("List all comments for a task."),
		mcp.WithNumber("task_id", mcp.Description("Task identifier"), mcp.Required()),
	), listCommentsHandler(database))

	s.AddTool(mcp.NewTool("delete_comment",
		mcp.WithDescription("Delete a comment."),
		mcp.WithString("comment_id", mcp.Description("Comment identifier"), mcp.Required()),
	), deleteCommentHandler(database))

	// Snapshot Management
	s.AddTool(mcp.NewTool("import_snapshot",
		mcp.WithDescription("Import clients and tasks from a JSON snapshot file. Clients already present are skipped."),
		mcp.WithString("path", mcp.Description("Path to the snapshot file"), mcp.Required()),
	), importSnapshotHandler(database))

	s.AddTool(mcp.NewTool("export_snapshot",
		mcp.WithDescription("Export all clients and tasks to a JSON snapshot file."),
		mcp.WithString("path", mcp.Description("Path to the snapshot file"), mcp.Required()),
	), exportSnapshotHandler(database))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func createClientHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := &models.Client{
			ID:      mcp.ParseString(request, "id", ""),
			Name:    mcp.ParseString(request, "name", ""),
			Company: mcp.ParseString(request, "company", ""),
			Origin:  mcp.ParseString(request, "origin", ""),
		}

		var tasks []*models.Task
		if raw := mcp.ParseString(request, "tasks_json", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid tasks_json: %v", err)), nil
			}
		}

		if err := database.CreateClient(ctx, c, tasks); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		created, err := database.GetClient(ctx, c.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(created)
	}
}

func createClientOnlyHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := &models.Client{
			ID:      mcp.ParseString(request, "id", ""),
			Name:    mcp.ParseString(request, "name", ""),
			Company: mcp.ParseString(request, "company", ""),
			Origin:  mcp.ParseString(request, "origin", ""),
		}

		if err := database.CreateClientOnly(ctx, c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func getClientHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		c, err := database.GetClient(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func listClientsHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		skip := mcp.ParseInt(request, "skip", 0)
		limit := mcp.ParseInt(request, "limit", 0)

		clients, err := database.ListClients(ctx, skip, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(map[string]interface{}{"clients": clients})
	}
}

func updateClientHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		upd := &models.ClientUpdate{}
		args, _ := request.Params.Arguments.(map[string]any)
		if name, ok := args["name"].(string); ok {
			upd.Name = &name
		}
		if company, ok := args["company"].(string); ok {
			upd.Company = &company
		}
		if origin, ok := args["origin"].(string); ok {
			upd.Origin = &origin
		}

		c, err := database.UpdateClient(ctx, id, upd)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func deleteClientHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "id", "")

		c, err := database.DeleteClient(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func createTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t := &models.Task{
			ClientID:    mcp.ParseString(request, "client_id", ""),
			Date:        mcp.ParseString(request, "date", ""),
			Description: mcp.ParseString(request, "description", ""),
			Status:      models.TaskStatus(mcp.ParseString(request, "status", string(models.TaskStatusPending))),
			Priority:    models.TaskPriority(mcp.ParseString(request, "priority", string(models.TaskPriorityMedium))),
		}

		args, _ := request.Params.Arguments.(map[string]any)
		if sla, ok := args["sla_date"].(string); ok {
			t.SLADate = &sla
		}
		if completion, ok := args["completion_date"].(string); ok {
			t.CompletionDate = &completion
		}

		if err := database.CreateTask(ctx, t); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(t)
	}
}

func getTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "task_id", 0))

		t, err := database.GetTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(t)
	}
}

func updateTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "task_id", 0))

		upd := &models.TaskUpdate{}
		args, _ := request.Params.Arguments.(map[string]any)
		if clientID, ok := args["client_id"].(string); ok {
			upd.ClientID = &clientID
		}
		if date, ok := args["date"].(string); ok {
			upd.Date = &date
		}
		if description, ok := args["description"].(string); ok {
			upd.Description = &description
		}
		if status, ok := args["status"].(string); ok {
			s := models.TaskStatus(status)
			upd.Status = &s
		}
		if priority, ok := args["priority"].(string); ok {
			p := models.TaskPriority(priority)
			upd.Priority = &p
		}
		if sla, ok := args["sla_date"].(string); ok {
			upd.SLADate = &sla
		}
		if completion, ok := args["completion_date"].(string); ok {
			upd.CompletionDate = &completion
		}

		t, err := database.UpdateTask(ctx, id, upd)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(t)
	}
}

func deleteTaskHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "task_id", 0))

		t, err := database.DeleteTask(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(t)
	}
}

func listTasksHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]any)

		var status *models.TaskStatus
		if s, ok := args["status"].(string); ok {
			ts := models.TaskStatus(s)
			status = &ts
		}

		var clientID *string
		if id, ok := args["client_id"].(string); ok {
			clientID = &id
		}

		tasks, err := database.ListTasks(ctx, status, clientID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(map[string]interface{}{"tasks": tasks})
	}
}

func createCommentHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		c := &models.Comment{
			TaskID: int64(mcp.ParseInt(request, "task_id", 0)),
			Text:   mcp.ParseString(request, "text", ""),
			Author: mcp.ParseString(request, "author", ""),
		}

		if err := database.CreateComment(ctx, c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func listCommentsHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := int64(mcp.ParseInt(request, "task_id", 0))

		comments, err := database.ListComments(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(map[string]interface{}{"comments": comments})
	}
}

func deleteCommentHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "comment_id", "")

		c, err := database.DeleteComment(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(c)
	}
}

func importSnapshotHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := mcp.ParseString(request, "path", "")

		summary, err := database.ImportSnapshot(ctx, path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return marshalResult(summary)
	}
}

func exportSnapshotHandler(database *db.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path := mcp.ParseString(request, "path", "")

		if err := database.ExportSnapshot(ctx, path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Snapshot exported to %s", path)), nil
	}
}

func marshalResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
