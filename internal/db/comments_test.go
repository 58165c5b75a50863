package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nick-dorsch/taskdesk/pkg/models"
)

func TestCommentCRUD(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}
	db.SetClock(func() time.Time { return fixedNow })

	c := &models.Client{ID: "acme", Name: "Ada", Company: "Acme", Origin: "web"}
	if err := db.CreateClientOnly(ctx, c); err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	task := &models.Task{
		ClientID:    "acme",
		Date:        "2025-03-14",
		Description: "with comments",
		Status:      models.TaskStatusPending,
		Priority:    models.TaskPriorityLow,
	}
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatalf("Failed to create task: %v", err)
	}

	// 1. Create with defaulted author
	comment := &models.Comment{TaskID: task.ID, Text: "first note"}
	if err := db.CreateComment(ctx, comment); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	if len(comment.ID) != 8 {
		t.Errorf("Expected 8 character id, got %q", comment.ID)
	}
	if comment.Author != "User" {
		t.Errorf("Expected default author User, got %s", comment.Author)
	}
	if comment.Timestamp != utcStamp(fixedNow) {
		t.Errorf("Expected timestamp %s, got %s", utcStamp(fixedNow), comment.Timestamp)
	}

	// 2. Create with an explicit author
	second := &models.Comment{TaskID: task.ID, Text: "second note", Author: "ops"}
	if err := db.CreateComment(ctx, second); err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	if second.Author != "ops" {
		t.Errorf("Expected author ops, got %s", second.Author)
	}
	if second.ID == comment.ID {
		t.Errorf("Expected distinct ids, both %s", second.ID)
	}

	// 3. List
	comments, err := db.ListComments(ctx, task.ID)
	if err != nil {
		t.Fatalf("Failed to list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("Expected 2 comments, got %d", len(comments))
	}

	// 4. Delete returns the last known state
	deleted, err := db.DeleteComment(ctx, comment.ID)
	if err != nil {
		t.Fatalf("Failed to delete comment: %v", err)
	}
	if deleted.Text != "first note" {
		t.Errorf("Expected deleted record state, got %+v", deleted)
	}

	if _, err := db.GetComment(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := db.DeleteComment(ctx, comment.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for second delete, got %v", err)
	}
}

func TestCommentsRequireTask(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		t.Fatalf("Failed to init database: %v", err)
	}

	comment := &models.Comment{TaskID: 42, Text: "nowhere to go"}
	if err := db.CreateComment(ctx, comment); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&count); err != nil {
		t.Fatalf("Failed to count comments: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected no persisted rows, got %d", count)
	}

	if _, err := db.ListComments(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for listing, got %v", err)
	}
}
