package models

// Comment is a short note attached to a task. The timestamp is written once
// at creation.
type Comment struct {
	ID        string `json:"id"`
	TaskID    int64  `json:"task_id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}
