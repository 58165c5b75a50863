package models

// Client is the aggregate root. Identifiers are caller-chosen and unique.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Origin  string `json:"origin"`

	// Tasks is populated on single-client reads and snapshot export.
	Tasks []*Task `json:"tasks,omitempty"`
}

// ClientUpdate carries a partial update. Nil fields keep their stored value.
type ClientUpdate struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Origin  *string `json:"origin,omitempty"`
}
