package cards

import "time"

// Profile is a local account the backend knows about. Selecting one is the
// first step of the login flow.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Workspace groups cards and folders. The backend calls these vaults; a
// profile can own several.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Folder organizes cards inside a workspace.
type Folder struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Card is a single vault entry as the backend returns it. The password
// field is plaintext only in transit between the backend and this client;
// storage and encryption stay behind the bridge.
type Card struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	FolderID    string    `json:"folder_id,omitempty"`
	Title       string    `json:"title"`
	Username    string    `json:"username,omitempty"`
	Password    string    `json:"password,omitempty"`
	URL         string    `json:"url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Favorite    bool      `json:"favorite"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Attachment describes a file stored against a card. Contents travel
// base64-encoded over the bridge and are never cached locally.
type Attachment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"card_id"`
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// HistoryEntry is a previous password of a card.
type HistoryEntry struct {
	Password  string    `json:"password"`
	ChangedAt time.Time `json:"changed_at"`
}
