package entities

import (
	"errors"
	"time"
)

// Common errors
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTaskNotFound       = errors.New("task not found")
	ErrChatUpstream       = errors.New("chat provider unavailable")
	ErrChatTimeout        = errors.New("chat provider timed out")
)

// DocumentVersion is the schema version written into every persisted document.
const DocumentVersion = "3.0.0"

// DefaultPriority is assigned to tasks created without an explicit priority.
const DefaultPriority = "normal"

// User represents a registered account. Users are append-only: there is no
// update or delete path, which is what keeps sequential ids stable.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Task represents a to-do item. Task ids are unique per owning user, not
// globally, and are never reused after deletion.
type Task struct {
	ID          int        `json:"id"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	Priority    string     `json:"priority"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date"`
}

// Metadata carries the id counters. NextID maps a user id to the next task
// id for that user; invariant: NextID[u] is strictly greater than every task
// id stored under u. NextUserID is the persisted counter for user ids and is
// omitted when zero so documents written before it existed still parse.
type Metadata struct {
	NextID     map[string]int `json:"nextId"`
	NextUserID int            `json:"nextUserId,omitempty"`
}

// Document is the single persisted unit: all users and all tasks, read
// wholly and written wholly on every mutation.
type Document struct {
	Version  string            `json:"version"`
	Users    []User            `json:"users"`
	Tasks    map[string][]Task `json:"tasks"`
	Metadata Metadata          `json:"metadata"`
}

// NewDocument returns an empty document with initialized maps and counters.
func NewDocument() *Document {
	return &Document{
		Version: DocumentVersion,
		Users:   []User{},
		Tasks:   map[string][]Task{},
		Metadata: Metadata{
			NextID:     map[string]int{},
			NextUserID: 1,
		},
	}
}

// Normalize repairs a freshly decoded document: nil maps become empty maps
// and a missing user-id counter is seeded from the user count, which is what
// documents written by older versions derived it from.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Tasks == nil {
		d.Tasks = map[string][]Task{}
	}
	if d.Metadata.NextID == nil {
		d.Metadata.NextID = map[string]int{}
	}
	if d.Metadata.NextUserID == 0 {
		d.Metadata.NextUserID = len(d.Users) + 1
	}
}

// EnsureUserTasks lazily initializes the task list and id counter for a user
// on first use.
func (d *Document) EnsureUserTasks(userID string) {
	if _, ok := d.Tasks[userID]; !ok {
		d.Tasks[userID] = []Task{}
		d.Metadata.NextID[userID] = 1
	}
}

// FindUserByEmail returns the first user with the given email, case-sensitive.
func (d *Document) FindUserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Version: d.Version,
		Users:   append([]User{}, d.Users...),
		Tasks:   make(map[string][]Task, len(d.Tasks)),
		Metadata: Metadata{
			NextID:     make(map[string]int, len(d.Metadata.NextID)),
			NextUserID: d.Metadata.NextUserID,
		},
	}
	for userID, tasks := range d.Tasks {
		copied := make([]Task, len(tasks))
		for i, t := range tasks {
			if t.DueDate != nil {
				due := *t.DueDate
				t.DueDate = &due
			}
			t.Tags = append([]string{}, t.Tags...)
			copied[i] = t
		}
		out.Tasks[userID] = copied
	}
	for userID, next := range d.Metadata.NextID {
		out.Metadata.NextID[userID] = next
	}
	return out
}
