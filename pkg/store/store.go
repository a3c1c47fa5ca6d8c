// Package store persists playbooks: their source text, the converted graph
// and bookkeeping fields.
//
// # Backends
//
//   - [MemoryStore]: process-local, for the CLI, tests and single-node servers
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// Both implement [Store]. Deletes are soft: a deleted playbook keeps its
// document but is no longer returned by Get or List. Update increments
// Version.
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a playbook does not exist or was deleted.
var ErrNotFound = stderrors.New("playbook not found")

// DefaultListLimit applies when ListOptions.Limit is zero.
const DefaultListLimit = 50

// MaxListLimit caps ListOptions.Limit.
const MaxListLimit = 200

// Playbook is a stored playbook.
type Playbook struct {
	ID          string          `json:"id" bson:"_id"`
	Title       string          `json:"title" bson:"title"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Format      string          `json:"format" bson:"format"`
	Content     string          `json:"content" bson:"content"`
	GraphJSON   json.RawMessage `json:"graph" bson:"graph_json"`
	NodeCount   int             `json:"node_count" bson:"node_count"`
	EdgeCount   int             `json:"edge_count" bson:"edge_count"`
	Version     int             `json:"version" bson:"version"`
	Deleted     bool            `json:"-" bson:"deleted"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" bson:"updated_at"`
}

// ListOptions selects a page of playbooks ordered by creation time.
type ListOptions struct {
	Limit  int
	Offset int
	Search string // case-insensitive substring of the title
}

// Normalize clamps Limit and Offset to their valid ranges.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Search = strings.TrimSpace(o.Search)
	return o
}

// Store is the playbook persistence interface.
type Store interface {
	// Create assigns ID, Version and timestamps, then saves p.
	Create(ctx context.Context, p *Playbook) error
	Get(ctx context.Context, id string) (*Playbook, error)
	// List returns one page and the total number of matching playbooks.
	List(ctx context.Context, opts ListOptions) ([]*Playbook, int, error)
	// Update replaces the editable fields of the stored playbook with
	// those of p, bumps its Version and writes the result back into p.
	Update(ctx context.Context, p *Playbook) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewID returns a fresh playbook id.
func NewID() string {
	return uuid.NewString()
}

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func prepareCreate(p *Playbook) {
	ts := now()
	p.ID = NewID()
	p.Version = 1
	p.Deleted = false
	p.CreatedAt = ts
	p.UpdatedAt = ts
}

func matchesSearch(p *Playbook, search string) bool {
	return search == "" || strings.Contains(strings.ToLower(p.Title), strings.ToLower(search))
}
