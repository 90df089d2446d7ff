// Package store provides durable storage for chart specs and computed layouts.
//
// Where pkg/cache holds hot layouts with a TTL, the store is the durable
// tier: published dashboards keep their specs here, and exported layouts
// are archived so a chart can be replayed later with the exact geometry
// a viewer saw. Backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for production deployments
package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/spec"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
)

// Document is one archived chart: its spec and the layout computed from it.
// Layout may be nil for specs stored before their first computation.
type Document struct {
	ID        string          `json:"id" bson:"_id"`
	ChartID   string          `json:"chart_id" bson:"chart_id"`
	SpecHash  string          `json:"spec_hash" bson:"spec_hash"`
	Spec      *spec.ChartSpec `json:"spec" bson:"spec"`
	Layout    *chart.Layout   `json:"layout,omitempty" bson:"layout,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Put stores a document, replacing any existing document with the same ID.
	// CreatedAt is preserved on replace; UpdatedAt is set by the backend.
	Put(ctx context.Context, doc *Document) error

	// Get retrieves a document by ID.
	// Returns ErrNotFound if the document does not exist.
	Get(ctx context.Context, id string) (*Document, error)

	// Latest retrieves the most recently updated document for a chart.
	// Returns ErrNotFound if the chart has no documents.
	Latest(ctx context.Context, chartID string) (*Document, error)

	// List returns up to limit documents for a chart, newest first.
	List(ctx context.Context, chartID string, limit int) ([]*Document, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
