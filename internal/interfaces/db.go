package interfaces

import (
	"context"
	"errors"
)

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = errors.New("document not found")

// ErrDuplicateKey is returned by InsertOne when a unique constraint rejects
// the document. It is the store-level race guard for check-then-insert flows.
var ErrDuplicateKey = errors.New("duplicate key")

// Document is a generic interface to represent data that can be stored
// and retrieved from the database. It could be a struct, a map[string]interface{},
// or any type that can be marshaled/unmarshaled by the specific database driver.
type Document interface{}

// DBClient defines the interface for a generic database client.
// It abstracts common database operations across different database types (e.g., MongoDB, SQL).
type DBClient interface {
	// Connect establishes a connection to the database.
	// It takes a context for cancellation and timeouts, and a DSN (Data Source Name) string.
	Connect(ctx context.Context, dsn string) error

	// Disconnect closes the database connection.
	Disconnect(ctx context.Context) error

	// InsertOne inserts a single document into the specified collection/table.
	// Returns the ID of the inserted document (e.g., MongoDB ObjectID, SQL primary key).
	// A unique-constraint violation is reported as an error wrapping ErrDuplicateKey.
	InsertOne(ctx context.Context, collectionName string, document Document) (interface{}, error)

	// FindOne retrieves a single document matching the filter and decodes it
	// into 'result'. A miss is reported as an error wrapping ErrNotFound.
	FindOne(ctx context.Context, collectionName string, filter Document, result Document) error

	// FindMany retrieves all documents matching the filter, each as a
	// map[string]interface{} keyed by field/column name.
	FindMany(ctx context.Context, collectionName string, filter Document) ([]Document, error)

	// EnsureSchema creates the collection index or table definition required by
	// a repository. The schema type is backend-specific (mongo.IndexModel, DDL string).
	EnsureSchema(ctx context.Context, collectionName string, schema Document) error

	// Ping checks the health of the database connection.
	Ping(ctx context.Context) error
}
