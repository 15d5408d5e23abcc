package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/haguru/courier/config"
	"github.com/haguru/courier/internal/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
}

// NewMongoDB returns an interface for a db client and an error if it occurs.
func NewMongoDB(dbConfig *config.MongoDBConfig) (interfaces.DBClient, error) {
	db := &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
	}

	return db, nil
}

// Connect establishes a connection to the MongoDB database using the provided DSN.
// The DSN should be in the format "mongodb://<host>:<port>/<database>"; the
// database name is extracted from the DSN path.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}

	// Set a timeout for the connection
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	clientOptions := options.Client().ApplyURI(dsn)

	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	var err error
	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %v", err)
	}

	databaseName, err := m.getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %v", err)
	}

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client != nil {
		return m.client.Disconnect(ctx)
	}

	return nil
}

// InsertOne inserts a document and returns its ID. A unique-index violation is
// reported as an error wrapping interfaces.ErrDuplicateKey.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	sanitizedDocument := m.sanitizeDocument(document)

	res, err := m.db.Collection(collectionName).InsertOne(ctx, sanitizedDocument)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("MongoDBClient: %w: %v", interfaces.ErrDuplicateKey, err)
		}
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %v", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne retrieves a single document from the specified collection using a filter.
// A miss is reported as an error wrapping interfaces.ErrNotFound.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	sanitizedFilter := m.sanitizeDocument(filter)

	err := m.db.Collection(collectionName).FindOne(ctx, sanitizedFilter).Decode(result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("MongoDBClient: %w in %s", interfaces.ErrNotFound, collectionName)
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %v", collectionName, err)
	}

	return nil
}

// FindMany retrieves all documents matching the filter in natural (insertion)
// order, each decoded into a map keyed by field name.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document) ([]interfaces.Document, error) {
	if !m.validCollections[collectionName] {
		return nil, fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}

	sanitizedFilter := m.sanitizeDocument(filter)

	cursor, err := m.db.Collection(collectionName).Find(ctx, sanitizedFilter)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Finding many in %s failed: %v", collectionName, err)
	}

	defer func() {
		_ = cursor.Close(ctx)
	}()

	var results []interfaces.Document
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("MongoDBClient: Failed to decode cursor: %v", err)
		}
		results = append(results, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("MongoDBClient: Cursor error in %s: %v", collectionName, err)
	}

	return results, nil
}

// EnsureSchema creates the required index on the specified collection using the
// provided mongo.IndexModel. The collection is created automatically if absent.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	collection := m.db.Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, model)
	return err
}

// Ping verifies the MongoDB connection health.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func (m *MongoDBClient) getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path: %s", dsn)
	}

	// If the path contains additional segments, use only the first as the database name.
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}

	return dbName, nil
}

// sanitizeDocument filters map-shaped documents against the configured field
// allowlist and strips the ID field and any NoSQL-injection-prone keys.
// Struct documents are passed through; the driver marshals them via bson tags.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) interfaces.Document {
	if document == nil {
		return nil
	}

	docMap, ok := document.(map[string]interface{}) // bson.M is an alias of map[string]interface{}
	if !ok {
		return document
	}

	sanitized := make(map[string]interface{})
	for key, value := range docMap {
		// The ID field is store-assigned, never caller-supplied.
		if key == IDFIELD {
			continue
		}

		if _, ok := m.validFields[key]; !ok || strings.ContainsAny(key, "$.") {
			continue
		}

		sanitized[key] = value
	}

	return sanitized
}
