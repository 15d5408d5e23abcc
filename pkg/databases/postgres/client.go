package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/haguru/courier/internal/interfaces"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database.
	DefaultMaxOpenConns = 10
	// DefaultMaxIdleConns is the default maximum number of idle connections to the database.
	DefaultMaxIdleConns = 5
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused.
	DefaultConnMaxLifetime = 30 * time.Second

	// uniqueViolation is the PostgreSQL error code for a unique constraint violation.
	uniqueViolation = "23505"
)

// PostgresDatabaseClient implements the DBClient interface for PostgreSQL databases.
type PostgresDatabaseClient struct {
	db              *sql.DB
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgresDatabaseClient creates a client with the given pool settings.
// Zero values fall back to the package defaults.
func NewPostgresDatabaseClient(maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) interfaces.DBClient {
	if maxOpenConns <= 0 {
		maxOpenConns = DefaultMaxOpenConns
	}
	if maxIdleConns <= 0 {
		maxIdleConns = DefaultMaxIdleConns
	}
	if connMaxLifetime <= 0 {
		connMaxLifetime = DefaultConnMaxLifetime
	}
	return &PostgresDatabaseClient{
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		ConnMaxLifetime: connMaxLifetime,
	}
}

// Connect establishes a connection to a PostgreSQL database.
func (p *PostgresDatabaseClient) Connect(ctx context.Context, dsn string) error {
	var err error
	p.db, err = sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}

	p.db.SetMaxOpenConns(p.MaxOpenConns)
	p.db.SetMaxIdleConns(p.MaxIdleConns)
	p.db.SetConnMaxLifetime(p.ConnMaxLifetime)

	return p.Ping(ctx)
}

// Disconnect closes the PostgreSQL database connection.
func (p *PostgresDatabaseClient) Disconnect(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// InsertOne inserts a single document into a PostgreSQL table.
// 'document' is expected to be a map[string]interface{}; a UUID id is
// generated when absent. A unique-constraint violation is reported as an
// error wrapping interfaces.ErrDuplicateKey.
func (p *PostgresDatabaseClient) InsertOne(ctx context.Context, tableName string, document interfaces.Document) (interface{}, error) {
	docMap, ok := document.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL InsertOne expects document to be map[string]interface{}")
	}

	if _, exists := docMap["id"]; !exists {
		docMap["id"] = uuid.New().String()
	}

	columns := make([]string, 0, len(docMap))
	placeholders := make([]string, 0, len(docMap))
	values := make([]interface{}, 0, len(docMap))

	i := 1
	for col, val := range docMap {
		columns = append(columns, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i))
		values = append(values, val)
		i++
	}

	// Safe use of Sprintf: the table name is repository-controlled, not user input.
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		tableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	) // #nosec G201

	var insertedID interface{}
	err := p.db.QueryRowContext(ctx, query, values...).Scan(&insertedID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("PostgreSQL InsertOne: %w: %v", interfaces.ErrDuplicateKey, err)
		}
		return nil, err
	}
	if b, ok := insertedID.([]byte); ok {
		return string(b), nil
	}
	return insertedID, nil
}

// FindOne retrieves a single document from a PostgreSQL table.
// 'filter' is expected to be a map[string]interface{} for the WHERE clause.
// 'result' must be a pointer to a struct; columns are resolved from the 'db'
// struct tags. A miss is reported as an error wrapping interfaces.ErrNotFound.
func (p *PostgresDatabaseClient) FindOne(ctx context.Context, tableName string, filter interfaces.Document, result interfaces.Document) error {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return fmt.Errorf("PostgreSQL FindOne expects filter to be map[string]interface{}")
	}
	if len(filterMap) == 0 {
		return fmt.Errorf("PostgreSQL FindOne requires a non-empty filter")
	}

	whereClauses := make([]string, 0, len(filterMap))
	whereValues := make([]interface{}, 0, len(filterMap))
	paramCount := 1
	for col, val := range filterMap {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", col, paramCount))
		whereValues = append(whereValues, val)
		paramCount++
	}
	whereString := strings.Join(whereClauses, " AND ")

	resultValue := reflect.ValueOf(result)
	if resultValue.Kind() != reflect.Ptr || resultValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("result must be a pointer to a struct")
	}
	elem := resultValue.Elem()
	numFields := elem.NumField()

	columns := make([]string, numFields)
	fieldPointers := make([]interface{}, numFields)

	for i := 0; i < numFields; i++ {
		field := elem.Type().Field(i)
		column := field.Tag.Get("db")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		columns[i] = column
		fieldPointers[i] = elem.Field(i).Addr().Interface()
	}

	// Safe use of Sprintf: the table name is repository-controlled, not user input.
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		strings.Join(columns, ", "),
		tableName,
		whereString,
	) // #nosec G201

	row := p.db.QueryRowContext(ctx, query, whereValues...)
	err := row.Scan(fieldPointers...)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("PostgreSQL FindOne: %w in %s", interfaces.ErrNotFound, tableName)
	}
	return err
}

// FindMany retrieves all documents matching the filter, each as a
// map[string]interface{} keyed by column name. Byte-slice column values are
// converted to strings.
func (p *PostgresDatabaseClient) FindMany(ctx context.Context, tableName string, filter interfaces.Document) ([]interfaces.Document, error) {
	filterMap, ok := filter.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("PostgreSQL FindMany expects filter to be map[string]interface{}")
	}

	whereClauses := make([]string, 0, len(filterMap))
	whereValues := make([]interface{}, 0, len(filterMap))
	paramCount := 1
	for col, val := range filterMap {
		whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", col, paramCount))
		whereValues = append(whereValues, val)
		paramCount++
	}
	whereString := ""
	if len(whereClauses) > 0 {
		whereString = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Safe use of Sprintf: the table name is repository-controlled, not user input.
	query := fmt.Sprintf("SELECT * FROM %s%s", tableName, whereString) // #nosec G201

	rows, err := p.db.QueryContext(ctx, query, whereValues...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []interfaces.Document
	for rows.Next() {
		columnPointers := make([]interface{}, len(columns))
		columnValues := make([]interface{}, len(columns))
		for i := range columns {
			columnPointers[i] = &columnValues[i]
		}

		if err := rows.Scan(columnPointers...); err != nil {
			return nil, err
		}

		rowMap := make(map[string]interface{})
		for i, colName := range columns {
			val := columnValues[i]
			if b, ok := val.([]byte); ok {
				rowMap[colName] = string(b)
			} else {
				rowMap[colName] = val
			}
		}
		results = append(results, rowMap)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// EnsureSchema executes the given DDL statement. The schema is expected to be
// an idempotent CREATE TABLE/INDEX string supplied by the repository.
func (p *PostgresDatabaseClient) EnsureSchema(ctx context.Context, tableName string, schema interfaces.Document) error {
	ddl, ok := schema.(string)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected DDL string for PostgreSQL")
	}
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema for %s: %w", tableName, err)
	}
	return nil
}

// Ping checks the health of the database connection.
func (p *PostgresDatabaseClient) Ping(ctx context.Context) error {
	if p.db == nil {
		return fmt.Errorf("PostgreSQL client is not connected")
	}
	return p.db.PingContext(ctx)
}
