// Package repository provides persistence implementations for checkpoint
// and employee records using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// PostgresCheckpointRepository implements checkpoint CRUD against a PostgreSQL database.
type PostgresCheckpointRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCheckpointRepository creates a new PostgresCheckpointRepository using the provided *sql.DB.
func NewPostgresCheckpointRepository(db *sql.DB) *PostgresCheckpointRepository {
	return &PostgresCheckpointRepository{DB: db}
}

// GetByID fetches a single checkpoint by its ID.
//
//	ctx: context for cancellation and deadlines
//	id:  identifier of the checkpoint
//
// Returns a pointer to models.Checkpoint or an error if not found or on failure.
func (r *PostgresCheckpointRepository) GetByID(ctx context.Context, id int64) (*models.Checkpoint, error) {
	var cp models.Checkpoint
	var mac, username, password sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, host, mac, username, password FROM checkpoints WHERE id = $1
	`, id).Scan(&cp.ID, &cp.Name, &cp.Host, &mac, &username, &password)
	if err != nil {
		return nil, err
	}
	cp.MAC = mac.String
	cp.Username = username.String
	cp.Password = password.String
	return &cp, nil
}

// List fetches all registered checkpoints ordered by name.
func (r *PostgresCheckpointRepository) List(ctx context.Context) ([]models.Checkpoint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, host, mac, username, password FROM checkpoints ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("List checkpoints: %w", err)
	}
	defer rows.Close()

	var checkpoints []models.Checkpoint
	for rows.Next() {
		var cp models.Checkpoint
		var mac, username, password sql.NullString
		if err := rows.Scan(&cp.ID, &cp.Name, &cp.Host, &mac, &username, &password); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		cp.MAC = mac.String
		cp.Username = username.String
		cp.Password = password.String
		checkpoints = append(checkpoints, cp)
	}
	return checkpoints, rows.Err()
}

// Create inserts a new checkpoint and returns its assigned ID.
func (r *PostgresCheckpointRepository) Create(ctx context.Context, cp *models.Checkpoint) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO checkpoints (name, host, mac, username, password)
		VALUES ($1, $2, $3, $4, $5) RETURNING id
	`, cp.Name, cp.Host, cp.MAC, cp.Username, cp.Password).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create checkpoint: %w", err)
	}
	return id, nil
}

// Update replaces the stored fields of an existing checkpoint.
func (r *PostgresCheckpointRepository) Update(ctx context.Context, cp *models.Checkpoint) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE checkpoints SET name = $1, host = $2, mac = $3, username = $4, password = $5
		WHERE id = $6
	`, cp.Name, cp.Host, cp.MAC, cp.Username, cp.Password, cp.ID)
	if err != nil {
		return fmt.Errorf("Update checkpoint: %w", err)
	}
	return nil
}

// Delete removes a checkpoint by ID.
func (r *PostgresCheckpointRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete checkpoint: %w", err)
	}
	return nil
}
