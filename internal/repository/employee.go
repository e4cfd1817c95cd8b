package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ardiyansa/checkpointd/internal/models"
)

// PostgresEmployeeRepository implements employee and biometric persistence
// against a PostgreSQL database.
type PostgresEmployeeRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresEmployeeRepository creates a new PostgresEmployeeRepository using the provided *sql.DB.
func NewPostgresEmployeeRepository(db *sql.DB) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{DB: db}
}

// GetByID fetches a single employee by ID, including the face biometric
// record when one is registered.
func (r *PostgresEmployeeRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	var emp models.Employee
	var resign sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, employee_no, name, resign_date FROM employees WHERE id = $1 AND deleted = false
	`, id).Scan(&emp.ID, &emp.EmployeeNo, &emp.Name, &resign)
	if err != nil {
		return nil, err
	}
	if resign.Valid {
		t := resign.Time
		emp.ResignDate = &t
	}

	face, err := r.GetBiometric(ctx, emp.ID, models.KindFace)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	emp.FaceBiometric = face
	return &emp, nil
}

// List fetches all employees that are not soft-deleted, ordered by name.
func (r *PostgresEmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, employee_no, name, resign_date FROM employees WHERE deleted = false ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("List employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var emp models.Employee
		var resign sql.NullTime
		if err := rows.Scan(&emp.ID, &emp.EmployeeNo, &emp.Name, &resign); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if resign.Valid {
			t := resign.Time
			emp.ResignDate = &t
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Create inserts a new employee and returns its assigned ID.
func (r *PostgresEmployeeRepository) Create(ctx context.Context, emp *models.Employee) (int64, error) {
	var id int64
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO employees (employee_no, name, resign_date)
		VALUES ($1, $2, $3) RETURNING id
	`, emp.EmployeeNo, emp.Name, emp.ResignDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create employee: %w", err)
	}
	return id, nil
}

// Update replaces the stored fields of an existing employee.
func (r *PostgresEmployeeRepository) Update(ctx context.Context, emp *models.Employee) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE employees SET employee_no = $1, name = $2, resign_date = $3
		WHERE id = $4 AND deleted = false
	`, emp.EmployeeNo, emp.Name, emp.ResignDate, emp.ID)
	if err != nil {
		return fmt.Errorf("Update employee: %w", err)
	}
	return nil
}

// SoftDelete marks an employee as deleted. The row is purged later by the
// soft-delete cleaner.
func (r *PostgresEmployeeRepository) SoftDelete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE employees SET deleted = true, deleted_at = $1 WHERE id = $2
	`, time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("SoftDelete employee: %w", err)
	}
	return nil
}

// GetBiometric fetches one biometric record of the given kind for an
// employee. Returns sql.ErrNoRows when none is registered.
func (r *PostgresEmployeeRepository) GetBiometric(ctx context.Context, employeeID int64, kind models.BiometricKind) (*models.Biometric, error) {
	var b models.Biometric
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, employee_id, kind, data FROM employee_biometrics
		WHERE employee_id = $1 AND kind = $2
	`, employeeID, string(kind)).Scan(&b.ID, &b.EmployeeID, &b.Kind, &b.Data)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpsertBiometric inserts a biometric record or replaces the payload of an
// existing record of the same kind. Recapturing supersedes the old payload.
func (r *PostgresEmployeeRepository) UpsertBiometric(ctx context.Context, b *models.Biometric) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO employee_biometrics (employee_id, kind, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, kind) DO UPDATE SET data = EXCLUDED.data
	`, b.EmployeeID, b.Kind, b.Data)
	if err != nil {
		return fmt.Errorf("UpsertBiometric: %w", err)
	}
	return nil
}

// DeleteBiometric removes one biometric record of the given kind.
func (r *PostgresEmployeeRepository) DeleteBiometric(ctx context.Context, employeeID int64, kind models.BiometricKind) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM employee_biometrics WHERE employee_id = $1 AND kind = $2
	`, employeeID, string(kind))
	if err != nil {
		return fmt.Errorf("DeleteBiometric: %w", err)
	}
	return nil
}
