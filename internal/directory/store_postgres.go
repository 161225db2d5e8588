package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// PostgresStore reads the directory from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed directory store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOffice(ctx context.Context, officeID id.OfficeID) (Office, error) {
	var office Office
	var rawID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_head_office FROM offices WHERE id = $1`,
		uuid.UUID(officeID),
	).Scan(&rawID, &office.Name, &office.IsHeadOffice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Office{}, sentinel.ErrNotFound
		}
		return Office{}, fmt.Errorf("get office: %w", err)
	}
	office.ID = id.OfficeID(rawID)
	return office, nil
}

func (s *PostgresStore) GetDepartment(ctx context.Context, departmentID id.DepartmentID) (Department, error) {
	var department Department
	var rawID, rawOfficeID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT id, office_id, name FROM departments WHERE id = $1`,
		uuid.UUID(departmentID),
	).Scan(&rawID, &rawOfficeID, &department.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Department{}, sentinel.ErrNotFound
		}
		return Department{}, fmt.Errorf("get department: %w", err)
	}
	department.ID = id.DepartmentID(rawID)
	department.OfficeID = id.OfficeID(rawOfficeID)
	return department, nil
}

func (s *PostgresStore) GetFaat(ctx context.Context, faatID id.FaatID) (Faat, error) {
	var faat Faat
	var rawID, rawDepartmentID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT id, department_id, name FROM faats WHERE id = $1`,
		uuid.UUID(faatID),
	).Scan(&rawID, &rawDepartmentID, &faat.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Faat{}, sentinel.ErrNotFound
		}
		return Faat{}, fmt.Errorf("get faat: %w", err)
	}
	faat.ID = id.FaatID(rawID)
	faat.DepartmentID = id.DepartmentID(rawDepartmentID)
	return faat, nil
}

func (s *PostgresStore) ListDepartments(ctx context.Context, officeID id.OfficeID) ([]Department, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, office_id, name FROM departments WHERE office_id = $1 ORDER BY name`,
		uuid.UUID(officeID),
	)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var department Department
		var rawID, rawOfficeID uuid.UUID
		if err := rows.Scan(&rawID, &rawOfficeID, &department.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		department.ID = id.DepartmentID(rawID)
		department.OfficeID = id.OfficeID(rawOfficeID)
		out = append(out, department)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListFaats(ctx context.Context, departmentID id.DepartmentID) ([]Faat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, department_id, name FROM faats WHERE department_id = $1 ORDER BY name`,
		uuid.UUID(departmentID),
	)
	if err != nil {
		return nil, fmt.Errorf("list faats: %w", err)
	}
	defer rows.Close()

	var out []Faat
	for rows.Next() {
		var faat Faat
		var rawID, rawDepartmentID uuid.UUID
		if err := rows.Scan(&rawID, &rawDepartmentID, &faat.Name); err != nil {
			return nil, fmt.Errorf("scan faat: %w", err)
		}
		faat.ID = id.FaatID(rawID)
		faat.DepartmentID = id.DepartmentID(rawDepartmentID)
		out = append(out, faat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list faats: %w", err)
	}
	return out, nil
}
