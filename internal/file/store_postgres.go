package file

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"filetrack/internal/directory"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// PostgresStore persists file records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed file store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const fileColumns = `id, file_number, file_name, subject, file_type, presented_by,
	presented_date, current_office_id, current_department_id, current_faat_id,
	is_disabled, version, created_at`

func (s *PostgresStore) Save(ctx context.Context, record Record) error {
	office, department, faat := locationToNullUUIDs(record.Location)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		uuid.UUID(record.ID), record.FileNumber, record.FileName, record.Subject,
		string(record.FileType), uuid.UUID(record.PresentedBy), record.PresentedDate,
		office, department, faat, record.IsDisabled, record.Version, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, fileID id.FileID) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, uuid.UUID(fileID))
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("find file by id: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return out, nil
}

// UpdateLocation performs the compare-and-set on the version column. Zero
// rows updated means either the file is gone or someone else moved it first;
// a follow-up existence check disambiguates.
func (s *PostgresStore) UpdateLocation(ctx context.Context, fileID id.FileID, location directory.Location, expectedVersion int64) error {
	return updateLocation(ctx, s.db, fileID, location, expectedVersion)
}

// UpdateLocationTx performs the same compare-and-set on the caller's
// transaction, so the write can commit together with a ledger append.
func UpdateLocationTx(ctx context.Context, tx *sql.Tx, fileID id.FileID, location directory.Location, expectedVersion int64) error {
	return updateLocation(ctx, tx, fileID, location, expectedVersion)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func updateLocation(ctx context.Context, db execer, fileID id.FileID, location directory.Location, expectedVersion int64) error {
	office, department, faat := locationToNullUUIDs(location)
	result, err := db.ExecContext(ctx, `
		UPDATE files
		SET current_office_id = $1, current_department_id = $2, current_faat_id = $3,
		    version = version + 1
		WHERE id = $4 AND version = $5
	`, office, department, faat, uuid.UUID(fileID), expectedVersion)
	if err != nil {
		return fmt.Errorf("update file location: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update file location: %w", err)
	}
	if affected == 0 {
		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM files WHERE id = $1)`, uuid.UUID(fileID)).Scan(&exists)
		if err != nil {
			return fmt.Errorf("update file location: %w", err)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) SetDisabled(ctx context.Context, fileID id.FileID, disabled bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE files SET is_disabled = $1 WHERE id = $2`, disabled, uuid.UUID(fileID))
	if err != nil {
		return fmt.Errorf("set file disabled: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set file disabled: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (Record, error) {
	var record Record
	var rawID, rawPresentedBy uuid.UUID
	var fileType string
	var office, department, faat uuid.NullUUID
	err := row.Scan(
		&rawID, &record.FileNumber, &record.FileName, &record.Subject, &fileType,
		&rawPresentedBy, &record.PresentedDate, &office, &department, &faat,
		&record.IsDisabled, &record.Version, &record.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	record.ID = id.FileID(rawID)
	record.PresentedBy = id.UserID(rawPresentedBy)
	record.FileType = FileType(fileType)
	record.Location = nullUUIDsToLocation(office, department, faat)
	return record, nil
}

func locationToNullUUIDs(location directory.Location) (office, department, faat uuid.NullUUID) {
	if !location.Office.IsNil() {
		office = uuid.NullUUID{UUID: uuid.UUID(location.Office), Valid: true}
	}
	if !location.Department.IsNil() {
		department = uuid.NullUUID{UUID: uuid.UUID(location.Department), Valid: true}
	}
	if !location.Faat.IsNil() {
		faat = uuid.NullUUID{UUID: uuid.UUID(location.Faat), Valid: true}
	}
	return office, department, faat
}

func nullUUIDsToLocation(office, department, faat uuid.NullUUID) directory.Location {
	var location directory.Location
	if office.Valid {
		location.Office = id.OfficeID(office.UUID)
	}
	if department.Valid {
		location.Department = id.DepartmentID(department.UUID)
	}
	if faat.Valid {
		location.Faat = id.FaatID(faat.UUID)
	}
	return location
}
