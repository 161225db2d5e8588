package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"filetrack/internal/directory"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// PostgresStore persists approval events in PostgreSQL. The UNIQUE
// (file_id, seq) constraint makes the append-only contiguity check atomic
// even without the engine's lock.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed approval ledger.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	return appendEvent(ctx, s.db, event)
}

// AppendTx appends the event on the caller's transaction, for writes that
// must commit together with the file record's location update.
func AppendTx(ctx context.Context, tx *sql.Tx, event Event) error {
	return appendEvent(ctx, tx, event)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func appendEvent(ctx context.Context, db execer, event Event) error {
	fromOffice, fromDepartment, fromFaat := locationToNullUUIDs(event.From)
	toOffice, toDepartment, toFaat := locationToNullUUIDs(event.To)
	_, err := db.ExecContext(ctx, `
		INSERT INTO approval_events (
			id, file_id, seq, kind,
			from_office_id, from_department_id, from_faat_id,
			to_office_id, to_department_id, to_faat_id,
			actor_id, remarks, is_transferred, is_approved, occurred_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		uuid.UUID(event.ID), uuid.UUID(event.FileID), event.Seq, string(event.Kind),
		fromOffice, fromDepartment, fromFaat,
		toOffice, toDepartment, toFaat,
		uuid.UUID(event.ActorID), event.Remarks,
		event.IsTransferred, event.IsApproved, event.OccurredAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("append approval event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListForFile(ctx context.Context, fileID id.FileID) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_id, seq, kind,
			from_office_id, from_department_id, from_faat_id,
			to_office_id, to_department_id, to_faat_id,
			actor_id, remarks, is_transferred, is_approved, occurred_at
		FROM approval_events
		WHERE file_id = $1
		ORDER BY seq
	`, uuid.UUID(fileID))
	if err != nil {
		return nil, fmt.Errorf("list approval events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var event Event
		var rawID, rawFileID, rawActorID uuid.UUID
		var kind string
		var fromOffice, fromDepartment, fromFaat uuid.NullUUID
		var toOffice, toDepartment, toFaat uuid.NullUUID
		err := rows.Scan(
			&rawID, &rawFileID, &event.Seq, &kind,
			&fromOffice, &fromDepartment, &fromFaat,
			&toOffice, &toDepartment, &toFaat,
			&rawActorID, &event.Remarks,
			&event.IsTransferred, &event.IsApproved, &event.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan approval event: %w", err)
		}
		event.ID = id.EventID(rawID)
		event.FileID = id.FileID(rawFileID)
		event.ActorID = id.UserID(rawActorID)
		event.Kind = Kind(kind)
		event.From = nullUUIDsToLocation(fromOffice, fromDepartment, fromFaat)
		event.To = nullUUIDsToLocation(toOffice, toDepartment, toFaat)
		out = append(out, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list approval events: %w", err)
	}
	return out, nil
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
