// Package domain holds typed identifiers shared across the module.
//
// IDs are distinct uuid-backed types so a DepartmentID cannot be passed where
// an OfficeID is expected. Construct via the Parse* functions at trust
// boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "filetrack/pkg/domain-errors"
)

type (
	// FileID identifies a physical-file record.
	FileID uuid.UUID
	// OfficeID identifies a top-level organizational unit.
	OfficeID uuid.UUID
	// DepartmentID identifies a sub-unit of an office.
	DepartmentID uuid.UUID
	// FaatID identifies the smallest sub-unit, under a head-office department.
	FaatID uuid.UUID
	// UserID identifies an actor. Resolved by the external identity
	// collaborator; this module only records it.
	UserID uuid.UUID
	// EventID identifies an approval ledger event.
	EventID uuid.UUID
)

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, what+" cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid "+what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, what+" cannot be nil")
	}
	return u, nil
}

// ParseFileID constructs a FileID from external input.
func ParseFileID(s string) (FileID, error) {
	u, err := parseUUID(s, "file id")
	return FileID(u), err
}

// ParseOfficeID constructs an OfficeID from external input.
func ParseOfficeID(s string) (OfficeID, error) {
	u, err := parseUUID(s, "office id")
	return OfficeID(u), err
}

// ParseDepartmentID constructs a DepartmentID from external input.
func ParseDepartmentID(s string) (DepartmentID, error) {
	u, err := parseUUID(s, "department id")
	return DepartmentID(u), err
}

// ParseFaatID constructs a FaatID from external input.
func ParseFaatID(s string) (FaatID, error) {
	u, err := parseUUID(s, "faat id")
	return FaatID(u), err
}

// ParseUserID constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

func (id FileID) String() string       { return uuid.UUID(id).String() }
func (id OfficeID) String() string     { return uuid.UUID(id).String() }
func (id DepartmentID) String() string { return uuid.UUID(id).String() }
func (id FaatID) String() string       { return uuid.UUID(id).String() }
func (id UserID) String() string       { return uuid.UUID(id).String() }
func (id EventID) String() string      { return uuid.UUID(id).String() }

func (id FileID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id OfficeID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id DepartmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id FaatID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id EventID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }

// NewFileID generates a fresh file identifier.
func NewFileID() FileID { return FileID(uuid.New()) }

// NewEventID generates a fresh ledger event identifier.
func NewEventID() EventID { return EventID(uuid.New()) }
