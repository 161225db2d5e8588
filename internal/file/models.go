// Package file holds the canonical physical-file record. The record's
// current location is mutated only by the routing engine, always paired with
// a ledger append; everything else is set once at presentation.
package file

import (
	"time"

	"filetrack/internal/directory"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
)

// FileType classifies a physical file.
type FileType string

const (
	FileTypeActive       FileType = "active"
	FileTypeShelved      FileType = "shelved"
	FileTypeUnclassified FileType = "unclassified"
)

var validFileTypes = map[FileType]bool{
	FileTypeActive:       true,
	FileTypeShelved:      true,
	FileTypeUnclassified: true,
}

// ParseFileType constructs a FileType from external input.
func ParseFileType(s string) (FileType, error) {
	if s == "" {
		return FileTypeUnclassified, nil
	}
	t := FileType(s)
	if !validFileTypes[t] {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid file type")
	}
	return t, nil
}

// Record is the canonical file entity.
//
// Invariants: Location is hierarchy-consistent (enforced by the directory
// resolver before any write). A disabled record is terminal; the routing
// engine refuses further transfers and acceptances. Version increments on
// every location change and backs the optimistic concurrency check.
type Record struct {
	ID            id.FileID
	FileNumber    string
	FileName      string
	Subject       string
	FileType      FileType
	PresentedBy   id.UserID
	PresentedDate time.Time
	Location      directory.Location
	IsDisabled    bool
	Version       int64
	CreatedAt     time.Time
}
