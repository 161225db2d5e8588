// Package directory holds the read-only organizational hierarchy:
// offices own departments, and departments of head offices own faats.
// The routing workflow only reads this data, it never mutates it.
package directory

import (
	id "filetrack/pkg/domain"
)

// Office is a top-level organizational unit. Only head offices may own
// faats under their departments.
type Office struct {
	ID           id.OfficeID
	Name         string
	IsHeadOffice bool
}

// Department is a sub-unit of an office.
type Department struct {
	ID       id.DepartmentID
	OfficeID id.OfficeID
	Name     string
}

// Faat is the smallest organizational sub-unit.
type Faat struct {
	ID           id.FaatID
	DepartmentID id.DepartmentID
	Name         string
}

// Location is a resolved position in the hierarchy. Department and Faat may
// be zero; a non-zero Faat implies a non-zero Department, and a non-zero
// Department implies a non-zero Office.
type Location struct {
	Office     id.OfficeID
	Department id.DepartmentID
	Faat       id.FaatID
}

// IsZero reports whether the location carries no placement at all.
func (l Location) IsZero() bool {
	return l.Office.IsNil() && l.Department.IsNil() && l.Faat.IsNil()
}

// Destination is caller input naming where a file should go. Exactly the
// forms from the workflow contract are accepted: an office, an office plus
// department, a department alone (office implied by the file's current
// office), or a faat alone (office and department resolved from the
// hierarchy).
type Destination struct {
	OfficeID     id.OfficeID
	DepartmentID id.DepartmentID
	FaatID       id.FaatID
}
