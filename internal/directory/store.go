package directory

import (
	"context"

	id "filetrack/pkg/domain"
)

// Store is the lookup boundary for the externally owned organization
// directory. Implementations return sentinel.ErrNotFound for unknown ids.
type Store interface {
	GetOffice(ctx context.Context, officeID id.OfficeID) (Office, error)
	GetDepartment(ctx context.Context, departmentID id.DepartmentID) (Department, error)
	GetFaat(ctx context.Context, faatID id.FaatID) (Faat, error)
	ListDepartments(ctx context.Context, officeID id.OfficeID) ([]Department, error)
	ListFaats(ctx context.Context, departmentID id.DepartmentID) ([]Faat, error)
}
