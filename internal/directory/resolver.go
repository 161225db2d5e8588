package directory

import (
	"context"
	"errors"

	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
)

// Resolver validates a caller-supplied destination against the hierarchy and
// resolves it to a full location. All hierarchy rules live here so the
// routing engine only deals in resolved locations:
//
//   - a department must belong to the named (or implied) office
//   - a faat must belong to a department of a head office
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve turns a destination into a consistent Location. fallbackOffice is
// the file's current office, used when the caller names a department without
// an office.
//
// Errors: CodeNotFound when a named unit does not exist, CodeInvalidDestination
// when the units exist but do not fit together, CodeBadRequest when the
// destination is empty.
func (r *Resolver) Resolve(ctx context.Context, dest Destination, fallbackOffice id.OfficeID) (Location, error) {
	switch {
	case !dest.FaatID.IsNil():
		return r.resolveFaat(ctx, dest)
	case !dest.DepartmentID.IsNil():
		return r.resolveDepartment(ctx, dest, fallbackOffice)
	case !dest.OfficeID.IsNil():
		office, err := r.store.GetOffice(ctx, dest.OfficeID)
		if err != nil {
			return Location{}, translateLookup(err, "destination office not found")
		}
		return Location{Office: office.ID}, nil
	default:
		return Location{}, dErrors.New(dErrors.CodeBadRequest, "destination is required")
	}
}

func (r *Resolver) resolveDepartment(ctx context.Context, dest Destination, fallbackOffice id.OfficeID) (Location, error) {
	department, err := r.store.GetDepartment(ctx, dest.DepartmentID)
	if err != nil {
		return Location{}, translateLookup(err, "destination department not found")
	}

	officeID := dest.OfficeID
	if officeID.IsNil() {
		officeID = fallbackOffice
	}
	if officeID.IsNil() {
		return Location{}, dErrors.New(dErrors.CodeInvalidDestination,
			"department destination requires an office, and the file has none")
	}
	if department.OfficeID != officeID {
		return Location{}, dErrors.New(dErrors.CodeInvalidDestination,
			"department does not belong to the destination office")
	}

	return Location{Office: officeID, Department: department.ID}, nil
}

func (r *Resolver) resolveFaat(ctx context.Context, dest Destination) (Location, error) {
	faat, err := r.store.GetFaat(ctx, dest.FaatID)
	if err != nil {
		return Location{}, translateLookup(err, "destination faat not found")
	}
	department, err := r.store.GetDepartment(ctx, faat.DepartmentID)
	if err != nil {
		return Location{}, translateLookup(err, "faat's department not found")
	}
	office, err := r.store.GetOffice(ctx, department.OfficeID)
	if err != nil {
		return Location{}, translateLookup(err, "faat's office not found")
	}

	if !office.IsHeadOffice {
		return Location{}, dErrors.New(dErrors.CodeInvalidDestination,
			"faats exist only under head offices")
	}
	if !dest.DepartmentID.IsNil() && dest.DepartmentID != department.ID {
		return Location{}, dErrors.New(dErrors.CodeInvalidDestination,
			"faat does not belong to the destination department")
	}
	if !dest.OfficeID.IsNil() && dest.OfficeID != office.ID {
		return Location{}, dErrors.New(dErrors.CodeInvalidDestination,
			"faat does not belong to the destination office")
	}

	return Location{Office: office.ID, Department: department.ID, Faat: faat.ID}, nil
}

func translateLookup(err error, message string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, message)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "directory lookup failed")
}
