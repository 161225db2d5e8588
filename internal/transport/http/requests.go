package httptransport

import (
	"strings"
	"time"

	"filetrack/internal/directory"
	"filetrack/internal/file"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
)

// maxRemarksLen bounds free-text remark fields.
const maxRemarksLen = 1000

// DestinationRequest names a routing target. At least one unit must be set;
// the resolver arbitrates how they fit together.
type DestinationRequest struct {
	OfficeID     string `json:"office_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	FaatID       string `json:"faat_id,omitempty"`
}

func (d *DestinationRequest) parse() (directory.Destination, error) {
	var dest directory.Destination
	var err error
	if d.OfficeID != "" {
		if dest.OfficeID, err = id.ParseOfficeID(d.OfficeID); err != nil {
			return directory.Destination{}, dErrors.New(dErrors.CodeBadRequest, "invalid office_id")
		}
	}
	if d.DepartmentID != "" {
		if dest.DepartmentID, err = id.ParseDepartmentID(d.DepartmentID); err != nil {
			return directory.Destination{}, dErrors.New(dErrors.CodeBadRequest, "invalid department_id")
		}
	}
	if d.FaatID != "" {
		if dest.FaatID, err = id.ParseFaatID(d.FaatID); err != nil {
			return directory.Destination{}, dErrors.New(dErrors.CodeBadRequest, "invalid faat_id")
		}
	}
	if dest.OfficeID.IsNil() && dest.DepartmentID.IsNil() && dest.FaatID.IsNil() {
		return directory.Destination{}, dErrors.New(dErrors.CodeBadRequest, "destination is required")
	}
	return dest, nil
}

// PresentRequest is the body for POST /files.
type PresentRequest struct {
	FileNumber string             `json:"file_number"`
	FileName   string             `json:"file_name"`
	Subject    string             `json:"subject,omitempty"`
	FileType   string             `json:"file_type,omitempty"`
	Location   DestinationRequest `json:"location"`

	parsedType     file.FileType
	parsedLocation directory.Destination
}

func (r *PresentRequest) Validate() error {
	r.FileNumber = strings.TrimSpace(r.FileNumber)
	r.FileName = strings.TrimSpace(r.FileName)
	if r.FileNumber == "" {
		return dErrors.New(dErrors.CodeBadRequest, "file_number is required")
	}
	if r.FileName == "" {
		return dErrors.New(dErrors.CodeBadRequest, "file_name is required")
	}

	if r.FileType != "" {
		fileType, err := file.ParseFileType(r.FileType)
		if err != nil {
			return err
		}
		r.parsedType = fileType
	}

	location, err := r.Location.parse()
	if err != nil {
		return err
	}
	r.parsedLocation = location
	return nil
}

// TransferRequest is the body for POST /files/{fileID}/transfer.
type TransferRequest struct {
	Destination DestinationRequest `json:"destination"`
	Remarks     string             `json:"remarks,omitempty"`

	parsedDestination directory.Destination
}

func (r *TransferRequest) Validate() error {
	r.Remarks = strings.TrimSpace(r.Remarks)
	if len(r.Remarks) > maxRemarksLen {
		return dErrors.New(dErrors.CodeBadRequest, "remarks too long")
	}
	dest, err := r.Destination.parse()
	if err != nil {
		return err
	}
	r.parsedDestination = dest
	return nil
}

// AcceptRequest is the body for POST /files/{fileID}/accept. ApprovedAt lets
// back-dated paper acknowledgements keep their real timestamp.
type AcceptRequest struct {
	Remarks    string     `json:"remarks,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

func (r *AcceptRequest) Validate() error {
	r.Remarks = strings.TrimSpace(r.Remarks)
	if len(r.Remarks) > maxRemarksLen {
		return dErrors.New(dErrors.CodeBadRequest, "remarks too long")
	}
	return nil
}
