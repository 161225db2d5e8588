package httptransport

import (
	"time"

	"filetrack/internal/directory"
	"filetrack/internal/file"
	"filetrack/internal/history"
	"filetrack/internal/ledger"
)

// LocationResponse is a resolved hierarchy position. Absent levels are
// omitted rather than rendered as nil UUIDs.
type LocationResponse struct {
	OfficeID     string `json:"office_id,omitempty"`
	DepartmentID string `json:"department_id,omitempty"`
	FaatID       string `json:"faat_id,omitempty"`
}

func fromLocation(location directory.Location) LocationResponse {
	out := LocationResponse{}
	if !location.Office.IsNil() {
		out.OfficeID = location.Office.String()
	}
	if !location.Department.IsNil() {
		out.DepartmentID = location.Department.String()
	}
	if !location.Faat.IsNil() {
		out.FaatID = location.Faat.String()
	}
	return out
}

// FileResponse is the public shape of a file record.
type FileResponse struct {
	ID            string           `json:"id"`
	FileNumber    string           `json:"file_number"`
	FileName      string           `json:"file_name"`
	Subject       string           `json:"subject,omitempty"`
	FileType      string           `json:"file_type"`
	PresentedBy   string           `json:"presented_by"`
	PresentedDate time.Time        `json:"presented_date"`
	Location      LocationResponse `json:"location"`
	IsDisabled    bool             `json:"is_disabled"`
	Version       int64            `json:"version"`
}

func fromRecord(record file.Record) FileResponse {
	return FileResponse{
		ID:            record.ID.String(),
		FileNumber:    record.FileNumber,
		FileName:      record.FileName,
		Subject:       record.Subject,
		FileType:      string(record.FileType),
		PresentedBy:   record.PresentedBy.String(),
		PresentedDate: record.PresentedDate,
		Location:      fromLocation(record.Location),
		IsDisabled:    record.IsDisabled,
		Version:       record.Version,
	}
}

// EventResponse is the public shape of a ledger event.
type EventResponse struct {
	ID         string           `json:"id"`
	FileID     string           `json:"file_id"`
	Seq        int64            `json:"seq"`
	Kind       string           `json:"kind"`
	From       LocationResponse `json:"from"`
	To         LocationResponse `json:"to"`
	ActorID    string           `json:"actor_id"`
	Remarks    string           `json:"remarks,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func fromEvent(event ledger.Event) EventResponse {
	return EventResponse{
		ID:         event.ID.String(),
		FileID:     event.FileID.String(),
		Seq:        event.Seq,
		Kind:       string(event.Kind),
		From:       fromLocation(event.From),
		To:         fromLocation(event.To),
		ActorID:    event.ActorID.String(),
		Remarks:    event.Remarks,
		OccurredAt: event.OccurredAt,
	}
}

// ItineraryEntryResponse is one leg of a file's reconstructed journey.
type ItineraryEntryResponse struct {
	From       LocationResponse `json:"from"`
	To         LocationResponse `json:"to"`
	SentBy     string           `json:"sent_by"`
	ReceivedBy string           `json:"received_by,omitempty"`
	Date       time.Time        `json:"date"`
	AcceptedAt *time.Time       `json:"accepted_at,omitempty"`
	Remarks    string           `json:"remarks,omitempty"`
	Status     string           `json:"status"`
}

func fromItinerary(entries []history.Entry) []ItineraryEntryResponse {
	out := make([]ItineraryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp := ItineraryEntryResponse{
			From:       fromLocation(entry.From),
			To:         fromLocation(entry.To),
			SentBy:     entry.SentBy.String(),
			Date:       entry.Date,
			AcceptedAt: entry.AcceptedAt,
			Remarks:    entry.Remarks,
			Status:     string(entry.Status),
		}
		if entry.ReceivedBy != nil {
			resp.ReceivedBy = entry.ReceivedBy.String()
		}
		out = append(out, resp)
	}
	return out
}

// OfficeResponse is the public shape of an office.
type OfficeResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsHeadOffice bool   `json:"is_head_office"`
}

// DepartmentResponse is the public shape of a department.
type DepartmentResponse struct {
	ID       string `json:"id"`
	OfficeID string `json:"office_id"`
	Name     string `json:"name"`
}

// FaatResponse is the public shape of a faat.
type FaatResponse struct {
	ID           string `json:"id"`
	DepartmentID string `json:"department_id"`
	Name         string `json:"name"`
}

func fromOffice(office directory.Office) OfficeResponse {
	return OfficeResponse{
		ID:           office.ID.String(),
		Name:         office.Name,
		IsHeadOffice: office.IsHeadOffice,
	}
}

func fromDepartments(departments []directory.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, department := range departments {
		out = append(out, DepartmentResponse{
			ID:       department.ID.String(),
			OfficeID: department.OfficeID.String(),
			Name:     department.Name,
		})
	}
	return out
}

func fromFaats(faats []directory.Faat) []FaatResponse {
	out := make([]FaatResponse, 0, len(faats))
	for _, faat := range faats {
		out = append(out, FaatResponse{
			ID:           faat.ID.String(),
			DepartmentID: faat.DepartmentID.String(),
			Name:         faat.Name,
		})
	}
	return out
}
