package file

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"filetrack/internal/directory"
	"filetrack/internal/ledger"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/requestcontext"
)

// StatusFilter selects files by their derived routing status.
type StatusFilter string

const (
	// FilterAll returns every record, disabled ones included.
	FilterAll StatusFilter = "all"
	// FilterTransferred returns enabled files with an unresolved transfer.
	FilterTransferred StatusFilter = "transferred"
	// FilterNonTransferred returns enabled files at rest. This is the single
	// authoritative "non-transferred" predicate; every view uses it.
	FilterNonTransferred StatusFilter = "non-transferred"
)

// ParseStatusFilter constructs a StatusFilter from external input. Empty
// input means non-disabled files without further filtering.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(s)) {
	case "":
		return "", nil
	case FilterAll:
		return FilterAll, nil
	case FilterTransferred:
		return FilterTransferred, nil
	case FilterNonTransferred:
		return FilterNonTransferred, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid status filter")
	}
}

// PresentInput carries the fields a caller supplies when presenting a file.
type PresentInput struct {
	FileNumber string
	FileName   string
	Subject    string
	FileType   FileType
	Location   directory.Destination
}

// Service covers file presentation and reads. Location changes and disabling
// go through the routing engine, never through this service.
type Service struct {
	store    Store
	events   ledger.Store
	resolver *directory.Resolver
	logger   *slog.Logger
}

func NewService(store Store, events ledger.Store, resolver *directory.Resolver, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		events:   events,
		resolver: resolver,
		logger:   logger,
	}
}

// Present registers a new physical file at its initial location.
func (s *Service) Present(ctx context.Context, actorID id.UserID, input PresentInput) (Record, error) {
	if actorID.IsNil() {
		return Record{}, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}
	if input.FileNumber == "" {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "file number is required")
	}
	if input.FileName == "" {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "file name is required")
	}
	fileType := input.FileType
	if fileType == "" {
		fileType = FileTypeUnclassified
	} else if !validFileTypes[fileType] {
		return Record{}, dErrors.New(dErrors.CodeBadRequest, "invalid file type")
	}

	location, err := s.resolver.Resolve(ctx, input.Location, id.OfficeID{})
	if err != nil {
		return Record{}, err
	}

	now := requestcontext.Now(ctx)
	record := Record{
		ID:            id.NewFileID(),
		FileNumber:    input.FileNumber,
		FileName:      input.FileName,
		Subject:       input.Subject,
		FileType:      fileType,
		PresentedBy:   actorID,
		PresentedDate: now,
		Location:      location,
		CreatedAt:     now,
	}
	if err := s.store.Save(ctx, record); err != nil {
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "save file")
	}

	s.logger.InfoContext(ctx, "file presented",
		"file_id", record.ID.String(),
		"file_number", record.FileNumber,
		"request_id", requestcontext.RequestID(ctx),
	)
	return record, nil
}

// Get fetches a single record.
func (s *Service) Get(ctx context.Context, fileID id.FileID) (Record, error) {
	record, err := s.store.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Record{}, dErrors.New(dErrors.CodeNotFound, "file not found")
		}
		return Record{}, dErrors.Wrap(err, dErrors.CodeInternal, "find file")
	}
	return record, nil
}

// List returns records matching the filter. Transferred status comes from
// replaying each file's ledger, not from any stored flag.
func (s *Service) List(ctx context.Context, filter StatusFilter) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list files")
	}

	out := make([]Record, 0, len(records))
	for _, record := range records {
		if filter == FilterAll {
			out = append(out, record)
			continue
		}
		if record.IsDisabled {
			continue
		}
		if filter == "" {
			out = append(out, record)
			continue
		}

		chain, err := s.events.ListForFile(ctx, record.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list approval events")
		}
		transferred := ledger.IsTransferred(chain)
		if (filter == FilterTransferred) == transferred {
			out = append(out, record)
		}
	}
	return out, nil
}
