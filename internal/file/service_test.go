package file

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"filetrack/internal/directory"
	"filetrack/internal/ledger"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	store   *InMemoryStore
	events  *ledger.InMemoryStore

	office     directory.Office
	department directory.Department
	actor      id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	dirStore := directory.NewInMemoryStore()
	s.office = directory.Office{ID: id.OfficeID(uuid.New()), Name: "Head Office", IsHeadOffice: true}
	s.department = directory.Department{ID: id.DepartmentID(uuid.New()), OfficeID: s.office.ID, Name: "Registry"}
	dirStore.AddOffice(s.office)
	dirStore.AddDepartment(s.department)

	s.store = NewInMemoryStore()
	s.events = ledger.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service = NewService(s.store, s.events, directory.NewResolver(dirStore), logger)
	s.actor = id.UserID(uuid.New())
}

func (s *ServiceSuite) present(number string) Record {
	record, err := s.service.Present(context.Background(), s.actor, PresentInput{
		FileNumber: number,
		FileName:   "File " + number,
		Subject:    "routine correspondence",
		FileType:   FileTypeActive,
		Location:   directory.Destination{OfficeID: s.office.ID},
	})
	s.Require().NoError(err)
	return record
}

func (s *ServiceSuite) TestPresent() {
	record := s.present("2081-001")

	s.False(record.ID.IsNil())
	s.Equal("2081-001", record.FileNumber)
	s.Equal(FileTypeActive, record.FileType)
	s.Equal(s.actor, record.PresentedBy)
	s.Equal(s.office.ID, record.Location.Office)
	s.True(record.Location.Department.IsNil())
	s.False(record.PresentedDate.IsZero())
	s.Equal(int64(0), record.Version)

	stored, err := s.store.FindByID(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, stored.ID)
}

func (s *ServiceSuite) TestPresentAtDepartment() {
	record, err := s.service.Present(context.Background(), s.actor, PresentInput{
		FileNumber: "2081-002",
		FileName:   "Budget Proposal",
		Location: directory.Destination{
			OfficeID:     s.office.ID,
			DepartmentID: s.department.ID,
		},
	})
	s.Require().NoError(err)
	s.Equal(s.department.ID, record.Location.Department)
	s.Equal(FileTypeUnclassified, record.FileType)
}

func (s *ServiceSuite) TestPresentValidation() {
	ctx := context.Background()
	base := PresentInput{
		FileNumber: "2081-003",
		FileName:   "Some File",
		Location:   directory.Destination{OfficeID: s.office.ID},
	}

	s.Run("missing actor", func() {
		_, err := s.service.Present(ctx, id.UserID{}, base)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("missing file number", func() {
		input := base
		input.FileNumber = ""
		_, err := s.service.Present(ctx, s.actor, input)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing file name", func() {
		input := base
		input.FileName = ""
		_, err := s.service.Present(ctx, s.actor, input)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("invalid file type", func() {
		input := base
		input.FileType = FileType("archived")
		_, err := s.service.Present(ctx, s.actor, input)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown office", func() {
		input := base
		input.Location = directory.Destination{OfficeID: id.OfficeID(uuid.New())}
		_, err := s.service.Present(ctx, s.actor, input)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("no location", func() {
		input := base
		input.Location = directory.Destination{}
		_, err := s.service.Present(ctx, s.actor, input)
		s.Error(err)
	})
}

func (s *ServiceSuite) TestGet() {
	record := s.present("2081-004")

	got, err := s.service.Get(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(record.FileNumber, got.FileNumber)

	_, err = s.service.Get(context.Background(), id.NewFileID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// markTransferred appends a transfer event so the file reads as in transit.
func (s *ServiceSuite) markTransferred(fileID id.FileID) {
	err := s.events.Append(context.Background(), ledger.Event{
		ID:            id.NewEventID(),
		FileID:        fileID,
		Seq:           1,
		Kind:          ledger.KindTransfer,
		From:          directory.Location{Office: s.office.ID},
		To:            directory.Location{Office: s.office.ID, Department: s.department.ID},
		ActorID:       s.actor,
		IsTransferred: true,
		OccurredAt:    time.Now(),
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestListFilters() {
	ctx := context.Background()

	atRest := s.present("2081-010")
	inTransit := s.present("2081-011")
	disabled := s.present("2081-012")

	s.markTransferred(inTransit.ID)
	s.Require().NoError(s.store.SetDisabled(ctx, disabled.ID, true))

	s.Run("default excludes disabled", func() {
		records, err := s.service.List(ctx, "")
		s.Require().NoError(err)
		s.Len(records, 2)
	})

	s.Run("all includes disabled", func() {
		records, err := s.service.List(ctx, FilterAll)
		s.Require().NoError(err)
		s.Len(records, 3)
	})

	s.Run("transferred", func() {
		records, err := s.service.List(ctx, FilterTransferred)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(inTransit.ID, records[0].ID)
	})

	s.Run("non-transferred", func() {
		records, err := s.service.List(ctx, FilterNonTransferred)
		s.Require().NoError(err)
		s.Require().Len(records, 1)
		s.Equal(atRest.ID, records[0].ID)
	})

	s.Run("accepted file is non-transferred again", func() {
		err := s.events.Append(ctx, ledger.Event{
			ID:         id.NewEventID(),
			FileID:     inTransit.ID,
			Seq:        2,
			Kind:       ledger.KindAcceptance,
			From:       directory.Location{Office: s.office.ID, Department: s.department.ID},
			To:         directory.Location{Office: s.office.ID, Department: s.department.ID},
			ActorID:    s.actor,
			IsApproved: true,
			OccurredAt: time.Now(),
		})
		s.Require().NoError(err)

		records, err := s.service.List(ctx, FilterNonTransferred)
		s.Require().NoError(err)
		s.Len(records, 2)
	})
}

func TestParseStatusFilter(t *testing.T) {
	cases := []struct {
		in      string
		want    StatusFilter
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "all", want: FilterAll},
		{in: "Transferred", want: FilterTransferred},
		{in: "NON-TRANSFERRED", want: FilterNonTransferred},
		{in: "pending", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseStatusFilter(tc.in)
		if tc.wantErr {
			if !dErrors.HasCode(err, dErrors.CodeBadRequest) {
				t.Errorf("ParseStatusFilter(%q): want bad request, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatusFilter(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseStatusFilter(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
