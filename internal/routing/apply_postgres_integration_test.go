//go:build integration

package routing_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"filetrack/internal/directory"
	"filetrack/internal/file"
	"filetrack/internal/ledger"
	"filetrack/internal/routing"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/testutil/containers"
)

type PostgresApplierSuite struct {
	suite.Suite
	pg      *containers.PostgresContainer
	applier *routing.PostgresApplier
	files   *file.PostgresStore
	events  *ledger.PostgresStore

	office     id.OfficeID
	department id.DepartmentID
	fileID     id.FileID
	actor      id.UserID
}

func TestPostgresApplierSuite(t *testing.T) {
	suite.Run(t, new(PostgresApplierSuite))
}

func (s *PostgresApplierSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.applier = routing.NewPostgresApplier(s.pg.DB)
	s.files = file.NewPostgres(s.pg.DB)
	s.events = ledger.NewPostgres(s.pg.DB)
}

func (s *PostgresApplierSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateAll(ctx))

	s.office = id.OfficeID(uuid.New())
	s.department = id.DepartmentID(uuid.New())
	s.fileID = id.NewFileID()
	s.actor = id.UserID(uuid.New())

	_, err := s.pg.DB.ExecContext(ctx,
		`INSERT INTO offices (id, name, is_head_office) VALUES ($1, 'Head Office', TRUE)`,
		uuid.UUID(s.office))
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx,
		`INSERT INTO departments (id, office_id, name) VALUES ($1, $2, 'Registry')`,
		uuid.UUID(s.department), uuid.UUID(s.office))
	s.Require().NoError(err)

	s.Require().NoError(s.files.Save(ctx, file.Record{
		ID:            s.fileID,
		FileNumber:    "2081-310",
		FileName:      "Budget Release",
		FileType:      file.FileTypeActive,
		PresentedBy:   s.actor,
		PresentedDate: time.Now(),
		Location:      directory.Location{Office: s.office},
		CreatedAt:     time.Now(),
	}))
}

func (s *PostgresApplierSuite) transferEvent() ledger.Event {
	return ledger.Event{
		ID:            id.NewEventID(),
		FileID:        s.fileID,
		Seq:           1,
		Kind:          ledger.KindTransfer,
		From:          directory.Location{Office: s.office},
		To:            directory.Location{Office: s.office, Department: s.department},
		ActorID:       s.actor,
		IsTransferred: true,
		OccurredAt:    time.Now(),
	}
}

func (s *PostgresApplierSuite) TestApplyCommitsBothWrites() {
	ctx := context.Background()

	s.Require().NoError(s.applier.ApplyTransfer(ctx, s.transferEvent(), 0))

	record, err := s.files.FindByID(ctx, s.fileID)
	s.Require().NoError(err)
	s.Equal(s.department, record.Location.Department)
	s.Equal(int64(1), record.Version)

	chain, err := s.events.ListForFile(ctx, s.fileID)
	s.Require().NoError(err)
	s.Require().Len(chain, 1)
	s.Equal(ledger.KindTransfer, chain[0].Kind)
}

func (s *PostgresApplierSuite) TestStaleVersionRollsBackAppend() {
	ctx := context.Background()

	err := s.applier.ApplyTransfer(ctx, s.transferEvent(), 7)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// The append must not survive the aborted location write.
	chain, err := s.events.ListForFile(ctx, s.fileID)
	s.Require().NoError(err)
	s.Empty(chain)

	record, err := s.files.FindByID(ctx, s.fileID)
	s.Require().NoError(err)
	s.True(record.Location.Department.IsNil())
	s.Equal(int64(0), record.Version)
}

func (s *PostgresApplierSuite) TestDuplicateSeqRollsBackLocation() {
	ctx := context.Background()

	s.Require().NoError(s.applier.ApplyTransfer(ctx, s.transferEvent(), 0))

	err := s.applier.ApplyTransfer(ctx, s.transferEvent(), 1)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	record, err := s.files.FindByID(ctx, s.fileID)
	s.Require().NoError(err)
	s.Equal(int64(1), record.Version)
}
