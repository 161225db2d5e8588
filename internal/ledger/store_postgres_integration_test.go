//go:build integration

package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"filetrack/internal/directory"
	"filetrack/internal/ledger"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *ledger.PostgresStore

	office id.OfficeID
	fileID id.FileID
	actor  id.UserID
}

func TestPostgresLedgerSuite(t *testing.T) {
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = ledger.NewPostgres(s.pg.DB)
}

func (s *PostgresLedgerSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.TruncateAll(ctx))

	s.office = id.OfficeID(uuid.New())
	s.fileID = id.NewFileID()
	s.actor = id.UserID(uuid.New())

	_, err := s.pg.DB.ExecContext(ctx,
		`INSERT INTO offices (id, name, is_head_office) VALUES ($1, 'Head Office', TRUE)`,
		uuid.UUID(s.office))
	s.Require().NoError(err)
	_, err = s.pg.DB.ExecContext(ctx, `
		INSERT INTO files (id, file_number, file_name, file_type, presented_by,
			presented_date, current_office_id)
		VALUES ($1, '2081-001', 'Land Acquisition', 'active', $2, NOW(), $3)
	`, uuid.UUID(s.fileID), uuid.UUID(s.actor), uuid.UUID(s.office))
	s.Require().NoError(err)
}

func (s *PostgresLedgerSuite) event(seq int64, kind ledger.Kind) ledger.Event {
	return ledger.Event{
		ID:            id.NewEventID(),
		FileID:        s.fileID,
		Seq:           seq,
		Kind:          kind,
		From:          directory.Location{Office: s.office},
		To:            directory.Location{Office: s.office},
		ActorID:       s.actor,
		Remarks:       "noted",
		IsTransferred: kind == ledger.KindTransfer,
		IsApproved:    kind == ledger.KindAcceptance,
		OccurredAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresLedgerSuite) TestAppendAndList() {
	ctx := context.Background()

	first := s.event(1, ledger.KindTransfer)
	second := s.event(2, ledger.KindAcceptance)
	s.Require().NoError(s.store.Append(ctx, first))
	s.Require().NoError(s.store.Append(ctx, second))

	chain, err := s.store.ListForFile(ctx, s.fileID)
	s.Require().NoError(err)
	s.Require().Len(chain, 2)
	s.Equal(first.ID, chain[0].ID)
	s.Equal(int64(1), chain[0].Seq)
	s.Equal(ledger.KindTransfer, chain[0].Kind)
	s.Equal(second.ID, chain[1].ID)
	s.Equal(ledger.KindAcceptance, chain[1].Kind)
	s.True(chain[0].IsTransferred)
	s.True(chain[1].IsApproved)
}

func (s *PostgresLedgerSuite) TestDuplicateSeqConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Append(ctx, s.event(1, ledger.KindTransfer)))

	err := s.store.Append(ctx, s.event(1, ledger.KindTransfer))
	s.ErrorIs(err, sentinel.ErrConflict)

	chain, err := s.store.ListForFile(ctx, s.fileID)
	s.Require().NoError(err)
	s.Len(chain, 1)
}

func (s *PostgresLedgerSuite) TestEmptyChain() {
	chain, err := s.store.ListForFile(context.Background(), id.NewFileID())
	s.Require().NoError(err)
	s.Empty(chain)
}
