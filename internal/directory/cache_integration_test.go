//go:build integration

package directory_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"filetrack/internal/directory"
	platformredis "filetrack/internal/platform/redis"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/testutil/containers"
)

// countingStore wraps a directory store and counts source hits, so tests
// can tell a cache hit from a read-through.
type countingStore struct {
	directory.Store
	lookups atomic.Int64
}

func (c *countingStore) GetOffice(ctx context.Context, officeID id.OfficeID) (directory.Office, error) {
	c.lookups.Add(1)
	return c.Store.GetOffice(ctx, officeID)
}

type CachedStoreSuite struct {
	suite.Suite
	rc     *containers.RedisContainer
	client *platformredis.Client

	source *countingStore
	cached *directory.CachedStore
	office directory.Office
}

func TestCachedStoreSuite(t *testing.T) {
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())

	client, err := platformredis.New(s.rc.URL)
	s.Require().NoError(err)
	s.client = client
}

func (s *CachedStoreSuite) TearDownSuite() {
	_ = s.client.Close()
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(context.Background()))

	inner := directory.NewInMemoryStore()
	s.office = directory.Office{ID: id.OfficeID(uuid.New()), Name: "Head Office", IsHeadOffice: true}
	inner.AddOffice(s.office)

	s.source = &countingStore{Store: inner}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.cached = directory.NewCachedStore(s.source, s.client, logger)
}

func (s *CachedStoreSuite) TestReadThrough() {
	ctx := context.Background()

	got, err := s.cached.GetOffice(ctx, s.office.ID)
	s.Require().NoError(err)
	s.Equal(s.office, got)
	s.Equal(int64(1), s.source.lookups.Load())

	// Second read is served from Redis.
	got, err = s.cached.GetOffice(ctx, s.office.ID)
	s.Require().NoError(err)
	s.Equal(s.office, got)
	s.Equal(int64(1), s.source.lookups.Load())
}

func (s *CachedStoreSuite) TestNegativeResultsNotCached() {
	ctx := context.Background()
	ghost := id.OfficeID(uuid.New())

	_, err := s.cached.GetOffice(ctx, ghost)
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.cached.GetOffice(ctx, ghost)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal(int64(2), s.source.lookups.Load())
}

func (s *CachedStoreSuite) TestCorruptEntryReloaded() {
	ctx := context.Background()

	_, err := s.cached.GetOffice(ctx, s.office.ID)
	s.Require().NoError(err)

	key := "filetrack:directory:office:" + s.office.ID.String()
	s.Require().NoError(s.client.Set(ctx, key, "not-json", 0).Err())

	got, err := s.cached.GetOffice(ctx, s.office.ID)
	s.Require().NoError(err)
	s.Equal(s.office, got)
	s.Equal(int64(2), s.source.lookups.Load())
}
