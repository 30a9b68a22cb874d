package draws

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/pkg/database"
)

type RepositoryTestSuite struct {
	suite.Suite
	db   *database.DB
	repo *Repository
}

func (s *RepositoryTestSuite) SetupTest() {
	db, err := database.NewConnection("sqlite://file::memory:", false)
	s.Require().NoError(err)
	s.db = db
	s.repo = NewRepository(db)
	s.Require().NoError(s.repo.AutoMigrate())
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.Require().NoError(s.db.Close())
}

func (s *RepositoryTestSuite) TestUpsertAndAll() {
	ctx := context.Background()
	records := fixtureRecords(s.T())

	_, err := s.repo.Upsert(ctx, []models.DrawRecord{records[2], records[0], records[1]})
	s.Require().NoError(err)

	all, err := s.repo.All(ctx)
	s.Require().NoError(err)
	s.Equal(records, all)

	n, err := s.repo.Count(ctx)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	latest, err := s.repo.Latest(ctx)
	s.Require().NoError(err)
	s.Equal(3, latest)
}

func (s *RepositoryTestSuite) TestUpsertOverwritesExistingDraw() {
	ctx := context.Background()
	records := fixtureRecords(s.T())
	_, err := s.repo.Upsert(ctx, records)
	s.Require().NoError(err)

	corrected, err := models.NewDrawRecord(2, records[1].Date, []int{1, 2, 3, 4, 5, 6})
	s.Require().NoError(err)
	_, err = s.repo.Upsert(ctx, []models.DrawRecord{corrected})
	s.Require().NoError(err)

	all, err := s.repo.All(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(corrected, all[1])
}

func (s *RepositoryTestSuite) TestEmptyArchive() {
	ctx := context.Background()

	n, err := s.repo.Upsert(ctx, nil)
	s.Require().NoError(err)
	s.Zero(n)

	latest, err := s.repo.Latest(ctx)
	s.Require().NoError(err)
	s.Zero(latest)

	src := &DatabaseSource{Repo: s.repo}
	records, report, err := src.Load(ctx)
	s.Require().NoError(err)
	s.Empty(records)
	s.Equal(0, report.Loaded)
}

func (s *RepositoryTestSuite) TestDatabaseSourceFeedsStore() {
	ctx := context.Background()
	_, err := s.repo.Upsert(ctx, fixtureRecords(s.T()))
	s.Require().NoError(err)

	store := NewStore(quietLogger())
	ds, err := store.Reload(ctx, &DatabaseSource{Repo: s.repo})
	s.Require().NoError(err)
	s.Equal(DatabaseSourceName, ds.Source)
	s.Len(ds.Draws, 3)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
