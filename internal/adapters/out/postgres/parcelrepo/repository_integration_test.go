package parcelrepo_test

import (
	"context"
	"testing"
	"time"

	"kargotrack/internal/adapters/out/postgres/parcelrepo"
	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of the aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// ParcelRepositoryIntegrationTestSuite verifies parcel persistence behavior
// against a real PostgreSQL instance.
type ParcelRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *parcelrepo.GormParcelRepository
	tracker    *MockAggregateTracker
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&parcelrepo.ParcelDTO{}))
}

func (suite *ParcelRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE parcels").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = parcelrepo.NewGormParcelRepository(suite.db, suite.tracker)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ParcelRepositoryIntegrationTestSuite) newParcel(rawTrackNumber string, createdAt time.Time) *parcel.Parcel {
	trackNumber, err := kernel.NewTrackNumber(rawTrackNumber)
	suite.Require().NoError(err)

	p, err := parcel.NewParcel(kernel.NewUUID(), trackNumber, createdAt)
	suite.Require().NoError(err)
	return p
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestAdd_And_GetByTrackNumber_RoundTrip() {
	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Microsecond)
	p := suite.newParcel("LP00123456CN", createdAt)
	suite.Require().NoError(p.StartFlows(createdAt))

	suite.tracker.On("TrackAggregate", p.ID(), p).Once()
	suite.Require().NoError(suite.repository.Add(ctx, p))

	loaded, err := suite.repository.GetByTrackNumber(ctx, p.TrackNumber())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(p.ID()))
	suite.Equal(parcel.AwaitingOrigin, loaded.Status())
	suite.Require().NotNil(loaded.OriginFlowStartedAt())
	suite.True(loaded.OriginFlowStartedAt().Equal(createdAt))
	suite.Equal(0, loaded.OriginFlowStage())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestAdd_DuplicateTrackNumber_Fails() {
	ctx := context.Background()
	now := time.Now().UTC()
	first := suite.newParcel("LP00123456CN", now)
	second := suite.newParcel("LP00123456CN", now)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	err := suite.repository.Add(ctx, second)
	suite.Require().Error(err)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGetByTrackNumber_Unknown_ReturnsNotFound() {
	ctx := context.Background()
	trackNumber, err := kernel.NewTrackNumber("GHOST1")
	suite.Require().NoError(err)

	_, err = suite.repository.GetByTrackNumber(ctx, trackNumber)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestUpdate_PersistsFlowProgressAndOwner() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p := suite.newParcel("LP00123456CN", now)
	suite.Require().NoError(p.StartFlows(now))

	suite.tracker.On("TrackAggregate", p.ID(), p)
	suite.Require().NoError(suite.repository.Add(ctx, p))

	suite.True(p.ApplyOriginStep(1, parcel.AtOrigin, true))
	ownerID := kernel.NewUUID()
	claimed, err := p.Claim(ownerID)
	suite.Require().NoError(err)
	suite.True(claimed)

	suite.Require().NoError(suite.repository.Update(ctx, p))

	loaded, err := suite.repository.Get(ctx, p.ID())
	suite.Require().NoError(err)
	suite.Equal(parcel.AtOrigin, loaded.Status())
	suite.Equal(1, loaded.OriginFlowStage())
	suite.Require().NotNil(loaded.OwnerID())
	suite.True(loaded.OwnerID().IsEqual(ownerID))
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGetAllByOwner_ReturnsOnlyOwned() {
	ctx := context.Background()
	now := time.Now().UTC()
	ownerID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	mine := suite.newParcel("MINE1", now)
	_, err := mine.Claim(ownerID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, mine))

	other := suite.newParcel("OTHER1", now)
	_, err = other.Claim(kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, other))

	unowned := suite.newParcel("FREE1", now)
	suite.Require().NoError(suite.repository.Add(ctx, unowned))

	owned, err := suite.repository.GetAllByOwner(ctx, ownerID)
	suite.Require().NoError(err)
	suite.Require().Len(owned, 1)
	suite.Equal("MINE1", owned[0].TrackNumber().String())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGetDueBatchForUpdate_SelectsOnlyDueParcels() {
	ctx := context.Background()
	timetable := flow.DefaultTimetable()
	now := time.Now().UTC().Truncate(time.Microsecond)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	// Started a minute ago with only stage 1 applied: the 10-second storage
	// step is overdue.
	dueStart := now.Add(-time.Minute)
	due := suite.newParcel("DUE1", dueStart)
	suite.Require().NoError(due.StartFlows(dueStart))
	suite.True(due.ApplyOriginStep(1, parcel.AtOrigin, true))
	suite.Require().NoError(suite.repository.Add(ctx, due))

	// Just started with stage 1 applied: nothing due for 10 seconds.
	fresh := suite.newParcel("FRESH1", now)
	suite.Require().NoError(fresh.StartFlows(now))
	suite.True(fresh.ApplyOriginStep(1, parcel.AtOrigin, true))
	suite.Require().NoError(suite.repository.Add(ctx, fresh))

	// Never scanned: chains not started, nothing can be due.
	idle := suite.newParcel("IDLE1", now)
	suite.Require().NoError(suite.repository.Add(ctx, idle))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepo := parcelrepo.NewGormParcelRepository(tx, suite.tracker)
	batch, err := txRepo.GetDueBatchForUpdate(ctx, timetable, now, 200)
	suite.Require().NoError(err)
	suite.Require().Len(batch, 1)
	suite.Equal("DUE1", batch[0].TrackNumber().String())
}

func (suite *ParcelRepositoryIntegrationTestSuite) TestGetDueBatchForUpdate_ExcludesTerminalStatuses() {
	ctx := context.Background()
	timetable := flow.DefaultTimetable()
	now := time.Now().UTC().Truncate(time.Microsecond)
	longAgo := now.Add(-30 * 24 * time.Hour)

	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)

	// Received long ago: every timer has elapsed but the parcel is done.
	trackNumber, err := kernel.NewTrackNumber("DONE1")
	suite.Require().NoError(err)
	received, err := parcel.RestoreParcel(
		kernel.NewUUID(), trackNumber, nil,
		parcel.Received,
		&longAgo, timetable.Origin.StepCount(),
		&longAgo, timetable.Local.StepCount(),
		longAgo,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, received))

	// At the pickup point with all stages behind it: the received timer has
	// elapsed but the explicit scan outranks it.
	atPickupTrack, err := kernel.NewTrackNumber("PICKUP1")
	suite.Require().NoError(err)
	atPickup, err := parcel.RestoreParcel(
		kernel.NewUUID(), atPickupTrack, nil,
		parcel.AtPickup,
		&longAgo, timetable.Origin.StepCount(),
		&longAgo, timetable.Local.TerminalStage(),
		longAgo,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, atPickup))

	tx := suite.db.Begin()
	suite.Require().NoError(tx.Error)
	defer tx.Rollback()

	txRepo := parcelrepo.NewGormParcelRepository(tx, suite.tracker)
	batch, err := txRepo.GetDueBatchForUpdate(ctx, timetable, now, 200)
	suite.Require().NoError(err)
	suite.Empty(batch)
}

func TestParcelRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ParcelRepositoryIntegrationTestSuite))
}
