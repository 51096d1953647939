package jobrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"fooddrop/internal/adapters/out/postgres/jobrepo"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// JobRepositoryIntegrationTestSuite verifies persistence and queue
// behavior against a real PostgreSQL container.
type JobRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *jobrepo.GormJobRepository
	tracker    *MockAggregateTracker
}

func (suite *JobRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&jobrepo.JobDTO{}))
}

func (suite *JobRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE jobs").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = jobrepo.NewGormJobRepository(suite.db, suite.tracker)
}

func (suite *JobRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *JobRepositoryIntegrationTestSuite) addQueuedJob(createdAt time.Time) *job.Job {
	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(),
		job.Settings{NumRoutes: 2, ReturnToWarehouse: true}, createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(j.Queue(createdAt))
	suite.Require().NoError(suite.repository.Add(context.Background(), j))
	return j
}

func (suite *JobRepositoryIntegrationTestSuite) addRunningJob(startedAt time.Time) *job.Job {
	j := suite.addQueuedJob(startedAt.Add(-time.Minute))
	suite.Require().NoError(j.Start(startedAt))
	suite.Require().NoError(suite.repository.Update(context.Background(), j))
	return j
}

func (suite *JobRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	maxStops := 4
	created := time.Now().UTC().Truncate(time.Microsecond)

	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), job.Settings{
		NumRoutes:                 3,
		MaxStopsPerRoute:          &maxStops,
		ReturnToWarehouse:         true,
		ServiceTimePerStopSeconds: 120,
	}, created)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, j))

	loaded, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(j.ID()))
	suite.True(loaded.LocationGroupID().IsEqual(j.LocationGroupID()))
	suite.Equal(job.Pending, loaded.Progress())
	suite.Equal(3, loaded.Settings().NumRoutes)
	suite.Require().NotNil(loaded.Settings().MaxStopsPerRoute)
	suite.Equal(4, *loaded.Settings().MaxStopsPerRoute)
	suite.Equal(120, loaded.Settings().ServiceTimePerStopSeconds)
	suite.WithinDuration(created, loaded.CreatedAt(), time.Millisecond)
	suite.Nil(loaded.StartedAt())
	suite.Nil(loaded.RouteGroupID())
}

func (suite *JobRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().Error(err)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_PersistsTransitions() {
	ctx := context.Background()
	j := suite.addRunningJob(time.Now().UTC())

	routeGroupID := kernel.NewUUID()
	suite.Require().NoError(j.Complete(routeGroupID, time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, j))

	loaded, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Completed, loaded.Progress())
	suite.Require().NotNil(loaded.RouteGroupID())
	suite.True(loaded.RouteGroupID().IsEqual(routeGroupID))
	suite.NotNil(loaded.FinishedAt())
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_PersistsFailureMessage() {
	ctx := context.Background()
	j := suite.addRunningJob(time.Now().UTC())

	suite.Require().NoError(j.Fail("external service error: fleet-routing returned status 503: overloaded", time.Now().UTC()))
	suite.Require().NoError(suite.repository.Update(ctx, j))

	loaded, err := suite.repository.Get(ctx, j.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Failed, loaded.Progress())
	suite.Contains(loaded.Message(), "fleet-routing")
}

func (suite *JobRepositoryIntegrationTestSuite) TestUpdate_MissingJob() {
	j, err := job.NewJob(kernel.NewUUID(), kernel.NewUUID(), job.Settings{NumRoutes: 1}, time.Now().UTC())
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), j)

	suite.Require().Error(err)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *JobRepositoryIntegrationTestSuite) TestClaimNextQueued_OldestFirst() {
	ctx := context.Background()
	now := time.Now().UTC()
	older := suite.addQueuedJob(now.Add(-2 * time.Hour))
	newer := suite.addQueuedJob(now.Add(-1 * time.Hour))

	first, err := suite.repository.ClaimNextQueued(ctx, now)
	suite.Require().NoError(err)
	suite.Require().NotNil(first)
	suite.True(first.ID().IsEqual(older.ID()))
	suite.Equal(job.Running, first.Progress())
	suite.Require().NotNil(first.StartedAt())

	second, err := suite.repository.ClaimNextQueued(ctx, now)
	suite.Require().NoError(err)
	suite.Require().NotNil(second)
	suite.True(second.ID().IsEqual(newer.ID()))

	third, err := suite.repository.ClaimNextQueued(ctx, now)
	suite.Require().NoError(err)
	suite.Nil(third)
}

func (suite *JobRepositoryIntegrationTestSuite) TestClaimNextQueued_EmptyQueue() {
	claimed, err := suite.repository.ClaimNextQueued(context.Background(), time.Now().UTC())

	suite.Require().NoError(err)
	suite.Nil(claimed)
}

func (suite *JobRepositoryIntegrationTestSuite) TestClaimNextQueued_AtMostOneConcurrentClaimant() {
	ctx := context.Background()
	target := suite.addQueuedJob(time.Now().UTC().Add(-time.Hour))

	const claimants = 8
	results := make([]*job.Job, claimants)
	errors := make([]error, claimants)

	var wg sync.WaitGroup
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			repo := jobrepo.NewGormJobRepository(suite.db, suite.tracker)
			results[i], errors[i] = repo.ClaimNextQueued(ctx, time.Now().UTC())
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < claimants; i++ {
		suite.Require().NoError(errors[i])
		if results[i] != nil {
			winners++
			suite.True(results[i].ID().IsEqual(target.ID()))
		}
	}
	suite.Equal(1, winners)

	loaded, err := suite.repository.Get(ctx, target.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Running, loaded.Progress())
}

func (suite *JobRepositoryIntegrationTestSuite) TestResetOrphaned() {
	ctx := context.Background()
	now := time.Now().UTC()
	running := suite.addRunningJob(now.Add(-time.Hour))
	queued := suite.addQueuedJob(now.Add(-time.Hour))

	count, err := suite.repository.ResetOrphaned(ctx, now)
	suite.Require().NoError(err)
	suite.Equal(1, count)

	loaded, err := suite.repository.Get(ctx, running.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Queued, loaded.Progress())
	suite.Nil(loaded.StartedAt())

	untouched, err := suite.repository.Get(ctx, queued.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Queued, untouched.Progress())
}

func (suite *JobRepositoryIntegrationTestSuite) TestFailStuck() {
	ctx := context.Background()
	now := time.Now().UTC()
	stuck := suite.addRunningJob(now.Add(-2 * time.Hour))
	fresh := suite.addRunningJob(now.Add(-time.Minute))

	count, err := suite.repository.FailStuck(ctx, now.Add(-time.Hour), "timeout exceeded: route generation took too long", now)
	suite.Require().NoError(err)
	suite.Equal(1, count)

	failed, err := suite.repository.Get(ctx, stuck.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Failed, failed.Progress())
	suite.Contains(failed.Message(), "timeout exceeded")
	suite.NotNil(failed.FinishedAt())

	stillRunning, err := suite.repository.Get(ctx, fresh.ID())
	suite.Require().NoError(err)
	suite.Equal(job.Running, stillRunning.Progress())
}

func (suite *JobRepositoryIntegrationTestSuite) TestGetAllByProgress() {
	ctx := context.Background()
	now := time.Now().UTC()
	suite.addQueuedJob(now.Add(-3 * time.Hour))
	suite.addQueuedJob(now.Add(-1 * time.Hour))
	suite.addRunningJob(now)

	queued, err := suite.repository.GetAllByProgress(ctx, job.Queued)
	suite.Require().NoError(err)
	suite.Require().Len(queued, 2)
	// newest first
	suite.True(queued[0].CreatedAt().After(queued[1].CreatedAt()))

	all, err := suite.repository.GetAll(ctx)
	suite.Require().NoError(err)
	suite.Len(all, 3)
}

func TestJobRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(JobRepositoryIntegrationTestSuite))
}
