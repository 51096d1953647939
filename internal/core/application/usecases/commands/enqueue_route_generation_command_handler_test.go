package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fooddrop/internal/core/application/usecases/commands"
	"fooddrop/internal/core/domain/model/job"
	"fooddrop/internal/core/domain/model/kernel"
	"fooddrop/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	args := m.Called(ctx, j)
	return args.Error(0)
}
func (m *MockJobRepository) Update(_ context.Context, _ *job.Job) error { return nil }
func (m *MockJobRepository) Get(_ context.Context, _ kernel.UUID) (*job.Job, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockJobRepository) GetAllByProgress(_ context.Context, _ job.Progress) ([]*job.Job, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockJobRepository) GetAll(_ context.Context) ([]*job.Job, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockJobRepository) ClaimNextQueued(_ context.Context, _ time.Time) (*job.Job, error) {
	return nil, errors.New("not implemented in mock")
}
func (m *MockJobRepository) ResetOrphaned(_ context.Context, _ time.Time) (int, error) {
	return 0, errors.New("not implemented in mock")
}
func (m *MockJobRepository) FailStuck(_ context.Context, _ time.Time, _ string, _ time.Time) (int, error) {
	return 0, errors.New("not implemented in mock")
}

type MockJobUoW struct{ mock.Mock }

func (m *MockJobUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockJobUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockJobUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockJobUoW) JobRepository() ports.JobRepository {
	args := m.Called()
	return args.Get(0).(ports.JobRepository)
}

type MockJobUoWFactory struct{ mock.Mock }

func (m *MockJobUoWFactory) Create() commands.JobUoW {
	args := m.Called()
	return args.Get(0).(commands.JobUoW)
}

func enqueueCommand(t *testing.T) commands.EnqueueRouteGenerationCommand {
	t.Helper()
	cmd, err := commands.NewEnqueueRouteGenerationCommand(
		kernel.NewUUID(), kernel.NewUUID(), job.Settings{NumRoutes: 2})
	require.NoError(t, err)
	return cmd
}

func TestEnqueueRouteGenerationCommandHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	cmd := enqueueCommand(t)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.MatchedBy(func(j *job.Job) bool {
			return j.Progress() == job.Queued && j.ID().IsEqual(cmd.JobID())
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewEnqueueRouteGenerationCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestEnqueueRouteGenerationCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := context.Background()
	cmd := commands.EnqueueRouteGenerationCommand{} // not constructed properly
	factory := new(MockJobUoWFactory)
	h := commands.NewEnqueueRouteGenerationCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestEnqueueRouteGenerationCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := context.Background()
	cmd := enqueueCommand(t)

	uow := new(MockJobUoW)
	factory := new(MockJobUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	h := commands.NewEnqueueRouteGenerationCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
}

func TestEnqueueRouteGenerationCommandHandler_Handle_AddError(t *testing.T) {
	ctx := context.Background()
	cmd := enqueueCommand(t)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*job.Job")).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewEnqueueRouteGenerationCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestEnqueueRouteGenerationCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := context.Background()
	cmd := enqueueCommand(t)

	repo := new(MockJobRepository)
	uow := new(MockJobUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("JobRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*job.Job")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockJobUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewEnqueueRouteGenerationCommandHandler(factory)
	err := h.Handle(ctx, cmd)
	require.Error(t, err)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
