package commands_test

import (
	"context"
	"errors"
	"time"

	"kargotrack/internal/core/application/usecases/commands"
	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/model/kernel"
	"kargotrack/internal/core/domain/model/parcel"
	"kargotrack/internal/core/domain/model/pickuppoint"
	"kargotrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepository struct{ mock.Mock }

func (m *MockParcelRepository) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Update(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepository) Get(_ context.Context, _ kernel.UUID) (*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetByTrackNumber(_ context.Context, _ kernel.TrackNumber) (*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetByTrackNumberForUpdate(
	ctx context.Context, trackNumber kernel.TrackNumber,
) (*parcel.Parcel, error) {
	args := m.Called(ctx, trackNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetForUpdate(_ context.Context, _ kernel.UUID) (*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAllByOwner(_ context.Context, _ kernel.UUID) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetAllByOwnerForUpdate(
	ctx context.Context, ownerID kernel.UUID,
) ([]*parcel.Parcel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepository) GetRecent(_ context.Context, _ int) ([]*parcel.Parcel, error) {
	return nil, errors.New("not implemented in mock")
}

func (m *MockParcelRepository) GetDueBatchForUpdate(
	ctx context.Context, timetable flow.Timetable, now time.Time, limit int,
) ([]*parcel.Parcel, error) {
	args := m.Called(ctx, timetable, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

type MockHistoryRepository struct{ mock.Mock }

func (m *MockHistoryRepository) Append(ctx context.Context, parcelID kernel.UUID, event *parcel.HistoryEvent) error {
	args := m.Called(ctx, parcelID, event)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetAllByParcel(_ context.Context, _ kernel.UUID) ([]*parcel.HistoryEvent, error) {
	return nil, errors.New("not implemented in mock")
}

type MockPickupPointRepository struct{ mock.Mock }

func (m *MockPickupPointRepository) Add(_ context.Context, _ *pickuppoint.PickupPoint) error {
	return errors.New("not implemented in mock")
}

func (m *MockPickupPointRepository) Get(ctx context.Context, id kernel.UUID) (*pickuppoint.PickupPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickuppoint.PickupPoint), args.Error(1)
}

func (m *MockPickupPointRepository) GetAllActive(_ context.Context) ([]*pickuppoint.PickupPoint, error) {
	return nil, errors.New("not implemented in mock")
}

// MockUoW serves all three unit of work shapes used by the command handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUoW) HistoryRepository() ports.HistoryRepository {
	args := m.Called()
	return args.Get(0).(ports.HistoryRepository)
}

func (m *MockUoW) PickupPointRepository() ports.PickupPointRepository {
	args := m.Called()
	return args.Get(0).(ports.PickupPointRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockFlowUoWFactory struct{ mock.Mock }

func (m *MockFlowUoWFactory) Create() commands.FlowUoW {
	args := m.Called()
	return args.Get(0).(commands.FlowUoW)
}

type MockParcelUoWFactory struct{ mock.Mock }

func (m *MockParcelUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}
