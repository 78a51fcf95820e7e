package cmd

import (
	"time"

	"kargotrack/internal/adapters/out/postgres"
	"kargotrack/internal/core/application/usecases/commands"
	"kargotrack/internal/core/application/usecases/queries"
	"kargotrack/internal/core/domain/model/flow"
	"kargotrack/internal/core/domain/services"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	advancer   services.FlowAdvancer
}

func NewCompositionRoot(config Config, gormDB *gorm.DB) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		advancer:   services.NewFlowAdvancer(timetableFromConfig(config)),
	}
}

// timetableFromConfig starts from the built-in timetable and applies the
// environment overrides. The local chain keeps its statuses and messages;
// only the offsets move.
func timetableFromConfig(config Config) flow.Timetable {
	timetable := flow.DefaultTimetable()

	if config.SecondScanDelayHours > 0 {
		timetable.SecondScanDelay = time.Duration(config.SecondScanDelayHours) * time.Hour
	}
	if config.ReceivedAfterDays > 0 {
		timetable.ReceivedAfter = time.Duration(config.ReceivedAfterDays) * 24 * time.Hour
	}

	hubAfter := timetable.Local.Steps[0].Offset
	if config.LocalHubAfterDays > 0 {
		hubAfter = time.Duration(config.LocalHubAfterDays) * 24 * time.Hour
	}
	classifyGap := timetable.Local.Steps[1].Offset - timetable.Local.Steps[0].Offset
	if config.LocalClassifyAfterHours > 0 {
		classifyGap = time.Duration(config.LocalClassifyAfterHours) * time.Hour
	}
	timetable.Local.Steps[0].Offset = hubAfter
	timetable.Local.Steps[1].Offset = hubAfter + classifyGap

	return timetable
}

func (c *CompositionRoot) Timetable() flow.Timetable {
	return c.advancer.Timetable()
}

func (c *CompositionRoot) CreateProcessCheckpointScanCommandHandler() commands.ProcessCheckpointScanCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessCheckpointScanCommandHandler(f, c.advancer)
}

func (c *CompositionRoot) CreateClaimParcelsCommandHandler() commands.ClaimParcelsCommandHandler {
	var f commands.ParcelUoWFactory = FuncParcelUoWFactory(func() commands.ParcelUoW {
		return c.uowFactory.Create()
	})
	return commands.NewClaimParcelsCommandHandler(f)
}

func (c *CompositionRoot) CreateCatchUpParcelCommandHandler() commands.CatchUpParcelCommandHandler {
	return commands.NewCatchUpParcelCommandHandler(c.flowUoWFactory(), c.advancer)
}

func (c *CompositionRoot) CreateCatchUpOwnerParcelsCommandHandler() commands.CatchUpOwnerParcelsCommandHandler {
	return commands.NewCatchUpOwnerParcelsCommandHandler(c.flowUoWFactory(), c.advancer)
}

func (c *CompositionRoot) CreateSweepDueParcelsCommandHandler() commands.SweepDueParcelsCommandHandler {
	return commands.NewSweepDueParcelsCommandHandler(c.flowUoWFactory(), c.advancer)
}

func (c *CompositionRoot) CreateGetParcelHistoryQueryHandler() queries.GetParcelHistoryQueryHandler {
	return queries.NewGetParcelHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOwnerParcelsQueryHandler() queries.GetOwnerParcelsQueryHandler {
	return queries.NewGetOwnerParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRecentParcelsQueryHandler() queries.GetRecentParcelsQueryHandler {
	return queries.NewGetRecentParcelsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPickupPointsQueryHandler() queries.GetPickupPointsQueryHandler {
	return queries.NewGetPickupPointsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) flowUoWFactory() commands.FlowUoWFactory {
	return FuncFlowUoWFactory(func() commands.FlowUoW {
		return c.uowFactory.Create()
	})
}

type FuncParcelUoWFactory func() commands.ParcelUoW

func (f FuncParcelUoWFactory) Create() commands.ParcelUoW {
	return f()
}

type FuncFlowUoWFactory func() commands.FlowUoW

func (f FuncFlowUoWFactory) Create() commands.FlowUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
