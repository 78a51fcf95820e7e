// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"kargotrack/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// ParcelRepoFactory provides access to the parcel repository within a transaction.
	ParcelRepoFactory interface {
		ParcelRepository() ports.ParcelRepository
	}

	// HistoryRepoFactory provides access to the history ledger within a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// PickupPointRepoFactory provides access to the pickup point repository within a transaction.
	PickupPointRepoFactory interface {
		PickupPointRepository() ports.PickupPointRepository
	}

	// ParcelUoW manages transactions for parcel-only operations (claiming).
	ParcelUoW interface {
		TxManager
		ParcelRepoFactory
	}

	// ParcelUoWFactory creates new parcel unit of work instances.
	ParcelUoWFactory interface {
		Create() ParcelUoW
	}

	// FlowUoW manages transactions touching a parcel together with its
	// ledger: sweeps and read-time catch-ups. The ledger append and the
	// stage update must commit as one unit.
	FlowUoW interface {
		TxManager
		ParcelRepoFactory
		HistoryRepoFactory
	}

	// FlowUoWFactory creates new flow unit of work instances.
	FlowUoWFactory interface {
		Create() FlowUoW
	}

	// UoW manages transactions across parcels, the ledger and pickup
	// points. Used by the checkpoint scan, which composes arrival messages
	// from pickup point data.
	UoW interface {
		TxManager
		ParcelRepoFactory
		HistoryRepoFactory
		PickupPointRepoFactory
	}

	// UoWFactory creates new unit of work instances for scan operations.
	UoWFactory interface {
		Create() UoW
	}
)
