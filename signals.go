package mirror

import "github.com/zoobzio/capitan"

// Signals for synchronization lifecycle events.
var (
	UpdateStarted      = capitan.NewSignal("mirror.update.started", "Event synchronization initiated")
	UpdateCompleted    = capitan.NewSignal("mirror.update.completed", "Event synchronization succeeded")
	UpdateFailed       = capitan.NewSignal("mirror.update.failed", "Event synchronization failed")
	BatchExecuted      = capitan.NewSignal("mirror.batch.executed", "Command batch executed")
	BatchFailed        = capitan.NewSignal("mirror.batch.failed", "Command batch failed")
	ReconcileCompleted = capitan.NewSignal("mirror.reconcile.completed", "Membership set reconciled")
	MessageEvicted     = capitan.NewSignal("mirror.list.evicted", "Bounded list head evicted")
	ReadCompleted      = capitan.NewSignal("mirror.read.completed", "Cached value read succeeded")
	ReadFailed         = capitan.NewSignal("mirror.read.failed", "Cached value read failed")
)

// Field keys for event extraction.
var (
	FieldEvent    = capitan.NewStringKey("event")
	FieldKey      = capitan.NewStringKey("key")
	FieldType     = capitan.NewStringKey("type")
	FieldOps      = capitan.NewIntKey("ops")
	FieldAtomic   = capitan.NewBoolKey("atomic")
	FieldDuration = capitan.NewDurationKey("duration")
	FieldError    = capitan.NewErrorKey("error")
	FieldAdded    = capitan.NewIntKey("added")
	FieldRemoved  = capitan.NewIntKey("removed")
	FieldFound    = capitan.NewBoolKey("found")
	FieldIDs      = capitan.NewKey[[]uint64]("ids", "mirror.IDs")
)
