// Package routing implements the state machine that moves a file through the
// organizational hierarchy. Every mutation runs inside a per-file critical
// section and pairs a ledger append with the file's location update. Durable
// storage commits the pair in one transaction (see Applier); the fallback
// path writes the reversible location first and rolls it back if the append
// fails, so the ledger and the record do not drift apart.
//
// Per-file state is derived from the ledger, never stored:
//
//	Presented -> Transferred -> Accepted -> (Transferred -> Accepted ...)
//
// Disabled is absorbing and reachable from every state.
package routing

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"filetrack/internal/directory"
	"filetrack/internal/file"
	"filetrack/internal/ledger"
	"filetrack/internal/notify"
	"filetrack/internal/platform/metrics"
	dErrors "filetrack/pkg/domain-errors"
	id "filetrack/pkg/domain"
	"filetrack/pkg/platform/sentinel"
	"filetrack/pkg/requestcontext"
)

// State is a file's derived routing state.
type State string

const (
	StatePresented   State = "presented"
	StateTransferred State = "transferred"
	StateAccepted    State = "accepted"
	StateDisabled    State = "disabled"
)

// Applier commits a transfer's ledger append and location write as one
// durable unit. Returns sentinel.ErrConflict when the version check fails.
type Applier interface {
	ApplyTransfer(ctx context.Context, event ledger.Event, expectedVersion int64) error
}

// Engine validates and executes routing commands.
type Engine struct {
	files    file.Store
	events   ledger.Store
	resolver *directory.Resolver
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *slog.Logger

	tx              *fileTx
	applier         Applier
	conflictRetries int
}

// Option configures the Engine.
type Option func(*Engine)

// WithLockWait bounds how long a call waits for the per-file lock.
func WithLockWait(wait time.Duration) Option {
	return func(e *Engine) {
		e.tx = newFileTx(wait)
	}
}

// WithApplier installs an atomic commit path for transfers. Without one the
// engine falls back to sequential writes with a compensating revert.
func WithApplier(a Applier) Option {
	return func(e *Engine) {
		e.applier = a
	}
}

// WithConflictRetries bounds internal retries of store-level version
// conflicts before surfacing them to the caller.
func WithConflictRetries(retries int) Option {
	return func(e *Engine) {
		if retries >= 0 {
			e.conflictRetries = retries
		}
	}
}

func NewEngine(
	files file.Store,
	events ledger.Store,
	resolver *directory.Resolver,
	notifier notify.Notifier,
	m *metrics.Metrics,
	logger *slog.Logger,
	opts ...Option,
) *Engine {
	e := &Engine{
		files:           files,
		events:          events,
		resolver:        resolver,
		notifier:        notifier,
		metrics:         m,
		logger:          logger,
		tx:              newFileTx(defaultLockWait),
		conflictRetries: 3,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transfer moves the file to the destination and leaves it awaiting
// acceptance. At most one transfer may be in flight per file.
//
// Errors: CodeNotFound (file or destination unit absent), CodeInvalidState
// (disabled, or a transfer already pending), CodeInvalidDestination
// (hierarchy mismatch), CodeConflict (contention, retryable).
func (e *Engine) Transfer(ctx context.Context, fileID id.FileID, dest directory.Destination, actorID id.UserID, remarks string) (ledger.Event, error) {
	if actorID.IsNil() {
		return ledger.Event{}, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}

	var appended ledger.Event
	err := e.tx.RunInTx(ctx, fileID, func() error {
		record, chain, err := e.loadForMutation(ctx, fileID)
		if err != nil {
			return err
		}
		if ledger.PendingTransfer(chain) != nil {
			return dErrors.New(dErrors.CodeInvalidState, "file already has a transfer awaiting acceptance")
		}

		destination, err := e.resolver.Resolve(ctx, dest, record.Location.Office)
		if err != nil {
			return err
		}

		event := ledger.Event{
			ID:            id.NewEventID(),
			FileID:        fileID,
			Seq:           int64(len(chain)) + 1,
			Kind:          ledger.KindTransfer,
			From:          record.Location,
			To:            destination,
			ActorID:       actorID,
			Remarks:       remarks,
			IsTransferred: true,
			OccurredAt:    requestcontext.Now(ctx),
		}
		if err := e.commitTransfer(ctx, event, record.Version); err != nil {
			return err
		}
		appended = event
		return nil
	})
	if err != nil {
		e.countRejection(err)
		return ledger.Event{}, err
	}

	e.metrics.TransfersTotal.Inc()
	e.emit(ctx, notify.KindTransfer, appended)
	return appended, nil
}

// Accept resolves the file's pending transfer. The location was already
// updated at transfer time; acceptance records who received the file and
// when.
//
// Errors: CodeNotFound, CodeInvalidState (disabled, or nothing to accept),
// CodeConflict (contention, retryable).
func (e *Engine) Accept(ctx context.Context, fileID id.FileID, actorID id.UserID, remarks string, approvedAt *time.Time) (ledger.Event, error) {
	if actorID.IsNil() {
		return ledger.Event{}, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}

	var appended ledger.Event
	err := e.tx.RunInTx(ctx, fileID, func() error {
		record, chain, err := e.loadForMutation(ctx, fileID)
		if err != nil {
			return err
		}
		pending := ledger.PendingTransfer(chain)
		if pending == nil {
			return dErrors.New(dErrors.CodeInvalidState, "file has no pending transfer to accept")
		}

		// Back-dating is allowed for paper forms processed late, but never
		// past the transfer being resolved: timestamps stay ordered.
		occurredAt := requestcontext.Now(ctx)
		if approvedAt != nil && !approvedAt.IsZero() {
			occurredAt = *approvedAt
			if occurredAt.Before(pending.OccurredAt) {
				occurredAt = pending.OccurredAt
			}
		}
		event := ledger.Event{
			ID:         id.NewEventID(),
			FileID:     fileID,
			Seq:        int64(len(chain)) + 1,
			Kind:       ledger.KindAcceptance,
			From:       record.Location,
			To:         record.Location,
			ActorID:    actorID,
			Remarks:    remarks,
			IsApproved: true,
			OccurredAt: occurredAt,
		}
		if err := e.events.Append(ctx, event); err != nil {
			return translateStoreErr(err)
		}
		appended = event
		return nil
	})
	if err != nil {
		e.countRejection(err)
		return ledger.Event{}, err
	}

	e.metrics.AcceptancesTotal.Inc()
	e.emit(ctx, notify.KindAcceptance, appended)
	return appended, nil
}

// Disable soft-deletes the file; the record and its ledger are retained for
// audit. Allowed regardless of transfer state, idempotent by contract.
func (e *Engine) Disable(ctx context.Context, fileID id.FileID, actorID id.UserID) error {
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}

	err := e.tx.RunInTx(ctx, fileID, func() error {
		record, err := e.files.FindByID(ctx, fileID)
		if err != nil {
			return translateStoreErr(err)
		}
		if record.IsDisabled {
			return nil
		}
		if err := e.files.SetDisabled(ctx, fileID, true); err != nil {
			return translateStoreErr(err)
		}
		e.metrics.DisablesTotal.Inc()
		e.logger.InfoContext(ctx, "file disabled",
			"file_id", fileID.String(),
			"actor_id", actorID.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil
	})
	if err != nil {
		e.countRejection(err)
	}
	return err
}

// State derives the file's routing state from the ledger.
func (e *Engine) State(ctx context.Context, fileID id.FileID) (State, error) {
	record, err := e.files.FindByID(ctx, fileID)
	if err != nil {
		return "", translateStoreErr(err)
	}
	if record.IsDisabled {
		return StateDisabled, nil
	}
	chain, err := e.events.ListForFile(ctx, fileID)
	if err != nil {
		return "", translateStoreErr(err)
	}
	switch {
	case ledger.PendingTransfer(chain) != nil:
		return StateTransferred, nil
	case len(chain) > 0:
		return StateAccepted, nil
	default:
		return StatePresented, nil
	}
}

// loadForMutation fetches the record and its chain, rejecting disabled files.
func (e *Engine) loadForMutation(ctx context.Context, fileID id.FileID) (file.Record, []ledger.Event, error) {
	record, err := e.files.FindByID(ctx, fileID)
	if err != nil {
		return file.Record{}, nil, translateStoreErr(err)
	}
	if record.IsDisabled {
		return file.Record{}, nil, dErrors.New(dErrors.CodeInvalidState, "file is disabled")
	}
	chain, err := e.events.ListForFile(ctx, fileID)
	if err != nil {
		return file.Record{}, nil, translateStoreErr(err)
	}
	return record, chain, nil
}

// commitTransfer lands the transfer event and the location write. With an
// Applier both go down in one storage transaction; the fallback path writes
// the location first and reverts it if the append fails, so a storage error
// mid-transfer never leaves a Transfer event without its location update.
// Version conflicts mean an out-of-band writer touched the record and are
// retried against the fresh version, bounded by conflictRetries.
func (e *Engine) commitTransfer(ctx context.Context, event ledger.Event, version int64) error {
	if e.applier != nil {
		for attempt := 0; ; attempt++ {
			err := e.applier.ApplyTransfer(ctx, event, version)
			if err == nil {
				return nil
			}
			if !errors.Is(err, sentinel.ErrConflict) || attempt >= e.conflictRetries {
				return translateStoreErr(err)
			}
			record, err := e.files.FindByID(ctx, event.FileID)
			if err != nil {
				return translateStoreErr(err)
			}
			version = record.Version
		}
	}

	committed, err := e.updateLocation(ctx, event.FileID, event.To, version)
	if err != nil {
		return err
	}
	if err := e.events.Append(ctx, event); err != nil {
		if revertErr := e.files.UpdateLocation(ctx, event.FileID, event.From, committed); revertErr != nil {
			e.logger.ErrorContext(ctx, "location revert failed after append error",
				"file_id", event.FileID.String(),
				"error", revertErr,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return translateStoreErr(err)
	}
	return nil
}

// updateLocation performs the version-checked location write and returns the
// version the record carries after it succeeds.
func (e *Engine) updateLocation(ctx context.Context, fileID id.FileID, destination directory.Location, version int64) (int64, error) {
	for attempt := 0; ; attempt++ {
		err := e.files.UpdateLocation(ctx, fileID, destination, version)
		if err == nil {
			return version + 1, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) || attempt >= e.conflictRetries {
			return 0, translateStoreErr(err)
		}
		record, err := e.files.FindByID(ctx, fileID)
		if err != nil {
			return 0, translateStoreErr(err)
		}
		version = record.Version
	}
}

// emit hands the event to the notification collaborator. Best-effort:
// failures are logged and counted, never propagated.
func (e *Engine) emit(ctx context.Context, kind notify.Kind, event ledger.Event) {
	// Address the most specific destination unit.
	var targetID uuid.UUID
	switch {
	case !event.To.Faat.IsNil():
		targetID = uuid.UUID(event.To.Faat)
	case !event.To.Department.IsNil():
		targetID = uuid.UUID(event.To.Department)
	default:
		targetID = uuid.UUID(event.To.Office)
	}

	notifyErr := e.notifier.Notify(ctx, notify.Event{
		Kind:         kind,
		FileID:       event.FileID,
		TargetUnitID: targetID,
		ActorID:      event.ActorID,
		Timestamp:    event.OccurredAt,
	})
	if notifyErr != nil {
		e.metrics.NotifyFailures.Inc()
		e.logger.ErrorContext(ctx, "notification failed",
			"kind", string(kind),
			"file_id", event.FileID.String(),
			"error", notifyErr,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (e *Engine) countRejection(err error) {
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeConflict || code == dErrors.CodeTimeout {
		e.metrics.RoutingConflicts.Inc()
		return
	}
	e.metrics.RoutingRejections.WithLabelValues(string(code)).Inc()
}

func translateStoreErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "file not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "concurrent update, retry")
	default:
		var de *dErrors.Error
		if errors.As(err, &de) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "storage failure")
	}
}
