package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"office-portal/pkg/resources"
)

// transitionLockKey is the advisory lock key serializing approval
// transitions, so the overlap re-validation and the status write happen
// atomically with respect to other approvers.
const transitionLockKey int64 = 460_916_001

type Repository interface {
	ListEvents(ctx context.Context) ([]Event, error)
	GetEventById(ctx context.Context, id string) (*Event, error)
	SaveEvent(ctx context.Context, event *Event) (*Event, error)
	TransitionEvent(ctx context.Context, event *Event, target Status, approverId string, remarks string, confirmOverlap bool) (*Event, error)
}

type repository struct {
	tracer  trace.Tracer
	metrics *DBMetrics
	pool    resources.DBInstance
}

func NewRepository(pool resources.DBInstance) Repository {
	return &repository{
		tracer:  otel.GetTracerProvider().Tracer("office-portal/core"),
		metrics: NewDBMetrics(),
		pool:    pool,
	}
}

const eventColumns = `e.id, e.title, COALESCE(e.description, ''), e.start_time, e.end_time, e.budget,
		 e.status, e.created_by, u.name, e.approved_by, e.approval_remarks, e.created_at, e.updated_at`

const returningColumns = `id, title, COALESCE(description, ''), start_time, end_time, budget,
			status, created_by, approved_by, approval_remarks, created_at, updated_at`

func (r *repository) ListEvents(ctx context.Context) ([]Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "list_events", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.ListEvents")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN users u ON u.id = e.created_by
		 ORDER BY e.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event

	for rows.Next() {
		var e Event

		err = rows.Scan(
			&e.Id, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Budget,
			&e.Status, &e.CreatedBy, &e.CreatorName, &e.ApprovedBy, &e.ApprovalRemarks, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}

		events = append(events, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to read event rows: %w", err)
	}

	return events, nil
}

func (r *repository) GetEventById(ctx context.Context, id string) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "get_event_by_id", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.GetEventById")
	defer span.End()

	var e Event

	err = r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+`
		 FROM events e
		 JOIN users u ON u.id = e.created_by
		 WHERE e.id = $1`,
		id,
	).Scan(
		&e.Id, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.Budget,
		&e.Status, &e.CreatedBy, &e.CreatorName, &e.ApprovedBy, &e.ApprovalRemarks, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEventNotFound
		}

		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	return &e, nil
}

func (r *repository) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "save_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.SaveEvent")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	var saved Event

	err = tx.QueryRow(ctx,
		`INSERT INTO events (title, description, start_time, end_time, budget, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+returningColumns,
		event.Title, event.Description, event.StartTime, event.EndTime, event.Budget, event.CreatedBy).
		Scan(
			&saved.Id, &saved.Title, &saved.Description, &saved.StartTime, &saved.EndTime, &saved.Budget,
			&saved.Status, &saved.CreatedBy, &saved.ApprovedBy, &saved.ApprovalRemarks, &saved.CreatedAt, &saved.UpdatedAt,
		)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &saved, nil
}

// TransitionEvent applies pending -> approved|rejected atomically: status,
// approver, remarks, updated_at and the creator's notification all land in
// one transaction or not at all. Approval serializes on an advisory lock and
// re-validates overlap against the approved set read under that lock, which
// closes the check-then-act window between the caller's pre-check and the
// write.
func (r *repository) TransitionEvent(ctx context.Context, event *Event, target Status, approverId string, remarks string, confirmOverlap bool) (*Event, error) {
	start := time.Now()

	var err error

	defer func() { r.metrics.Observe(ctx, "transition_event", start, err) }()

	ctx, span := r.tracer.Start(ctx, "repository.TransitionEvent")
	defer span.End()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback(ctx) }()

	if target == StatusApproved {
		_, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", transitionLockKey)
		if err != nil {
			return nil, fmt.Errorf("failed to take transition lock: %w", err)
		}

		approved, lockedErr := lockedApprovedEvents(ctx, tx, event.Id)
		if lockedErr != nil {
			err = lockedErr
			return nil, err
		}

		conflicts := Overlapping(approved, event.StartTime, event.EndTime, event.Id)
		if len(conflicts) > 0 && !confirmOverlap {
			err = &ConflictError{Stage: "approval", Conflicts: conflicts}
			return nil, err
		}
	}

	var updated Event

	err = tx.QueryRow(ctx,
		`UPDATE events
		 SET status = $2, approved_by = $3, approval_remarks = $4, updated_at = now()
		 WHERE id = $1 AND status = 'pending'
		 RETURNING `+returningColumns,
		event.Id, target, approverId, remarks).
		Scan(
			&updated.Id, &updated.Title, &updated.Description, &updated.StartTime, &updated.EndTime, &updated.Budget,
			&updated.Status, &updated.CreatedBy, &updated.ApprovedBy, &updated.ApprovalRemarks, &updated.CreatedAt, &updated.UpdatedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Someone else finalized it between the read and this write.
			err = ErrEventFinalized
		} else {
			err = fmt.Errorf("failed to update event status: %w", err)
		}

		return nil, err
	}

	notification := transitionNotification(&updated)

	_, err = tx.Exec(ctx,
		`INSERT INTO notifications (user_id, type, title, message, link)
		 VALUES ($1, $2, $3, $4, $5)`,
		notification.UserId, notification.Type, notification.Title, notification.Message, notification.Link)
	if err != nil {
		return nil, fmt.Errorf("failed to insert notification: %w", err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	updated.CreatorName = event.CreatorName

	return &updated, nil
}

func lockedApprovedEvents(ctx context.Context, tx pgx.Tx, excludeId string) ([]Event, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, title, start_time, end_time, status
		 FROM events
		 WHERE status = 'approved' AND id <> $1`,
		excludeId)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved events: %w", err)
	}
	defer rows.Close()

	var approved []Event

	for rows.Next() {
		var e Event

		err = rows.Scan(&e.Id, &e.Title, &e.StartTime, &e.EndTime, &e.Status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approved event row: %w", err)
		}

		approved = append(approved, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to read approved event rows: %w", err)
	}

	return approved, nil
}

func transitionNotification(event *Event) Notification {
	kind, verb := "event_approved", "approved"
	if event.Status == StatusRejected {
		kind, verb = "event_rejected", "rejected"
	}

	return Notification{
		UserId:  event.CreatedBy,
		Type:    kind,
		Title:   "Event " + verb,
		Message: fmt.Sprintf("Your event %q was %s.", event.Title, verb),
		Link:    "/events",
	}
}

/*

 */

type DBMetrics struct {
	qTotal   metric.Int64Counter
	qErrors  metric.Int64Counter
	qLatency metric.Float64Histogram
}

func NewDBMetrics() *DBMetrics {
	meter := otel.Meter("office-portal/db")

	qTotal, _ := meter.Int64Counter("db.query.total")
	qErrors, _ := meter.Int64Counter("db.query.errors.total")
	qLatency, _ := meter.Float64Histogram("db.query.duration.ms")

	return &DBMetrics{qTotal: qTotal, qErrors: qErrors, qLatency: qLatency}
}

func (m *DBMetrics) Observe(ctx context.Context, op string, start time.Time, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", "postgres"),
		attribute.String("db.operation", op),
	}

	m.qTotal.Add(ctx, 1, metric.WithAttributes(attrs...))

	ms := float64(time.Since(start).Milliseconds())
	m.qLatency.Record(ctx, ms, metric.WithAttributes(attrs...))

	if err != nil {
		m.qErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
