package repository

import (
	"context"
	"fmt"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	// CreateExclusive inserts the reservation after re-verifying per-night
	// capacity inside a transaction that holds a per-property advisory
	// lock. The lock serializes concurrent writers for the same property,
	// so two requests racing for the last open night cannot both succeed.
	// A non-nil night means the insert was refused; it is the first night
	// already at capacity.
	CreateExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error)

	// RescheduleExclusive moves an existing reservation to new dates under
	// the same per-property lock, excluding the reservation's own nights
	// from the capacity count. Updates dates, nights and the recomputed
	// snapshot fields only.
	RescheduleExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus) (int64, error)
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)

	// FindOverlapping returns reservations of the property whose range
	// overlaps [checkIn, checkOut) and whose status still occupies
	// inventory.
	FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error)

	// FindOccupyingByProperty returns every pending/confirmed reservation
	// of the property, used by the suspension cascade.
	FindOccupyingByProperty(ctx context.Context, propertyID uuid.UUID) ([]*entity.Reservation, error)

	// FindAutoConfirmable returns pending reservations created at or
	// before the cutoff that have never been auto-confirmed.
	FindAutoConfirmable(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Reservation, error)

	Delete(ctx context.Context, id uuid.UUID) error

	// Status transitions. Each update is conditional on the required
	// source state and reports whether a row actually changed, which keeps
	// transitions monotonic under concurrent actors.
	MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkAutoConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkRejected(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, reason, policy string, refund float64) (bool, error)
	CancelForSuspension(ctx context.Context, id uuid.UUID, at time.Time, reason string) (bool, error)
	MarkCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationColumns = `id, property_id, customer_id, check_in, check_out, nights, guests, status,
	base_total, cleaning_fee, service_fee, subtotal, taxes, discount, total, coupon_code, coupon_percent,
	coupon_id, confirmed_at, auto_confirmed_at, cancelled_at, checked_in_at, checked_out_at,
	cancellation_reason, cancellation_policy, refund_amount, created_at, updated_at`

// querier is satisfied by both the pool wrapper and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.PropertyID,
		&res.CustomerID,
		&res.CheckIn,
		&res.CheckOut,
		&res.Nights,
		&res.Guests,
		&res.Status,
		&res.Price.BaseTotal,
		&res.Price.CleaningFee,
		&res.Price.ServiceFee,
		&res.Price.Subtotal,
		&res.Price.Taxes,
		&res.Price.Discount,
		&res.Price.Total,
		&res.Price.CouponCode,
		&res.Price.CouponPercent,
		&res.CouponID,
		&res.ConfirmedAt,
		&res.AutoConfirmedAt,
		&res.CancelledAt,
		&res.CheckedInAt,
		&res.CheckedOutAt,
		&res.CancellationReason,
		&res.CancellationPolicy,
		&res.RefundAmount,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func collectReservations(rows pgx.Rows) ([]*entity.Reservation, error) {
	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, nil
}

func findOverlapping(ctx context.Context, q querier, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1
		  AND check_in < $3 AND check_out > $2
		  AND status NOT IN ('cancelled', 'rejected')
		ORDER BY check_in
	`

	rows, err := q.Query(ctx, query, propertyID, checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("find overlapping reservations for property %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error) {
	reservations, err := findOverlapping(ctx, r.db, propertyID, checkIn, checkOut)
	if err != nil {
		r.log.Error("Failed to find overlapping reservations",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) CreateExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockProperty(ctx, tx, res.PropertyID); err != nil {
		return nil, err
	}

	overlapping, err := findOverlapping(ctx, tx, res.PropertyID, res.CheckIn, res.CheckOut)
	if err != nil {
		return nil, err
	}

	if conflict := entity.FirstConflictNight(overlapping, res.CheckIn, res.CheckOut, totalRooms, ""); conflict != nil {
		return conflict, nil
	}

	insert := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`

	_, err = tx.Exec(ctx, insert,
		res.ID,
		res.PropertyID,
		res.CustomerID,
		res.CheckIn,
		res.CheckOut,
		res.Nights,
		res.Guests,
		res.Status,
		res.Price.BaseTotal,
		res.Price.CleaningFee,
		res.Price.ServiceFee,
		res.Price.Subtotal,
		res.Price.Taxes,
		res.Price.Discount,
		res.Price.Total,
		res.Price.CouponCode,
		res.Price.CouponPercent,
		res.CouponID,
		res.ConfirmedAt,
		res.AutoConfirmedAt,
		res.CancelledAt,
		res.CheckedInAt,
		res.CheckedOutAt,
		res.CancellationReason,
		res.CancellationPolicy,
		res.RefundAmount,
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to insert reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
			zap.String("property_id", res.PropertyID.String()),
		)
		return nil, fmt.Errorf("insert reservation %s: %w", res.ID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create reservation: %w", err)
	}

	return nil, nil
}

func (r *reservationRepository) RescheduleExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin reschedule reservation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := lockProperty(ctx, tx, res.PropertyID); err != nil {
		return nil, err
	}

	overlapping, err := findOverlapping(ctx, tx, res.PropertyID, res.CheckIn, res.CheckOut)
	if err != nil {
		return nil, err
	}

	if conflict := entity.FirstConflictNight(overlapping, res.CheckIn, res.CheckOut, totalRooms, res.ID.String()); conflict != nil {
		return conflict, nil
	}

	update := `
		UPDATE reservations
		SET check_in = $2, check_out = $3, nights = $4, base_total = $5, subtotal = $6,
		    discount = $7, total = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, update,
		res.ID,
		res.CheckIn,
		res.CheckOut,
		res.Nights,
		res.Price.BaseTotal,
		res.Price.Subtotal,
		res.Price.Discount,
		res.Price.Total,
		res.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to reschedule reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return nil, fmt.Errorf("reschedule reservation %s: %w", res.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("reservation %s not found", res.ID.String())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit reschedule reservation: %w", err)
	}

	return nil, nil
}

func lockProperty(ctx context.Context, tx pgx.Tx, propertyID uuid.UUID) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, propertyID.String()); err != nil {
		return fmt.Errorf("lock property %s: %w", propertyID.String(), err)
	}
	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	res, err := scanReservation(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("find reservation by ID %s: %w", id.String(), err)
	}

	return res, nil
}

func (r *reservationRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE customer_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, customerID, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find reservations by customer ID %s: %w", customerID.String(), err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE customer_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, customerID, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count reservations by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return 0, fmt.Errorf("count reservations by customer ID %s: %w", customerID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1
		ORDER BY check_in DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, propertyID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reservations by property ID",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find reservations by property ID %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) FindOccupyingByProperty(ctx context.Context, propertyID uuid.UUID) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE property_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY check_in
	`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		r.log.Error("Failed to find occupying reservations",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find occupying reservations for property %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) FindAutoConfirmable(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE status = 'pending' AND created_at <= $1 AND auto_confirmed_at IS NULL
		ORDER BY created_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, cutoff, limit)
	if err != nil {
		r.log.Error("Failed to find auto-confirmable reservations", zap.Error(err))
		return nil, fmt.Errorf("find auto-confirmable reservations: %w", err)
	}
	defer rows.Close()

	return collectReservations(rows)
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM reservations WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("delete reservation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id.String())
	}

	r.log.Info("Reservation deleted", zap.String("reservation_id", id.String()))
	return nil
}

func (r *reservationRepository) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'confirmed', confirmed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	return r.transition(ctx, "confirm", query, id, at)
}

func (r *reservationRepository) MarkAutoConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'confirmed', confirmed_at = $2, auto_confirmed_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'pending' AND auto_confirmed_at IS NULL
	`
	return r.transition(ctx, "auto-confirm", query, id, at)
}

func (r *reservationRepository) MarkRejected(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'rejected', updated_at = $2
		WHERE id = $1 AND status = 'pending'
	`
	return r.transition(ctx, "reject", query, id, at)
}

func (r *reservationRepository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, reason, policy string, refund float64) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3,
		    cancellation_policy = $4, refund_amount = $5, updated_at = $2
		WHERE id = $1 AND status = 'confirmed'
	`

	result, err := r.db.Exec(ctx, query, id, at, reason, policy, refund)
	if err != nil {
		r.log.Error("Failed to cancel reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("cancel reservation %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *reservationRepository) CancelForSuspension(ctx context.Context, id uuid.UUID, at time.Time, reason string) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'cancelled', cancelled_at = $2, cancellation_reason = $3, updated_at = $2
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	result, err := r.db.Exec(ctx, query, id, at, reason)
	if err != nil {
		r.log.Error("Failed to cancel reservation for suspension",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("cancel reservation %s for suspension: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *reservationRepository) MarkCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'checked_in', checked_in_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'confirmed'
	`
	return r.transition(ctx, "check in", query, id, at)
}

func (r *reservationRepository) MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reservations
		SET status = 'checked_out', checked_out_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'checked_in'
	`
	return r.transition(ctx, "check out", query, id, at)
}

func (r *reservationRepository) transition(ctx context.Context, op, query string, id uuid.UUID, at time.Time) (bool, error) {
	result, err := r.db.Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to "+op+" reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return false, fmt.Errorf("%s reservation %s: %w", op, id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}
