package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrCouponCodeTaken is returned when creating a coupon with a code that
// already exists.
var ErrCouponCodeTaken = errors.New("coupon code already exists")

type CouponRepository interface {
	Create(ctx context.Context, coupon *entity.Coupon) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error)
	FindByCode(ctx context.Context, code string) (*entity.Coupon, error)
	FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Coupon, error)

	// FindActiveByProperty returns codes usable at the given moment,
	// oldest-created first.
	FindActiveByProperty(ctx context.Context, propertyID uuid.UUID, now time.Time) ([]*entity.Coupon, error)

	// IncrementUsage bumps the usage counter only while it is below the
	// max-uses cap. The conditional update keeps the counter race-free;
	// false means the coupon was already exhausted.
	IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error)

	// DecrementUsage releases one consumed usage, never going below zero.
	DecrementUsage(ctx context.Context, id uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type couponRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCouponRepository(db database.PgxIface, log *zap.Logger) CouponRepository {
	return &couponRepository{
		db:  db,
		log: log.With(zap.String("repository", "coupon")),
	}
}

const couponColumns = `id, property_id, code, percent, valid_from, valid_to, max_uses, current_uses, created_at`

func scanCoupon(row pgx.Row) (*entity.Coupon, error) {
	var c entity.Coupon
	err := row.Scan(
		&c.ID,
		&c.PropertyID,
		&c.Code,
		&c.Percent,
		&c.ValidFrom,
		&c.ValidTo,
		&c.MaxUses,
		&c.CurrentUses,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	query := `
		INSERT INTO coupons (id, property_id, code, percent, valid_from, valid_to, max_uses, current_uses, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		coupon.ID,
		coupon.PropertyID,
		coupon.Code,
		coupon.Percent,
		coupon.ValidFrom,
		coupon.ValidTo,
		coupon.MaxUses,
		coupon.CurrentUses,
		coupon.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrCouponCodeTaken, coupon.Code)
		}
		r.log.Error("Failed to create coupon",
			zap.Error(err),
			zap.String("code", coupon.Code),
			zap.String("property_id", coupon.PropertyID.String()),
		)
		return fmt.Errorf("create coupon %s: %w", coupon.Code, err)
	}

	return nil
}

func (r *couponRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by ID",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return nil, fmt.Errorf("find coupon by ID %s: %w", id.String(), err)
	}

	return coupon, nil
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find coupon by code",
			zap.Error(err),
			zap.String("code", code),
		)
		return nil, fmt.Errorf("find coupon by code %s: %w", code, err)
	}

	return coupon, nil
}

func (r *couponRepository) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE property_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, propertyID)
	if err != nil {
		r.log.Error("Failed to find coupons by property ID",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find coupons by property ID %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	return collectCoupons(rows)
}

func (r *couponRepository) FindActiveByProperty(ctx context.Context, propertyID uuid.UUID, now time.Time) ([]*entity.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE property_id = $1
		  AND valid_from <= $2 AND valid_to >= $2
		  AND (max_uses IS NULL OR current_uses < max_uses)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, propertyID, now)
	if err != nil {
		r.log.Error("Failed to find active coupons",
			zap.Error(err),
			zap.String("property_id", propertyID.String()),
		)
		return nil, fmt.Errorf("find active coupons for property %s: %w", propertyID.String(), err)
	}
	defer rows.Close()

	return collectCoupons(rows)
}

func collectCoupons(rows pgx.Rows) ([]*entity.Coupon, error) {
	var coupons []*entity.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon row: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

func (r *couponRepository) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE coupons
		SET current_uses = current_uses + 1
		WHERE id = $1 AND (max_uses IS NULL OR current_uses < max_uses)
	`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to increment coupon usage",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return false, fmt.Errorf("increment usage of coupon %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *couponRepository) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET current_uses = GREATEST(current_uses - 1, 0)
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to decrement coupon usage",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("decrement usage of coupon %s: %w", id.String(), err)
	}

	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM coupons WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete coupon",
			zap.Error(err),
			zap.String("coupon_id", id.String()),
		)
		return fmt.Errorf("delete coupon %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("coupon %s not found", id.String())
	}

	return nil
}
