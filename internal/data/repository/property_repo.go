package repository

import (
	"context"
	"fmt"

	"lodging-booking/internal/data/entity"
	"lodging-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PropertyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error)
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error)
	SetSuspended(ctx context.Context, id uuid.UUID, suspended bool) (bool, error)
}

type propertyRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPropertyRepository(db database.PgxIface, log *zap.Logger) PropertyRepository {
	return &propertyRepository{
		db:  db,
		log: log.With(zap.String("repository", "property")),
	}
}

const propertyColumns = `id, owner_id, name, total_rooms, approved, suspended, capacity,
	base_price, cleaning_fee, service_fee, created_at, updated_at`

func scanProperty(row pgx.Row) (*entity.Property, error) {
	var p entity.Property
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.TotalRooms,
		&p.Approved,
		&p.Suspended,
		&p.Capacity,
		&p.BasePrice,
		&p.CleaningFee,
		&p.ServiceFee,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	property, err := scanProperty(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find property by ID",
			zap.Error(err),
			zap.String("property_id", id.String()),
		)
		return nil, fmt.Errorf("find property by ID %s: %w", id.String(), err)
	}

	return property, nil
}

func (r *propertyRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find properties by owner ID",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find properties by owner ID %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	var properties []*entity.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			r.log.Error("Failed to scan property row", zap.Error(err))
			return nil, fmt.Errorf("scan property row: %w", err)
		}
		properties = append(properties, property)
	}

	return properties, nil
}

func (r *propertyRepository) SetSuspended(ctx context.Context, id uuid.UUID, suspended bool) (bool, error) {
	query := `UPDATE properties SET suspended = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, suspended)
	if err != nil {
		r.log.Error("Failed to update property suspension",
			zap.Error(err),
			zap.String("property_id", id.String()),
			zap.Bool("suspended", suspended),
		)
		return false, fmt.Errorf("set property %s suspended=%t: %w", id.String(), suspended, err)
	}

	return result.RowsAffected() > 0, nil
}
