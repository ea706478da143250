package repository

import (
	"context"
	"fmt"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CustomerRepository interface {
	// GetOrCreate returns the customer profile for an externally
	// authenticated account, creating it on first contact.
	GetOrCreate(ctx context.Context, accountID uuid.UUID) (*entity.Customer, error)
}

type customerRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCustomerRepository(db database.PgxIface, log *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log.With(zap.String("repository", "customer")),
	}
}

func (r *customerRepository) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*entity.Customer, error) {
	insert := `
		INSERT INTO customers (id, account_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, insert, uuid.New(), accountID, time.Now()); err != nil {
		r.log.Error("Failed to upsert customer",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("upsert customer for account %s: %w", accountID.String(), err)
	}

	query := `SELECT id, account_id, created_at FROM customers WHERE account_id = $1`

	var customer entity.Customer
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&customer.ID,
		&customer.AccountID,
		&customer.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to load customer",
			zap.Error(err),
			zap.String("account_id", accountID.String()),
		)
		return nil, fmt.Errorf("load customer for account %s: %w", accountID.String(), err)
	}

	return &customer, nil
}
