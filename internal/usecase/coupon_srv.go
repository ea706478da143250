package usecase

import (
	"context"
	"errors"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/dto/request"
	"lodging-booking/internal/dto/response"
	"lodging-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CouponService interface {
	// FindAndReserve picks the oldest-created code currently active for
	// the property and consumes one usage. There is no customer-supplied
	// code in this path. A nil coupon with nil error means no code
	// applies.
	FindAndReserve(ctx context.Context, propertyID uuid.UUID) (*entity.Coupon, error)

	// ReleaseUsage gives back a consumed usage when the reservation that
	// held it is cancelled before revenue is realized.
	ReleaseUsage(ctx context.Context, couponID uuid.UUID)

	// Owner-facing management of a property's codes.
	CreateCoupon(ctx context.Context, ownerID, propertyID uuid.UUID, req *request.CreateCouponRequest) (*response.CouponResponse, error)
	ListCoupons(ctx context.Context, ownerID, propertyID uuid.UUID) ([]response.CouponResponse, error)
	GetCouponByCode(ctx context.Context, ownerID, propertyID uuid.UUID, code string) (*response.CouponResponse, error)
	DeleteCoupon(ctx context.Context, ownerID, couponID uuid.UUID) error
}

type couponService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCouponService(repo *repository.Repository, log *zap.Logger) CouponService {
	return &couponService{
		repo: repo,
		log:  log.With(zap.String("service", "coupon")),
	}
}

func (s *couponService) FindAndReserve(ctx context.Context, propertyID uuid.UUID) (*entity.Coupon, error) {
	coupons, err := s.repo.Coupon.FindActiveByProperty(ctx, propertyID, time.Now())
	if err != nil {
		return nil, err
	}

	// Oldest-created first. The conditional increment can still lose a
	// race for the last usage of a code, in which case the next active
	// code is tried.
	for _, coupon := range coupons {
		reserved, err := s.repo.Coupon.IncrementUsage(ctx, coupon.ID)
		if err != nil {
			return nil, err
		}
		if !reserved {
			continue
		}

		coupon.CurrentUses++
		s.log.Info("Coupon reserved",
			zap.String("coupon_id", coupon.ID.String()),
			zap.String("code", coupon.Code),
			zap.Int("current_uses", coupon.CurrentUses),
		)
		return coupon, nil
	}

	return nil, nil
}

func (s *couponService) ReleaseUsage(ctx context.Context, couponID uuid.UUID) {
	if err := s.repo.Coupon.DecrementUsage(ctx, couponID); err != nil {
		// The usage stays consumed; nothing else depends on it.
		s.log.Error("Failed to release coupon usage",
			zap.Error(err),
			zap.String("coupon_id", couponID.String()),
		)
		return
	}

	s.log.Info("Coupon usage released", zap.String("coupon_id", couponID.String()))
}

// ==================== OWNER MANAGEMENT ====================

func (s *couponService) CreateCoupon(ctx context.Context, ownerID, propertyID uuid.UUID, req *request.CreateCouponRequest) (*response.CouponResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(utils.FormatValidationErrors(errs))
	}

	if err := s.verifyOwnership(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}

	validFrom, err := utils.ParseDate(req.ValidFrom)
	if err != nil {
		return nil, NewValidationError("valid_from must be a date in 2006-01-02 format")
	}
	validTo, err := utils.ParseDate(req.ValidTo)
	if err != nil {
		return nil, NewValidationError("valid_to must be a date in 2006-01-02 format")
	}
	if validTo.Before(validFrom) {
		return nil, NewValidationError("valid_to must not be before valid_from")
	}

	coupon := &entity.Coupon{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		PropertyID: propertyID,
		Code:       req.Code,
		Percent:    req.Percent,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		MaxUses:    req.MaxUses,
	}

	if err := s.repo.Coupon.Create(ctx, coupon); err != nil {
		if errors.Is(err, repository.ErrCouponCodeTaken) {
			return nil, &ConflictError{Message: "coupon code " + req.Code + " already exists"}
		}
		return nil, err
	}

	s.log.Info("Coupon created",
		zap.String("coupon_id", coupon.ID.String()),
		zap.String("code", coupon.Code),
		zap.String("property_id", propertyID.String()),
	)

	resp := response.CouponToResponse(coupon)
	return &resp, nil
}

func (s *couponService) ListCoupons(ctx context.Context, ownerID, propertyID uuid.UUID) ([]response.CouponResponse, error) {
	if err := s.verifyOwnership(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}

	coupons, err := s.repo.Coupon.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	responses := make([]response.CouponResponse, len(coupons))
	for i, coupon := range coupons {
		responses[i] = response.CouponToResponse(coupon)
	}
	return responses, nil
}

func (s *couponService) GetCouponByCode(ctx context.Context, ownerID, propertyID uuid.UUID, code string) (*response.CouponResponse, error) {
	if err := s.verifyOwnership(ctx, ownerID, propertyID); err != nil {
		return nil, err
	}

	coupon, err := s.repo.Coupon.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	// Codes are globally unique; a code bound to another property is out
	// of scope for this owner.
	if coupon == nil || coupon.PropertyID != propertyID {
		return nil, &NotFoundError{Resource: "coupon", ID: code}
	}

	resp := response.CouponToResponse(coupon)
	return &resp, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, ownerID, couponID uuid.UUID) error {
	coupon, err := s.repo.Coupon.FindByID(ctx, couponID)
	if err != nil {
		return err
	}
	if coupon == nil {
		return &NotFoundError{Resource: "coupon", ID: couponID.String()}
	}

	if err := s.verifyOwnership(ctx, ownerID, coupon.PropertyID); err != nil {
		return err
	}

	return s.repo.Coupon.Delete(ctx, couponID)
}

func (s *couponService) verifyOwnership(ctx context.Context, ownerID, propertyID uuid.UUID) error {
	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if property == nil {
		return &NotFoundError{Resource: "property", ID: propertyID.String()}
	}
	if property.OwnerID != ownerID {
		return &AuthorizationError{Message: "account does not own this property"}
	}
	return nil
}
