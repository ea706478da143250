package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"lodging-booking/internal/data/entity"
	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/notify"
	"lodging-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory doubles for the repository interfaces. They mirror the
// conditional-update semantics of the real SQL so the services can be
// exercised end to end without a database.

func testConfig() *utils.Config {
	return &utils.Config{
		Booking: utils.BookingConfig{
			AutoConfirmAfterHours: 24,
			SweepIntervalMinutes:  60,
			CancelWindowHours:     24,
		},
	}
}

func testRepo() *repository.Repository {
	return &repository.Repository{
		Property:    &stubPropertyRepo{properties: map[uuid.UUID]*entity.Property{}},
		Customer:    &stubCustomerRepo{customers: map[uuid.UUID]*entity.Customer{}},
		Coupon:      &stubCouponRepo{coupons: map[uuid.UUID]*entity.Coupon{}},
		Reservation: &stubReservationRepo{reservations: map[uuid.UUID]*entity.Reservation{}},
	}
}

// ==================== PROPERTY ====================

type stubPropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entity.Property
	err        error
}

func (s *stubPropertyRepo) add(p *entity.Property) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[p.ID] = p
}

func (s *stubPropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.properties[id], nil
}

func (s *stubPropertyRepo) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Property
	for _, p := range s.properties {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, s.err
}

func (s *stubPropertyRepo) SetSuspended(ctx context.Context, id uuid.UUID, suspended bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	p, ok := s.properties[id]
	if !ok {
		return false, nil
	}
	p.Suspended = suspended
	return true, nil
}

// ==================== CUSTOMER ====================

type stubCustomerRepo struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*entity.Customer
	err       error
}

func (s *stubCustomerRepo) GetOrCreate(ctx context.Context, accountID uuid.UUID) (*entity.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if c, ok := s.customers[accountID]; ok {
		return c, nil
	}
	c := &entity.Customer{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		AccountID:  accountID,
	}
	s.customers[accountID] = c
	return c, nil
}

// ==================== COUPON ====================

type stubCouponRepo struct {
	mu        sync.Mutex
	coupons   map[uuid.UUID]*entity.Coupon
	createErr error
	err       error
}

func (s *stubCouponRepo) add(c *entity.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons[c.ID] = c
}

func (s *stubCouponRepo) Create(ctx context.Context, coupon *entity.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	for _, c := range s.coupons {
		if c.Code == coupon.Code {
			return repository.ErrCouponCodeTaken
		}
	}
	s.coupons[coupon.ID] = coupon
	return nil
}

func (s *stubCouponRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupons[id], s.err
}

func (s *stubCouponRepo) FindByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, s.err
}

func (s *stubCouponRepo) FindByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Coupon
	for _, c := range s.coupons {
		if c.PropertyID == propertyID {
			out = append(out, c)
		}
	}
	sortCouponsByAge(out)
	return out, s.err
}

func (s *stubCouponRepo) FindActiveByProperty(ctx context.Context, propertyID uuid.UUID, now time.Time) ([]*entity.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Coupon
	for _, c := range s.coupons {
		if c.PropertyID == propertyID && c.ActiveAt(now) {
			// Return row snapshots like the real repository does, so the
			// service's local CurrentUses sync does not mutate stored state.
			cc := *c
			out = append(out, &cc)
		}
	}
	sortCouponsByAge(out)
	return out, nil
}

func (s *stubCouponRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	c, ok := s.coupons[id]
	if !ok {
		return false, nil
	}
	if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
		return false, nil
	}
	c.CurrentUses++
	return true, nil
}

func (s *stubCouponRepo) DecrementUsage(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if c, ok := s.coupons[id]; ok && c.CurrentUses > 0 {
		c.CurrentUses--
	}
	return nil
}

func (s *stubCouponRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.coupons, id)
	return s.err
}

func sortCouponsByAge(coupons []*entity.Coupon) {
	sort.Slice(coupons, func(i, j int) bool {
		return coupons[i].CreatedAt.Before(coupons[j].CreatedAt)
	})
}

// ==================== RESERVATION ====================

type stubReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation
	err          error

	autoConfirmErr    map[uuid.UUID]error
	autoConfirmDenied map[uuid.UUID]bool
}

func (s *stubReservationRepo) add(res *entity.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations[res.ID] = res
}

func (s *stubReservationRepo) get(id uuid.UUID) *entity.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id]
}

func (s *stubReservationRepo) propertyReservations(propertyID uuid.UUID) []*entity.Reservation {
	var out []*entity.Reservation
	for _, r := range s.reservations {
		if r.PropertyID == propertyID {
			out = append(out, r)
		}
	}
	return out
}

func (s *stubReservationRepo) CreateExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	conflict := entity.FirstConflictNight(s.propertyReservations(res.PropertyID), res.CheckIn, res.CheckOut, totalRooms, "")
	if conflict != nil {
		return conflict, nil
	}
	s.reservations[res.ID] = res
	return nil, nil
}

func (s *stubReservationRepo) RescheduleExclusive(ctx context.Context, res *entity.Reservation, totalRooms int) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	conflict := entity.FirstConflictNight(s.propertyReservations(res.PropertyID), res.CheckIn, res.CheckOut, totalRooms, res.ID.String())
	if conflict != nil {
		return conflict, nil
	}
	stored, ok := s.reservations[res.ID]
	if ok {
		stored.CheckIn = res.CheckIn
		stored.CheckOut = res.CheckOut
		stored.Nights = res.Nights
		stored.Price = res.Price
	}
	return nil, nil
}

func (s *stubReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reservations[id], s.err
}

func (s *stubReservationRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range s.reservations {
		if r.CustomerID != customerID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	return out, s.err
}

func (s *stubReservationRepo) CountByCustomerID(ctx context.Context, customerID uuid.UUID, status entity.ReservationStatus) (int64, error) {
	found, err := s.FindByCustomerID(ctx, customerID, status, 0, 0)
	return int64(len(found)), err
}

func (s *stubReservationRepo) FindByPropertyID(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.propertyReservations(propertyID), s.err
}

func (s *stubReservationRepo) FindOverlapping(ctx context.Context, propertyID uuid.UUID, checkIn, checkOut time.Time) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Reservation
	for _, r := range s.propertyReservations(propertyID) {
		if r.CheckIn.Before(checkOut) && checkIn.Before(r.CheckOut) && r.Status.OccupiesInventory() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReservationRepo) FindOccupyingByProperty(ctx context.Context, propertyID uuid.UUID) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Reservation
	for _, r := range s.propertyReservations(propertyID) {
		if r.Status == entity.ReservationStatusPending || r.Status == entity.ReservationStatusConfirmed {
			out = append(out, r)
		}
	}
	return out, s.err
}

func (s *stubReservationRepo) FindAutoConfirmable(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Reservation
	for _, r := range s.reservations {
		if r.Status == entity.ReservationStatusPending && !r.CreatedAt.After(cutoff) && r.AutoConfirmedAt == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reservations, id)
	return s.err
}

func (s *stubReservationRepo) transition(id uuid.UUID, from, to entity.ReservationStatus, apply func(*entity.Reservation)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	r, ok := s.reservations[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	if apply != nil {
		apply(r)
	}
	return true, nil
}

func (s *stubReservationRepo) MarkConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return s.transition(id, entity.ReservationStatusPending, entity.ReservationStatusConfirmed, func(r *entity.Reservation) {
		r.ConfirmedAt = &at
	})
}

func (s *stubReservationRepo) MarkAutoConfirmed(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	if err, ok := s.autoConfirmErr[id]; ok {
		return false, err
	}
	if s.autoConfirmDenied[id] {
		return false, nil
	}
	return s.transition(id, entity.ReservationStatusPending, entity.ReservationStatusConfirmed, func(r *entity.Reservation) {
		r.ConfirmedAt = &at
		r.AutoConfirmedAt = &at
	})
}

func (s *stubReservationRepo) MarkRejected(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return s.transition(id, entity.ReservationStatusPending, entity.ReservationStatusRejected, nil)
}

func (s *stubReservationRepo) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time, reason, policy string, refund float64) (bool, error) {
	return s.transition(id, entity.ReservationStatusConfirmed, entity.ReservationStatusCancelled, func(r *entity.Reservation) {
		r.CancelledAt = &at
		r.CancellationReason = &reason
		r.CancellationPolicy = &policy
		r.RefundAmount = &refund
	})
}

func (s *stubReservationRepo) CancelForSuspension(ctx context.Context, id uuid.UUID, at time.Time, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	r, ok := s.reservations[id]
	if !ok {
		return false, nil
	}
	if r.Status != entity.ReservationStatusPending && r.Status != entity.ReservationStatusConfirmed {
		return false, nil
	}
	r.Status = entity.ReservationStatusCancelled
	r.CancelledAt = &at
	r.CancellationReason = &reason
	return true, nil
}

func (s *stubReservationRepo) MarkCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return s.transition(id, entity.ReservationStatusConfirmed, entity.ReservationStatusCheckedIn, func(r *entity.Reservation) {
		r.CheckedInAt = &at
	})
}

func (s *stubReservationRepo) MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	return s.transition(id, entity.ReservationStatusCheckedIn, entity.ReservationStatusCheckedOut, func(r *entity.Reservation) {
		r.CheckedOutAt = &at
	})
}

// ==================== NOTIFIER ====================

type stubNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *stubNotifier) Send(event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *stubNotifier) eventTypes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	types := make([]string, len(n.events))
	for i, e := range n.events {
		types[i] = e.Type
	}
	return types
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
