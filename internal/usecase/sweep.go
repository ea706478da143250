package usecase

import (
	"context"
	"time"

	"lodging-booking/internal/data/repository"
	"lodging-booking/internal/notify"

	"go.uber.org/zap"
)

const sweepBatchSize = 100

// Sweep is the recurring task that promotes stale pending reservations
// to confirmed once the owner has had the auto-confirm window to act.
// It has an explicit start/stop lifecycle; each pass is independent and
// a failure on one reservation never stops the rest of the batch.
type Sweep struct {
	reservations repository.ReservationRepository
	notifier     notify.Notifier
	interval     time.Duration
	confirmAfter time.Duration
	log          *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweep(
	reservations repository.ReservationRepository,
	notifier notify.Notifier,
	interval, confirmAfter time.Duration,
	log *zap.Logger,
) *Sweep {
	return &Sweep{
		reservations: reservations,
		notifier:     notifier,
		interval:     interval,
		confirmAfter: confirmAfter,
		log:          log.With(zap.String("service", "sweep")),
	}
}

// Start launches the sweep loop. It runs until Stop is called or the
// parent context is cancelled.
func (s *Sweep) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	s.log.Info("Auto-confirm sweep started",
		zap.Duration("interval", s.interval),
		zap.Duration("confirm_after", s.confirmAfter),
	)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Auto-confirm sweep stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the current pass to finish.
func (s *Sweep) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweep) runOnce(ctx context.Context) {
	now := time.Now()
	cutoff := now.Add(-s.confirmAfter)

	candidates, err := s.reservations.FindAutoConfirmable(ctx, cutoff, sweepBatchSize)
	if err != nil {
		s.log.Error("Sweep failed to load candidates", zap.Error(err))
		return
	}

	confirmed := 0
	for _, res := range candidates {
		changed, err := s.reservations.MarkAutoConfirmed(ctx, res.ID, now)
		if err != nil {
			s.log.Error("Sweep failed to confirm reservation",
				zap.Error(err),
				zap.String("reservation_id", res.ID.String()),
			)
			continue
		}
		if !changed {
			// Settled by the owner or the customer since the scan; the
			// sweep skips it without error.
			continue
		}

		confirmed++
		s.notifier.Send(notify.Event{
			Type:          notify.EventReservationConfirmed,
			ReservationID: res.ID.String(),
			PropertyID:    res.PropertyID.String(),
			CustomerID:    res.CustomerID.String(),
			OccurredAt:    now,
		})
	}

	if len(candidates) > 0 {
		s.log.Info("Sweep pass finished",
			zap.Int("candidates", len(candidates)),
			zap.Int("confirmed", confirmed),
		)
	}
}
