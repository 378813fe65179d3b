package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// All lists every booking after sweeping overdue ones.
func (s *Service) All(ctx context.Context) ([]domain.Booking, error) {
	return s.load(ctx, repository.BookingScope{})
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load booking %d: %w", id, err)
	}
	return b, nil
}

// CreateFor checks out a room for a guest account.
func (s *Service) CreateFor(ctx context.Context, req AdminBookingRequest) (*domain.Booking, error) {
	guest, err := s.users.GetByID(ctx, req.GuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("Guest account not found.")
		}
		return nil, fmt.Errorf("load guest %d: %w", req.GuestID, err)
	}
	if !guest.IsGuest() {
		return nil, invalid("Bookings can only be made for guest accounts.")
	}
	return s.Checkout(ctx, guest, req.RoomID, req.CheckoutRequest)
}

// Update edits a booking. A status change follows the same rules as the
// guest and hotel actions, so only pending bookings move.
func (s *Service) Update(ctx context.Context, id int64, req AdminBookingUpdate) (*domain.Booking, error) {
	name := strings.TrimSpace(req.GuestName)
	if name == "" {
		return nil, invalid("Full name is required.")
	}

	var do lockedAction
	switch domain.BookingStatus(req.Status) {
	case "":
	case domain.BookingCanceled:
		do = s.cancelLocked
	case domain.BookingConfirmed:
		do = s.payLocked
	default:
		return nil, invalid("Status can only be changed to canceled or confirmed.")
	}

	var (
		result  *domain.Booking
		applied = true
	)
	eff := &effects{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookings := s.bookings.WithTx(tx)
		b, err := bookings.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock booking %d: %w", id, err)
		}
		if _, err := s.resolveLocked(ctx, tx, b, eff); err != nil {
			return err
		}
		if do != nil {
			if applied, err = do(ctx, tx, b, eff); err != nil {
				return err
			}
		}
		if !applied {
			// rejected status change: keep the resolution, drop the edit
			result = b
			return nil
		}

		b.GuestName = name
		b.GuestPhone = strings.TrimSpace(req.GuestPhone)
		b.UpdatedAt = s.now()
		if err := bookings.Update(ctx, b); err != nil {
			return fmt.Errorf("update booking %d: %w", id, err)
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.flush(ctx, eff)
	if !applied {
		return result, ErrNotPending
	}
	return result, nil
}

// Delete removes a booking. Rooms still held by it go back to the room
// under the room lock.
func (s *Service) Delete(ctx context.Context, id int64) error {
	released := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		released, err = s.deleteLocked(ctx, tx, id)
		return err
	})
	if err != nil {
		return err
	}
	if released {
		s.cache.Invalidate(ctx)
	}
	return nil
}

// DeleteForGuest removes every booking of a guest that is about to be
// deleted, releasing held rooms.
func (s *Service) DeleteForGuest(ctx context.Context, guestID int64) (int, error) {
	list, err := s.bookings.List(ctx, repository.BookingScope{GuestID: guestID})
	if err != nil {
		return 0, fmt.Errorf("list bookings: %w", err)
	}
	deleted := 0
	for _, b := range list {
		if err := s.Delete(ctx, b.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *Service) deleteLocked(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	bookings := s.bookings.WithTx(tx)
	b, err := bookings.LockByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("lock booking %d: %w", id, err)
	}

	released := false
	if b.Status.HoldsInventory() {
		rooms := s.rooms.WithTx(tx)
		if _, err := rooms.LockByID(ctx, b.RoomID); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("lock room %d: %w", b.RoomID, err)
		} else if err == nil {
			if err := rooms.Release(ctx, b.RoomID, b.RoomsCount); err != nil {
				return false, fmt.Errorf("release rooms of booking %d: %w", b.ID, err)
			}
			released = true
			s.metrics.RoomsReleased.Add(float64(b.RoomsCount))
		}
	}

	if err := s.notifs.Tx(tx).Forget(ctx, b.ID); err != nil {
		return false, fmt.Errorf("drop notifications of booking %d: %w", b.ID, err)
	}
	if err := s.reviews.WithTx(tx).DeleteByBooking(ctx, b.ID); err != nil {
		return false, fmt.Errorf("drop reviews of booking %d: %w", b.ID, err)
	}
	if err := bookings.Delete(ctx, b.ID); err != nil {
		return false, fmt.Errorf("delete booking %d: %w", b.ID, err)
	}

	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"status":     b.Status,
		"released":   released,
	}).Info("booking deleted")
	return released, nil
}
