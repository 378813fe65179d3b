package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/queue"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	rooms    *repository.RoomRepository
	users    *repository.UserRepository
	reviews  *repository.ReviewRepository
	notifs   *notification.Service
	events   queue.Publisher
	cache    *cache.RoomCache
	metrics  *metrics.Metrics
	log      *logrus.Logger
	now      func() time.Time
}

type Deps struct {
	DB            *gorm.DB
	Bookings      *repository.BookingRepository
	Rooms         *repository.RoomRepository
	Users         *repository.UserRepository
	Reviews       *repository.ReviewRepository
	Notifications *notification.Service
	Events        queue.Publisher
	Cache         *cache.RoomCache
	Metrics       *metrics.Metrics
	Log           *logrus.Logger
}

func NewService(d Deps) *Service {
	events := d.Events
	if events == nil {
		events = queue.Nop{}
	}
	return &Service{
		db:       d.DB,
		bookings: d.Bookings,
		rooms:    d.Rooms,
		users:    d.Users,
		reviews:  d.Reviews,
		notifs:   d.Notifications,
		events:   events,
		cache:    d.Cache,
		metrics:  d.Metrics,
		log:      d.Log,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// effects collects what must happen after a transaction commits.
type effects struct {
	notes    []domain.BookingNotification
	events   []queue.BookingStatusEvent
	released bool
}

func (e *effects) record(b *domain.Booking, hotelID int64, from domain.BookingStatus, at time.Time) {
	e.events = append(e.events, queue.BookingStatusEvent{
		BookingID:     b.ID,
		GuestID:       b.GuestID,
		HotelID:       hotelID,
		RoomID:        b.RoomID,
		RoomsCount:    b.RoomsCount,
		PaymentOption: string(b.PaymentOption),
		From:          string(from),
		To:            string(b.Status),
		OccurredAt:    at,
	})
}

func (s *Service) flush(ctx context.Context, eff *effects) {
	s.notifs.Deliver(eff.notes...)
	for _, ev := range eff.events {
		if err := s.events.PublishBookingStatus(ctx, ev); err != nil {
			s.metrics.EventsPublished.WithLabelValues("failed").Inc()
			s.log.WithFields(logrus.Fields{"booking_id": ev.BookingID, "to": ev.To}).
				WithError(err).Warn("booking event not published")
			continue
		}
		s.metrics.EventsPublished.WithLabelValues("ok").Inc()
	}
	if eff.released || len(eff.events) > 0 {
		s.cache.Invalidate(ctx)
	}
}

// transition moves b from its current status to `to` inside tx. Leaving a
// status that holds inventory for canceled or expired returns the stored
// rooms_count to the room. It reports false when another caller already
// moved the booking.
func (s *Service) transition(ctx context.Context, tx *gorm.DB, b *domain.Booking, to domain.BookingStatus, hotelID int64, eff *effects) (bool, error) {
	from := b.Status
	ok, err := s.bookings.WithTx(tx).TransitionStatus(ctx, b.ID, from, to)
	if err != nil {
		return false, fmt.Errorf("transition booking %d: %w", b.ID, err)
	}
	if !ok {
		return false, nil
	}

	if from.HoldsInventory() && (to == domain.BookingCanceled || to == domain.BookingExpired) {
		if err := s.rooms.WithTx(tx).Release(ctx, b.RoomID, b.RoomsCount); err != nil {
			return false, fmt.Errorf("release rooms of booking %d: %w", b.ID, err)
		}
		eff.released = true
		s.metrics.RoomsReleased.Add(float64(b.RoomsCount))
	}

	b.Status = to
	created, err := s.notifs.Tx(tx).BookingStatus(ctx, b, hotelID)
	if err != nil {
		return false, err
	}
	eff.notes = append(eff.notes, created...)
	eff.record(b, hotelID, from, s.now())

	s.metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	s.log.WithFields(logrus.Fields{
		"booking_id": b.ID,
		"room_id":    b.RoomID,
		"from":       from,
		"to":         to,
	}).Info("booking status changed")
	return true, nil
}

// ExpireOverdue moves every overdue pay_later booking in scope to expired and
// returns its rooms. It returns how many bookings expired.
func (s *Service) ExpireOverdue(ctx context.Context, scope repository.BookingScope) (int, error) {
	candidates, err := s.bookings.ListAwaitingPayment(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("list awaiting payment: %w", err)
	}

	now := s.now()
	expired := 0
	for i := range candidates {
		if !candidates[i].PaymentOverdue(now) {
			continue
		}
		eff := &effects{}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			b, err := s.bookings.WithTx(tx).LockByID(ctx, candidates[i].ID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			if !b.PaymentOverdue(now) {
				return nil
			}
			ok, err := s.transition(ctx, tx, b, domain.BookingExpired, hotelOf(b), eff)
			if ok {
				expired++
			}
			return err
		})
		if err != nil {
			return expired, fmt.Errorf("expire booking %d: %w", candidates[i].ID, err)
		}
		s.flush(ctx, eff)
	}
	return expired, nil
}

// resolveAll applies the derived status of each listed booking. Only the
// completion rule can still fire here since overdue bookings were swept.
func (s *Service) resolveAll(ctx context.Context, list []domain.Booking) error {
	now := s.now()
	for i := range list {
		b := &list[i]
		if b.Room == nil || b.Resolve(now, b.Room.CheckoutDate) == b.Status {
			continue
		}
		eff := &effects{}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			locked, err := s.bookings.WithTx(tx).LockByID(ctx, b.ID)
			if err != nil {
				return err
			}
			if _, err := s.resolveLocked(ctx, tx, locked, eff); err != nil {
				return err
			}
			b.Status = locked.Status
			return nil
		})
		if err != nil {
			return fmt.Errorf("resolve booking %d: %w", b.ID, err)
		}
		s.flush(ctx, eff)
	}
	return nil
}

// resolveLocked brings a locked booking to its derived status.
func (s *Service) resolveLocked(ctx context.Context, tx *gorm.DB, b *domain.Booking, eff *effects) (bool, error) {
	var checkout time.Time
	if b.Room != nil {
		checkout = b.Room.CheckoutDate
	}
	to := b.Resolve(s.now(), checkout)
	if to == b.Status {
		return false, nil
	}
	return s.transition(ctx, tx, b, to, hotelOf(b), eff)
}

// Checkout reserves rooms for the guest and creates the booking.
func (s *Service) Checkout(ctx context.Context, account *domain.User, roomID int64, req CheckoutRequest) (*domain.Booking, error) {
	if _, err := s.ExpireOverdue(ctx, repository.BookingScope{RoomID: roomID}); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room %d: %w", roomID, err)
	}
	if room.Hotel != nil && !room.Hotel.IsActive {
		return nil, ErrNotFound
	}

	opt := domain.PaymentOption(req.PaymentOption)
	name := strings.TrimSpace(req.FullName)
	phone := strings.TrimSpace(req.Phone)
	switch {
	case !opt.Valid():
		return nil, invalid("Select a payment option.")
	case name == "":
		return nil, invalid("Full name is required.")
	case req.RoomsCount < 1:
		return nil, invalid("Book at least one room.")
	case opt == domain.PayNow && phone == "":
		return nil, invalid("Phone number is required to settle payment now.")
	}

	now := s.now()
	b := &domain.Booking{
		GuestID:       account.ID,
		RoomID:        room.ID,
		GuestName:     name,
		GuestEmail:    account.Email,
		GuestPhone:    phone,
		RoomsCount:    req.RoomsCount,
		PaymentOption: opt,
		Status:        domain.InitialStatus(opt),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	eff := &effects{}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := s.rooms.WithTx(tx)
		locked, err := rooms.LockByID(ctx, room.ID)
		if err != nil {
			return fmt.Errorf("lock room %d: %w", room.ID, err)
		}
		if locked.AvailableRooms < req.RoomsCount {
			return conflict(fmt.Sprintf("Only %d room(s) available.", locked.AvailableRooms))
		}
		ok, err := rooms.Reserve(ctx, room.ID, req.RoomsCount)
		if err != nil {
			return fmt.Errorf("reserve rooms: %w", err)
		}
		if !ok {
			return conflict("Requested number of rooms is no longer available.")
		}

		if err := s.bookings.WithTx(tx).Create(ctx, b); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}
		if err := s.users.WithTx(tx).UpdateContact(ctx, account.ID, name, phone); err != nil {
			return fmt.Errorf("update guest contact: %w", err)
		}

		created, err := s.notifs.Tx(tx).BookingStatus(ctx, b, room.HotelID)
		if err != nil {
			return err
		}
		eff.notes = append(eff.notes, created...)
		eff.record(b, room.HotelID, "", now)
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCapacityConflict) {
			s.metrics.Checkouts.WithLabelValues("conflict").Inc()
			s.log.WithFields(logrus.Fields{"room_id": room.ID, "rooms_count": req.RoomsCount}).
				Info("checkout capacity conflict")
		} else {
			s.metrics.Checkouts.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	s.metrics.Checkouts.WithLabelValues(string(b.Status)).Inc()
	s.flush(ctx, eff)
	b.Room = room
	return b, nil
}

// Cancel cancels a pending booking of the guest.
func (s *Service) Cancel(ctx context.Context, account *domain.User, bookingID int64) (*domain.Booking, error) {
	return s.act(ctx, bookingID, func(b *domain.Booking) bool { return b.GuestID == account.ID }, s.cancelLocked)
}

// HotelCancel cancels a pending booking on one of the hotel's rooms.
func (s *Service) HotelCancel(ctx context.Context, account *domain.User, bookingID int64) (*domain.Booking, error) {
	return s.act(ctx, bookingID, func(b *domain.Booking) bool { return hotelOf(b) == account.ID }, s.cancelLocked)
}

// PayNow settles a pending pay_later booking of the guest.
func (s *Service) PayNow(ctx context.Context, account *domain.User, bookingID int64) (*domain.Booking, error) {
	return s.act(ctx, bookingID, func(b *domain.Booking) bool { return b.GuestID == account.ID }, s.payLocked)
}

type lockedAction func(ctx context.Context, tx *gorm.DB, b *domain.Booking, eff *effects) (bool, error)

// act locks the booking, resolves it, then runs do. A booking the caller may
// not touch is reported as not found. ErrNotPending is returned after the
// resolution has been committed.
func (s *Service) act(ctx context.Context, bookingID int64, allowed func(*domain.Booking) bool, do lockedAction) (*domain.Booking, error) {
	var (
		result  *domain.Booking
		applied bool
	)
	eff := &effects{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		b, err := s.bookings.WithTx(tx).LockByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock booking %d: %w", bookingID, err)
		}
		if !allowed(b) {
			return ErrNotFound
		}
		if _, err := s.resolveLocked(ctx, tx, b, eff); err != nil {
			return err
		}
		applied, err = do(ctx, tx, b, eff)
		result = b
		return err
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

func (s *Service) cancelLocked(ctx context.Context, tx *gorm.DB, b *domain.Booking, eff *effects) (bool, error) {
	if b.Status != domain.BookingPending {
		return false, nil
	}
	return s.transition(ctx, tx, b, domain.BookingCanceled, hotelOf(b), eff)
}

func (s *Service) payLocked(ctx context.Context, tx *gorm.DB, b *domain.Booking, eff *effects) (bool, error) {
	if b.Status != domain.BookingPending || b.PaymentOption != domain.PayLater {
		return false, nil
	}
	ok, err := s.bookings.WithTx(tx).SettlePayment(ctx, b.ID)
	if err != nil || !ok {
		return false, err
	}

	from := b.Status
	b.Status = domain.BookingConfirmed
	b.PaymentOption = domain.PayNow
	created, err := s.notifs.Tx(tx).BookingStatus(ctx, b, hotelOf(b))
	if err != nil {
		return false, err
	}
	eff.notes = append(eff.notes, created...)
	eff.record(b, hotelOf(b), from, s.now())
	s.metrics.StatusTransitions.WithLabelValues(string(from), string(b.Status)).Inc()
	s.log.WithFields(logrus.Fields{"booking_id": b.ID, "from": from, "to": b.Status}).Info("booking paid")
	return true, nil
}

// History lists the guest's bookings filtered by state.
func (s *Service) History(ctx context.Context, account *domain.User, state string) (*HistoryView, error) {
	scope := repository.BookingScope{GuestID: account.ID}
	list, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListByGuest(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	byHotel := make(map[int64]*domain.Review, len(reviews))
	for i := range reviews {
		byHotel[reviews[i].HotelID] = &reviews[i]
	}

	return s.view(list, state, func(v *BookingView) {
		v.CanReview = v.Status.ReviewEligible()
		v.Review = byHotel[v.HotelID]
	}), nil
}

// HotelHistory lists bookings made on the hotel's rooms.
func (s *Service) HotelHistory(ctx context.Context, account *domain.User, state string) (*HistoryView, error) {
	list, err := s.load(ctx, repository.BookingScope{HotelID: account.ID})
	if err != nil {
		return nil, err
	}
	return s.view(list, state, func(v *BookingView) {
		v.CanPayNow = false
	}), nil
}

func (s *Service) load(ctx context.Context, scope repository.BookingScope) ([]domain.Booking, error) {
	if _, err := s.ExpireOverdue(ctx, scope); err != nil {
		return nil, err
	}
	list, err := s.bookings.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if err := s.resolveAll(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) view(list []domain.Booking, state string, decorate func(*BookingView)) *HistoryView {
	if !validState(state) {
		state = "all"
	}

	counts := map[string]int{"all": len(list)}
	out := make([]BookingView, 0, len(list))
	for _, b := range list {
		counts[string(b.Status)]++
		if state != "all" && string(b.Status) != state {
			continue
		}

		v := BookingView{
			Booking:     b,
			StatusLabel: domain.StateLabel(string(b.Status)),
			CanCancel:   b.Status == domain.BookingPending,
			CanPayNow:   b.Status == domain.BookingPending && b.PaymentOption == domain.PayLater,
		}
		if b.Room != nil {
			v.HotelID = b.Room.HotelID
			if b.Room.Hotel != nil {
				v.HotelName = b.Room.Hotel.FullName
			}
		}
		if v.CanPayNow {
			at := b.PaymentExpiresAt()
			v.PaymentExpiresAt = &at
		}
		decorate(&v)
		out = append(out, v)
	}

	tabs := make([]StateTab, 0, len(domain.StateFilters))
	for _, f := range domain.StateFilters {
		tabs = append(tabs, StateTab{State: f, Label: domain.StateLabel(f), Count: counts[f], Active: f == state})
	}
	return &HistoryView{State: state, Tabs: tabs, Bookings: out}
}

func validState(state string) bool {
	for _, f := range domain.StateFilters {
		if f == state {
			return true
		}
	}
	return false
}

func hotelOf(b *domain.Booking) int64 {
	if b.Room == nil {
		return 0
	}
	return b.Room.HotelID
}
