package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/cache"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	rooms    *repository.RoomRepository
	bookings *repository.BookingRepository
	reviews  *repository.ReviewRepository
	cache    *cache.RoomCache
	metrics  *metrics.Metrics
	log      *logrus.Logger
}

func NewService(
	db *gorm.DB,
	rooms *repository.RoomRepository,
	bookings *repository.BookingRepository,
	reviews *repository.ReviewRepository,
	roomCache *cache.RoomCache,
	m *metrics.Metrics,
	log *logrus.Logger,
) *Service {
	return &Service{db: db, rooms: rooms, bookings: bookings, reviews: reviews, cache: roomCache, metrics: m, log: log}
}

/* ---------- SEARCH ---------- */

func (q SearchQuery) cacheKey() string {
	return fmt.Sprintf("loc=%s|guests=%d|in=%s|out=%s",
		strings.ToLower(strings.TrimSpace(q.Location)), q.Guests, q.Checkin, q.Checkout)
}

// Search lists bookable rooms of active hotels matching q. Results are cached
// until the next inventory change.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]RoomListing, error) {
	from, err := parseOptionalDate(q.Checkin)
	if err != nil {
		return nil, &ValidationError{Message: "checkin must be a YYYY-MM-DD date"}
	}
	to, err := parseOptionalDate(q.Checkout)
	if err != nil {
		return nil, &ValidationError{Message: "checkout must be a YYYY-MM-DD date"}
	}

	key := q.cacheKey()
	var cached []RoomListing
	at, hit := s.cache.Get(ctx, key, &cached)
	if hit {
		s.metrics.SearchCache.WithLabelValues("hit").Inc()
		return cached, nil
	}
	s.metrics.SearchCache.WithLabelValues("miss").Inc()

	rooms, err := s.rooms.Search(ctx, repository.RoomFilter{Location: q.Location, Guests: q.Guests})
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	out := make([]RoomListing, 0, len(rooms))
	ratings := map[int64]repository.RatingSummary{}
	for _, r := range rooms {
		if !r.Overlaps(from, to) {
			continue
		}
		listing, err := s.listing(ctx, r, ratings)
		if err != nil {
			return nil, err
		}
		out = append(out, listing)
	}

	s.cache.Set(ctx, at, key, out)
	return out, nil
}

// Get returns a room of an active hotel.
func (s *Service) Get(ctx context.Context, id int64) (*RoomListing, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load room %d: %w", id, err)
	}
	if room.Hotel == nil || !room.Hotel.IsActive {
		return nil, ErrNotFound
	}
	listing, err := s.listing(ctx, *room, map[int64]repository.RatingSummary{})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (s *Service) listing(ctx context.Context, r domain.Room, ratings map[int64]repository.RatingSummary) (RoomListing, error) {
	summary, ok := ratings[r.HotelID]
	if !ok {
		var err error
		summary, err = s.reviews.SummaryByHotel(ctx, r.HotelID)
		if err != nil {
			return RoomListing{}, fmt.Errorf("rating summary: %w", err)
		}
		ratings[r.HotelID] = summary
	}
	l := RoomListing{Room: r, Rating: summary}
	if r.Hotel != nil {
		l.HotelName = r.Hotel.FullName
		l.HotelLocation = r.Hotel.Location
		l.Room.Hotel = nil
	}
	return l, nil
}

/* ---------- ROOM MANAGEMENT ---------- */

func (s *Service) ListByHotel(ctx context.Context, hotelID int64) ([]domain.Room, error) {
	return s.rooms.ListByHotel(ctx, hotelID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Room, error) {
	return s.rooms.ListAll(ctx)
}

func (s *Service) CreateRoom(ctx context.Context, hotelID int64, req RoomRequest) (*domain.Room, error) {
	room := &domain.Room{HotelID: hotelID}
	if err := apply(room, req); err != nil {
		return nil, err
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	s.cache.Invalidate(ctx)
	s.log.WithFields(logrus.Fields{"room_id": room.ID, "hotel_id": hotelID}).Info("room created")
	return room, nil
}

// UpdateRoom rewrites a room under its row lock so the counter edit cannot
// interleave with a checkout.
func (s *Service) UpdateRoom(ctx context.Context, roomID int64, req RoomRequest) (*domain.Room, error) {
	var room *domain.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := s.rooms.WithTx(tx)
		locked, err := rooms.LockByID(ctx, roomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		if err := apply(locked, req); err != nil {
			return err
		}
		locked.UpdatedAt = time.Now()
		if err := rooms.Update(ctx, locked); err != nil {
			return fmt.Errorf("update room %d: %w", roomID, err)
		}
		room = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return room, nil
}

// DeleteRoom removes a room that no booking references. A referenced room is
// retired instead: its availability is forced to zero.
func (s *Service) DeleteRoom(ctx context.Context, roomID int64) (*DeleteResult, error) {
	res := &DeleteResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rooms := s.rooms.WithTx(tx)
		if _, err := rooms.LockByID(ctx, roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("lock room %d: %w", roomID, err)
		}
		n, err := s.bookings.WithTx(tx).CountByRoom(ctx, roomID)
		if err != nil {
			return fmt.Errorf("count bookings: %w", err)
		}
		if n > 0 {
			res.Retired = true
			return rooms.SetAvailability(ctx, roomID, 0)
		}
		res.Deleted = true
		return rooms.Delete(ctx, roomID)
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	s.log.WithFields(logrus.Fields{"room_id": roomID, "retired": res.Retired}).Info("room removed")
	return res, nil
}

func (s *Service) SetPhoto(ctx context.Context, roomID int64, url string) error {
	if err := s.rooms.SetPhoto(ctx, roomID, url); err != nil {
		return fmt.Errorf("set room photo: %w", err)
	}
	s.cache.Invalidate(ctx)
	return nil
}

func apply(room *domain.Room, req RoomRequest) error {
	in, err := time.Parse(domain.DateLayout, req.CheckinDate)
	if err != nil {
		return &ValidationError{Message: "checkin_date must be a YYYY-MM-DD date"}
	}
	out, err := time.Parse(domain.DateLayout, req.CheckoutDate)
	if err != nil {
		return &ValidationError{Message: "checkout_date must be a YYYY-MM-DD date"}
	}

	room.RoomType = strings.TrimSpace(req.RoomType)
	room.Capacity = req.Capacity
	room.RatePerNight = roundRate(req.RatePerNight)
	room.AvailableRooms = req.AvailableRooms
	room.CheckinDate = in
	room.CheckoutDate = out

	switch {
	case room.RoomType == "":
		return &ValidationError{Message: "room_type is required"}
	case room.Capacity <= 0:
		return &ValidationError{Message: "capacity must be positive"}
	case room.RatePerNight < 0:
		return &ValidationError{Message: "rate_per_night cannot be negative"}
	case room.AvailableRooms < 0:
		return &ValidationError{Message: "available_rooms cannot be negative"}
	case !room.DatesValid():
		return &ValidationError{Message: "checkout_date cannot be before checkin_date"}
	}
	return nil
}

func roundRate(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func parseOptionalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.DateLayout, s)
}
