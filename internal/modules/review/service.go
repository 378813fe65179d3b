package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	reviews  *repository.ReviewRepository
	bookings *repository.BookingRepository
	users    *repository.UserRepository
	notifs   *notification.Service
	log      *logrus.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, reviews *repository.ReviewRepository, bookings *repository.BookingRepository,
	users *repository.UserRepository, notifs *notification.Service, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		reviews:  reviews,
		bookings: bookings,
		users:    users,
		notifs:   notifs,
		log:      log,
		now:      time.Now,
	}
}

// Submit creates the guest's review of a hotel or edits the existing one in
// place. The second return value reports whether a new review was created.
func (s *Service) Submit(ctx context.Context, guest *domain.User, req SubmitReviewRequest) (*domain.Review, bool, error) {
	return s.submit(ctx, guest, req, true)
}

func (s *Service) submit(ctx context.Context, guest *domain.User, req SubmitReviewRequest, retry bool) (*domain.Review, bool, error) {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return nil, false, ErrInvalidRequest
	}
	if _, err := s.hotel(ctx, req.HotelID); err != nil {
		return nil, false, err
	}

	anchor, err := s.bookings.LatestReviewable(ctx, guest.ID, req.HotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrReviewNotAllowed
		}
		return nil, false, fmt.Errorf("find reviewable booking: %w", err)
	}

	comment := strings.TrimSpace(req.Comment)
	now := s.now()

	var (
		rv      *domain.Review
		created bool
		raced   bool
		note    *domain.BookingNotification
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := s.reviews.WithTx(tx)

		rv, err = reviews.GetByGuestAndHotel(ctx, guest.ID, req.HotelID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rv = &domain.Review{
				GuestID:   guest.ID,
				HotelID:   req.HotelID,
				BookingID: anchor.ID,
				Rating:    req.Rating,
				Comment:   comment,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := reviews.Create(ctx, rv); err != nil {
				raced = repository.IsUniqueViolation(err)
				return fmt.Errorf("create review: %w", err)
			}
			created = true
		case err != nil:
			return fmt.Errorf("load review: %w", err)
		default:
			if err := reviews.UpdateContent(ctx, rv.ID, req.Rating, comment, now); err != nil {
				return fmt.Errorf("update review: %w", err)
			}
			rv.Rating, rv.Comment, rv.UpdatedAt = req.Rating, comment, now
		}

		kind := domain.KindReviewUpdated
		if created {
			kind = domain.KindReviewAdded
		}
		note, err = s.notifs.Tx(tx).Review(ctx, req.HotelID, rv.BookingID, kind, guest.FullName)
		return err
	})
	if err != nil {
		// A concurrent first submission won the unique index; edit that one.
		if raced && retry {
			return s.submit(ctx, guest, req, false)
		}
		return nil, false, err
	}

	s.notifs.Deliver(*note)
	s.log.WithFields(logrus.Fields{
		"review_id": rv.ID,
		"hotel_id":  rv.HotelID,
		"created":   created,
	}).Info("review saved")
	rv.GuestName = guest.FullName
	return rv, created, nil
}

// ForHotel returns the reviews of an active hotel with its rating summary.
func (s *Service) ForHotel(ctx context.Context, hotelID int64) (*HotelReviews, error) {
	if _, err := s.hotel(ctx, hotelID); err != nil {
		return nil, err
	}
	list, err := s.reviews.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	summary, err := s.reviews.SummaryByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("rating summary: %w", err)
	}
	return &HotelReviews{HotelID: hotelID, Summary: summary, Reviews: list}, nil
}

func (s *Service) hotel(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load hotel %d: %w", id, err)
	}
	if !u.IsHotel() || !u.IsActive {
		return nil, ErrNotFound
	}
	return u, nil
}
