package notification

import (
	"context"
	"fmt"
	"time"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/metrics"
	"hotelbooking/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InboxLimit is how many unread notifications the inbox shows.
const InboxLimit = 8

type Service struct {
	repo    *repository.NotificationRepository
	hub     *Hub
	metrics *metrics.Metrics
	log     *logrus.Logger
	now     func() time.Time
}

func NewService(repo *repository.NotificationRepository, hub *Hub, m *metrics.Metrics, log *logrus.Logger) *Service {
	return &Service{repo: repo, hub: hub, metrics: m, log: log, now: time.Now}
}

// Fanout writes notifications through a transaction-bound repository.
type Fanout struct {
	svc  *Service
	repo *repository.NotificationRepository
}

// Tx returns a Fanout whose writes join tx.
func (s *Service) Tx(tx *gorm.DB) *Fanout {
	return &Fanout{svc: s, repo: s.repo.WithTx(tx)}
}

// BookingStatus notifies the guest and the hotel about b's current status.
// Recipients are deduplicated and an existing (recipient, booking, status)
// row is left untouched. Only newly written rows are returned.
func (f *Fanout) BookingStatus(ctx context.Context, b *domain.Booking, hotelID int64) ([]domain.BookingNotification, error) {
	recipients := []int64{b.GuestID}
	if hotelID != 0 && hotelID != b.GuestID {
		recipients = append(recipients, hotelID)
	}

	kind := domain.StatusKind(b.Status)
	created := make([]domain.BookingNotification, 0, len(recipients))
	for _, recipientID := range recipients {
		n := &domain.BookingNotification{
			RecipientID: recipientID,
			BookingID:   b.ID,
			Kind:        kind,
			Message:     domain.StatusMessage(b.Status),
			CreatedAt:   f.svc.now(),
		}
		inserted, err := f.repo.InsertIfAbsent(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("store %s notification for %d: %w", kind, recipientID, err)
		}
		if !inserted {
			f.svc.metrics.NotificationsStored.WithLabelValues(string(kind), "duplicate").Inc()
			continue
		}
		f.svc.metrics.NotificationsStored.WithLabelValues(string(kind), "created").Inc()
		created = append(created, *n)
	}
	return created, nil
}

// Review notifies the hotel that a guest added or edited a review.
func (f *Fanout) Review(ctx context.Context, hotelID, bookingID int64, kind domain.NotificationKind, guestName string) (*domain.BookingNotification, error) {
	msg := fmt.Sprintf("%s added a review.", guestName)
	if kind == domain.KindReviewUpdated {
		msg = fmt.Sprintf("%s updated a review.", guestName)
	}
	n := &domain.BookingNotification{
		RecipientID: hotelID,
		BookingID:   bookingID,
		Kind:        kind,
		Message:     msg,
		CreatedAt:   f.svc.now(),
	}
	if err := f.repo.Refresh(ctx, n); err != nil {
		return nil, fmt.Errorf("store %s notification: %w", kind, err)
	}
	f.svc.metrics.NotificationsStored.WithLabelValues(string(kind), "created").Inc()
	return n, nil
}

// Forget drops every notification about a booking that is being deleted.
func (f *Fanout) Forget(ctx context.Context, bookingID int64) error {
	return f.repo.DeleteByBooking(ctx, bookingID)
}

// Deliver pushes committed notifications to connected clients.
func (s *Service) Deliver(ns ...domain.BookingNotification) {
	if s.hub == nil {
		return
	}
	for _, n := range ns {
		s.hub.Push(n.RecipientID, &WSEvent{Type: EventNotification, Payload: n})
	}
}

type NotificationView struct {
	domain.BookingNotification
	Link string `json:"link"`
}

type Inbox struct {
	Notifications []NotificationView `json:"notifications"`
	UnreadCount   int64              `json:"unread_count"`
}

// Inbox returns the latest unread notifications of the account and the
// total unread count.
func (s *Service) Inbox(ctx context.Context, account *domain.User) (*Inbox, error) {
	unread, err := s.repo.ListUnread(ctx, account.ID, InboxLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountUnread(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return &Inbox{Notifications: s.views(account, unread), UnreadCount: count}, nil
}

func (s *Service) List(ctx context.Context, account *domain.User, limit, offset int) ([]NotificationView, error) {
	list, err := s.repo.ListByRecipient(ctx, account.ID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.views(account, list), nil
}

func (s *Service) MarkRead(ctx context.Context, recipientID, id int64) error {
	ok, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *Service) views(account *domain.User, list []domain.BookingNotification) []NotificationView {
	out := make([]NotificationView, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationView{BookingNotification: n, Link: Link(account.Role, n)})
	}
	return out
}

// Link is where the client should navigate when the notification is opened.
func Link(role domain.UserRole, n domain.BookingNotification) string {
	if role == domain.RoleHotel && n.Kind.IsReview() {
		return fmt.Sprintf("/api/v1/hotel/reviews?notification=%d", n.ID)
	}
	history := "/api/v1/bookings/history"
	if role == domain.RoleHotel {
		history = "/api/v1/hotel/bookings"
	}
	return fmt.Sprintf("%s?state=all&notification=%d#booking-%d", history, n.ID, n.BookingID)
}
