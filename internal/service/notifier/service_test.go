package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/logger"
	"github.com/m04kA/TrekBookingService/pkg/ptr"
)

type fakeOutbox struct {
	emails []domain.Email
	err    error
}

func (f *fakeOutbox) Enqueue(ctx context.Context, email domain.Email, now time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.emails = append(f.emails, email)
	return int64(len(f.emails)), nil
}

type fakeNotifications struct {
	created []*domain.Notification
	err     error
}

func (f *fakeNotifications) Create(ctx context.Context, n *domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

type fakeNewsletter struct {
	subscribed []string
	err        error
}

func (f *fakeNewsletter) Subscribe(ctx context.Context, s *domain.NewsletterSubscriber) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.subscribed = append(f.subscribed, s.Email)
	return true, nil
}

func TestService_Enqueue(t *testing.T) {
	outbox := &fakeOutbox{}
	svc := NewService(outbox, &fakeNotifications{}, &fakeNewsletter{}, logger.NewNop())

	err := svc.Enqueue(context.Background(), domain.Email{Kind: domain.EmailReminder, To: "a@example.com"})
	require.NoError(t, err)
	assert.Len(t, outbox.emails, 1)

	err = svc.Enqueue(context.Background(), domain.Email{Kind: domain.EmailReminder, To: " "})
	assert.ErrorIs(t, err, ErrNoRecipient)
	assert.Len(t, outbox.emails, 1)
}

func TestService_BestEffortSwallowsErrors(t *testing.T) {
	svc := NewService(
		&fakeOutbox{err: errors.New("db down")},
		&fakeNotifications{err: errors.New("db down")},
		&fakeNewsletter{err: errors.New("db down")},
		logger.NewNop(),
	)

	assert.False(t, svc.EnqueueBestEffort(context.Background(), domain.Email{To: "a@example.com"}))
	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), &domain.Notification{Type: domain.NotificationDepositPaid})
		svc.Subscribe(context.Background(), "a@example.com", nil, "climber_details")
	})
}

func TestComposer_LeadSummaryListsEveryLink(t *testing.T) {
	c := NewComposer("https://example.com/", "Kili Treks", "staff@example.com")
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{BookingRef: "4F9C21AB", LeadName: "Neema", LeadEmail: "neema@example.com", TotalClimbers: 3}
	departure := &domain.GroupDeparture{RouteName: "Machame", StartDate: start, EndDate: start.AddDate(0, 0, 7)}
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	tokens := []*domain.ClimberToken{
		{ClimberIndex: 1, Code: "code-one", ClimberName: ptr.Ptr("Juma"), ExpiresAt: now.Add(domain.TokenTTL)},
		{ClimberIndex: 2, Code: "code-two", ExpiresAt: now.Add(domain.TokenTTL)},
	}

	email := c.LeadSummary(booking, departure, tokens, now)

	assert.Equal(t, domain.EmailLeadSummary, email.Kind)
	assert.Equal(t, "neema@example.com", email.To)
	assert.Contains(t, email.Body, "Climber 2 (Juma): https://example.com/climber-details/code-one")
	assert.Contains(t, email.Body, "Climber 3: https://example.com/climber-details/code-two")
	assert.Contains(t, email.Body, "https://example.com/manage-climbers/4F9C21AB")
}

func TestComposer_LeadSummaryMarksExpiredLinks(t *testing.T) {
	c := NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	booking := &domain.Booking{BookingRef: "4F9C21AB", LeadName: "Neema", LeadEmail: "neema@example.com", TotalClimbers: 3}
	departure := &domain.GroupDeparture{RouteName: "Machame", StartDate: now, EndDate: now.AddDate(0, 0, 7)}
	tokens := []*domain.ClimberToken{
		{ClimberIndex: 1, Code: "fresh", ExpiresAt: now.Add(time.Hour)},
		{ClimberIndex: 2, Code: "stale", ExpiresAt: now.Add(-time.Hour)},
	}

	email := c.LeadSummary(booking, departure, tokens, now)

	assert.Contains(t, email.Body, "Climber 2: https://example.com/climber-details/fresh")
	assert.Contains(t, email.Body, "Climber 3: link expired")
	assert.NotContains(t, email.Body, "climber-details/stale")
}

func TestComposer_ReminderStages(t *testing.T) {
	c := NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	booking := &domain.Booking{BookingRef: "4F9C21AB"}
	departure := &domain.GroupDeparture{RouteName: "Lemosho"}
	token := &domain.ClimberToken{Code: "abc", Email: ptr.Ptr("juma@example.com")}

	week := c.Reminder(booking, departure, token, domain.ReminderSevenDays)
	final := c.Reminder(booking, departure, token, domain.ReminderThreeDays)

	assert.Equal(t, domain.EmailReminder, week.Kind)
	assert.Equal(t, domain.EmailFinalReminder, final.Kind)
	assert.True(t, strings.HasPrefix(final.Subject, "Urgent"))
	assert.Equal(t, "juma@example.com", final.To)
}
