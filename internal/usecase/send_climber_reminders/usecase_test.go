package send_climber_reminders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	"github.com/m04kA/TrekBookingService/pkg/logger"
	"github.com/m04kA/TrekBookingService/pkg/ptr"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *fakes.Store
	metrics *fakes.Metrics
	uc      *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := fakes.NewStore()
	store.AddDeparture(&domain.GroupDeparture{
		ID:        1,
		RouteName: "Lemosho 8 days",
		StartDate: now.AddDate(0, 1, 0),
		EndDate:   now.AddDate(0, 1, 8),
	})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "REF00001",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: 6,
		DepositPaid:   true,
	})

	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	metrics := fakes.NewMetrics()

	uc := NewUseCase(
		store.TokenRepo(),
		store.BookingRepo(),
		store.DepartureRepo(),
		notify,
		composer,
		metrics,
		fakes.TxManager{},
		log,
	)
	uc.timeProvider = &fakes.Clock{T: now}

	return &fixture{store: store, metrics: metrics, uc: uc}
}

func (f *fixture) addToken(t *testing.T, index int, email string, expiresIn time.Duration) {
	t.Helper()
	token := &domain.ClimberToken{
		BookingID:    "b1",
		Code:         "code-" + string(rune('a'+index)),
		ClimberIndex: index,
		ExpiresAt:    now.Add(expiresIn),
	}
	if email != "" {
		token.Email = ptr.Ptr(email)
	}
	created, err := f.store.TokenRepo().CreateIfAbsent(context.Background(), token)
	require.NoError(t, err)
	require.True(t, created)
}

func TestUseCase_Execute_SelectsWindows(t *testing.T) {
	f := newFixture(t)

	f.addToken(t, 1, "seven@example.com", 7*domain.Day)
	f.addToken(t, 2, "three@example.com", 3*domain.Day)
	f.addToken(t, 3, "", 7*domain.Day)
	f.addToken(t, 4, "far@example.com", 10*domain.Day)
	f.addToken(t, 5, "done@example.com", 3*domain.Day)
	f.store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 5, Name: "Done", Email: "done@example.com", IsComplete: true})

	resp, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SevenDayReminders)
	assert.Equal(t, 1, resp.ThreeDayReminders)
	assert.Empty(t, resp.Errors)

	seven := f.store.EmailsTo("seven@example.com")
	require.Len(t, seven, 1)
	assert.Equal(t, domain.EmailReminder, seven[0].Kind)

	three := f.store.EmailsTo("three@example.com")
	require.Len(t, three, 1)
	assert.Equal(t, domain.EmailFinalReminder, three[0].Kind)

	assert.Empty(t, f.store.EmailsTo("far@example.com"))
	assert.Empty(t, f.store.EmailsTo("done@example.com"))
	assert.Equal(t, 1, f.metrics.Reminders["7d"])
	assert.Equal(t, 1, f.metrics.Reminders["3d"])
}

func TestUseCase_Execute_SecondRunDoesNotResend(t *testing.T) {
	f := newFixture(t)
	f.addToken(t, 1, "seven@example.com", 7*domain.Day)

	first, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.SevenDayReminders)

	tokens := f.store.Tokens("b1")
	require.Len(t, tokens, 1)
	require.NotNil(t, tokens[0].ReminderSentAt)
	assert.Equal(t, now, *tokens[0].ReminderSentAt)
	assert.Nil(t, tokens[0].FinalReminderSentAt)

	second, err := f.uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.SevenDayReminders)
	assert.Len(t, f.store.EmailsTo("seven@example.com"), 1)
}

func TestUseCase_Execute_WindowBoundsInclusive(t *testing.T) {
	f := newFixture(t)
	f.addToken(t, 1, "low@example.com", 6*domain.Day)
	f.addToken(t, 2, "high@example.com", 8*domain.Day)
	f.addToken(t, 3, "gap@example.com", 5*domain.Day)

	resp, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, resp.SevenDayReminders)
	assert.Zero(t, resp.ThreeDayReminders)
	assert.Empty(t, f.store.EmailsTo("gap@example.com"))
}

func TestUseCase_Execute_ItemFailureIsCollected(t *testing.T) {
	f := newFixture(t)
	f.addToken(t, 1, "seven@example.com", 7*domain.Day)
	f.store.FailEnqueue = errors.New("connection reset")

	resp, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.SevenDayReminders)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "connection reset")
	assert.Empty(t, f.metrics.Reminders)
}

func TestUseCase_Execute_MissingBookingIsCollected(t *testing.T) {
	f := newFixture(t)
	created, err := f.store.TokenRepo().CreateIfAbsent(context.Background(), &domain.ClimberToken{
		BookingID:    "gone",
		Code:         "orphan",
		ClimberIndex: 1,
		Email:        ptr.Ptr("orphan@example.com"),
		ExpiresAt:    now.Add(3 * domain.Day),
	})
	require.NoError(t, err)
	require.True(t, created)
	f.addToken(t, 1, "seven@example.com", 7*domain.Day)

	resp, err := f.uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.SevenDayReminders)
	assert.Zero(t, resp.ThreeDayReminders)
	assert.Len(t, resp.Errors, 1)
}
