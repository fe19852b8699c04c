package issue_climber_tokens

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	"github.com/m04kA/TrekBookingService/pkg/logger"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store   *fakes.Store
	metrics *fakes.Metrics
	uc      *UseCase
}

func newFixture(t *testing.T, totalClimbers int) *fixture {
	t.Helper()

	store := fakes.NewStore()
	store.AddDeparture(&domain.GroupDeparture{
		ID:          1,
		RouteName:   "Machame 7 days",
		StartDate:   now.AddDate(0, 2, 0),
		EndDate:     now.AddDate(0, 2, 7),
		MaxClimbers: 12,
	})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "REF00001",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: totalClimbers,
		Status:        domain.StatusDepositPaid,
		DepositPaid:   true,
	})
	store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 0, Name: "Neema", Email: "neema@example.com", IsComplete: true})

	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	metrics := fakes.NewMetrics()

	uc := NewUseCase(
		store.BookingRepo(),
		store.DepartureRepo(),
		store.ClimberRepo(),
		store.TokenRepo(),
		notify,
		composer,
		metrics,
		log,
	)
	uc.timeProvider = &fakes.Clock{T: now}

	counter := 0
	uc.generateCode = func() (string, error) {
		counter++
		return fmt.Sprintf("code-%d", counter), nil
	}

	return &fixture{store: store, metrics: metrics, uc: uc}
}

func TestUseCase_Execute_CreatesTokensForNonLeadIndexes(t *testing.T) {
	f := newFixture(t, 3)

	resp, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)

	require.Len(t, resp.Created, 2)
	assert.Equal(t, 1, resp.Created[0].ClimberIndex)
	assert.Equal(t, 2, resp.Created[1].ClimberIndex)
	assert.Equal(t, now.Add(domain.TokenTTL), resp.Created[0].ExpiresAt)
	assert.Equal(t, 2, f.metrics.Issued)

	for _, token := range f.store.Tokens("b1") {
		assert.NotEqual(t, domain.LeadClimberIndex, token.ClimberIndex)
	}

	// одно сводное письмо лиду, индивидуальных нет: email участников неизвестен
	assert.Len(t, f.store.EmailsTo("neema@example.com"), 1)
	assert.Equal(t, 1, resp.EmailsQueued)
}

func TestUseCase_Execute_Idempotent(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)

	resp, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)

	assert.Empty(t, resp.Created)
	assert.Equal(t, []int{1, 2}, resp.SkippedExisting)
	assert.Len(t, f.store.Tokens("b1"), 2)
	assert.Len(t, f.store.EmailsTo("neema@example.com"), 1)
}

func TestUseCase_Execute_SkipsCompletedAndUsesKnownContacts(t *testing.T) {
	f := newFixture(t, 4)

	f.store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 1, Name: "Asha", Email: "asha@example.com", IsComplete: true})
	f.store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 2, Name: "Juma", Email: "juma@example.com"})

	resp, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)

	assert.Equal(t, []int{1}, resp.SkippedCompleted)
	require.Len(t, resp.Created, 2)
	assert.Equal(t, 2, resp.Created[0].ClimberIndex)
	require.NotNil(t, resp.Created[0].Email)
	assert.Equal(t, "juma@example.com", *resp.Created[0].Email)
	assert.Equal(t, "Juma", *resp.Created[0].ClimberName)

	assert.Len(t, f.store.EmailsTo("juma@example.com"), 1)
	assert.Empty(t, f.store.EmailsTo("asha@example.com"))
	assert.Equal(t, 2, resp.EmailsQueued)
}

func TestUseCase_Execute_SoloBookingIssuesNothing(t *testing.T) {
	f := newFixture(t, 1)

	resp, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)
	assert.Empty(t, resp.Created)
	assert.Empty(t, f.store.Emails)
}

func TestUseCase_Execute_EmailFailureDoesNotFail(t *testing.T) {
	f := newFixture(t, 2)
	f.store.FailEnqueue = errors.New("outbox unavailable")

	resp, err := f.uc.Execute(context.Background(), "b1")
	require.NoError(t, err)
	assert.Len(t, resp.Created, 1)
	assert.Zero(t, resp.EmailsQueued)
}

func TestUseCase_Execute_BookingNotFound(t *testing.T) {
	f := newFixture(t, 3)

	_, err := f.uc.Execute(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUseCase_Execute_CreateFailure(t *testing.T) {
	f := newFixture(t, 3)
	f.store.FailCreateToken = errors.New("db down")

	_, err := f.uc.Execute(context.Background(), "b1")
	assert.ErrorIs(t, err, ErrInternal)
}
