package climbertokens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/fakes"
	"github.com/m04kA/TrekBookingService/internal/service/climbertokens/models"
	"github.com/m04kA/TrekBookingService/internal/service/notifier"
	issueTokens "github.com/m04kA/TrekBookingService/internal/usecase/issue_climber_tokens"
	"github.com/m04kA/TrekBookingService/pkg/logger"
	"github.com/m04kA/TrekBookingService/pkg/ptr"
	"github.com/m04kA/TrekBookingService/pkg/validate"
)

type fixture struct {
	store *fakes.Store
	clock *fakes.Clock
	svc   *Service
}

func newFixture(t *testing.T, totalClimbers int) *fixture {
	t.Helper()

	store := fakes.NewStore()
	now := time.Now()
	store.AddDeparture(&domain.GroupDeparture{
		ID:        1,
		RouteName: "Lemosho 8 days",
		StartDate: now.AddDate(0, 3, 0),
		EndDate:   now.AddDate(0, 3, 8),
	})
	store.AddBooking(&domain.Booking{
		ID:            "b1",
		BookingRef:    "REF00001",
		DepartureID:   1,
		LeadName:      "Neema",
		LeadEmail:     "neema@example.com",
		TotalClimbers: totalClimbers,
		DepositPaid:   true,
	})
	store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 0, Name: "Neema", Email: "neema@example.com", IsComplete: true})

	log := logger.NewNop()
	notify := notifier.NewService(store.OutboxRepo(), store.NotificationRepo(), store.NewsletterRepo(), log)
	composer := notifier.NewComposer("https://example.com", "Kili Treks", "staff@example.com")
	issuer := issueTokens.NewUseCase(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		notify, composer, fakes.NewMetrics(), log,
	)

	svc := NewService(
		store.BookingRepo(), store.DepartureRepo(), store.ClimberRepo(), store.TokenRepo(),
		issuer, notify, composer, log,
	)
	clock := &fakes.Clock{T: now}
	svc.timeProvider = clock

	return &fixture{store: store, clock: clock, svc: svc}
}

func TestService_DepositScenario(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	generated, err := f.svc.Generate(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, generated.Created)
	assert.Equal(t, "https://example.com/climber-details/"+generated.Tokens[0].Code, generated.Tokens[0].Link)

	sent, err := f.svc.Resend(ctx, "b1", &models.ResendRequest{ClimberIndex: 1, Email: ptr.Ptr("Juma@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, 1, sent.Sent)
	assert.Len(t, f.store.EmailsTo("juma@example.com"), 1)

	status, err := f.svc.Status(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, status.Climbers, 3)
	require.NotNil(t, status.Climbers[1].Token)
	assert.Equal(t, "juma@example.com", *status.Climbers[1].Token.Email)

	require.NoError(t, f.svc.Delete(ctx, "b1", status.Climbers[2].Token.ID))

	status, err = f.svc.Status(ctx, "b1")
	require.NoError(t, err)
	assert.Nil(t, status.Climbers[2].Token)
	assert.True(t, status.Climbers[0].IsLead)
	assert.True(t, status.Climbers[0].IsComplete)
	assert.Nil(t, status.Climbers[0].Token)
	assert.Equal(t, 1, status.CompletedCount)
	assert.Equal(t, 3, status.TotalClimbers)
}

func TestService_Resend_Errors(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.Resend(ctx, "b1", &models.ResendRequest{ClimberIndex: 1})
	assert.ErrorIs(t, err, ErrTokenNotFound)

	_, err = f.svc.Generate(ctx, "b1")
	require.NoError(t, err)

	_, err = f.svc.Resend(ctx, "b1", &models.ResendRequest{ClimberIndex: 1})
	assert.ErrorIs(t, err, ErrNoEmail)

	_, err = f.svc.Resend(ctx, "b1", &models.ResendRequest{ClimberIndex: 1, Email: ptr.Ptr("not-an-email")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	fields, ok := validate.Fields(err)
	require.True(t, ok)
	assert.Equal(t, "email", fields[0].Field)

	_, err = f.svc.Resend(ctx, "missing", &models.ResendRequest{ClimberIndex: 1})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_SendAll(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, "b1")
	require.NoError(t, err)

	// индекс 2 уже заполнен: письмо ему не нужно
	f.store.PutDetails(&domain.ClimberDetails{BookingID: "b1", ClimberIndex: 2, Name: "Asha", Email: "asha@example.com", IsComplete: true})

	resp, err := f.svc.SendAll(ctx, "b1", &models.SendAllRequest{
		Emails: []string{"", "juma@example.com", "asha@example.com", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Skipped)
	assert.Len(t, f.store.EmailsTo("juma@example.com"), 1)
	assert.Empty(t, f.store.EmailsTo("asha@example.com"))
}

func TestService_SendToLead(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.SendToLead(ctx, "b1")
	assert.ErrorIs(t, err, ErrNoPendingTokens)

	_, err = f.svc.Generate(ctx, "b1")
	require.NoError(t, err)
	before := len(f.store.EmailsTo("neema@example.com"))

	resp, err := f.svc.SendToLead(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Sent)
	assert.Len(t, f.store.EmailsTo("neema@example.com"), before+1)

}

func TestService_SendToLead_IncludesExpiredLinks(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, "b1")
	require.NoError(t, err)
	before := len(f.store.EmailsTo("neema@example.com"))

	f.clock.T = f.clock.T.Add(domain.TokenTTL + time.Hour)
	resp, err := f.svc.SendToLead(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Sent)

	emails := f.store.EmailsTo("neema@example.com")
	require.Len(t, emails, before+1)
	assert.Contains(t, emails[len(emails)-1].Body, "link expired")
}

func TestService_Delete_ScopedToBooking(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	generated, err := f.svc.Generate(ctx, "b1")
	require.NoError(t, err)

	err = f.svc.Delete(ctx, "other-booking", generated.Tokens[0].ID)
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Len(t, f.store.Tokens("b1"), 1)
}
