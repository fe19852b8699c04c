package newsletter

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/pkg/dbmetrics"
)

func TestRepository_Subscribe(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "new subscriber", affected: 1, want: true},
		{name: "already subscribed", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewRepository(dbmetrics.Wrap(db))

			mock.ExpectExec(regexp.QuoteMeta("INSERT INTO newsletter_subscribers (email,name,source) VALUES ($1,$2,$3) ON CONFLICT (email) DO NOTHING")).
				WithArgs("asha@example.com", nil, "climber_details").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			added, err := repo.Subscribe(context.Background(), &domain.NewsletterSubscriber{
				Email:  " Asha@Example.com",
				Source: "climber_details",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, added)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
