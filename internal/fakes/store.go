// Package fakes in-memory реализации репозиториев для тестов сервисов и use case
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
	bookingRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/booking"
	climberRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climber"
	tokenRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/climbertoken"
	commissionRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/commission"
	departureRepo "github.com/m04kA/TrekBookingService/internal/infra/storage/departure"
)

type climberKey struct {
	bookingID string
	index     int
}

// Store общее хранилище; репозитории ниже работают поверх него
// Ошибки Fail* возвращаются следующим вызовом соответствующего метода
type Store struct {
	mu sync.Mutex

	bookings    map[string]*domain.Booking
	departures  map[int64]*domain.GroupDeparture
	details     map[climberKey]*domain.ClimberDetails
	tokens      map[int64]*domain.ClimberToken
	partners    map[string]*domain.Partner
	commissions map[string]*domain.Commission

	Notifications []*domain.Notification
	Subscribers   map[string]*domain.NewsletterSubscriber
	Emails        []*domain.OutboxMessage

	nextTokenID int64
	nextID      int64

	FailEnqueue     error
	FailCreateToken error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		bookings:    make(map[string]*domain.Booking),
		departures:  make(map[int64]*domain.GroupDeparture),
		details:     make(map[climberKey]*domain.ClimberDetails),
		tokens:      make(map[int64]*domain.ClimberToken),
		partners:    make(map[string]*domain.Partner),
		commissions: make(map[string]*domain.Commission),
		Subscribers: make(map[string]*domain.NewsletterSubscriber),
	}
}

// AddDeparture добавляет выезд
func (s *Store) AddDeparture(d *domain.GroupDeparture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.departures[d.ID] = d
}

// AddBooking добавляет бронирование
func (s *Store) AddBooking(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *b
	s.bookings[b.ID] = &copied
}

// AddPartner добавляет партнера
func (s *Store) AddPartner(p *domain.Partner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partners[strings.ToUpper(p.ReferralCode)] = p
}

// PutDetails сохраняет данные участника как есть
func (s *Store) PutDetails(d *domain.ClimberDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *d
	s.details[climberKey{d.BookingID, d.ClimberIndex}] = &copied
}

// Tokens возвращает копии всех токенов бронирования
func (s *Store) Tokens(bookingID string) []*domain.ClimberToken {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokensLocked(bookingID)
}

// EmailsTo возвращает письма, поставленные в очередь для адресата
func (s *Store) EmailsTo(to string) []domain.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Email
	for _, m := range s.Emails {
		if m.Email.To == to {
			out = append(out, m.Email)
		}
	}
	return out
}

// Commission возвращает комиссию бронирования
func (s *Store) Commission(bookingID string) *domain.Commission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commissions[bookingID]
}

// Booking возвращает бронирование
func (s *Store) Booking(id string) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookings[id]
}

func (s *Store) tokensLocked(bookingID string) []*domain.ClimberToken {
	out := make([]*domain.ClimberToken, 0)
	for _, t := range s.tokens {
		if t.BookingID != bookingID {
			continue
		}
		out = append(out, s.withCompletion(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClimberIndex < out[j].ClimberIndex })
	return out
}

func (s *Store) withCompletion(t *domain.ClimberToken) *domain.ClimberToken {
	copied := *t
	copied.IsCompleted = false
	copied.CompletedAt = nil
	if d, ok := s.details[climberKey{t.BookingID, t.ClimberIndex}]; ok && d.IsComplete {
		copied.IsCompleted = true
		copied.CompletedAt = d.CompletedAt
	}
	return &copied
}

// Bookings репозиторий бронирований
type Bookings struct{ s *Store }

// Departures репозиторий выездов
type Departures struct{ s *Store }

// Climbers репозиторий данных участников
type Climbers struct{ s *Store }

// ClimberTokens репозиторий токенов
type ClimberTokens struct{ s *Store }

// Commissions репозиторий комиссий
type Commissions struct{ s *Store }

// Notifications репозиторий уведомлений
type Notifications struct{ s *Store }

// Newsletter репозиторий подписчиков
type Newsletter struct{ s *Store }

// Outbox репозиторий очереди писем
type Outbox struct{ s *Store }

func (s *Store) BookingRepo() *Bookings           { return &Bookings{s} }
func (s *Store) DepartureRepo() *Departures       { return &Departures{s} }
func (s *Store) ClimberRepo() *Climbers           { return &Climbers{s} }
func (s *Store) TokenRepo() *ClimberTokens        { return &ClimberTokens{s} }
func (s *Store) CommissionRepo() *Commissions     { return &Commissions{s} }
func (s *Store) NotificationRepo() *Notifications { return &Notifications{s} }
func (s *Store) NewsletterRepo() *Newsletter      { return &Newsletter{s} }
func (s *Store) OutboxRepo() *Outbox              { return &Outbox{s} }

func (r *Bookings) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.bookings {
		if existing.BookingRef == b.BookingRef {
			return nil, bookingRepo.ErrDuplicateBookingRef
		}
	}
	copied := *b
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.s.bookings[b.ID] = &copied
	out := copied
	return &out, nil
}

func (r *Bookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *Bookings) GetByRefAndLeadEmail(ctx context.Context, ref, leadEmail string) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.BookingRef == ref && strings.ToLower(b.LeadEmail) == leadEmail {
			copied := *b
			return &copied, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (r *Bookings) CountReservedClimbers(ctx context.Context, departureID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, b := range r.s.bookings {
		if b.DepartureID == departureID && b.IsActive() {
			total += b.TotalClimbers
		}
	}
	return total, nil
}

func (r *Bookings) ListByDeparture(ctx context.Context, departureID int64, statuses []domain.BookingStatus) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if b.DepartureID != departureID || !statusIn(b.Status, statuses) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func statusIn(status domain.BookingStatus, statuses []domain.BookingStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (r *Bookings) Update(ctx context.Context, id string, update domain.BookingUpdate, now time.Time) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	if update.DepositPaid != nil {
		b.DepositPaid = *update.DepositPaid
		if b.DepositPaid && b.DepositPaidAt == nil {
			t := now
			b.DepositPaidAt = &t
		}
		if !b.DepositPaid {
			b.DepositPaidAt = nil
		}
	}
	if update.BalancePaid != nil {
		b.BalancePaid = *update.BalancePaid
		if b.BalancePaid && b.BalancePaidAt == nil {
			t := now
			b.BalancePaidAt = &t
		}
		if !b.BalancePaid {
			b.BalancePaidAt = nil
		}
	}
	if update.Status != nil {
		b.Status = *update.Status
	}
	if update.Notes != nil {
		b.Notes = update.Notes
	}
	b.UpdatedAt = now
	copied := *b
	return &copied, nil
}

func (r *Bookings) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(r.s.bookings, id)
	delete(r.s.commissions, id)
	for k := range r.s.details {
		if k.bookingID == id {
			delete(r.s.details, k)
		}
	}
	for tid, t := range r.s.tokens {
		if t.BookingID == id {
			delete(r.s.tokens, tid)
		}
	}
	return nil
}

func (r *Departures) GetByID(ctx context.Context, id int64) (*domain.GroupDeparture, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.departures[id]
	if !ok {
		return nil, departureRepo.ErrDepartureNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *Climbers) Upsert(ctx context.Context, d *domain.ClimberDetails, onlyIfIncomplete bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := climberKey{d.BookingID, d.ClimberIndex}
	existing, ok := r.s.details[key]
	if ok && onlyIfIncomplete && existing.IsComplete {
		return climberRepo.ErrAlreadyCompleted
	}
	sub := domain.ClimberSubmission{
		Name:                d.Name,
		Email:               d.Email,
		Phone:               d.Phone,
		Nationality:         d.Nationality,
		PassportNumber:      d.PassportNumber,
		DateOfBirth:         d.DateOfBirth,
		DietaryRequirements: d.DietaryRequirements,
		MedicalConditions:   d.MedicalConditions,
	}
	merged := sub.MergeInto(existing, d.BookingID, d.ClimberIndex, d.UpdatedAt)
	merged.IsComplete = d.IsComplete
	merged.CompletedAt = d.CompletedAt
	r.s.details[key] = merged
	return nil
}

func (r *Climbers) Get(ctx context.Context, bookingID string, index int) (*domain.ClimberDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.details[climberKey{bookingID, index}]
	if !ok {
		return nil, climberRepo.ErrDetailsNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *Climbers) GetRoster(ctx context.Context, bookingID string) (domain.ClimberRoster, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	roster := make(domain.ClimberRoster)
	for k, d := range r.s.details {
		if k.bookingID == bookingID {
			copied := *d
			roster[k.index] = &copied
		}
	}
	return roster, nil
}

func (r *ClimberTokens) CreateIfAbsent(ctx context.Context, token *domain.ClimberToken) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailCreateToken != nil {
		return false, r.s.FailCreateToken
	}
	for _, t := range r.s.tokens {
		if t.BookingID == token.BookingID && t.ClimberIndex == token.ClimberIndex {
			return false, nil
		}
	}
	r.s.nextTokenID++
	token.ID = r.s.nextTokenID
	token.CreatedAt = time.Now()
	copied := *token
	r.s.tokens[token.ID] = &copied
	return true, nil
}

func (r *ClimberTokens) GetByCode(ctx context.Context, code string) (*domain.ClimberToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.Code == code {
			return r.s.withCompletion(t), nil
		}
	}
	return nil, tokenRepo.ErrTokenNotFound
}

func (r *ClimberTokens) GetByBookingAndIndex(ctx context.Context, bookingID string, index int) (*domain.ClimberToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.BookingID == bookingID && t.ClimberIndex == index {
			return r.s.withCompletion(t), nil
		}
	}
	return nil, tokenRepo.ErrTokenNotFound
}

func (r *ClimberTokens) ListByBooking(ctx context.Context, bookingID string) ([]*domain.ClimberToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.tokensLocked(bookingID), nil
}

func (r *ClimberTokens) ListForReminder(ctx context.Context, filter domain.TokenReminderFilter) ([]*domain.ClimberToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.ClimberToken, 0)
	for _, t := range r.s.tokens {
		stamp := t.ReminderSentAt
		if filter.Stage == domain.ReminderThreeDays {
			stamp = t.FinalReminderSentAt
		}
		view := r.s.withCompletion(t)
		if stamp != nil || !view.HasEmail() || view.IsCompleted {
			continue
		}
		if t.ExpiresAt.Before(filter.ExpiresAfter) || t.ExpiresAt.After(filter.ExpiresBefore) {
			continue
		}
		out = append(out, view)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ClimberTokens) UpdateEmail(ctx context.Context, id int64, email string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return tokenRepo.ErrTokenNotFound
	}
	t.Email = &email
	return nil
}

func (r *ClimberTokens) Delete(ctx context.Context, bookingID string, tokenID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[tokenID]
	if !ok || t.BookingID != bookingID {
		return tokenRepo.ErrTokenNotFound
	}
	delete(r.s.tokens, tokenID)
	return nil
}

func (r *ClimberTokens) MarkReminderSent(ctx context.Context, id int64, stage domain.ReminderStage, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return tokenRepo.ErrReminderAlreadySent
	}
	stamp := &t.ReminderSentAt
	if stage == domain.ReminderThreeDays {
		stamp = &t.FinalReminderSentAt
	}
	if *stamp != nil {
		return tokenRepo.ErrReminderAlreadySent
	}
	at2 := at
	*stamp = &at2
	return nil
}

func (r *Commissions) GetActivePartnerByCode(ctx context.Context, code string) (*domain.Partner, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.partners[strings.ToUpper(strings.TrimSpace(code))]
	if !ok || !p.IsActive {
		return nil, commissionRepo.ErrPartnerNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *Commissions) Create(ctx context.Context, c *domain.Commission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.commissions[c.BookingID]; ok {
		return commissionRepo.ErrCommissionExists
	}
	r.s.nextID++
	c.ID = r.s.nextID
	copied := *c
	r.s.commissions[c.BookingID] = &copied
	return nil
}

func (r *Commissions) GetByBooking(ctx context.Context, bookingID string) (*domain.Commission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commissions[bookingID]
	if !ok {
		return nil, commissionRepo.ErrCommissionNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *Commissions) CancelByBooking(ctx context.Context, bookingID string, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.commissions[bookingID]
	if !ok || (c.Status != domain.CommissionPending && c.Status != domain.CommissionApproved) {
		return false, nil
	}
	c.Status = domain.CommissionCancelled
	c.UpdatedAt = now
	return true, nil
}

func (r *Notifications) Create(ctx context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextID++
	n.ID = r.s.nextID
	r.s.Notifications = append(r.s.Notifications, n)
	return nil
}

func (r *Newsletter) Subscribe(ctx context.Context, sub *domain.NewsletterSubscriber) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := domain.NormalizeEmail(sub.Email)
	if _, ok := r.s.Subscribers[email]; ok {
		return false, nil
	}
	r.s.Subscribers[email] = sub
	return true, nil
}

func (r *Outbox) Enqueue(ctx context.Context, email domain.Email, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailEnqueue != nil {
		return 0, r.s.FailEnqueue
	}
	r.s.nextID++
	r.s.Emails = append(r.s.Emails, &domain.OutboxMessage{
		ID:            r.s.nextID,
		Email:         email,
		Status:        domain.OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	})
	return r.s.nextID, nil
}

// TxManager выполняет функцию без транзакции
type TxManager struct{}

func (TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

func (TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Clock фиксированное время для тестов
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time { return c.T }

// Metrics счетчики бизнес-метрик
type Metrics struct {
	Issued     int
	Submitted  map[string]int
	Reminders  map[string]int
	Deliveries map[string]int
}

// NewMetrics создает пустые счетчики
func NewMetrics() *Metrics {
	return &Metrics{
		Submitted:  make(map[string]int),
		Reminders:  make(map[string]int),
		Deliveries: make(map[string]int),
	}
}

func (m *Metrics) TokensIssued(n int)            { m.Issued += n }
func (m *Metrics) DetailsSubmitted(path string)  { m.Submitted[path]++ }
func (m *Metrics) ReminderEnqueued(stage string) { m.Reminders[stage]++ }
func (m *Metrics) OutboxDelivery(result string)  { m.Deliveries[result]++ }
