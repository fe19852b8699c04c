package outbox

import (
	"context"
	"time"

	"github.com/m04kA/TrekBookingService/internal/domain"
	"github.com/m04kA/TrekBookingService/internal/integrations/emailservice"
)

// Результаты доставки для метрик
const (
	ResultSent   = "sent"
	ResultRetry  = "retry"
	ResultFailed = "failed"
)

// maxBackoffShift ограничивает рост задержки
const maxBackoffShift = 16

// Config параметры воркера
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
	// Lease время, на которое захваченное письмо скрыто от других воркеров
	Lease time.Duration
}

// Dispatcher забирает письма из очереди и отправляет их через провайдера
type Dispatcher struct {
	repo         Repository
	sender       Sender
	metrics      Metrics
	cfg          Config
	timeProvider TimeProvider
	logger       Logger
}

// NewDispatcher создает воркер очереди писем
func NewDispatcher(repo Repository, sender Sender, metrics Metrics, cfg Config, logger Logger) *Dispatcher {
	if cfg.Lease <= 0 {
		cfg.Lease = 5 * time.Minute
	}
	return &Dispatcher{
		repo:         repo,
		sender:       sender,
		metrics:      metrics,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Run опрашивает очередь до отмены контекста
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("OutboxDispatcher: started, poll interval %s, batch %d", d.cfg.PollInterval, d.cfg.BatchSize)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		// Пачка целиком означает, что в очереди могут остаться письма
		for {
			n, err := d.ProcessBatch(ctx)
			if err != nil || n < d.cfg.BatchSize || ctx.Err() != nil {
				break
			}
		}

		select {
		case <-ctx.Done():
			d.logger.Info("OutboxDispatcher: stopped")
			return
		case <-ticker.C:
		}
	}
}

// ProcessBatch обрабатывает одну пачку писем и возвращает их число
func (d *Dispatcher) ProcessBatch(ctx context.Context) (int, error) {
	now := d.timeProvider.Now()

	messages, err := d.repo.ClaimDue(ctx, d.cfg.BatchSize, now, now.Add(d.cfg.Lease))
	if err != nil {
		d.logger.Error("OutboxDispatcher: failed to claim messages: %v", err)
		return 0, err
	}

	for _, m := range messages {
		d.deliver(ctx, m)
	}

	return len(messages), nil
}

func (d *Dispatcher) deliver(ctx context.Context, m *domain.OutboxMessage) {
	attempts := m.Attempts + 1

	providerID, sendErr := d.sender.Send(ctx, m.Email)
	now := d.timeProvider.Now()

	if sendErr == nil {
		if err := d.repo.MarkSent(ctx, m.ID, attempts, now); err != nil {
			d.logger.Error("OutboxDispatcher: message id=%d sent (provider id=%s) but not marked: %v", m.ID, providerID, err)
			return
		}
		d.metrics.OutboxDelivery(ResultSent)
		return
	}

	lastError := sendErr.Error()

	if emailservice.IsPermanent(sendErr) || attempts >= d.cfg.MaxAttempts {
		d.logger.Error("OutboxDispatcher: message id=%d (%s to %s) failed after %d attempt(s): %v",
			m.ID, m.Email.Kind, m.Email.To, attempts, sendErr)
		if err := d.repo.MarkFailed(ctx, m.ID, attempts, lastError); err != nil {
			d.logger.Error("OutboxDispatcher: failed to mark message id=%d failed: %v", m.ID, err)
			return
		}
		d.metrics.OutboxDelivery(ResultFailed)
		return
	}

	next := now.Add(Backoff(d.cfg.BaseBackoff, m.Attempts))
	d.logger.Warn("OutboxDispatcher: message id=%d attempt %d failed, retry at %s: %v",
		m.ID, attempts, next.Format(time.RFC3339), sendErr)
	if err := d.repo.MarkRetry(ctx, m.ID, attempts, lastError, next); err != nil {
		d.logger.Error("OutboxDispatcher: failed to reschedule message id=%d: %v", m.ID, err)
		return
	}
	d.metrics.OutboxDelivery(ResultRetry)
}

// Backoff задержка перед следующей попыткой: base * 2^previousAttempts
func Backoff(base time.Duration, previousAttempts int) time.Duration {
	shift := previousAttempts
	if shift < 0 {
		shift = 0
	}
	if shift > maxBackoffShift {
		shift = maxBackoffShift
	}
	return base << uint(shift)
}
