package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/m04kA/TrekBookingService/internal/domain"
)

// Service ставит письма в очередь и создает уведомления
// Best-effort методы никогда не возвращают ошибку: сбой пишется в лог
type Service struct {
	outboxRepo       OutboxRepository
	notificationRepo NotificationRepository
	newsletterRepo   NewsletterRepository
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(
	outboxRepo OutboxRepository,
	notificationRepo NotificationRepository,
	newsletterRepo NewsletterRepository,
	logger Logger,
) *Service {
	return &Service{
		outboxRepo:       outboxRepo,
		notificationRepo: notificationRepo,
		newsletterRepo:   newsletterRepo,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Enqueue ставит письмо в очередь и возвращает ошибку вызывающему
// Выполняется в транзакции из ctx, если она есть
func (s *Service) Enqueue(ctx context.Context, email domain.Email) error {
	if strings.TrimSpace(email.To) == "" {
		return fmt.Errorf("%w: kind=%s", ErrNoRecipient, email.Kind)
	}

	id, err := s.outboxRepo.Enqueue(ctx, email, s.timeProvider.Now())
	if err != nil {
		return fmt.Errorf("%w: Enqueue - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Enqueue: queued %s email id=%d to %s", email.Kind, id, email.To)
	return nil
}

// EnqueueBestEffort ставит письмо в очередь, проглатывая ошибку
func (s *Service) EnqueueBestEffort(ctx context.Context, email domain.Email) bool {
	if err := s.Enqueue(ctx, email); err != nil {
		s.logger.Error("EnqueueBestEffort: failed to queue %s email to %s: %v", email.Kind, email.To, err)
		return false
	}
	return true
}

// Notify создает внутреннее уведомление для админки (best effort)
func (s *Service) Notify(ctx context.Context, n *domain.Notification) {
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		s.logger.Error("Notify: failed to create %s notification: %v", n.Type, err)
		return
	}
	s.logger.Info("Notify: created %s notification id=%d", n.Type, n.ID)
}

// Subscribe подписывает email на рассылку (best effort)
func (s *Service) Subscribe(ctx context.Context, email string, name *string, source string) {
	added, err := s.newsletterRepo.Subscribe(ctx, &domain.NewsletterSubscriber{
		Email:  email,
		Name:   name,
		Source: source,
	})
	if err != nil {
		s.logger.Error("Subscribe: failed to subscribe %s: %v", email, err)
		return
	}
	if added {
		s.logger.Info("Subscribe: %s subscribed from %s", email, source)
	}
}
