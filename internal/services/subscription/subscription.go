// Package subscription содержит бизнес-логику оформления и жизненного цикла подписок на питание.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/magabrotheeeer/sea-catering/internal/lib/pricing"
	"github.com/magabrotheeeer/sea-catering/internal/lib/validation"
	"github.com/magabrotheeeer/sea-catering/internal/models"
	"github.com/magabrotheeeer/sea-catering/internal/storage/repository"
)

// Ошибки бизнес-уровня подписок.
var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrMealPlanNotFound     = errors.New("meal plan not found")
	ErrNotOwner             = errors.New("subscription belongs to another user")
	ErrInvalidTransition    = errors.New("invalid subscription status transition")
	ErrInvalidPhone         = errors.New("invalid phone number")
	ErrInvalidMealTypes     = errors.New("invalid meal types")
	ErrInvalidDeliveryDays  = errors.New("invalid delivery days")
	ErrInvalidPauseRange    = errors.New("invalid pause date range")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// ListSubscriptions возвращает список подписок пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает список всех подписок с пагинацией.
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// PauseSubscription переводит активную подписку владельца в paused.
	PauseSubscription(ctx context.Context, id int, userUID string, from, to time.Time) (int, error)
	// ResumeSubscription возвращает приостановленную подписку владельца в active.
	ResumeSubscription(ctx context.Context, id int, userUID string) (int, error)
	// CancelSubscription переводит подписку владельца в cancelled.
	CancelSubscription(ctx context.Context, id int, userUID string) (int, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// GetMealPlan возвращает тариф по ID.
	GetMealPlan(ctx context.Context, id int) (*models.MealPlan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher отправляет события жизненного цикла подписки в очередь уведомлений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование
// и публикацию событий жизненного цикла.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

func cacheKey(id int) string {
	return fmt.Sprintf("subscription:%d", id)
}

// publishEvent отправляет событие жизненного цикла. Сбой публикации не прерывает операцию.
func (s *SubscriptionService) publishEvent(eventType string, sub *models.Subscription) {
	event := models.SubscriptionEvent{
		Type:           eventType,
		SubscriptionID: sub.ID,
		UserEmail:      sub.UserEmail,
		UserName:       sub.UserName,
		PlanName:       sub.PlanName,
		TotalPrice:     sub.TotalPrice,
		PausedFrom:     sub.PausedFrom,
		PausedTo:       sub.PausedTo,
		OccurredAt:     time.Now().UTC(),
	}
	if err := s.publisher.Publish(eventType, event); err != nil {
		s.log.Warn("failed to publish subscription event",
			slog.String("type", eventType), slog.Int("id", sub.ID), slog.Any("err", err))
	}
}

func validateSelection(values, allowed []string) bool {
	if len(values) == 0 {
		return false
	}
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if !slices.Contains(allowed, v) {
			return false
		}
		if _, ok := seen[v]; ok {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Create оформляет новую подписку: проверяет телефон и выбор, снимает снимок тарифа,
// считает месячную цену и сохраняет запись со статусом active.
func (s *SubscriptionService) Create(ctx context.Context, user *models.User, req models.DummySubscription) (*models.Subscription, error) {
	phone := validation.Sanitize(req.Phone)
	allergies := validation.Sanitize(req.Allergies)

	if !validation.IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !validateSelection(req.MealTypes, models.AllowedMealTypes) {
		return nil, ErrInvalidMealTypes
	}
	if !validateSelection(req.DeliveryDays, models.AllowedDeliveryDays) {
		return nil, ErrInvalidDeliveryDays
	}

	plan, err := s.repo.GetMealPlan(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrMealPlanNotFound
		}
		return nil, err
	}

	sub := models.Subscription{
		UserUID:      user.UID,
		UserName:     user.Name,
		UserEmail:    user.Email,
		Phone:        phone,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		PlanPrice:    plan.Price,
		MealTypes:    req.MealTypes,
		DeliveryDays: req.DeliveryDays,
		Allergies:    allergies,
		TotalPrice:   pricing.Monthly(plan.Price, len(req.MealTypes), len(req.DeliveryDays)),
		Status:       models.StatusActive,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	s.log.Info("created new subscription", slog.Int("id", id))

	if err := s.cache.Set(cacheKey(id), &sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}
	s.publishEvent(models.EventSubscriptionCreated, &sub)

	return &sub, nil
}

// List возвращает список подписок в зависимости от роли пользователя.
func (s *SubscriptionService) List(ctx context.Context, user *models.User, limit, offset int) ([]*models.Subscription, error) {
	if user.Role == models.RoleAdmin {
		return s.repo.ListAllSubscriptions(ctx, limit, offset)
	}
	return s.repo.ListSubscriptions(ctx, user.UID, limit, offset)
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Чужая подписка доступна только администратору.
func (s *SubscriptionService) Read(ctx context.Context, user *models.User, id int) (*models.Subscription, error) {
	var result *models.Subscription
	found, err := s.cache.Get(cacheKey(id), &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
		found = false
	}
	if !found {
		result, err = s.repo.ReadSubscription(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEntryNotFound) {
				return nil, ErrSubscriptionNotFound
			}
			return nil, err
		}
		if err := s.cache.Set(cacheKey(id), result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
		}
	}

	if result.UserUID != user.UID && user.Role != models.RoleAdmin {
		return nil, ErrNotOwner
	}
	return result, nil
}

// Pause приостанавливает активную подписку владельца на заданный период.
// Даты задаются в формате 2006-01-02, начало не раньше сегодняшнего дня.
func (s *SubscriptionService) Pause(ctx context.Context, user *models.User, id int, req models.DummyPauseRange) (*models.Subscription, error) {
	from, err := time.Parse("2006-01-02", req.PausedFrom)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", ErrInvalidPauseRange)
	}
	to, err := time.Parse("2006-01-02", req.PausedTo)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", ErrInvalidPauseRange)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if from.Before(today) {
		return nil, fmt.Errorf("%w: start date must not be earlier than today", ErrInvalidPauseRange)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date must not be earlier than start date", ErrInvalidPauseRange)
	}

	current, err := s.readOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !current.CanPause() {
		return nil, ErrInvalidTransition
	}

	rowsAffected, err := s.repo.PauseSubscription(ctx, id, user.UID, from, to)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		// Статус успел измениться между чтением и обновлением
		return nil, ErrInvalidTransition
	}

	current.Status = models.StatusPaused
	current.PausedFrom = &from
	current.PausedTo = &to
	s.afterTransition(models.EventSubscriptionPaused, current)
	return current, nil
}

// Resume возвращает приостановленную подписку владельца в active и очищает период паузы.
func (s *SubscriptionService) Resume(ctx context.Context, user *models.User, id int) (*models.Subscription, error) {
	current, err := s.readOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !current.CanResume() {
		return nil, ErrInvalidTransition
	}

	rowsAffected, err := s.repo.ResumeSubscription(ctx, id, user.UID)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	current.Status = models.StatusActive
	current.PausedFrom = nil
	current.PausedTo = nil
	s.afterTransition(models.EventSubscriptionResumed, current)
	return current, nil
}

// Cancel переводит подписку владельца в терминальный статус cancelled.
func (s *SubscriptionService) Cancel(ctx context.Context, user *models.User, id int) (*models.Subscription, error) {
	current, err := s.readOwned(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !current.CanCancel() {
		return nil, ErrInvalidTransition
	}

	rowsAffected, err := s.repo.CancelSubscription(ctx, id, user.UID)
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrInvalidTransition
	}

	current.Status = models.StatusCancelled
	current.PausedFrom = nil
	current.PausedTo = nil
	s.afterTransition(models.EventSubscriptionCancelled, current)
	return current, nil
}

// Remove удаляет подписку по ID. Операция доступна только администратору,
// роль проверяется middleware на уровне маршрута.
func (s *SubscriptionService) Remove(ctx context.Context, id int) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// readOwned читает подписку напрямую из репозитория и проверяет владельца.
// Кеш не используется: решения о переходе статуса принимаются по свежим данным.
func (s *SubscriptionService) readOwned(ctx context.Context, user *models.User, id int) (*models.Subscription, error) {
	current, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	if current.UserUID != user.UID {
		return nil, ErrNotOwner
	}
	return current, nil
}

func (s *SubscriptionService) afterTransition(eventType string, sub *models.Subscription) {
	if err := s.cache.Invalidate(cacheKey(sub.ID)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey(sub.ID)), slog.Any("err", err))
	}
	s.log.Info("subscription status changed",
		slog.Int("id", sub.ID), slog.String("status", sub.Status))
	s.publishEvent(eventType, sub)
}
