// Package models содержит доменные структуры, описывающие подписку на доставку еды,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import "time"

// Статусы подписки.
const (
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCancelled = "cancelled"
)

// Допустимые значения наборов выбора.
var (
	// AllowedMealTypes — типы приёмов пищи, из которых собирается подписка.
	AllowedMealTypes = []string{"breakfast", "lunch", "dinner"}
	// AllowedDeliveryDays — дни недели доставки.
	AllowedDeliveryDays = []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	}
)

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище.
//
// Поля UserName/UserEmail и PlanName/PlanPrice — снимки на момент создания:
// отображение дашбордов не зависит от последующих правок каталога или профиля.
// PausedFrom/PausedTo заполнены только в статусе paused.
type Subscription struct {
	ID           int        `json:"id"`
	UserUID      string     `json:"user_uid"`
	UserName     string     `json:"user_name"`
	UserEmail    string     `json:"user_email"`
	Phone        string     `json:"phone"`
	PlanID       int        `json:"plan_id"`
	PlanName     string     `json:"plan_name"`
	PlanPrice    int        `json:"plan_price"` // Цена за блюдо на момент создания
	MealTypes    []string   `json:"meal_types"`
	DeliveryDays []string   `json:"delivery_days"`
	Allergies    string     `json:"allergies,omitempty"`
	TotalPrice   int        `json:"total_price"` // Всегда пересчитывается, никогда не задаётся вручную
	Status       string     `json:"status"`
	PausedFrom   *time.Time `json:"paused_from,omitempty"`
	PausedTo     *time.Time `json:"paused_to,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CanPause сообщает, допустим ли переход в статус paused.
func (s *Subscription) CanPause() bool {
	return s.Status == StatusActive
}

// CanResume сообщает, допустим ли переход из paused обратно в active.
func (s *Subscription) CanResume() bool {
	return s.Status == StatusPaused
}

// CanCancel сообщает, допустим ли переход в терминальный статус cancelled.
func (s *Subscription) CanCancel() bool {
	return s.Status == StatusActive || s.Status == StatusPaused
}

// DummySubscription используется для приёма данных подписки из JSON-запроса,
// прежде чем конвертировать их в Subscription.
type DummySubscription struct {
	Phone        string   `json:"phone" validate:"required"`
	PlanID       int      `json:"plan_id" validate:"required,gt=0"`
	MealTypes    []string `json:"meal_types" validate:"required,min=1"`
	DeliveryDays []string `json:"delivery_days" validate:"required,min=1"`
	Allergies    string   `json:"allergies,omitempty" validate:"omitempty,max=500"`
}

// DummyPauseRange используется для приёма периода паузы из JSON-запроса.
// Даты приходят строками в формате 2006-01-02 и парсятся в бизнес-логике.
type DummyPauseRange struct {
	PausedFrom string `json:"paused_from" validate:"required"`
	PausedTo   string `json:"paused_to" validate:"required"`
}

// Типы событий жизненного цикла подписки, публикуемых в очередь уведомлений.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionPaused    = "subscription.paused"
	EventSubscriptionResumed   = "subscription.resumed"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// SubscriptionEvent — сообщение о смене статуса подписки для сервиса уведомлений.
type SubscriptionEvent struct {
	Type           string     `json:"type"`
	SubscriptionID int        `json:"subscription_id"`
	UserName       string     `json:"user_name"`
	UserEmail      string     `json:"user_email"`
	PlanName       string     `json:"plan_name"`
	TotalPrice     int        `json:"total_price"`
	PausedFrom     *time.Time `json:"paused_from,omitempty"`
	PausedTo       *time.Time `json:"paused_to,omitempty"`
	OccurredAt     time.Time  `json:"occurred_at"`
}
