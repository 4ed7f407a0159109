// Package models содержит структуры данных для метрик административного дашборда.
package models

import "time"

// MetricsFilter представляет границы периода, которые передаются в слой доступа к данным.
// Обе границы опциональны: nil означает отсутствие фильтра по дате.
type MetricsFilter struct {
	From *time.Time // Начало периода (включительно)
	To   *time.Time // Конец периода (включительно, сравнение по дате создания)
}

// DashboardMetrics — агрегаты для административного дашборда.
//
// MonthlyRecurringRevenue и TotalActiveSubscriptions считаются по всем подпискам
// со статусом active и не зависят от выбранного периода.
// ReactivationsEstimate — синтетическая оценка (10% от новых подписок),
// реальных событий реактивации система пока не учитывает.
type DashboardMetrics struct {
	NewSubscriptions         int `json:"new_subscriptions"`
	MonthlyRecurringRevenue  int `json:"monthly_recurring_revenue"`
	ReactivationsEstimate    int `json:"reactivations_estimate"`
	SubscriptionGrowth       int `json:"subscription_growth"`
	TotalActiveSubscriptions int `json:"total_active_subscriptions"`
}
