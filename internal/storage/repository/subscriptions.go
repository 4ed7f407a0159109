package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/sea-catering/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	mealTypes, err := json.Marshal(sub.MealTypes)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	deliveryDays, err := json.Marshal(sub.DeliveryDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscriptions (user_uid, user_name, user_email, phone,
			      plan_id, plan_name, plan_price, meal_types, delivery_days,
			      allergies, total_price, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.UserName, sub.UserEmail, sub.Phone,
		sub.PlanID, sub.PlanName, sub.PlanPrice, mealTypes, deliveryDays,
		sub.Allergies, sub.TotalPrice, sub.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по её ID или ErrEntryNotFound.
func (s *Storage) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, user_name, user_email, phone, plan_id, plan_name,
			      plan_price, meal_types, delivery_days, allergies, total_price,
			      status, paused_from, paused_to, created_at
			  FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanSubscription(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrEntryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscriptions возвращает список подписок пользователя с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, user_name, user_email, phone, plan_id, plan_name,
			      plan_price, meal_types, delivery_days, allergies, total_price,
			      status, paused_from, paused_to, created_at
			  FROM subscriptions
			  WHERE user_uid = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает список всех подписок с пагинацией.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, user_name, user_email, phone, plan_id, plan_name,
			      plan_price, meal_types, delivery_days, allergies, total_price,
			      status, paused_from, paused_to, created_at
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// PauseSubscription переводит активную подписку владельца в paused.
//
// Переход выполняется условным UPDATE: статус меняется только если запись
// принадлежит userUID и находится в active. Возвращает количество изменённых строк;
// 0 означает, что записи нет, она чужая или переход недопустим.
func (s *Storage) PauseSubscription(ctx context.Context, id int, userUID string, from, to time.Time) (int, error) {
	const op = "storage.PauseSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'paused', paused_from = $1, paused_to = $2
			  WHERE id = $3 AND user_uid = $4 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, from, to, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ResumeSubscription возвращает приостановленную подписку владельца в active
// и очищает период паузы. Возвращает количество изменённых строк.
func (s *Storage) ResumeSubscription(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.ResumeSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'active', paused_from = NULL, paused_to = NULL
			  WHERE id = $1 AND user_uid = $2 AND status = 'paused'`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelSubscription переводит подписку владельца в терминальный статус cancelled.
// Допустим из active и paused. Возвращает количество изменённых строк.
func (s *Storage) CancelSubscription(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = 'cancelled', paused_from = NULL, paused_to = NULL
			  WHERE id = $1 AND user_uid = $2 AND status IN ('active', 'paused')`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
// Операция доступна только администратору (проверяется слоем выше).
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// scanSubscription читает одну строку подписки через переданную функцию Scan.
func scanSubscription(scan func(dest ...any) error) (*models.Subscription, error) {
	var item models.Subscription
	var mealTypes, deliveryDays []byte
	var pausedFrom, pausedTo sql.NullTime

	if err := scan(&item.ID, &item.UserUID, &item.UserName, &item.UserEmail, &item.Phone,
		&item.PlanID, &item.PlanName, &item.PlanPrice, &mealTypes, &deliveryDays,
		&item.Allergies, &item.TotalPrice, &item.Status, &pausedFrom, &pausedTo,
		&item.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(mealTypes, &item.MealTypes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(deliveryDays, &item.DeliveryDays); err != nil {
		return nil, err
	}
	if pausedFrom.Valid {
		item.PausedFrom = &pausedFrom.Time
	}
	if pausedTo.Valid {
		item.PausedTo = &pausedTo.Time
	}
	return &item, nil
}
