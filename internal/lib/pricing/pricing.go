// Package pricing содержит расчёт месячной стоимости подписки на доставку еды.
//
// Стоимость считается по формуле: цена за блюдо × количество типов приёмов пищи ×
// количество дней доставки × 4.3 (среднее количество недель в месяце).
package pricing

import "math"

// WeeksPerMonth — среднее количество недель доставки в месяце.
const WeeksPerMonth = 4.3

// Monthly возвращает месячную стоимость подписки в рупиях.
//
// Результат округляется до целой рупии (math.Round), так как итоговая цена
// хранится в целочисленном поле и IDR не имеет дробной части на практике.
// Если какой-либо из наборов пуст или цена не положительна, возвращается 0 —
// вызывающая сторона обязана трактовать 0 как незавершённый выбор, а не как цену.
func Monthly(planPricePerMeal, mealTypesCount, deliveryDaysCount int) int {
	if planPricePerMeal <= 0 || mealTypesCount <= 0 || deliveryDaysCount <= 0 {
		return 0
	}
	raw := float64(planPricePerMeal*mealTypesCount*deliveryDaysCount) * WeeksPerMonth
	return int(math.Round(raw))
}
