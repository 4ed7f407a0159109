package models

// MealPlan представляет тариф каталога (Diet / Protein / Royal).
//
// Справочные данные: создаются миграцией и не изменяются через API.
type MealPlan struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"` // Цена за одно блюдо, в рупиях
	Description string   `json:"description"`
	Features    []string `json:"features"`
	ImageURL    string   `json:"image_url,omitempty"`
}
