package models

import "time"

// Testimonial представляет отзыв посетителя сайта.
//
// Создаётся любым посетителем, никогда не изменяется; удаление — только
// административным инструментарием.
type Testimonial struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"` // Целое число от 1 до 5
	CreatedAt time.Time `json:"created_at"`
}

// DummyTestimonial используется для приёма отзыва из JSON-запроса.
type DummyTestimonial struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Message string `json:"message" validate:"required,min=5,max=1000"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
}
