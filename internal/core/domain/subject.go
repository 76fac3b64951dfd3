package domain

import "time"

type Subject struct {
	ID          int64     `json:"id"`
	Name        string    `json:"nombre"`
	Description string    `json:"descripcion"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
