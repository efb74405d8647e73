package entity

import "github.com/google/uuid"

// NewID genera un UUID v7: ordenado por tiempo, sirve de desempate estable en el orden FIFO.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
