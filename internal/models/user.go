package models

import "time"

// User is the entity owned by the users service. Other services never read
// it directly; they learn about it through lifecycle events or the
// existence-check endpoint
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
