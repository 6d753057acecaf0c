package model

import "time"

// Item is the example CRUD entity. It exists to demonstrate the
// handler → service → repository pattern for an owned resource; swap it
// for your real domain entity (Product, Post, Todo, ...).
//
// Every item belongs to exactly one user. The service layer enforces that
// only the owner can read, update, or delete it.
type Item struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
