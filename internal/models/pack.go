package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pack represents a texture pack catalog entry stored in MongoDB
type Pack struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID    uint               `json:"author_id" bson:"author_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Resolution  string             `json:"resolution,omitempty" bson:"resolution,omitempty"` // e.g. "16x", "32x"
	Tags        []string           `json:"tags,omitempty" bson:"tags,omitempty"`
	Downloads   int                `json:"downloads" bson:"downloads"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePackRequest defines the request body for publishing a new pack
type CreatePackRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"required,min=1,max=2000"`
	Resolution  string   `json:"resolution,omitempty" validate:"omitempty,max=16"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=32"`
}
