package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Course struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description,omitempty" bson:"description,omitempty"`
	Creator     primitive.ObjectID   `json:"creator" bson:"creator"`
	Students    []primitive.ObjectID `json:"students" bson:"students"`
	CreatedAt   time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt" bson:"updated_at"`
}

// HasStudent reports whether id is already in the roster.
func (c *Course) HasStudent(id primitive.ObjectID) bool {
	for _, s := range c.Students {
		if s == id {
			return true
		}
	}
	return false
}
