package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// CourseRequest is a student's ask to join a course. It starts pending and
// moves exactly once to accepted or rejected; both are terminal.
type CourseRequest struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Student   primitive.ObjectID `json:"student" bson:"student"`
	Course    primitive.ObjectID `json:"course" bson:"course"`
	Status    RequestStatus      `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}
