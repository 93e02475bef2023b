package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FeedbackStatusOpen     = "open"
	FeedbackStatusResolved = "resolved"
)

// Feedback is a student's rating of the canteen, optionally tied to an order.
type Feedback struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"userId" json:"userId"`
	Name        string              `bson:"name" json:"name"`
	OrderID     *primitive.ObjectID `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Rating      int                 `bson:"rating" json:"rating"`
	Comment     string              `bson:"comment" json:"comment"`
	Status      string              `bson:"status" json:"status"`
	Response    string              `bson:"response,omitempty" json:"response,omitempty"`
	RespondedAt *time.Time          `bson:"respondedAt,omitempty" json:"respondedAt,omitempty"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}
