package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a canteen account. Verification and reset secrets are
// stored hashed only; an unverified account cannot authenticate.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"`
	HostelID     string             `bson:"hostelId,omitempty" json:"hostelId,omitempty"`
	RoomNumber   string             `bson:"roomNumber,omitempty" json:"roomNumber,omitempty"`
	IsVerified   bool               `bson:"isVerified" json:"isVerified"`

	VerificationCodeHash string     `bson:"verificationCodeHash,omitempty" json:"-"`
	VerificationExpires  *time.Time `bson:"verificationExpires,omitempty" json:"-"`
	ResetTokenHash       string     `bson:"resetTokenHash,omitempty" json:"-"`
	ResetExpires         *time.Time `bson:"resetExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
