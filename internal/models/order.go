package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// OrderItem snapshots the menu item's name and unit price at order time so
// later menu edits never change historical orders.
type OrderItem struct {
	MenuItemID primitive.ObjectID `bson:"menuItemId" json:"menuItemId"`
	Name       string             `bson:"name" json:"name"`
	Price      float64            `bson:"price" json:"price"`
	Quantity   int                `bson:"quantity" json:"quantity"`
}

// PaymentInfo is populated only after the gateway signature verified.
type PaymentInfo struct {
	RazorpayOrderID   string  `bson:"razorpayOrderId" json:"razorpayOrderId"`
	RazorpayPaymentID string  `bson:"razorpayPaymentId" json:"razorpayPaymentId"`
	RazorpaySignature string  `bson:"razorpaySignature" json:"-"`
	Status            string  `bson:"status" json:"status"`
	Amount            float64 `bson:"amount" json:"amount"`
	Currency          string  `bson:"currency" json:"currency"`
}

// Order defines the persisted order document. Orders are never deleted,
// only status-transitioned.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber     string             `bson:"orderNumber" json:"orderNumber"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	Status          string             `bson:"status" json:"status"`
	DeliveryAddress string             `bson:"deliveryAddress" json:"deliveryAddress"`
	Notes           string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Payment         *PaymentInfo       `bson:"payment,omitempty" json:"payment,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
