package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/database"
	"backend/internal/models"
	"backend/internal/payments"
)

type createPaymentOrderRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

type completeOrderItemRequest struct {
	MenuItemID string `json:"menuItemId" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
}

type completeOrderRequest struct {
	RazorpayOrderID   string                     `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string                     `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string                     `json:"razorpaySignature" binding:"required"`
	Items             []completeOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress   string                     `json:"deliveryAddress" binding:"required"`
	Notes             string                     `json:"notes"`
}

type paymentFailedRequest struct {
	RazorpayOrderID string `json:"razorpayOrderId" binding:"required"`
	Error           gin.H  `json:"error"`
}

// CreatePaymentOrder registers a payment intent with the gateway. Nothing is
// written locally; a checkout the user abandons leaves no trace.
func CreatePaymentOrder(rz *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/create-order"
		defer handlePanic(c, route)

		if !rz.Configured() {
			respondError(c, http.StatusServiceUnavailable, route, "payment gateway not configured")
			return
		}

		var req createPaymentOrderRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
		defer cancel()

		receipt := "rcpt_" + uuid.NewString()
		order, err := rz.CreateOrder(ctx, payments.ToPaise(req.Amount), "INR", receipt)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] gateway order creation failed:", err)
			respondError(c, http.StatusBadGateway, route, "could not create payment order")
			return
		}

		log.Println("[PAYMENT] [INFO] gateway order created:", order.ID)
		respondOK(c, http.StatusOK, "", gin.H{
			"orderId":  order.ID,
			"amount":   order.Amount,
			"currency": order.Currency,
			"keyId":    rz.KeyID(),
		})
	}
}

// VerifyPayment is a stateless signature check the client calls right after
// checkout. It persists nothing; CompleteOrder re-verifies on its own.
func VerifyPayment(rz *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/verify"
		defer handlePanic(c, route)

		if !rz.Configured() {
			respondError(c, http.StatusServiceUnavailable, route, "payment gateway not configured")
			return
		}

		var req verifyPaymentRequest
		if !bindJSON(c, route, &req) {
			return
		}

		if !rz.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			respondError(c, http.StatusBadRequest, route, "payment verification failed")
			return
		}

		respondOK(c, http.StatusOK, "payment verified", gin.H{"verified": true})
	}
}

// CompleteOrder re-checks the gateway signature and only then persists the
// order. The signature check is repeated here rather than trusting the
// earlier /payment/verify call, since the two requests are independent.
// Item names and unit prices are snapshotted from the menu server-side, so
// the stored total always equals the sum of the snapshots.
func CompleteOrder(db *mongo.Database, rz *payments.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/complete"
		defer handlePanic(c, route)

		if !rz.Configured() {
			respondError(c, http.StatusServiceUnavailable, route, "payment gateway not configured")
			return
		}

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req completeOrderRequest
		if !bindJSON(c, route, &req) {
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		if !rz.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			log.Println("[PAYMENT] [ERROR] signature rejected for gateway order:", req.RazorpayOrderID)
			respondError(c, http.StatusBadRequest, route, "payment verification failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		items, total, err := buildOrderItems(ctx, db, req.Items)
		if err != nil {
			var notFound menuItemNotFoundError
			if errors.As(err, &notFound) {
				respondError(c, http.StatusBadRequest, route, "menu item not found: "+notFound.MenuItemID.Hex())
				return
			}
			var unavailable menuItemUnavailableError
			if errors.As(err, &unavailable) {
				respondError(c, http.StatusBadRequest, route, unavailable.Name+" is currently unavailable")
				return
			}
			if errors.Is(err, errInvalidMenuItemID) {
				respondError(c, http.StatusBadRequest, route, "invalid menuItemId")
				return
			}
			log.Println("[PAYMENT] [ERROR] building order items failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		now := time.Now()
		orderNumber, err := database.NextOrderNumber(ctx, db, now)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] order number allocation failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		order := models.Order{
			OrderNumber:     orderNumber,
			UserID:          userID,
			Items:           items,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			DeliveryAddress: strings.TrimSpace(req.DeliveryAddress),
			Notes:           strings.TrimSpace(req.Notes),
			Payment: &models.PaymentInfo{
				RazorpayOrderID:   req.RazorpayOrderID,
				RazorpayPaymentID: req.RazorpayPaymentID,
				RazorpaySignature: req.RazorpaySignature,
				Status:            models.PaymentStatusCompleted,
				Amount:            total,
				Currency:          "INR",
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			log.Println("[PAYMENT] [ERROR] order insert failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		log.Println("[PAYMENT] [INFO] order persisted:", orderNumber)
		respondOK(c, http.StatusCreated, "order placed", gin.H{"order": order})
	}
}

// PaymentFailed records a client-reported checkout failure. By design no
// order exists yet, so there is nothing to mutate.
func PaymentFailed() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /payment/failed"
		defer handlePanic(c, route)

		var req paymentFailedRequest
		if !bindJSON(c, route, &req) {
			return
		}

		log.Printf("[PAYMENT] [WARN] checkout failed for gateway order %s: %v", req.RazorpayOrderID, req.Error)
		respondOK(c, http.StatusOK, "payment failure recorded", nil)
	}
}

var errInvalidMenuItemID = errors.New("invalid menu item id")

type menuItemNotFoundError struct {
	MenuItemID primitive.ObjectID
}

func (e menuItemNotFoundError) Error() string {
	return "menu item not found"
}

type menuItemUnavailableError struct {
	Name string
}

func (e menuItemUnavailableError) Error() string {
	return "menu item unavailable"
}

// buildOrderItems resolves the requested items against the menu and returns
// the snapshotted lines plus their total.
func buildOrderItems(ctx context.Context, db *mongo.Database, reqItems []completeOrderItemRequest) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	total := 0.0

	for _, item := range reqItems {
		menuItemID, err := primitive.ObjectIDFromHex(item.MenuItemID)
		if err != nil {
			return nil, 0, errInvalidMenuItemID
		}

		var menuItem models.MenuItem
		err = db.Collection("menu_items").FindOne(ctx, bson.M{"_id": menuItemID}).Decode(&menuItem)
		if err == mongo.ErrNoDocuments {
			return nil, 0, menuItemNotFoundError{MenuItemID: menuItemID}
		}
		if err != nil {
			return nil, 0, err
		}
		if !menuItem.Available {
			return nil, 0, menuItemUnavailableError{Name: menuItem.Name}
		}

		items = append(items, models.OrderItem{
			MenuItemID: menuItemID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   item.Quantity,
		})
		total += menuItem.Price * float64(item.Quantity)
	}

	return items, total, nil
}
