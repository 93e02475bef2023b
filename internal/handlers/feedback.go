package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type createFeedbackRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
	OrderID string `json:"orderId"`
}

type respondFeedbackRequest struct {
	Response string `json:"response" binding:"required"`
}

// CreateFeedback stores a student's rating, optionally tied to one of their
// own orders.
func CreateFeedback(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /feedback"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createFeedbackRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, route, "account not found")
			return
		}

		feedback := models.Feedback{
			UserID:    userID,
			Name:      user.Name,
			Rating:    req.Rating,
			Comment:   strings.TrimSpace(req.Comment),
			Status:    models.FeedbackStatusOpen,
			CreatedAt: time.Now(),
		}

		if req.OrderID != "" {
			orderID, err := primitive.ObjectIDFromHex(req.OrderID)
			if err != nil {
				respondError(c, http.StatusBadRequest, route, "invalid orderId")
				return
			}
			count, err := db.Collection("orders").CountDocuments(ctx, bson.M{"_id": orderID, "userId": userID})
			if err != nil {
				log.Println("[FEEDBACK] [ERROR] order lookup failed:", err)
				respondError(c, http.StatusInternalServerError, route, "db error")
				return
			}
			if count == 0 {
				respondError(c, http.StatusBadRequest, route, "order not found for this account")
				return
			}
			feedback.OrderID = &orderID
		}

		res, err := db.Collection("feedback").InsertOne(ctx, feedback)
		if err != nil {
			log.Println("[FEEDBACK] [ERROR] insert failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			feedback.ID = id
		}

		respondOK(c, http.StatusCreated, "thanks for the feedback", gin.H{"feedback": feedback})
	}
}

// GetAllFeedback lists feedback for the admin dashboard, open items first.
func GetAllFeedback(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/feedback"
		defer handlePanic(c, route)

		filter := bson.M{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			if status != models.FeedbackStatusOpen && status != models.FeedbackStatusResolved {
				respondError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filter["status"] = status
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("feedback").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}))
		if err != nil {
			log.Println("[FEEDBACK] [ERROR] list failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items := []models.Feedback{}
		if err := cursor.All(ctx, &items); err != nil {
			log.Println("[FEEDBACK] [ERROR] decode failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "", gin.H{"feedback": items})
	}
}

// RespondFeedback records the canteen's reply and resolves the entry.
func RespondFeedback(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/feedback/:id/respond"
		defer handlePanic(c, route)

		feedbackID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req respondFeedbackRequest
		if !bindJSON(c, route, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		now := time.Now()
		res, err := db.Collection("feedback").UpdateByID(ctx, feedbackID, bson.M{"$set": bson.M{
			"response":    strings.TrimSpace(req.Response),
			"respondedAt": now,
			"status":      models.FeedbackStatusResolved,
		}})
		if err != nil {
			log.Println("[FEEDBACK] [ERROR] respond failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "feedback not found")
			return
		}

		respondOK(c, http.StatusOK, "response recorded", nil)
	}
}
