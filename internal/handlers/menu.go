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

type createMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Available   *bool   `json:"available"`
	ImageURL    string  `json:"imageUrl"`
}

type updateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Available   *bool    `json:"available"`
	ImageURL    *string  `json:"imageUrl"`
}

// GetMenu lists menu items, optionally filtered by category and
// availability. Public.
func GetMenu(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /menu"
		defer handlePanic(c, route)

		filter := bson.M{}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			if !models.IsValidMenuCategory(category) {
				respondError(c, http.StatusBadRequest, route, "unknown category")
				return
			}
			filter["category"] = category
		}
		switch available := strings.TrimSpace(c.Query("available")); available {
		case "":
		case "true":
			filter["available"] = true
		case "false":
			filter["available"] = false
		default:
			respondError(c, http.StatusBadRequest, route, "available must be true or false")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("menu_items").Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}}))
		if err != nil {
			log.Println("[MENU] [ERROR] list failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		items := []models.MenuItem{}
		if err := cursor.All(ctx, &items); err != nil {
			log.Println("[MENU] [ERROR] decode failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, http.StatusOK, "", gin.H{"items": items})
	}
}

// GetMenuItem returns a single item by id. Public.
func GetMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /menu/:id"
		defer handlePanic(c, route)

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var item models.MenuItem
		if err := db.Collection("menu_items").FindOne(ctx, bson.M{"_id": itemID}).Decode(&item); err != nil {
			respondError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		respondOK(c, http.StatusOK, "", gin.H{"item": item})
	}
}

// CreateMenuItem adds a dish. Admin only.
func CreateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/menu"
		defer handlePanic(c, route)

		var req createMenuItemRequest
		if !bindJSON(c, route, &req) {
			return
		}

		category := strings.TrimSpace(req.Category)
		if !models.IsValidMenuCategory(category) {
			respondError(c, http.StatusBadRequest, route, "unknown category")
			return
		}

		available := true
		if req.Available != nil {
			available = *req.Available
		}

		now := time.Now()
		item := models.MenuItem{
			Name:        strings.TrimSpace(req.Name),
			Description: strings.TrimSpace(req.Description),
			Price:       req.Price,
			Category:    category,
			Available:   available,
			ImageURL:    strings.TrimSpace(req.ImageURL),
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("menu_items").InsertOne(ctx, item)
		if err != nil {
			log.Println("[MENU] [ERROR] insert failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			item.ID = id
		}

		log.Println("[MENU] [INFO] item created:", item.Name)
		respondOK(c, http.StatusCreated, "menu item created", gin.H{"item": item})
	}
}

// UpdateMenuItem patches the provided fields. Admin only.
func UpdateMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/menu/:id"
		defer handlePanic(c, route)

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateMenuItemRequest
		if !bindJSON(c, route, &req) {
			return
		}

		set := bson.M{"updatedAt": time.Now()}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				respondError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			set["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Description != nil {
			set["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			if *req.Price <= 0 {
				respondError(c, http.StatusBadRequest, route, "price must be greater than zero")
				return
			}
			set["price"] = *req.Price
		}
		if req.Category != nil {
			if !models.IsValidMenuCategory(*req.Category) {
				respondError(c, http.StatusBadRequest, route, "unknown category")
				return
			}
			set["category"] = *req.Category
		}
		if req.Available != nil {
			set["available"] = *req.Available
		}
		if req.ImageURL != nil {
			set["imageUrl"] = strings.TrimSpace(*req.ImageURL)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("menu_items").UpdateByID(ctx, itemID, bson.M{"$set": set})
		if err != nil {
			log.Println("[MENU] [ERROR] update failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		respondOK(c, http.StatusOK, "menu item updated", nil)
	}
}

// DeleteMenuItem removes a dish from the menu. Historical orders keep their
// own name/price snapshots, so deleting here never rewrites them. Admin only.
func DeleteMenuItem(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/menu/:id"
		defer handlePanic(c, route)

		itemID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("menu_items").DeleteOne(ctx, bson.M{"_id": itemID})
		if err != nil {
			log.Println("[MENU] [ERROR] delete failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, http.StatusNotFound, route, "menu item not found")
			return
		}

		respondOK(c, http.StatusOK, "menu item deleted", nil)
	}
}
