package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MenuCategories lists the accepted values for MenuItem.Category.
var MenuCategories = []string{"breakfast", "lunch", "snacks", "dinner", "beverages"}

// MenuItem is a dish or beverage offered by the canteen.
type MenuItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	Category    string             `bson:"category" json:"category"`
	Available   bool               `bson:"available" json:"available"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsValidMenuCategory reports whether category is one of MenuCategories.
func IsValidMenuCategory(category string) bool {
	for _, c := range MenuCategories {
		if c == category {
			return true
		}
	}
	return false
}
