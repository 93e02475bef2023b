package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

// NextOrderNumber reserves the next order number for the given moment's
// calendar year. The sequence lives in the counters collection and advances
// with an atomic findAndModify, so concurrent checkouts never share a number.
func NextOrderNumber(ctx context.Context, db *mongo.Database, at time.Time) (string, error) {
	year := at.Year()
	counterID := fmt.Sprintf("orders-%d", year)

	var counter models.Counter
	err := db.Collection("counters").FindOneAndUpdate(
		ctx,
		bson.M{"_id": counterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return "", err
	}

	return FormatOrderNumber(year, counter.Seq), nil
}

// FormatOrderNumber renders "ORD-<year>-<seq>" with the sequence zero-padded
// to four digits.
func FormatOrderNumber(year int, seq int64) string {
	return fmt.Sprintf("ORD-%d-%04d", year, seq)
}
