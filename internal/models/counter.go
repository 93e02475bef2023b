package models

// Counter backs the year-scoped order-number sequence. The _id is
// "orders-<year>" and Seq advances with an atomic $inc.
type Counter struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}
