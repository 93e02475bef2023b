package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"backend/internal/secrets"
)

// failingSender simulates an unreachable SMTP relay.
type failingSender struct{}

func (failingSender) SendVerificationCode(to, name, code string) error {
	return errors.New("smtp relay unreachable")
}

func (failingSender) SendPasswordReset(to, name, resetLink string) error {
	return errors.New("smtp relay unreachable")
}

func TestRegisterRollsBackAccountWhenEmailFails(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("rollback", func(mt *mtest.T) {
		ns := mt.DB.Name() + ".users"
		mt.AddMockResponses(
			// count: no existing account
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			// insert succeeds
			mtest.CreateSuccessResponse(),
			// compensating delete succeeds
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		handler := Register(mt.DB, failingSender{}, 10*time.Minute)
		w := postJSON(mt.T, handler, "/auth/register", gin.H{
			"name":     "Alice",
			"email":    "alice@test.com",
			"password": "pw123456",
		})

		if w.Code != http.StatusBadGateway {
			mt.Fatalf("expected 502 when the email cannot be sent, got %d: %s", w.Code, w.Body.String())
		}

		deleted := false
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "delete" {
				deleted = true
			}
		}
		if !deleted {
			mt.Fatal("expected a compensating delete after the failed email")
		}
	})
}

func TestVerifyOTPWrongThenCorrectCode(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wrong then correct", func(mt *mtest.T) {
		userID := primitive.NewObjectID()
		expires := primitive.NewDateTimeFromTime(time.Now().Add(10 * time.Minute))
		userDoc := bson.D{
			{Key: "_id", Value: userID},
			{Key: "name", Value: "Alice"},
			{Key: "email", Value: "alice@test.com"},
			{Key: "role", Value: "student"},
			{Key: "isVerified", Value: false},
			{Key: "verificationCodeHash", Value: secrets.Hash("482913")},
			{Key: "verificationExpires", Value: expires},
		}
		ns := mt.DB.Name() + ".users"
		handler := VerifyOTP(mt.DB)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc))
		w := postJSON(mt.T, handler, "/auth/verify-otp", gin.H{
			"email": "alice@test.com",
			"code":  "111111",
		})
		if w.Code != http.StatusForbidden {
			mt.Fatalf("expected 403 for a wrong code, got %d: %s", w.Code, w.Body.String())
		}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, userDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)
		w = postJSON(mt.T, handler, "/auth/verify-otp", gin.H{
			"email": "alice@test.com",
			"code":  "482913",
		})
		if w.Code != http.StatusOK {
			mt.Fatalf("expected 200 for the correct code, got %d: %s", w.Code, w.Body.String())
		}
	})
}
