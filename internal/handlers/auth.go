package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/mail"
	"backend/internal/models"
	"backend/internal/secrets"
)

type RegisterRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	HostelID   string `json:"hostelId"`
	RoomNumber string `json:"roomNumber"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	LoginType string `json:"loginType" binding:"omitempty,oneof=student admin"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates an unverified account and emails the verification code.
// The unique email index is the source of truth for duplicates; the count
// pre-check only gives a friendlier fast path. If the email cannot be sent,
// the freshly created account is deleted again so the registration can be
// retried.
func Register(db *mongo.Database, sender mail.Sender, otpTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/register"
		defer handlePanic(c, route)

		var req RegisterRequest
		if !bindJSON(c, route, &req) {
			return
		}

		email := normalizeEmail(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			log.Println("[AUTH] [ERROR] register lookup failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondError(c, http.StatusConflict, route, "email already registered")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] register password hash failed:", err)
			respondError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		code, err := secrets.NewVerificationCode()
		if err != nil {
			log.Println("[AUTH] [ERROR] register code generation failed:", err)
			respondError(c, http.StatusInternalServerError, route, "could not issue verification code")
			return
		}

		now := time.Now()
		expires := now.Add(otpTTL)
		user := models.User{
			Name:                 strings.TrimSpace(req.Name),
			Email:                email,
			PasswordHash:         string(hash),
			Role:                 models.RoleStudent,
			HostelID:             strings.TrimSpace(req.HostelID),
			RoomNumber:           strings.TrimSpace(req.RoomNumber),
			IsVerified:           false,
			VerificationCodeHash: secrets.Hash(code),
			VerificationExpires:  &expires,
			CreatedAt:            now,
			UpdatedAt:            now,
		}

		res, err := db.Collection("users").InsertOne(ctx, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, http.StatusConflict, route, "email already registered")
				return
			}
			log.Println("[AUTH] [ERROR] register insert failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		userID, _ := res.InsertedID.(primitive.ObjectID)

		if err := sender.SendVerificationCode(email, user.Name, code); err != nil {
			log.Println("[AUTH] [ERROR] verification email failed, rolling back account:", err)
			// Compensating delete: DeleteOne by id is safe to repeat. A slow
			// send may have used up the request context, so delete on a
			// fresh one.
			delCtx, delCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer delCancel()
			if _, delErr := db.Collection("users").DeleteOne(delCtx, bson.M{"_id": userID}); delErr != nil {
				log.Println("[AUTH] [ERROR] register rollback failed:", delErr)
			}
			respondError(c, http.StatusBadGateway, route, "verification email could not be sent, please try again")
			return
		}

		log.Println("[AUTH] [INFO] user registered:", email)
		respondOK(c, http.StatusCreated, "registered, check your email for the verification code", gin.H{
			"email": email,
		})
	}
}

// SendOTP re-issues the verification code. The previous code is overwritten;
// only the latest one verifies.
func SendOTP(db *mongo.Database, sender mail.Sender, otpTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/send-otp"
		defer handlePanic(c, route)

		var req SendOTPRequest
		if !bindJSON(c, route, &req) {
			return
		}

		email := normalizeEmail(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, route, "account not found")
			return
		}
		if user.IsVerified {
			respondError(c, http.StatusBadRequest, route, "account already verified")
			return
		}

		code, err := secrets.NewVerificationCode()
		if err != nil {
			log.Println("[AUTH] [ERROR] send-otp code generation failed:", err)
			respondError(c, http.StatusInternalServerError, route, "could not issue verification code")
			return
		}

		expires := time.Now().Add(otpTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
			"verificationCodeHash": secrets.Hash(code),
			"verificationExpires":  expires,
			"updatedAt":            time.Now(),
		}})
		if err != nil {
			log.Println("[AUTH] [ERROR] send-otp update failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := sender.SendVerificationCode(email, user.Name, code); err != nil {
			log.Println("[AUTH] [ERROR] send-otp email failed:", err)
			respondError(c, http.StatusBadGateway, route, "verification email could not be sent, please try again")
			return
		}

		respondOK(c, http.StatusOK, "verification code sent", nil)
	}
}

// VerifyOTP activates the account. The stored code is cleared only after the
// verified flag is set, in the same update.
func VerifyOTP(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/verify-otp"
		defer handlePanic(c, route)

		var req VerifyOTPRequest
		if !bindJSON(c, route, &req) {
			return
		}

		email := normalizeEmail(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, route, "account not found")
			return
		}
		if user.IsVerified {
			respondError(c, http.StatusBadRequest, route, "account already verified")
			return
		}

		if !secrets.Matches(user.VerificationCodeHash, req.Code, user.VerificationExpires, time.Now()) {
			respondError(c, http.StatusForbidden, route, "invalid or expired OTP")
			return
		}

		_, err := db.Collection("users").UpdateByID(ctx, user.ID, bson.M{
			"$set":   bson.M{"isVerified": true, "updatedAt": time.Now()},
			"$unset": bson.M{"verificationCodeHash": "", "verificationExpires": ""},
		})
		if err != nil {
			log.Println("[AUTH] [ERROR] verify-otp update failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[AUTH] [INFO] email verified:", email)
		respondOK(c, http.StatusOK, "email verified", nil)
	}
}

// Login authenticates a verified account. The optional loginType keeps the
// student and admin login screens separate; the role in the issued token
// always comes from the stored record.
func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/login"
		defer handlePanic(c, route)

		var req LoginRequest
		if !bindJSON(c, route, &req) {
			return
		}

		email := normalizeEmail(req.Email)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			log.Println("[AUTH] [ERROR] login unknown account")
			respondError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if !user.IsVerified {
			respondErrorWithHint(c, http.StatusForbidden, route, "email not verified", "verify")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] login bad password for:", email)
			respondError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		if req.LoginType != "" && req.LoginType != user.Role {
			respondError(c, http.StatusForbidden, route, "wrong login portal for this account")
			return
		}

		token, err := issueToken(user.ID, user.Email, user.Role, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] login token generation failed:", err)
			respondError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		respondOK(c, http.StatusOK, "", gin.H{
			"token": token,
			"user": gin.H{
				"id":         user.ID.Hex(),
				"name":       user.Name,
				"email":      user.Email,
				"role":       user.Role,
				"hostelId":   user.HostelID,
				"roomNumber": user.RoomNumber,
			},
		})
	}
}

// ForgotPassword always answers with the same message so the endpoint
// cannot be used to probe which emails are registered.
func ForgotPassword(db *mongo.Database, sender mail.Sender, resetTTL time.Duration, frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/forgot-password"
		defer handlePanic(c, route)

		var req ForgotPasswordRequest
		if !bindJSON(c, route, &req) {
			return
		}

		email := normalizeEmail(req.Email)
		generic := "if that email is registered, a reset link has been sent"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
			respondOK(c, http.StatusOK, generic, nil)
			return
		}

		token, err := secrets.NewResetToken()
		if err != nil {
			log.Println("[AUTH] [ERROR] forgot-password token generation failed:", err)
			respondOK(c, http.StatusOK, generic, nil)
			return
		}

		expires := time.Now().Add(resetTTL)
		_, err = db.Collection("users").UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{
			"resetTokenHash": secrets.Hash(token),
			"resetExpires":   expires,
			"updatedAt":      time.Now(),
		}})
		if err != nil {
			log.Println("[AUTH] [ERROR] forgot-password update failed:", err)
			respondOK(c, http.StatusOK, generic, nil)
			return
		}

		resetLink := strings.TrimRight(frontendURL, "/") + "/reset-password/" + token
		if err := sender.SendPasswordReset(email, user.Name, resetLink); err != nil {
			log.Println("[AUTH] [ERROR] forgot-password email failed:", err)
		}

		respondOK(c, http.StatusOK, generic, nil)
	}
}

// ResetPassword looks the account up by the hash of the supplied token.
// The token is high-entropy, so its hash is a safe lookup key. The stored
// token is cleared in the same write that sets the new password.
func ResetPassword(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/reset-password"
		defer handlePanic(c, route)

		token := strings.TrimSpace(c.Param("token"))
		if token == "" {
			respondError(c, http.StatusBadRequest, route, "reset token is required")
			return
		}

		var req ResetPasswordRequest
		if !bindJSON(c, route, &req) {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Println("[AUTH] [ERROR] reset-password hash failed:", err)
			respondError(c, http.StatusInternalServerError, route, "password hash failed")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("users").UpdateOne(ctx,
			bson.M{
				"resetTokenHash": secrets.Hash(token),
				"resetExpires":   bson.M{"$gt": time.Now()},
			},
			bson.M{
				"$set":   bson.M{"passwordHash": string(hash), "updatedAt": time.Now()},
				"$unset": bson.M{"resetTokenHash": "", "resetExpires": ""},
			},
		)
		if err != nil {
			log.Println("[AUTH] [ERROR] reset-password update failed:", err)
			respondError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, http.StatusForbidden, route, "invalid or expired reset token")
			return
		}

		log.Println("[AUTH] [INFO] password reset completed")
		respondOK(c, http.StatusOK, "password updated, you can log in now", nil)
	}
}

// GetMe returns the authenticated profile.
func GetMe(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"

		userID, ok := currentUserID(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			respondError(c, http.StatusNotFound, route, "account not found")
			return
		}

		respondOK(c, http.StatusOK, "", gin.H{
			"id":         user.ID.Hex(),
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"hostelId":   user.HostelID,
			"roomNumber": user.RoomNumber,
			"isVerified": user.IsVerified,
			"createdAt":  user.CreatedAt,
		})
	}
}

func issueToken(userID primitive.ObjectID, email, role, secret string, accessTTL time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID.Hex(),
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
