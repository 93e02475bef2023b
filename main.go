package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/mail"
	"backend/internal/middleware"
	"backend/internal/payments"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("⚠️ user index warning: %v", err)
	}
	if err := database.EnsureMenuIndexes(db); err != nil {
		log.Printf("⚠️ menu index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}

	sender := mail.NewSMTPSender(
		config.AppEnv.SMTPHost,
		config.AppEnv.SMTPPort,
		config.AppEnv.SMTPUser,
		config.AppEnv.SMTPPassword,
		config.AppEnv.MailFrom,
		config.AppEnv.SMTPTimeout,
	)

	rz := payments.NewClient(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret)
	if !rz.Configured() {
		log.Println("⚠️ razorpay credentials missing, payment endpoints will answer 503")
	}

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, sender, config.AppEnv.OTPTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/send-otp", handlers.SendOTP(db, sender, config.AppEnv.OTPTTL))
	r.POST("/auth/verify-otp", handlers.VerifyOTP(db))
	r.POST("/auth/forgot-password", handlers.ForgotPassword(db, sender, config.AppEnv.ResetTokenTTL, config.AppEnv.FrontendURL))
	r.POST("/auth/reset-password/:token", handlers.ResetPassword(db))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	r.GET("/menu", handlers.GetMenu(db))
	r.GET("/menu/:id", handlers.GetMenuItem(db))

	payment := r.Group("/payment")
	payment.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		payment.POST("/create-order", handlers.CreatePaymentOrder(rz))
		payment.POST("/verify", handlers.VerifyPayment(rz))
		payment.POST("/complete", handlers.CompleteOrder(db, rz))
		payment.POST("/failed", handlers.PaymentFailed())
	}

	user := r.Group("/")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/orders/my", handlers.GetMyOrders(db))
		user.POST("/feedback", handlers.CreateFeedback(db))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"success": true})
		})

		admin.POST("/menu", handlers.CreateMenuItem(db))
		admin.PUT("/menu/:id", handlers.UpdateMenuItem(db))
		admin.DELETE("/menu/:id", handlers.DeleteMenuItem(db))

		admin.GET("/orders", handlers.GetAllOrders(db))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(db))

		admin.GET("/feedback", handlers.GetAllFeedback(db))
		admin.PUT("/feedback/:id/respond", handlers.RespondFeedback(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
