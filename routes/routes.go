package routes

import (
	"time"

	"tripay/handlers"
	"tripay/middleware"
	"tripay/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Auth     *handlers.AuthHandler
	Payment  *handlers.PaymentHandler
	Customer *handlers.CustomerHandler
}

// RegisterAuthRoutes registers registration and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.Register)
		api.POST("/login", hb.Auth.Login)
	}
}

// RegisterPaymentRoutes registers the invoice/payment lifecycle endpoints.
// The capture callback stays outside the authenticated group: it is invoked
// by the payment provider's redirect, which carries no bearer token.
func RegisterPaymentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.GET("/invoice/:id/capture", hb.Payment.Capture)

		protected := api.Group("")
		protected.Use(middleware.RequireRole(models.RoleCustomer))
		protected.POST("/invoice", hb.Payment.CreateInvoice)
		protected.POST("/invoice/:id/pay", hb.Payment.InitiatePayment)
		protected.GET("/invoice/:id", hb.Payment.OrderStatus)
		protected.DELETE("/invoice/:id", hb.Payment.DeleteInvoice)
	}
}

// RegisterCustomerRoutes registers the customer's order and review endpoints.
func RegisterCustomerRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/customer")
	{
		api.Use(middleware.RequireRole(models.RoleCustomer))
		api.GET("/my_order", hb.Customer.MyOrders)
		api.GET("/my_order/review", hb.Customer.MyReviewableOrders)
		api.POST("/my_order/review/:id", hb.Customer.CreateReview)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterCustomerRoutes(r, hb)
	RegisterHealthRoute(r)
}
