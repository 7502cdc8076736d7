package routes

import (
	"net/http"
	"time"

	adminapi "blog-app/internal/api/admin"
	authapi "blog-app/internal/api/auth"
	"blog-app/internal/api/billing"
	postsapi "blog-app/internal/api/posts"
	stripewebhooks "blog-app/internal/api/stripewebhook"
	"blog-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.Engine) {
	// Raw body is needed for signature verification; keep it out of the
	// sanitizing groups.
	r.POST("/webhook", stripewebhooks.StripeWebhook)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middleware.NewRateLimiter(rate.Every(time.Second), 10)

	// Credentials are bound verbatim, so no sanitizing here.
	credentials := r.Group("/")
	credentials.Use(limiter.Middleware())
	credentials.POST("/register", authapi.Register)
	credentials.POST("/login", authapi.Login)
	credentials.GET("/auth/google", authapi.GoogleStart)
	credentials.GET("/auth/google/callback", authapi.GoogleCallback)

	public := r.Group("/")
	public.GET("/posts", postsapi.ListPosts)
	public.GET("/posts/:id", postsapi.GetPost)
	public.GET("/config/stripe", billing.StripeConfig)
	public.GET("/get-session-details", billing.GetSessionDetails)
	public.GET("/checkPremium", limiter.Middleware(), billing.CheckPremium)

	payments := r.Group("/")
	payments.Use(limiter.Middleware(), middleware.SanitizeAndCleanInputMiddleware())
	payments.POST("/create-checkout-session", middleware.OptionalAuth(), billing.CreateCheckoutSession)
	payments.POST("/stripe/confirm", billing.ConfirmPayment)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", authapi.Me)
	auth.GET("/me/posts", postsapi.ListMyPosts)
	auth.GET("/payments", billing.GetPaymentHistory)
	auth.POST("/change-password", authapi.ChangePassword)

	auth.POST("/posts", postsapi.CreatePost)
	auth.PUT("/posts/:id", postsapi.UpdatePost)
	auth.DELETE("/posts/:id", postsapi.DeletePost)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/users/:id", adminapi.GetUserDetails)
	admin.GET("/payments", adminapi.ListAllPayments)
}
