package routes

import (
	"campuspool/internal/handlers"
	"campuspool/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	User         *handlers.UserHandler
	Ride         *handlers.RideHandler
	Fare         *handlers.FareHandler
	Message      *handlers.MessageHandler
	Notification *handlers.NotificationHandler
	Rating       *handlers.RatingHandler
}

// Setup registers all API routes on the given group. Registration is the only
// public endpoint; everything else requires a valid JWT.
func Setup(r *gin.RouterGroup, h *Handlers, jwtSecret string) {
	r.POST("/users/register", h.User.Register)

	authed := r.Group("")
	authed.Use(middleware.AuthRequired(jwtSecret))

	users := authed.Group("/users")
	{
		users.GET("/me", h.User.GetProfile)
		users.PUT("/me", h.User.UpdateProfile)
		users.POST("/me/photo", h.User.UploadProfilePhoto)
		users.POST("/me/verify/google", h.User.VerifyWithGoogle)
		users.POST("/me/push-tokens", h.User.RegisterPushToken)
		users.GET("/:id", h.User.GetUser)
		users.GET("/:id/ratings", h.Rating.GetUserRatings)
	}

	rides := authed.Group("/rides")
	{
		rides.POST("", h.Ride.CreateRide)
		rides.GET("/search", h.Ride.SearchRides)
		rides.GET("/mine", h.Ride.GetMyRides)
		rides.GET("/joined", h.Ride.GetJoinedRides)
		rides.GET("/:id", h.Ride.GetRide)
		rides.PUT("/:id", h.Ride.UpdateRide)
		rides.POST("/:id/join", h.Ride.RequestToJoin)
		rides.POST("/:id/complete", h.Ride.CompleteRide)
		rides.POST("/:id/cancel", h.Ride.CancelRide)
		rides.GET("/:id/requests", h.Ride.GetRideRequests)
		rides.GET("/:id/ratings", h.Rating.GetRideRatings)
	}

	requests := authed.Group("/requests")
	{
		requests.GET("", h.Ride.GetMyRequests)
		requests.POST("/:id/approve", h.Ride.ApproveRequest)
		requests.POST("/:id/reject", h.Ride.RejectRequest)
	}

	fares := authed.Group("/fares")
	{
		fares.POST("/split", h.Fare.SplitCost)
		fares.POST("/estimate", h.Fare.EstimateCost)
		fares.POST("/suggest", h.Fare.SuggestPrice)
		fares.POST("/savings", h.Fare.Savings)
	}

	messages := authed.Group("/messages")
	{
		messages.POST("", h.Message.SendMessage)
		messages.GET("/conversation", h.Message.GetConversation)
		messages.POST("/conversation/read", h.Message.MarkConversationRead)
		messages.POST("/:id/read", h.Message.MarkRead)
		messages.GET("/unread/count", h.Message.CountUnread)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", h.Notification.GetNotifications)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.GET("/unread/count", h.Notification.CountUnread)
	}

	authed.POST("/ratings", h.Rating.RecordRating)
}
