package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/homeslice-backend/internal/handlers"
	"github.com/yungbote/homeslice-backend/internal/middleware"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Household    *handlers.HouseholdHandler
	Chore        *handlers.ChoreHandler
	Expense      *handlers.ExpenseHandler
	Event        *handlers.EventHandler
	Recurrence   *handlers.RecurrenceHandler
	Thread       *handlers.ThreadHandler
	Message      *handlers.MessageHandler
	Poll         *handlers.PollHandler
	Notification *handlers.NotificationHandler
	SSE          *handlers.SSEHandler
	Media        *handlers.MediaHandler
}

func NewRouter(log *logger.Logger, auth services.AuthService, h Handlers, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("homeslice-backend"))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"X-Client-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthcheck", handlers.Healthcheck)
	r.GET("/media/*key", h.Media.Get)

	api := r.Group("/api/v1")

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("")
	authed.Use(middleware.Auth(log, auth))
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		authed.GET("/me", h.User.Me)
		authed.PATCH("/me", h.User.Update)
		authed.PUT("/me/active-household/:householdId", h.User.SetActiveHousehold)

		authed.GET("/sse/stream", h.SSE.Stream)
		authed.POST("/sse/subscribe", h.SSE.Subscribe)
		authed.POST("/sse/unsubscribe", h.SSE.Unsubscribe)

		authed.POST("/households", h.Household.Create)
		authed.GET("/households", h.Household.List)

		authed.POST("/recurrence-rules", h.Recurrence.Create)
		authed.GET("/recurrence-rules", h.Recurrence.List)
		authed.GET("/recurrence-rules/:ruleId", h.Recurrence.Get)
		authed.PUT("/recurrence-rules/:ruleId", h.Recurrence.Update)
		authed.DELETE("/recurrence-rules/:ruleId", h.Recurrence.Delete)

		authed.POST("/notifications", h.Notification.Create)
		authed.GET("/notifications", h.Notification.List)
		authed.PATCH("/notifications/:notificationId/read", h.Notification.MarkRead)
		authed.DELETE("/notifications/:notificationId", h.Notification.Delete)
		authed.GET("/notification-settings", h.Notification.GetSettings)
		authed.PUT("/notification-settings", h.Notification.SaveSettings)
		authed.GET("/push/vapid-key", h.Notification.VAPIDKey)
		authed.POST("/push/subscriptions", h.Notification.Subscribe)
		authed.GET("/push/subscriptions", h.Notification.ListSubscriptions)
		authed.DELETE("/push/subscriptions/:subscriptionId", h.Notification.Unsubscribe)

		household := authed.Group("/households/:householdId")
		{
			household.GET("", h.Household.Get)
			household.PATCH("", h.Household.Update)
			household.DELETE("", h.Household.Delete)

			household.POST("/members", h.Household.AddMember)
			household.GET("/members", h.Household.ListMembers)
			household.PUT("/members/:memberId/role", h.Household.UpdateMemberRole)
			household.DELETE("/members/:memberId", h.Household.RemoveMember)

			household.POST("/chores", h.Chore.Create)
			household.GET("/chores", h.Chore.List)
			household.GET("/chores/:choreId", h.Chore.Get)
			household.PATCH("/chores/:choreId", h.Chore.Update)
			household.DELETE("/chores/:choreId", h.Chore.Delete)
			household.PUT("/chores/:choreId/assignees", h.Chore.ReplaceAssignees)
			household.GET("/chores/:choreId/history", h.Chore.ListHistory)
			household.GET("/chores/:choreId/events", h.Event.ListByChore)
			household.POST("/chores/:choreId/subtasks", h.Chore.CreateSubtask)
			household.PATCH("/chores/:choreId/subtasks/:subtaskId", h.Chore.UpdateSubtask)
			household.DELETE("/chores/:choreId/subtasks/:subtaskId", h.Chore.DeleteSubtask)

			household.POST("/expenses", h.Expense.Create)
			household.GET("/expenses", h.Expense.List)
			household.GET("/expenses/:expenseId", h.Expense.Get)
			household.PATCH("/expenses/:expenseId", h.Expense.Update)
			household.DELETE("/expenses/:expenseId", h.Expense.Delete)
			household.PUT("/expenses/:expenseId/splits", h.Expense.ReplaceSplits)
			household.POST("/expenses/:expenseId/transactions", h.Expense.CreateTransaction)
			household.PUT("/expenses/:expenseId/transactions/:transactionId/settle", h.Expense.SettleTransaction)

			household.POST("/events", h.Event.Create)
			household.GET("/events", h.Event.List)
			household.GET("/events/:eventId", h.Event.Get)
			household.PATCH("/events/:eventId", h.Event.Update)
			household.DELETE("/events/:eventId", h.Event.Delete)
			household.GET("/events/:eventId/history", h.Event.ListHistory)
			household.POST("/events/:eventId/reminders", h.Event.CreateReminder)
			household.DELETE("/events/:eventId/reminders/:reminderId", h.Event.DeleteReminder)

			household.POST("/threads", h.Thread.Create)
			household.GET("/threads", h.Thread.List)
			household.GET("/threads/:threadId", h.Thread.Get)
			household.PATCH("/threads/:threadId", h.Thread.Update)
			household.DELETE("/threads/:threadId", h.Thread.Delete)
			household.PUT("/threads/:threadId/participants", h.Thread.ReplaceParticipants)

			thread := household.Group("/threads/:threadId")
			{
				thread.POST("/messages", h.Message.Create)
				thread.GET("/messages", h.Message.List)
				thread.GET("/messages/:messageId", h.Message.Get)
				thread.PATCH("/messages/:messageId", h.Message.Update)
				thread.DELETE("/messages/:messageId", h.Message.Delete)
				thread.POST("/messages/:messageId/attachments", h.Message.AddAttachment)
				thread.DELETE("/messages/:messageId/attachments/:attachmentId", h.Message.RemoveAttachment)
				thread.POST("/messages/:messageId/reactions", h.Message.AddReaction)
				thread.DELETE("/messages/:messageId/reactions", h.Message.RemoveReaction)
				thread.PUT("/messages/:messageId/read", h.Message.MarkRead)

				thread.POST("/messages/:messageId/poll", h.Poll.Create)
				thread.GET("/messages/:messageId/poll", h.Poll.Get)
				thread.POST("/messages/:messageId/poll/votes", h.Poll.Vote)
				thread.DELETE("/messages/:messageId/poll/votes", h.Poll.RemoveVote)
				thread.PUT("/messages/:messageId/poll/close", h.Poll.Close)
				thread.GET("/messages/:messageId/poll/analytics", h.Poll.Analytics)
				thread.DELETE("/messages/:messageId/poll", h.Poll.Delete)
			}
		}
	}

	return r
}
