package routes

import (
	"review-management-api/controllers"
	"review-management-api/middleware"
	"review-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Review Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			// Papers
			papers := protected.Group("/papers")
			{
				papers.GET("/:id", controllers.GetPaper)

				// Authors see the visibility-gated decision state
				papers.GET("/:id/decision", controllers.GetPaperDecision)

				// Editors manage the lifecycle
				papers.PUT("/:id/status", middleware.RequireRole(models.RoleEditor), controllers.UpdatePaperStatus)
				papers.PUT("/:id/referees", middleware.RequireRole(models.RoleEditor), controllers.UpdateRefereeList)
				papers.GET("/:id/readiness", middleware.RequireRole(models.RoleEditor), controllers.GetReadiness)
				papers.GET("/:id/can-assign", middleware.RequireRole(models.RoleEditor), controllers.CheckCanAssign)
				papers.POST("/:id/assignments", middleware.RequireRole(models.RoleEditor), controllers.AssignReviewers)
				papers.POST("/:id/assignments/submit", middleware.RequireRole(models.RoleEditor), controllers.SubmitAssignments)
				papers.DELETE("/:id/assignments", middleware.RequireRole(models.RoleEditor), controllers.RemoveAssignments)
				papers.POST("/:id/decision", middleware.RequireRole(models.RoleEditor), controllers.CreateDecision)
				papers.GET("/:id/reviews", middleware.RequireRole(models.RoleEditor), controllers.ListSubmittedReviews)

				// Reviewers work against their assignment
				papers.GET("/:id/review-form", middleware.RequireRole(models.RoleReviewer), controllers.GetReviewForm)
				papers.POST("/:id/review", middleware.RequireRole(models.RoleReviewer), controllers.SubmitReview)
				papers.PUT("/:id/review-draft", middleware.RequireRole(models.RoleReviewer), controllers.SaveReviewDraft)
				papers.POST("/:id/invitation-response", middleware.RequireRole(models.RoleReviewer), controllers.RespondToInvitation)
			}

			// Decisions
			decisions := protected.Group("/decisions")
			decisions.Use(middleware.RequireRole(models.RoleEditor))
			{
				decisions.POST("/:decision_id/release", controllers.ReleaseDecision)
				decisions.POST("/:decision_id/schedule", controllers.ScheduleDecisionRelease)
				decisions.DELETE("/:decision_id/schedule", controllers.CancelScheduledRelease)
			}

			// Review forms
			forms := protected.Group("/forms")
			forms.Use(middleware.RequireRole(models.RoleEditor))
			{
				forms.PUT("/:form_id/status", controllers.SetFormStatus)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetUnreadCount)
				notifications.PUT("/:notification_id/read", controllers.MarkNotificationRead)
				notifications.GET("/preference", controllers.GetNotificationPreference)
				notifications.PUT("/preference", controllers.UpdateNotificationPreference)
			}

			// Observability (editor only)
			audit := protected.Group("/audit")
			audit.Use(middleware.RequireRole(models.RoleEditor))
			{
				audit.GET("/events", controllers.GetAuditLogs)
				audit.GET("/errors", controllers.GetErrorLogs)
			}
		}
	}
}
