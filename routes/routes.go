package routes

import (
	"os"

	"github.com/fadhlanhapp/groupledger-backend/handlers"
	"github.com/fadhlanhapp/groupledger-backend/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, store services.Store) {
	// Create uploads directory if not exists
	os.MkdirAll("uploads", os.ModePerm)

	handlers.InitHandlers(store)

	// Uploaded receipts are served back as static files
	router.Static("/uploads", "uploads")

	v1 := router.Group("/api/v1")
	{
		// User endpoints
		v1.POST("/users/create", handlers.CreateUser)
		v1.GET("/users/summary", handlers.GetUserSummary)
		v1.GET("/users/settlementHistory", handlers.GetSettlementHistory)
		v1.GET("/users/settlementHistory/export", handlers.ExportSettlementHistory)

		// Group endpoints
		v1.POST("/groups/create", handlers.CreateGroup)
		v1.POST("/groups/addEvent", handlers.AddEvent)
		v1.POST("/groups/updateMembers", handlers.UpdateMembers)
		v1.GET("/groups/view", handlers.GetGroupView)
		v1.GET("/groups/listForUser", handlers.ListGroupsForUser)
		v1.GET("/groups/suggestSettlements", handlers.SuggestSettlements)

		// Settlement endpoints
		v1.POST("/transactions/attachReceipt", handlers.AttachReceipt)
		v1.POST("/transactions/markPaid", handlers.MarkPaid)
		v1.POST("/transactions/uploadReceipt", handlers.UploadReceipt)
	}
}
