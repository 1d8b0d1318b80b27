package handlers

import (
	"github.com/fadhlanhapp/groupledger-backend/utils"

	"github.com/gin-gonic/gin"
)

// GetUserSummary handles retrieving a user's profile and current debt
func GetUserSummary(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.HandleError(c, utils.NewBadRequestError("userId is required"))
		return
	}

	user, err := handlerServices.QueryService.GetUserSummary(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, user)
}

// GetSettlementHistory handles retrieving a user's settlement records
func GetSettlementHistory(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.HandleError(c, utils.NewBadRequestError("userId is required"))
		return
	}

	records, err := handlerServices.QueryService.GetSettlementHistory(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, records)
}

// GetGroupView handles retrieving a group with resolved members and
// per-viewer settle permissions
func GetGroupView(c *gin.Context) {
	groupID := c.Query("groupId")
	if groupID == "" {
		utils.HandleError(c, utils.NewBadRequestError("groupId is required"))
		return
	}
	viewer := c.Query("userId")

	view, err := handlerServices.QueryService.GetGroupView(groupID, viewer)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, view)
}

// ListGroupsForUser handles listing the groups a user belongs to
func ListGroupsForUser(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.HandleError(c, utils.NewBadRequestError("userId is required"))
		return
	}

	groups, err := handlerServices.QueryService.ListGroupsForUser(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, groups)
}

// SuggestSettlements handles netting a group's unpaid transactions into
// a settle-up plan
func SuggestSettlements(c *gin.Context) {
	groupID := c.Query("groupId")
	if groupID == "" {
		utils.HandleError(c, utils.NewBadRequestError("groupId is required"))
		return
	}

	suggestion, err := handlerServices.SuggestionService.SuggestSettlements(groupID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, suggestion)
}
