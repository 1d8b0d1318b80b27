package handlers

import (
	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreateUser handles registration of a new ledger user
func CreateUser(c *gin.Context) {
	var request models.CreateUserRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	user, err := handlerServices.GroupService.CreateUser(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, models.CreateUserResponse{UserID: user.Username})
}

// CreateGroup handles the creation of a new group, optionally with
// initial events and transactions
func CreateGroup(c *gin.Context) {
	var request models.CreateGroupRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	group, err := handlerServices.GroupService.CreateGroup(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleCreated(c, models.CreateGroupResponse{GroupID: group.ID})
}

// AddEvent handles appending an event to an existing group
func AddEvent(c *gin.Context) {
	var request models.AddEventRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	event, err := handlerServices.GroupService.AddEvent(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, event)
}

// UpdateMembers handles replacing a group's membership set
func UpdateMembers(c *gin.Context) {
	var request models.UpdateMembersRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := handlerServices.GroupService.UpdateMembers(&request); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Group members updated"})
}
