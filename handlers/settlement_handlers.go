package handlers

import (
	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/utils"

	"github.com/gin-gonic/gin"
)

// AttachReceipt handles attaching an opaque receipt reference to an
// unpaid transaction (phase one of the settlement workflow)
func AttachReceipt(c *gin.Context) {
	var request models.AttachReceiptRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := handlerServices.SettlementService.AttachReceipt(&request); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Receipt attached"})
}

// MarkPaid handles settling an unpaid transaction (phase two of the
// settlement workflow)
func MarkPaid(c *gin.Context) {
	var request models.MarkPaidRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	record, err := handlerServices.SettlementService.MarkPaid(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, record)
}
