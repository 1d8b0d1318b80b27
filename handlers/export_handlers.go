package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fadhlanhapp/groupledger-backend/utils"

	"github.com/gin-gonic/gin"
)

// ExportSettlementHistory exports a user's settlement records as a
// downloadable CSV or XLSX file
func ExportSettlementHistory(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.HandleError(c, utils.NewBadRequestError("userId is required"))
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		exportCSV(c, userID)
	case "xlsx":
		exportXLSX(c, userID)
	default:
		utils.HandleError(c, utils.NewBadRequestError("format must be csv or xlsx"))
	}
}

func exportCSV(c *gin.Context, userID string) {
	filename := fmt.Sprintf("%s_settlements_%s.csv",
		utils.CleanFileName(userID), time.Now().Format("2006-01-02"))

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if err := handlerServices.ExportService.WriteSettlementHistoryCSV(c.Writer, userID); err != nil {
		utils.HandleError(c, err)
		return
	}
}

func exportXLSX(c *gin.Context, userID string) {
	excelFile, filename, err := handlerServices.ExportService.ExportSettlementHistoryXLSX(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := excelFile.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file: " + err.Error()})
		return
	}
}
