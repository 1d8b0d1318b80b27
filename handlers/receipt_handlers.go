// handlers/receipt_handlers.go
package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fadhlanhapp/groupledger-backend/models"
	"github.com/fadhlanhapp/groupledger-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadReceipt receives a proof-of-payment image, stores it under
// uploads/ and attaches the resulting reference to the transaction. The
// ledger never interprets the stored file; the reference is opaque.
func UploadReceipt(c *gin.Context) {
	groupID := c.PostForm("groupId")
	eventName := c.PostForm("eventName")
	transactionID := c.PostForm("transactionId")
	if groupID == "" || eventName == "" || transactionID == "" {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("No file uploaded or invalid form: %v", err)})
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPG, JPEG, PNG and PDF files are supported"})
		return
	}

	filename := uuid.New().String() + ext
	filePath := filepath.Join("uploads", filename)

	out, err := os.Create(filePath)
	if err != nil {
		slog.Error("failed to create receipt file", "path", filePath, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		slog.Error("failed to write receipt file", "path", filePath, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	request := models.AttachReceiptRequest{
		GroupID:       groupID,
		EventName:     eventName,
		TransactionID: transactionID,
		ReceiptRef:    "/uploads/" + filename,
	}
	if err := handlerServices.SettlementService.AttachReceipt(&request); err != nil {
		// The transaction did not accept the receipt; drop the orphan file.
		os.Remove(filePath)
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"message": "Receipt uploaded", "receiptRef": request.ReceiptRef})
}
