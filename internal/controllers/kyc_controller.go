package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
	"yoke_travel/internal/storage"
)

// SubmitKYC takes the three identity documents and opens a pending record.
// A rejected record is superseded; any other existing record blocks
// resubmission so at most one non-rejected record exists per user.
func SubmitKYC(c *gin.Context) {
	userID := middleware.UserID(c)

	var existing models.KYC
	if err := config.DB.Where("user_id = ? AND status <> ?", userID, "rejected").
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A KYC submission is already on file"})
		return
	}

	aadhaarFront, err1 := c.FormFile("aadhaarFront")
	aadhaarBack, err2 := c.FormFile("aadhaarBack")
	panCard, err3 := c.FormFile("panCard")
	if err1 != nil || err2 != nil || err3 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All document files are required"})
		return
	}

	frontURL, err := storage.UploadMultipart(aadhaarFront, "kyc_docs", uuid.NewString())
	if err == nil {
		var backURL, panURL string
		if backURL, err = storage.UploadMultipart(aadhaarBack, "kyc_docs", uuid.NewString()); err == nil {
			panURL, err = storage.UploadMultipart(panCard, "kyc_docs", uuid.NewString())
			if err == nil {
				// Supersede a rejected record, then file the new one.
				config.DB.Where("user_id = ? AND status = ?", userID, "rejected").
					Unscoped().Delete(&models.KYC{})

				kyc := models.KYC{
					UserID:          userID,
					FullName:        c.PostForm("fullName"),
					Mobile:          c.PostForm("mobile"),
					PANNumber:       c.PostForm("panNumber"),
					AadhaarNumber:   c.PostForm("aadhaarNumber"),
					AadhaarFrontURL: frontURL,
					AadhaarBackURL:  backURL,
					PANCardURL:      panURL,
					Status:          "pending",
				}
				if err = config.DB.Create(&kyc).Error; err == nil {
					c.JSON(http.StatusCreated, gin.H{"success": true, "message": "KYC submitted successfully", "kyc": kyc})
					return
				}
			}
		}
	}

	logrus.WithError(err).Error("KYC submission failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}

// GetKYCStatus returns the caller's latest record.
func GetKYCStatus(c *gin.Context) {
	var kyc models.KYC
	if err := config.DB.Where("user_id = ?", middleware.UserID(c)).
		Order("created_at DESC").First(&kyc).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "KYC not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": kyc.Status, "kyc": kyc})
}
