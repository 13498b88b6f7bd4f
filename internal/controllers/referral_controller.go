package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

var (
	ErrReferrerNotFound = errors.New("referrer not found")
	ErrSelfReferral     = errors.New("user cannot refer themselves")
)

// CreateReferralRecord links a new signup to the owner of the referral code
// and stages the reward into the referrer's locked balance.
func CreateReferralRecord(code string, newUserID uint) error {
	if code == "" || newUserID == 0 {
		return errors.New("invalid referral parameters")
	}

	return config.DB.Transaction(func(tx *gorm.DB) error {
		var referrer models.User
		if err := tx.Where("referral_id = ?", code).First(&referrer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReferrerNotFound
			}
			return err
		}
		if referrer.ID == newUserID {
			return ErrSelfReferral
		}

		// One pending reward per referee.
		var count int64
		if err := tx.Model(&models.Referral{}).
			Where("referee_id = ? AND status = ?", newUserID, "pending").
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		referral := models.Referral{
			ReferrerID:   referrer.ID,
			RefereeID:    newUserID,
			Status:       "pending",
			RewardAmount: models.ReferralReward,
		}
		if err := tx.Create(&referral).Error; err != nil {
			return err
		}

		var wallet models.Wallet
		if err := tx.Where(models.Wallet{UserID: referrer.ID}).FirstOrCreate(&wallet).Error; err != nil {
			return err
		}
		return tx.Model(&models.Wallet{}).Where("user_id = ?", referrer.ID).
			UpdateColumn("locked_balance", gorm.Expr("locked_balance + ?", referral.RewardAmount)).Error
	})
}

// CompleteReferralReward settles the referee's pending referral, if any.
// Absence is a no-op, and the status flip matches only pending rows so a
// repeated call moves money exactly once.
func CompleteReferralReward(userID uint) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Referral{}).
			Where("referee_id = ? AND status = ?", userID, "pending").
			Updates(map[string]interface{}{"status": "completed", "completed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var referral models.Referral
		if err := tx.Where("referee_id = ? AND status = ?", userID, "completed").
			Order("completed_at DESC").First(&referral).Error; err != nil {
			return err
		}

		return tx.Model(&models.Wallet{}).Where("user_id = ?", referral.ReferrerID).
			UpdateColumns(map[string]interface{}{
				"locked_balance":    gorm.Expr("locked_balance - ?", referral.RewardAmount),
				"available_balance": gorm.Expr("available_balance + ?", referral.RewardAmount),
			}).Error
	})
}

// GetReferralLink returns the caller's code and a shareable signup link.
func GetReferralLink(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	link := fmt.Sprintf("%s://%s/signup?ref=%s", scheme, c.Request.Host, user.ReferralID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"referralId":   user.ReferralID,
			"referralLink": link,
			"shareMessage": fmt.Sprintf("Join Yoktrip using my referral code %s and get ₹100 travel credit!", user.ReferralID),
		},
	})
}

// GetReferralList lists referrals made by the caller.
func GetReferralList(c *gin.Context) {
	var referrals []models.Referral
	if err := config.DB.Preload("Referee").
		Where("referrer_id = ?", middleware.UserID(c)).
		Order("created_at DESC").Find(&referrals).Error; err != nil {
		logrus.WithError(err).Error("referral list query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	out := make([]gin.H, 0, len(referrals))
	for _, ref := range referrals {
		out = append(out, gin.H{
			"id":            ref.ID,
			"refereeName":   ref.Referee.FullName,
			"refereeEmail":  ref.Referee.Email,
			"refereeAvatar": ref.Referee.ProfilePic,
			"status":        ref.Status,
			"rewardAmount":  ref.RewardAmount,
			"createdAt":     ref.CreatedAt,
			"completedAt":   ref.CompletedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}
