package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/gateway"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

// Plan prices in rupees.
var planPrices = map[string]float64{
	"Basic": 599,
	"Super": 999,
}

// GetCurrentSubscription returns the caller's plan and remaining days.
func GetCurrentSubscription(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch subscription"})
		return
	}

	plan := user.Subscription.Plan
	if plan == "" {
		plan = "Free"
	}

	var daysRemaining interface{}
	if user.Subscription.ExpiresAt != nil {
		daysRemaining = int(math.Ceil(time.Until(*user.Subscription.ExpiresAt).Hours() / 24))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"plan":          plan,
			"expiresAt":     user.Subscription.ExpiresAt,
			"daysRemaining": daysRemaining,
		},
	})
}

// CreatePaymentIntent splits the plan price between the wallet and the
// gateway: the wallet covers up to its available balance, the rest becomes a
// pending gateway order. A fully wallet-funded purchase activates on the spot.
func CreatePaymentIntent(c *gin.Context) {
	var body struct {
		Plan string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid plan"})
		return
	}

	price, ok := planPrices[body.Plan]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid plan"})
		return
	}

	userID := middleware.UserID(c)

	wallet, err := getOrCreateWallet(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
		return
	}

	walletDeduction := math.Min(wallet.AvailableBalance, price)
	payable := price - walletDeduction

	if walletDeduction > 0 {
		err := config.DB.Transaction(func(tx *gorm.DB) error {
			if err := debitWallet(tx, userID, walletDeduction); err != nil {
				return err
			}
			txn := models.Transaction{
				UserID:      userID,
				Amount:      -walletDeduction,
				Description: fmt.Sprintf("Wallet deduction for %s plan", body.Plan),
				Type:        "subscription",
				Status:      "completed",
			}
			return tx.Create(&txn).Error
		})
		if err != nil {
			if errors.Is(err, ErrInsufficientFunds) {
				// Balance moved under us; retry with the gateway for the full price.
				walletDeduction = 0
				payable = price
			} else {
				logrus.WithError(err).Error("subscription wallet offset failed")
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
				return
			}
		}
	}

	var order gin.H
	if payable > 0 {
		gw := gateway.Get()
		if gw == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}
		amountPaise := int64(payable * 100)
		receipt := fmt.Sprintf("sub_%s", uuid.NewString()[:8])
		orderID, err := gw.CreateOrder(amountPaise, "INR", receipt, map[string]interface{}{
			"userId": fmt.Sprintf("%d", userID),
			"plan":   body.Plan,
		})
		if err != nil {
			logrus.WithError(err).Error("subscription order creation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}

		txn := models.Transaction{
			UserID:      userID,
			Amount:      payable,
			Description: fmt.Sprintf("Gateway payment for %s plan", body.Plan),
			Type:        "subscription",
			Status:      "pending",
			Reference:   orderID,
		}
		if err := config.DB.Create(&txn).Error; err != nil {
			logrus.WithError(err).Error("pending subscription transaction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}

		order = gin.H{
			"id":       orderID,
			"orderId":  orderID,
			"amount":   amountPaise,
			"currency": "INR",
			"key":      gateway.KeyID(),
		}
	} else {
		// Wallet covered the full price: no gateway leg to wait for.
		if err := activatePlan(userID, body.Plan); err != nil {
			logrus.WithError(err).Error("subscription activation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment processing failed"})
			return
		}
		if err := CompleteReferralReward(userID); err != nil {
			logrus.WithError(err).Error("referral completion failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"plan":               body.Plan,
			"walletDeducted":     walletDeduction,
			"payableViaRazorpay": payable,
			"razorpayOrder":      order,
		},
	})
}

// ConfirmSubscription verifies the gateway signature and activates the plan
// for one year. Upgrades away from Free settle the payer's referral reward.
func ConfirmSubscription(c *gin.Context) {
	var body struct {
		OrderID   string `json:"orderId"`
		PaymentID string `json:"paymentId"`
		Signature string `json:"signature"`
		Plan      string `json:"plan"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request"})
		return
	}

	if !gateway.VerifySignature(body.OrderID, body.PaymentID, body.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payment signature"})
		return
	}

	userID := middleware.UserID(c)

	if err := activatePlan(userID, body.Plan); err != nil {
		logrus.WithError(err).Error("subscription activation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to confirm subscription"})
		return
	}

	if body.OrderID != "" {
		config.DB.Model(&models.Transaction{}).
			Where("reference = ?", body.OrderID).
			Updates(map[string]interface{}{
				"status":     "completed",
				"payment_id": body.PaymentID,
				"signature":  body.Signature,
			})
	}

	if body.Plan != "Free" {
		if err := CompleteReferralReward(userID); err != nil {
			logrus.WithError(err).Error("referral completion failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscription activated"})
}

// DowngradeToFree drops back to the Free plan immediately.
func DowngradeToFree(c *gin.Context) {
	err := config.DB.Model(&models.User{}).Where("id = ?", middleware.UserID(c)).
		Updates(map[string]interface{}{
			"subscription_plan":       "Free",
			"subscription_expires_at": nil,
		}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to downgrade"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Downgraded to Free plan"})
}

func activatePlan(userID uint, plan string) error {
	now := time.Now()
	expires := now.AddDate(1, 0, 0)
	return config.DB.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_plan":        plan,
			"subscription_expires_at":  expires,
			"subscription_upgraded_at": now,
		}).Error
}
