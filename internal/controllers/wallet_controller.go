package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/gateway"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicatePayment  = errors.New("payment already processed")
)

// getOrCreateWallet lazily creates the wallet on first access.
func getOrCreateWallet(tx *gorm.DB, userID uint) (models.Wallet, error) {
	var wallet models.Wallet
	err := tx.Where(models.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error
	return wallet, err
}

// debitWallet takes amount from available balance with a conditional update;
// a lost race or short balance surfaces as ErrInsufficientFunds, never as a
// negative balance.
func debitWallet(tx *gorm.DB, userID uint, amount float64) error {
	if _, err := getOrCreateWallet(tx, userID); err != nil {
		return err
	}
	res := tx.Model(&models.Wallet{}).
		Where("user_id = ? AND available_balance >= ?", userID, amount).
		UpdateColumn("available_balance", gorm.Expr("available_balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func creditWallet(tx *gorm.DB, userID uint, amount float64) error {
	if _, err := getOrCreateWallet(tx, userID); err != nil {
		return err
	}
	return tx.Model(&models.Wallet{}).Where("user_id = ?", userID).
		UpdateColumn("available_balance", gorm.Expr("available_balance + ?", amount)).Error
}

// GetWallet returns balances plus the five most recent transactions.
func GetWallet(c *gin.Context) {
	userID := middleware.UserID(c)

	wallet, err := getOrCreateWallet(config.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	var transactions []models.Transaction
	config.DB.Where("user_id = ?", userID).Order("created_at DESC").Limit(5).Find(&transactions)

	out := make([]gin.H, 0, len(transactions))
	for _, txn := range transactions {
		out = append(out, gin.H{
			"id":          txn.ID,
			"description": txn.Description,
			"amount":      txn.Amount,
			"date":        txn.CreatedAt.Format("Jan 2, 2006"),
			"type":        txn.Type,
			"status":      txn.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"availableBalance": wallet.AvailableBalance,
		"lockedBalance":    wallet.LockedBalance,
		"transactions":     out,
	})
}

// CreateDepositOrder opens a gateway order for a wallet top-up.
func CreateDepositOrder(c *gin.Context) {
	var body struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A positive amount is required"})
		return
	}

	gw := gateway.Get()
	if gw == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	amountPaise := int64(body.Amount * 100)
	receipt := fmt.Sprintf("deposit_%s", uuid.NewString()[:8])
	orderID, err := gw.CreateOrder(amountPaise, "INR", receipt, nil)
	if err != nil {
		logrus.WithError(err).Error("deposit order creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": orderID, "amount": amountPaise, "currency": "INR"})
}

// VerifyDeposit settles a gateway payment into the wallet. The reference
// lookup plus the unique index on transactions.reference together guarantee a
// repeated payment id credits at most once.
func VerifyDeposit(c *gin.Context) {
	var body struct {
		PaymentID string `json:"payment_id" binding:"required"`
		OrderID   string `json:"order_id" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "payment_id, order_id and signature are required"})
		return
	}

	userID := middleware.UserID(c)

	var existing models.Transaction
	if err := config.DB.Where("reference = ?", body.PaymentID).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment already processed"})
		return
	}

	if !gateway.VerifySignature(body.OrderID, body.PaymentID, body.Signature) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid signature"})
		return
	}

	gw := gateway.Get()
	if gw == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}
	payment, err := gw.FetchPayment(body.PaymentID)
	if err != nil {
		logrus.WithError(err).Error("payment fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}

	amount := float64(payment.Amount) / 100

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := creditWallet(tx, userID, amount); err != nil {
			return err
		}
		txn := models.Transaction{
			UserID:      userID,
			Amount:      amount,
			Description: "Deposit via " + payment.Method,
			Type:        "deposit",
			Status:      "completed",
			Reference:   body.PaymentID,
			Method:      payment.Method,
			Details: datatypes.JSONMap{
				"bank":   payment.Bank,
				"wallet": payment.Wallet,
				"vpa":    payment.VPA,
			},
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		if isDuplicateErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Payment already processed"})
			return
		}
		logrus.WithError(err).Error("deposit settlement failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Payment verification failed"})
		return
	}

	var wallet models.Wallet
	config.DB.Where("user_id = ?", userID).First(&wallet)

	c.JSON(http.StatusOK, gin.H{"success": true, "availableBalance": wallet.AvailableBalance})
}

// Withdraw moves funds out of the wallet into a pending payout.
func Withdraw(c *gin.Context) {
	var body struct {
		Amount        float64 `json:"amount"`
		Method        string  `json:"method"`
		UPIID         string  `json:"upiId"`
		AccountNumber string  `json:"accountNumber"`
		IFSCCode      string  `json:"ifscCode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "A positive amount is required"})
		return
	}

	var details datatypes.JSONMap
	var description string
	switch body.Method {
	case "upi":
		if body.UPIID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "upiId is required for UPI withdrawals"})
			return
		}
		details = datatypes.JSONMap{"upiId": body.UPIID}
		description = "Withdrawal via UPI"
	case "bank":
		if body.AccountNumber == "" || body.IFSCCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "accountNumber and ifscCode are required for bank withdrawals"})
			return
		}
		details = datatypes.JSONMap{"accountNumber": body.AccountNumber, "ifscCode": body.IFSCCode}
		description = "Withdrawal via Bank Transfer"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "method must be upi or bank"})
		return
	}

	userID := middleware.UserID(c)

	var txn models.Transaction
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := debitWallet(tx, userID, body.Amount); err != nil {
			return err
		}
		txn = models.Transaction{
			UserID:      userID,
			Amount:      -body.Amount,
			Description: description,
			Type:        "withdrawal",
			Status:      "pending",
			Method:      body.Method,
			Details:     details,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Insufficient balance"})
			return
		}
		logrus.WithError(err).Error("withdrawal failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	var wallet models.Wallet
	config.DB.Where("user_id = ?", userID).First(&wallet)

	c.JSON(http.StatusOK, gin.H{
		"availableBalance": wallet.AvailableBalance,
		"transaction": gin.H{
			"id":          txn.ID,
			"description": txn.Description,
			"amount":      txn.Amount,
			"date":        txn.CreatedAt.Format("Jan 2, 2006"),
			"type":        txn.Type,
			"status":      txn.Status,
			"method":      txn.Method,
		},
	})
}

// GetTransactions returns the caller's full history with optional filters.
func GetTransactions(c *gin.Context) {
	q := config.DB.Where("user_id = ?", middleware.UserID(c))
	if t := c.Query("type"); t != "" {
		q = q.Where("type = ?", t)
	}
	if s := c.Query("status"); s != "" {
		q = q.Where("status = ?", s)
	}
	if start := c.Query("startDate"); start != "" {
		if ts, err := time.Parse(time.RFC3339, start); err == nil {
			q = q.Where("created_at >= ?", ts)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if ts, err := time.Parse(time.RFC3339, end); err == nil {
			q = q.Where("created_at <= ?", ts)
		}
	}

	var transactions []models.Transaction
	if err := q.Order("created_at DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch transactions"})
		return
	}

	out := make([]gin.H, 0, len(transactions))
	for _, txn := range transactions {
		out = append(out, gin.H{
			"id":          txn.ID,
			"description": txn.Description,
			"amount":      txn.Amount,
			"date":        txn.CreatedAt.Format(time.RFC3339),
			"type":        txn.Type,
			"status":      txn.Status,
			"method":      txn.Method,
			"details":     txn.Details,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// GetTransaction returns one owned transaction.
func GetTransaction(c *gin.Context) {
	var txn models.Transaction
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
		First(&txn).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Transaction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          txn.ID,
		"description": txn.Description,
		"amount":      txn.Amount,
		"date":        txn.CreatedAt.Format("Jan 2, 2006"),
		"type":        txn.Type,
		"status":      txn.Status,
		"reference":   txn.Reference,
		"createdAt":   txn.CreatedAt,
	})
}
