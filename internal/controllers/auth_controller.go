package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
	"yoke_travel/internal/notify"
)

type registerInput struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Gender      string `json:"gender"`
	DOB         string `json:"dob"`
	Country     string `json:"country"`
	Referral    string `json:"referral"`
	AcceptTerms bool   `json:"accept_terms"`
}

// Register starts an OTP-gated signup. The account is only created once the
// emailed code is verified.
func Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email, password, and phone are required"})
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	if err := config.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed"})
		return
	}

	otp := generateOTP()
	signups.Put(email, pendingSignup{
		FullName:    input.FullName,
		Email:       email,
		Phone:       input.Phone,
		Password:    input.Password,
		Gender:      input.Gender,
		DOB:         input.DOB,
		Country:     input.Country,
		Referral:    input.Referral,
		AcceptTerms: input.AcceptTerms,
		OTP:         otp,
		ExpiresAt:   time.Now().Add(otpTTL),
	})

	notify.SendOTP(email, otp)
	logrus.WithField("email", email).Info("OTP issued for signup")

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
}

// VerifyOtp finishes signup: checks the code, creates the user, links the
// referral (non-fatal) and returns a token.
func VerifyOtp(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and OTP are required"})
		return
	}

	email := strings.ToLower(body.Email)
	pending, ok := signups.Get(email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No OTP request found for this email"})
		return
	}
	if pending.OTP != body.OTP {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid OTP"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(pending.Password), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Verification failed"})
		return
	}

	now := time.Now()
	user := models.User{
		FullName:    pending.FullName,
		Email:       pending.Email,
		Phone:       pending.Phone,
		Password:    string(hashed),
		Gender:      pending.Gender,
		DOB:         pending.DOB,
		Country:     pending.Country,
		AcceptTerms: pending.AcceptTerms,
		IsVerified:  true,
		ReferralID:  freshReferralID(),
		LastLogin:   &now,
	}

	if err := config.DB.Create(&user).Error; err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "User already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Verification failed"})
		return
	}
	logrus.WithField("email", user.Email).Info("new user registered")

	if pending.Referral != "" {
		if err := CreateReferralRecord(pending.Referral, user.ID); err != nil {
			logrus.WithField("code", pending.Referral).WithError(err).Error("referral processing failed")
		}
	}

	signups.Delete(email)

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"data": gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
			},
		},
	})
}

// ResendOtp regenerates the code for a pending signup.
func ResendOtp(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	email := strings.ToLower(body.Email)
	pending, ok := signups.Get(email)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No registration found for this email"})
		return
	}

	pending.OTP = generateOTP()
	pending.ExpiresAt = time.Now().Add(otpTTL)
	signups.Put(email, pending)

	notify.SendOTP(email, pending.OTP)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "New OTP sent successfully"})
}

// Login checks credentials and returns a token.
func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email and password are required"})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", strings.ToLower(body.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("last_login", &now)

	token, err := middleware.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user})
}

// ForgotPassword emails a reset OTP to a registered address.
func ForgotPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email is required"})
		return
	}

	email := strings.ToLower(body.Email)
	var user models.User
	if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No account found for this email"})
		return
	}

	otp := generateOTP()
	resets.Put(email, pendingSignup{Email: email, OTP: otp, ExpiresAt: time.Now().Add(otpTTL)})
	notify.SendOTP(email, otp)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
}

// ResetPassword verifies the reset OTP and overwrites the password.
func ResetPassword(c *gin.Context) {
	var body struct {
		Email       string `json:"email" binding:"required"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Email, OTP and new password are required"})
		return
	}

	email := strings.ToLower(body.Email)
	pending, ok := resets.Get(email)
	if !ok || pending.OTP != body.OTP {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired OTP"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.NewPassword), 12)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Password reset failed"})
		return
	}

	if err := config.DB.Model(&models.User{}).Where("email = ?", email).
		Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Password reset failed"})
		return
	}
	resets.Delete(email)

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

// freshReferralID draws codes until one is unused. Collisions on a 6-digit
// space are rare enough that a handful of retries suffices; the unique index
// is the final guard.
func freshReferralID() string {
	for i := 0; i < 5; i++ {
		code := generateReferralID()
		var count int64
		config.DB.Model(&models.User{}).Where("referral_id = ?", code).Count(&count)
		if count == 0 {
			return code
		}
	}
	return generateReferralID()
}
