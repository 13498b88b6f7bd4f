package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
	"yoke_travel/internal/storage"
)

// GetProfile returns the caller's own record.
func GetProfile(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, middleware.UserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type profileUpdateInput struct {
	FullName    *string           `json:"full_name"`
	Phone       *string           `json:"phone"`
	Gender      *string           `json:"gender"`
	DOB         *string           `json:"dob"`
	Country     *string           `json:"country"`
	About       *string           `json:"about"`
	Interests   []string          `json:"interests"`
	SocialLinks map[string]string `json:"socialLinks"`
}

// UpdateProfile applies whitelisted field changes.
func UpdateProfile(c *gin.Context) {
	var input profileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid update payload"})
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.DOB != nil {
		updates["dob"] = *input.DOB
	}
	if input.Country != nil {
		updates["country"] = *input.Country
	}
	if input.About != nil {
		updates["about"] = *input.About
	}
	if input.Interests != nil {
		updates["interests"] = pq.StringArray(input.Interests)
	}
	if input.SocialLinks != nil {
		links := datatypes.JSONMap{}
		for k, v := range input.SocialLinks {
			links[k] = v
		}
		updates["social_links"] = links
	}

	userID := middleware.UserID(c)
	if len(updates) > 0 {
		if err := config.DB.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
			return
		}
	}

	var user models.User
	config.DB.First(&user, userID)
	c.JSON(http.StatusOK, user)
}

// UploadProfilePic stores a new profile picture and saves its URL.
func UploadProfilePic(c *gin.Context) {
	fh, err := c.FormFile("profilePic")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "profilePic file is required"})
		return
	}

	url, err := storage.UploadMultipart(fh, "profile_pics", uuid.NewString())
	if err != nil {
		logrus.WithError(err).Error("profile picture upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	userID := middleware.UserID(c)
	if err := config.DB.Model(&models.User{}).Where("id = ?", userID).
		Update("profile_pic", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profilePic": url})
}

// GetUserProfile is the public view: profile, KYC status, trip counts and
// whether the caller follows them.
func GetUserProfile(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}

	kycStatus := "not_submitted"
	var kyc models.KYC
	if err := config.DB.Where("user_id = ?", user.ID).Order("created_at DESC").First(&kyc).Error; err == nil {
		kycStatus = kyc.Status
	}

	now := time.Now()
	var hosted, completed, upcoming int64
	config.DB.Model(&models.Trip{}).Where("user_id = ?", user.ID).Count(&hosted)
	config.DB.Model(&models.Trip{}).Where("user_id = ? AND end_date_time < ?", user.ID, now).Count(&completed)
	config.DB.Model(&models.Trip{}).Where("user_id = ? AND start_date_time > ?", user.ID, now).Count(&upcoming)

	var followers, following, isFollowing int64
	config.DB.Table("user_followers").Where("user_id = ?", user.ID).Count(&followers)
	config.DB.Table("user_followers").Where("follower_id = ?", user.ID).Count(&following)
	config.DB.Table("user_followers").
		Where("user_id = ? AND follower_id = ?", user.ID, middleware.UserID(c)).Count(&isFollowing)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":             user.ID,
			"full_name":      user.FullName,
			"profilePic":     user.ProfilePic,
			"about":          user.About,
			"interests":      user.Interests,
			"socialLinks":    user.SocialLinks,
			"country":        user.Country,
			"kycStatus":      kycStatus,
			"tripsHosted":    hosted,
			"tripsCompleted": completed,
			"tripsUpcoming":  upcoming,
			"followersCount": followers,
			"followingCount": following,
			"isFollowing":    isFollowing > 0,
		},
	})
}

// FollowUser toggles the follow edge from the caller to the target.
func FollowUser(c *gin.Context) {
	currentID := middleware.UserID(c)

	var target models.User
	if err := config.DB.First(&target, c.Param("userId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
		return
	}
	if target.ID == currentID {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "You cannot follow yourself"})
		return
	}

	var existing int64
	config.DB.Table("user_followers").
		Where("user_id = ? AND follower_id = ?", target.ID, currentID).Count(&existing)

	if existing > 0 {
		config.DB.Exec("DELETE FROM user_followers WHERE user_id = ? AND follower_id = ?", target.ID, currentID)
	} else {
		config.DB.Exec("INSERT INTO user_followers (user_id, follower_id) VALUES (?, ?)", target.ID, currentID)
	}

	var followers, following int64
	config.DB.Table("user_followers").Where("user_id = ?", target.ID).Count(&followers)
	config.DB.Table("user_followers").Where("follower_id = ?", target.ID).Count(&following)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"isFollowing":    existing == 0,
			"followersCount": followers,
			"followingCount": following,
		},
	})
}
