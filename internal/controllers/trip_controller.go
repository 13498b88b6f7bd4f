package controllers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
	"yoke_travel/internal/storage"
)

func durationDays(start, end time.Time) int {
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}

func tripResponse(trip *models.Trip, owner *models.User) gin.H {
	out := gin.H{
		"id":            trip.ID,
		"tripName":      trip.TripName,
		"budget":        trip.Budget,
		"category":      trip.Category,
		"travellerType": trip.TravellerType,
		"description":   trip.Description,
		"activities":    trip.Activities,
		"totalPeople":   trip.TotalPeople,
		"inclusions":    trip.Inclusions,
		"exclusions":    trip.Exclusions,
		"start":         trip.Start,
		"end":           trip.End,
		"stops":         trip.Stops,
		"images":        trip.Images,
		"createdAt":     trip.CreatedAt,
		"views":         trip.Views,
		"duration":      fmt.Sprintf("%d Days", durationDays(trip.Start.DateTime, trip.End.DateTime)),
	}
	if owner != nil {
		out["userid"] = owner.ID
		out["full_name"] = owner.FullName
		out["profilePic"] = owner.ProfilePic
	}
	if len(trip.Images) > 0 {
		out["firstImage"] = trip.Images[0]
	}
	return out
}

// CreateTrip creates a listing from a multipart form, uploading any photos.
func CreateTrip(c *gin.Context) {
	name := c.PostForm("name")
	budget := c.PostForm("budget")
	category := c.PostForm("category")
	travelType := c.PostForm("travelType")
	if name == "" || budget == "" || category == "" || travelType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	var budgetVal float64
	if _, err := fmt.Sscanf(budget, "%f", &budgetVal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid budget"})
		return
	}
	var people int
	fmt.Sscanf(c.PostForm("people"), "%d", &people)

	startTime, err1 := time.Parse(time.RFC3339, c.PostForm("startDateTime"))
	endTime, err2 := time.Parse(time.RFC3339, c.PostForm("endDateTime"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
		return
	}

	var stops []models.TripStop
	if raw := c.PostForm("stops"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &stops); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid stops format"})
			return
		}
	}

	var images pq.StringArray
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			url, err := storage.UploadMultipart(fh, "trip_images", uuid.NewString())
			if err != nil {
				logrus.WithError(err).Error("trip image upload failed")
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
				return
			}
			images = append(images, url)
		}
	}

	trip := models.Trip{
		UserID:        middleware.UserID(c),
		TripName:      name,
		Budget:        budgetVal,
		Category:      category,
		TravellerType: travelType,
		Description:   c.PostForm("description"),
		Activities:    c.PostForm("activities"),
		TotalPeople:   people,
		Inclusions:    splitCSV(c.PostForm("inclusions")),
		Exclusions:    splitCSV(c.PostForm("exclusions")),
		Start: models.TripPoint{
			Location:    c.PostForm("startLocation"),
			DateTime:    startTime,
			Transport:   c.PostForm("startTransport"),
			Description: c.PostForm("startDesc"),
		},
		End: models.TripPoint{
			Location:    c.PostForm("endLocation"),
			DateTime:    endTime,
			Transport:   c.PostForm("endTransport"),
			Description: c.PostForm("endDesc"),
		},
		Stops:  stops,
		Images: images,
	}

	if err := config.DB.Create(&trip).Error; err != nil {
		logrus.WithError(err).Error("trip create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "trip": trip})
}

// GetAllTrips lists upcoming trips, newest first.
func GetAllTrips(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Preload("User").Preload("Stops").
		Where("end_date_time > ?", time.Now()).
		Order("created_at DESC").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching trips"})
		return
	}

	out := make([]gin.H, 0, len(trips))
	for i := range trips {
		out = append(out, tripResponse(&trips[i], &trips[i].User))
	}
	c.JSON(http.StatusOK, out)
}

// GetTrip returns one listing. The trip row itself comes through the cache;
// owner and stops are always read fresh.
func GetTrip(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid trip id"})
		return
	}

	trip, err := loadTrip(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
		return
	}

	var owner models.User
	config.DB.First(&owner, trip.UserID)
	config.DB.Where("trip_id = ?", trip.ID).Find(&trip.Stops)

	resp := tripResponse(trip, &owner)
	var likes int64
	config.DB.Table("trip_likes").Where("trip_id = ?", trip.ID).Count(&likes)
	resp["likes"] = likes

	c.JSON(http.StatusOK, gin.H{"success": true, "trip": resp})
}

// GetTrendingTrips returns the four most popular trips by views + 2·likes.
func GetTrendingTrips(c *gin.Context) {
	var trips []models.Trip
	err := config.DB.Preload("User").
		Select("trips.*, trips.views + 2 * (SELECT COUNT(*) FROM trip_likes WHERE trip_likes.trip_id = trips.id) AS popularity_score").
		Order("popularity_score DESC").
		Limit(4).
		Find(&trips).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching trending trips"})
		return
	}

	out := make([]gin.H, 0, len(trips))
	for i := range trips {
		resp := tripResponse(&trips[i], &trips[i].User)
		var likes int64
		config.DB.Table("trip_likes").Where("trip_id = ?", trips[i].ID).Count(&likes)
		resp["likes"] = likes
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

// AddTripView bumps the view counter atomically.
func AddTripView(c *gin.Context) {
	res := config.DB.Model(&models.Trip{}).Where("id = ?", c.Param("id")).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil || res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
		return
	}

	var trip models.Trip
	config.DB.First(&trip, c.Param("id"))
	refreshTripCache(trip.ID)
	c.JSON(http.StatusOK, gin.H{"views": trip.Views})
}

// ToggleLikeTrip adds or removes the caller from the trip's like set.
func ToggleLikeTrip(c *gin.Context) {
	var trip models.Trip
	if err := config.DB.First(&trip, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
		return
	}

	userID := middleware.UserID(c)

	var liked int64
	config.DB.Table("trip_likes").Where("trip_id = ? AND user_id = ?", trip.ID, userID).Count(&liked)

	if liked > 0 {
		config.DB.Exec("DELETE FROM trip_likes WHERE trip_id = ? AND user_id = ?", trip.ID, userID)
	} else {
		config.DB.Exec("INSERT INTO trip_likes (trip_id, user_id) VALUES (?, ?)", trip.ID, userID)
	}

	var total int64
	config.DB.Table("trip_likes").Where("trip_id = ?", trip.ID).Count(&total)

	c.JSON(http.StatusOK, gin.H{"liked": liked == 0, "likes": total})
}

// IsTripLiked reports whether the caller liked the trip.
func IsTripLiked(c *gin.Context) {
	var liked int64
	config.DB.Table("trip_likes").
		Where("trip_id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
		Count(&liked)
	c.JSON(http.StatusOK, gin.H{"liked": liked > 0})
}

// GetOwnTrips lists the caller's listings.
func GetOwnTrips(c *gin.Context) {
	var trips []models.Trip
	if err := config.DB.Preload("User").Preload("Stops").
		Where("user_id = ?", middleware.UserID(c)).
		Order("created_at DESC").Find(&trips).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching trips"})
		return
	}

	out := make([]gin.H, 0, len(trips))
	for i := range trips {
		out = append(out, tripResponse(&trips[i], &trips[i].User))
	}
	c.JSON(http.StatusOK, out)
}

type tripUpdateInput struct {
	TripName      *string           `json:"tripName"`
	Budget        *float64          `json:"budget"`
	Category      *string           `json:"category"`
	TravellerType *string           `json:"travellerType"`
	Description   *string           `json:"description"`
	Activities    *string           `json:"activities"`
	TotalPeople   *int              `json:"totalPeople"`
	Inclusions    []string          `json:"inclusions"`
	Exclusions    []string          `json:"exclusions"`
	Start         *models.TripPoint `json:"start"`
	End           *models.TripPoint `json:"end"`
}

// EditTrip updates an owned listing. Owner and images are immutable here.
func EditTrip(c *gin.Context) {
	var trip models.Trip
	if err := config.DB.Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
		First(&trip).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found or not authorized to edit"})
		return
	}

	var input tripUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid update payload"})
		return
	}

	updates := map[string]interface{}{}
	if input.TripName != nil {
		updates["trip_name"] = *input.TripName
	}
	if input.Budget != nil {
		updates["budget"] = *input.Budget
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.TravellerType != nil {
		updates["traveller_type"] = *input.TravellerType
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Activities != nil {
		updates["activities"] = *input.Activities
	}
	if input.TotalPeople != nil {
		updates["total_people"] = *input.TotalPeople
	}
	if input.Inclusions != nil {
		updates["inclusions"] = pq.StringArray(input.Inclusions)
	}
	if input.Exclusions != nil {
		updates["exclusions"] = pq.StringArray(input.Exclusions)
	}
	if input.Start != nil {
		updates["start_location"] = input.Start.Location
		updates["start_date_time"] = input.Start.DateTime
		updates["start_transport"] = input.Start.Transport
		updates["start_description"] = input.Start.Description
	}
	if input.End != nil {
		updates["end_location"] = input.End.Location
		updates["end_date_time"] = input.End.DateTime
		updates["end_transport"] = input.End.Transport
		updates["end_description"] = input.End.Description
	}

	if len(updates) > 0 {
		if err := config.DB.Model(&trip).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating trip"})
			return
		}
	}

	refreshTripCache(trip.ID)

	config.DB.Preload("User").Preload("Stops").First(&trip, trip.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "trip": tripResponse(&trip, &trip.User)})
}

// DeleteTrip archives an owned listing: a snapshot lands in deleted_trips and
// the original row is removed.
func DeleteTrip(c *gin.Context) {
	var trip models.Trip
	if err := config.DB.Preload("Stops").
		Where("id = ? AND user_id = ?", c.Param("id"), middleware.UserID(c)).
		First(&trip).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found or not authorized to delete"})
		return
	}

	snapshot, err := json.Marshal(trip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting trip"})
		return
	}

	var archived models.DeletedTrip
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		archived = models.DeletedTrip{
			OriginalID: trip.ID,
			UserID:     trip.UserID,
			TripName:   trip.TripName,
			Snapshot:   snapshot,
		}
		if err := tx.Create(&archived).Error; err != nil {
			return err
		}
		if err := tx.Where("trip_id = ?", trip.ID).Unscoped().Delete(&models.TripStop{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&trip).Error
	})
	if err != nil {
		logrus.WithError(err).Error("trip archive failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting trip"})
		return
	}

	dropTripCache(trip.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Trip moved to deleted trips successfully",
		"deletedTripId": archived.ID,
	})
}

func splitCSV(s string) pq.StringArray {
	if s == "" {
		return nil
	}
	var out pq.StringArray
	for _, part := range splitAndTrim(s) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
