package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
	"yoke_travel/internal/notify"
)

const cancellationWindow = 24 * time.Hour

// CreateBooking reserves capacity on a trip. The capacity take is a single
// conditional decrement; a separately read totalPeople value is never trusted,
// so concurrent bookings on a near-full trip cannot oversell.
func CreateBooking(c *gin.Context) {
	var body struct {
		TripID      uint   `json:"tripId"`
		NumPeople   int    `json:"numPeople"`
		BookingDate string `json:"bookingDate"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Number of people must be a valid number"})
		return
	}
	if body.TripID == 0 || body.NumPeople == 0 || body.BookingDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}
	if body.NumPeople <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid number of people"})
		return
	}

	bookingDate, err := time.Parse(time.RFC3339, body.BookingDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid date format"})
		return
	}

	userID := middleware.UserID(c)

	trip, err := loadTrip(body.TripID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
		return
	}

	var active int64
	config.DB.Model(&models.Booking{}).
		Where("trip_id = ? AND user_id = ? AND status IN ?", body.TripID, userID,
			[]string{models.BookingPending, models.BookingConfirmed}).
		Count(&active)
	if active > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Existing booking found"})
		return
	}

	var booking models.Booking
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Trip{}).
			Where("id = ? AND total_people >= ?", body.TripID, body.NumPeople).
			UpdateColumn("total_people", gorm.Expr("total_people - ?", body.NumPeople))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCapacityExceeded
		}

		booking = models.Booking{
			TripID:      body.TripID,
			UserID:      userID,
			NumPeople:   body.NumPeople,
			BookingDate: bookingDate,
			TotalAmount: trip.Budget,
			Status:      models.BookingConfirmed,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		if err == ErrCapacityExceeded {
			// Fresh read only for the message; the decrement already decided.
			remaining := 0
			var current models.Trip
			if config.DB.First(&current, body.TripID).Error == nil {
				remaining = current.TotalPeople
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("Only %d spots available", remaining)})
			return
		}
		logrus.WithError(err).Error("booking create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Processing error"})
		return
	}

	refreshTripCache(body.TripID)

	var user models.User
	if config.DB.First(&user, userID).Error == nil {
		notify.SendBookingConfirmation(user.Email, booking.ID, trip.TripName, booking.NumPeople, booking.TotalAmount)
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Booking successful",
		"data": gin.H{
			"bookingId":      booking.ID,
			"remainingSpots": trip.TotalPeople - body.NumPeople,
		},
	})
}

// ErrCapacityExceeded marks a failed conditional capacity decrement.
var ErrCapacityExceeded = fmt.Errorf("capacity exceeded")

// CancelBooking flips an active booking to cancelled and restores capacity.
// Cancellation closes 24 hours before the trip starts.
func CancelBooking(c *gin.Context) {
	userID := middleware.UserID(c)

	var booking models.Booking
	if err := config.DB.Where("id = ? AND user_id = ? AND status IN ?", c.Param("id"), userID,
		[]string{models.BookingPending, models.BookingConfirmed}).
		First(&booking).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Active booking not found"})
		return
	}

	var trip models.Trip
	if err := config.DB.First(&trip, booking.TripID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Trip not found"})
		return
	}

	if time.Until(trip.Start.DateTime) < cancellationWindow {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Cancellation not allowed within 24 hours of trip"})
		return
	}

	now := time.Now()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status IN ?", booking.ID,
				[]string{models.BookingPending, models.BookingConfirmed}).
			Updates(map[string]interface{}{"status": models.BookingCancelled, "cancelled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&models.Trip{}).Where("id = ?", booking.TripID).
			UpdateColumn("total_people", gorm.Expr("total_people + ?", booking.NumPeople)).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Active booking not found"})
			return
		}
		logrus.WithError(err).Error("booking cancel failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error cancelling booking"})
		return
	}

	refreshTripCache(booking.TripID)

	var user models.User
	if config.DB.First(&user, userID).Error == nil {
		notify.SendBookingCancellation(user.Email, booking.ID, trip.TripName, booking.NumPeople, booking.TotalAmount)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Booking cancelled successfully",
		"data": gin.H{
			"bookingId":    booking.ID,
			"refundAmount": booking.TotalAmount,
		},
	})
}

// GetUserBookings lists the caller's bookings with trip summaries.
func GetUserBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := config.DB.Preload("Trip").
		Where("user_id = ?", middleware.UserID(c)).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching bookings"})
		return
	}

	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		if b.Trip.ID == 0 { // trip archived since booking
			continue
		}
		out = append(out, gin.H{
			"id":            b.ID,
			"tripName":      b.Trip.TripName,
			"bookingDate":   b.BookingDate,
			"startDate":     b.Trip.Start.DateTime,
			"endDate":       b.Trip.End.DateTime,
			"startLocation": b.Trip.Start.Location,
			"endLocation":   b.Trip.End.Location,
			"numPeople":     b.NumPeople,
			"totalAmount":   b.TotalAmount,
			"status":        b.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": out})
}

// GetBookingsForTrip lists all bookings on a trip with booker details.
func GetBookingsForTrip(c *gin.Context) {
	var bookings []models.Booking
	if err := config.DB.Preload("User").
		Where("trip_id = ?", c.Param("tripId")).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching bookings"})
		return
	}

	out := make([]gin.H, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, gin.H{
			"id":          b.ID,
			"numPeople":   b.NumPeople,
			"totalAmount": b.TotalAmount,
			"bookingDate": b.BookingDate,
			"status":      b.Status,
			"user": gin.H{
				"id":        b.User.ID,
				"full_name": b.User.FullName,
				"email":     b.User.Email,
				"phone":     b.User.Phone,
			},
		})
	}

	c.JSON(http.StatusOK, gin.H{"bookings": out})
}
