package controllers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"yoke_travel/internal/config"
	"yoke_travel/internal/models"
)

func bookingBody(tripID uint, people int) map[string]interface{} {
	return map[string]interface{}{
		"tripId":      tripID,
		"numPeople":   people,
		"bookingDate": time.Now().Format(time.RFC3339),
	}
}

func tripCapacity(t *testing.T, tripID uint) int {
	t.Helper()
	var trip models.Trip
	require.NoError(t, config.DB.First(&trip, tripID).Error)
	return trip.TotalPeople
}

func TestBookingCapacityNeverOversells(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host@example.com")
	alice, aliceToken := createTestUser(t, "alice@example.com")
	_, bobToken := createTestUser(t, "bob@example.com")

	trip := createTestTrip(t, host.ID, 5, time.Now().Add(30*24*time.Hour))

	// Alice takes 3 of 5 spots.
	w := httpDo(r, "POST", "/bookings/", aliceToken, bookingBody(trip.ID, 3))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			BookingID      uint `json:"bookingId"`
			RemainingSpots int  `json:"remainingSpots"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, 2, created.Data.RemainingSpots)
	require.Equal(t, 2, tripCapacity(t, trip.ID))

	// Bob wants 3 but only 2 remain.
	w = httpDo(r, "POST", "/bookings/", bobToken, bookingBody(trip.ID, 3))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Equal(t, "Only 2 spots available", errResp.Message)
	require.Equal(t, 2, tripCapacity(t, trip.ID))

	// Bob takes the remaining 2.
	w = httpDo(r, "POST", "/bookings/", bobToken, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 0, tripCapacity(t, trip.ID))

	// Alice cancels; her 3 spots come back.
	w = httpDo(r, "DELETE", "/bookings/"+itoa(created.Data.BookingID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 3, tripCapacity(t, trip.ID))

	var cancelled models.Booking
	require.NoError(t, config.DB.Where("user_id = ?", alice.ID).First(&cancelled).Error)
	require.Equal(t, models.BookingCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
}

func TestBookingRejectsSecondActiveBooking(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host2@example.com")
	_, token := createTestUser(t, "repeat@example.com")
	trip := createTestTrip(t, host.ID, 10, time.Now().Add(30*24*time.Hour))

	w := httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID, 1))
	require.Equal(t, http.StatusBadRequest, w.Code)
	var errResp struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	require.Equal(t, "Existing booking found", errResp.Message)
	require.Equal(t, 8, tripCapacity(t, trip.ID))
}

func TestBookingAllowedAgainAfterCancellation(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host3@example.com")
	_, token := createTestUser(t, "again@example.com")
	trip := createTestTrip(t, host.ID, 10, time.Now().Add(30*24*time.Hour))

	w := httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			BookingID uint `json:"bookingId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httpDo(r, "DELETE", "/bookings/"+itoa(created.Data.BookingID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingInputValidation(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host4@example.com")
	_, token := createTestUser(t, "picky@example.com")
	trip := createTestTrip(t, host.ID, 5, time.Now().Add(30*24*time.Hour))

	w := httpDo(r, "POST", "/bookings/", token, map[string]interface{}{
		"tripId": trip.ID, "bookingDate": time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, map[string]interface{}{
		"tripId": trip.ID, "numPeople": -2, "bookingDate": time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, map[string]interface{}{
		"tripId": trip.ID, "numPeople": "three", "bookingDate": time.Now().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, map[string]interface{}{
		"tripId": trip.ID, "numPeople": 2, "bookingDate": "tomorrow",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID+999, 2))
	require.Equal(t, http.StatusNotFound, w.Code)

	// Nothing above should have touched capacity.
	require.Equal(t, 5, tripCapacity(t, trip.ID))
}

func TestCancellationClosedNearDeparture(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host5@example.com")
	_, token := createTestUser(t, "lastminute@example.com")
	trip := createTestTrip(t, host.ID, 5, time.Now().Add(10*time.Hour))

	w := httpDo(r, "POST", "/bookings/", token, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Data struct {
			BookingID uint `json:"bookingId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = httpDo(r, "DELETE", "/bookings/"+itoa(created.Data.BookingID), token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, 3, tripCapacity(t, trip.ID))
}

func TestCancelSomeoneElsesBookingFails(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "host6@example.com")
	owner, ownerToken := createTestUser(t, "bowner@example.com")
	_, thiefToken := createTestUser(t, "thief@example.com")
	trip := createTestTrip(t, host.ID, 5, time.Now().Add(30*24*time.Hour))

	w := httpDo(r, "POST", "/bookings/", ownerToken, bookingBody(trip.ID, 1))
	require.Equal(t, http.StatusCreated, w.Code)

	var booking models.Booking
	require.NoError(t, config.DB.Where("user_id = ?", owner.ID).First(&booking).Error)

	w = httpDo(r, "DELETE", "/bookings/"+itoa(booking.ID), thiefToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, models.BookingConfirmed, func() string {
		var b models.Booking
		config.DB.First(&b, booking.ID)
		return b.Status
	}())
}

func TestBookingListings(t *testing.T) {
	r := setupRouterWithDB(t)
	host, hostToken := createTestUser(t, "host7@example.com")
	_, guestToken := createTestUser(t, "guest@example.com")
	trip := createTestTrip(t, host.ID, 5, time.Now().Add(30*24*time.Hour))

	w := httpDo(r, "POST", "/bookings/", guestToken, bookingBody(trip.ID, 2))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httpDo(r, "GET", "/bookings/", guestToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine struct {
		Bookings []struct {
			TripName  string `json:"tripName"`
			NumPeople int    `json:"numPeople"`
			Status    string `json:"status"`
		} `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine.Bookings, 1)
	require.Equal(t, trip.TripName, mine.Bookings[0].TripName)
	require.Equal(t, models.BookingConfirmed, mine.Bookings[0].Status)

	w = httpDo(r, "GET", "/bookings/trip/"+itoa(trip.ID), hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var forTrip struct {
		Bookings []struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &forTrip))
	require.Len(t, forTrip.Bookings, 1)
	require.Equal(t, "guest@example.com", forTrip.Bookings[0].User.Email)
}
