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

func TestUpdateProfileWhitelist(t *testing.T) {
	r := setupRouterWithDB(t)
	user, token := createTestUser(t, "profile@example.com")

	w := httpDo(r, "PUT", "/user/profile", token, map[string]interface{}{
		"full_name":   "Renamed",
		"about":       "Mountains over beaches",
		"interests":   []string{"trekking", "photography"},
		"socialLinks": map[string]string{"instagram": "@renamed"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, config.DB.First(&updated, user.ID).Error)
	require.Equal(t, "Renamed", updated.FullName)
	require.Equal(t, "Mountains over beaches", updated.About)
	require.Equal(t, []string{"trekking", "photography"}, []string(updated.Interests))
	require.Equal(t, "@renamed", updated.SocialLinks["instagram"])
	// Email was not in the payload and must be untouched.
	require.Equal(t, user.Email, updated.Email)
}

func TestPublicProfileCountsAndKYCStatus(t *testing.T) {
	r := setupRouterWithDB(t)
	host, _ := createTestUser(t, "pub-host@example.com")
	viewer, viewerToken := createTestUser(t, "pub-viewer@example.com")

	createTestTrip(t, host.ID, 5, time.Now().Add(30*24*time.Hour))  // upcoming
	createTestTrip(t, host.ID, 5, time.Now().Add(-14*24*time.Hour)) // completed
	require.NoError(t, config.DB.Exec(
		"INSERT INTO user_followers (user_id, follower_id) VALUES (?, ?)", host.ID, viewer.ID).Error)
	require.NoError(t, config.DB.Create(&models.KYC{UserID: host.ID, Status: "verified"}).Error)

	w := httpDo(r, "GET", "/user/"+itoa(host.ID), viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			KYCStatus      string `json:"kycStatus"`
			TripsHosted    int64  `json:"tripsHosted"`
			TripsCompleted int64  `json:"tripsCompleted"`
			TripsUpcoming  int64  `json:"tripsUpcoming"`
			FollowersCount int64  `json:"followersCount"`
			IsFollowing    bool   `json:"isFollowing"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "verified", resp.Data.KYCStatus)
	require.Equal(t, int64(2), resp.Data.TripsHosted)
	require.Equal(t, int64(1), resp.Data.TripsCompleted)
	require.Equal(t, int64(1), resp.Data.TripsUpcoming)
	require.Equal(t, int64(1), resp.Data.FollowersCount)
	require.True(t, resp.Data.IsFollowing)
}

func TestFollowToggle(t *testing.T) {
	r := setupRouterWithDB(t)
	target, _ := createTestUser(t, "target@example.com")
	_, token := createTestUser(t, "follower@example.com")

	w := httpDo(r, "POST", "/user/"+itoa(target.ID)+"/follow", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data struct {
			IsFollowing    bool  `json:"isFollowing"`
			FollowersCount int64 `json:"followersCount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Data.IsFollowing)
	require.Equal(t, int64(1), resp.Data.FollowersCount)

	// Second call unfollows.
	w = httpDo(r, "POST", "/user/"+itoa(target.ID)+"/follow", token, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Data.IsFollowing)
	require.Equal(t, int64(0), resp.Data.FollowersCount)
}

func TestFollowSelfRejected(t *testing.T) {
	r := setupRouterWithDB(t)
	user, token := createTestUser(t, "narcissist@example.com")

	w := httpDo(r, "POST", "/user/"+itoa(user.ID)+"/follow", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
