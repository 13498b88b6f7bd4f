package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"yoke_travel/internal/config"
	"yoke_travel/internal/models"
)

var kycDocs = map[string][]byte{
	"aadhaarFront": []byte("front"),
	"aadhaarBack":  []byte("back"),
	"panCard":      []byte("pan"),
}

func TestSubmitKYCAndStatus(t *testing.T) {
	r := setupRouterWithDB(t)
	stubUploads(t)
	user, token := createTestUser(t, "kyc@example.com")

	w := httpDo(r, "GET", "/kyc/status", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = httpDoMultipart(r, "/kyc/", token, map[string]string{
		"fullName":      "KYC Tester",
		"mobile":        "9000000020",
		"panNumber":     "ABCDE1234F",
		"aadhaarNumber": "123412341234",
	}, kycDocs)
	require.Equal(t, http.StatusCreated, w.Code)

	var record models.KYC
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).First(&record).Error)
	require.Equal(t, "pending", record.Status)
	require.Contains(t, record.AadhaarFrontURL, "https://cdn.test/kyc_docs/")
	require.Contains(t, record.PANCardURL, "https://cdn.test/kyc_docs/")

	w = httpDo(r, "GET", "/kyc/status", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Equal(t, "pending", status.Status)
}

func TestSubmitKYCRequiresAllDocuments(t *testing.T) {
	r := setupRouterWithDB(t)
	stubUploads(t)
	_, token := createTestUser(t, "kyc-partial@example.com")

	w := httpDoMultipart(r, "/kyc/", token, map[string]string{"fullName": "Partial"},
		map[string][]byte{"aadhaarFront": []byte("front")})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitKYCBlockedWhilePendingOrVerified(t *testing.T) {
	r := setupRouterWithDB(t)
	stubUploads(t)
	user, token := createTestUser(t, "kyc-twice@example.com")

	require.NoError(t, config.DB.Create(&models.KYC{UserID: user.ID, Status: "pending"}).Error)
	w := httpDoMultipart(r, "/kyc/", token, nil, kycDocs)
	require.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, config.DB.Model(&models.KYC{}).Where("user_id = ?", user.ID).
		Update("status", "verified").Error)
	w = httpDoMultipart(r, "/kyc/", token, nil, kycDocs)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitKYCSupersedesRejected(t *testing.T) {
	r := setupRouterWithDB(t)
	stubUploads(t)
	user, token := createTestUser(t, "kyc-retry@example.com")

	require.NoError(t, config.DB.Create(&models.KYC{UserID: user.ID, Status: "rejected"}).Error)

	w := httpDoMultipart(r, "/kyc/", token, map[string]string{"fullName": "Retry"}, kycDocs)
	require.Equal(t, http.StatusCreated, w.Code)

	var records []models.KYC
	require.NoError(t, config.DB.Where("user_id = ?", user.ID).Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, "pending", records[0].Status)
}
