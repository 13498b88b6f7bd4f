package storage

import (
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Upload pushes raw file bytes to the document store and returns a public
// URL. Swappable so tests can stub it out.
var Upload = uploadToCloudinary

// UploadMultipart reads a form file and uploads it under the given folder.
func UploadMultipart(fh *multipart.FileHeader, folder, publicID string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if folder != "" {
		publicID = folder + "/" + publicID
	}
	return Upload(data, publicID)
}

func uploadToCloudinary(data []byte, publicID string) (string, error) {
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return "", errors.New("file storage not configured")
	}

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"
	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(data))
	form.Add("api_key", apiKey)
	form.Add("public_id", publicID)
	form.Add("timestamp", timestamp)

	// Signed upload: sha1 over the sorted params plus the secret
	toSign := "public_id=" + publicID + "&timestamp=" + timestamp + apiSecret
	sum := sha1.Sum([]byte(toSign))
	form.Add("signature", hex.EncodeToString(sum[:]))

	resp, err := http.Post(endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload failed: %s", strings.TrimSpace(string(body)))
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("upload response missing secure_url")
	}
	return out.SecureURL, nil
}
