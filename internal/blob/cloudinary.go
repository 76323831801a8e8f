// Package blob uploads gallery images to Cloudinary's REST upload API.
package blob

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *http.Client
}

func NewCloudinary(cloudName, apiKey, apiSecret string) *Cloudinary {
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes image bytes as a signed upload and returns the public URL.
func (c *Cloudinary) Upload(ctx context.Context, name string, data []byte) (string, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := c.sign("public_id=" + name + "&timestamp=" + timestamp)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, val := range map[string]string{
		"public_id": name,
		"timestamp": timestamp,
		"api_key":   c.apiKey,
		"signature": signature,
	} {
		if err := mw.WriteField(key, val); err != nil {
			return "", err
		}
	}

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading to cloudinary: %w", err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding cloudinary response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("cloudinary: %s", out.Error.Message)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: no URL in response (status %d)", resp.StatusCode)
	}

	return out.SecureURL, nil
}

func (c *Cloudinary) sign(params string) string {
	sum := sha1.Sum([]byte(params + c.apiSecret))
	return hex.EncodeToString(sum[:])
}
