// Package detection talks to the external video classifier that checks
// uploads for a wheelchair user. The simulation treats it as an opaque
// collaborator: a positive result only changes the priority notice.
package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

var ErrNotConfigured = errors.New("video detector is not configured")

var allowedExtensions = map[string]bool{
	"mp4":  true,
	"avi":  true,
	"mov":  true,
	"wmv":  true,
	"flv":  true,
	"webm": true,
}

// AllowedExtension reports whether filename has a supported video extension
func AllowedExtension(filename string) bool {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return allowedExtensions[strings.ToLower(ext)]
}

// Detection is the classifier's verdict for one video
type Detection struct {
	Type       string  `json:"type,omitempty"`
	Detected   bool    `json:"detected"`
	Confidence float64 `json:"confidence"`
}

// Details carries what the classifier saw
type Details struct {
	FrameCount      int `json:"frame_count"`
	DetectionFrames int `json:"detection_frames,omitempty"`
}

// Result is the JSON document returned by the classifier
type Result struct {
	Success   bool       `json:"success"`
	Detection *Detection `json:"detection,omitempty"`
	Details   *Details   `json:"details,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Positive reports whether the classifier found a wheelchair user
func (r *Result) Positive() bool {
	return r.Success && r.Detection != nil && r.Detection.Detected
}

// Failed builds an unsuccessful result carrying msg
func Failed(msg string) *Result {
	return &Result{Success: false, Error: msg}
}

// Client posts videos to the classifier
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a client for the classifier at url. An empty url
// yields a client whose Detect always fails with ErrNotConfigured.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Configured reports whether a classifier URL is set
func (c *Client) Configured() bool {
	return c != nil && c.url != ""
}

// Detect uploads the video as the multipart field "video" and decodes the
// classifier's answer. An answer with success=false is returned as a
// Result, not an error.
func (c *Client) Detect(ctx context.Context, filename string, video io.Reader) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("video", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, video); err != nil {
		return nil, fmt.Errorf("failed to read video: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create detector request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detector request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("detector returned %s", resp.Status)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode detector response: %w", err)
	}
	return &result, nil
}
