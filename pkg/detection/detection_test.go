package detection

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAllowedExtension(t *testing.T) {
	tests := map[string]bool{
		"lobby.mp4":     true,
		"LOBBY.MOV":     true,
		"clip.webm":     true,
		"notes.txt":     false,
		"noextension":   false,
		"archive.mp4.z": false,
	}
	for name, want := range tests {
		if got := AllowedExtension(name); got != want {
			t.Errorf("AllowedExtension(%q) = %v, expected %v", name, got, want)
		}
	}
}

func TestDetect(t *testing.T) {
	var gotName, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Errorf("classifier did not receive a video field: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotName, gotBody = header.Filename, string(data)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"detection":{"type":"wheelchair","detected":true,"confidence":0.91},"details":{"frame_count":240,"detection_frames":12}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	res, err := c.Detect(context.Background(), "/tmp/lobby.mp4", strings.NewReader("frames"))
	if err != nil {
		t.Fatal(err)
	}
	if gotName != "lobby.mp4" || gotBody != "frames" {
		t.Errorf("unexpected upload %q %q", gotName, gotBody)
	}
	if !res.Positive() || res.Detection.Confidence != 0.91 || res.Details.FrameCount != 240 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDetectUnsuccessfulAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"error":"Could not open video file"}`)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, time.Second).Detect(context.Background(), "a.mp4", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Positive() || res.Error != "Could not open video file" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestDetectFailures(t *testing.T) {
	if _, err := NewClient("", time.Second).Detect(context.Background(), "a.mp4", strings.NewReader("x")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	if _, err := NewClient(srv.URL, time.Second).Detect(context.Background(), "a.mp4", strings.NewReader("x")); err == nil {
		t.Errorf("expected an error for a 500 answer")
	}

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer bad.Close()
	if _, err := NewClient(bad.URL, time.Second).Detect(context.Background(), "a.mp4", strings.NewReader("x")); err == nil {
		t.Errorf("expected an error for a malformed answer")
	}
}
