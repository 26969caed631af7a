package server

import (
	"errors"
	"net/http"

	"github.com/sherine-k/elevaid/pkg/detection"
)

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, detection.Failed("Video file is too large"))
			return
		}
		writeJSON(w, http.StatusOK, detection.Failed("No video file provided"))
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeJSON(w, http.StatusOK, detection.Failed("No video file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeJSON(w, http.StatusOK, detection.Failed("No file selected"))
		return
	}
	if !detection.AllowedExtension(header.Filename) {
		writeJSON(w, http.StatusOK, detection.Failed("Unsupported video format"))
		return
	}

	result, err := s.detector.Detect(r.Context(), header.Filename, file)
	if errors.Is(err, detection.ErrNotConfigured) {
		writeJSON(w, http.StatusOK, detection.Failed("Video detection is not available"))
		return
	}
	if err != nil {
		s.logger.Warn().Str("file", header.Filename).Err(err).Msg("video detection failed")
		writeJSON(w, http.StatusOK, detection.Failed("Detection failed, please try again"))
		return
	}

	if result.Positive() {
		s.session.NoteDetection(result.Detection.Confidence)
		s.logger.Info().Str("file", header.Filename).Float64("confidence", result.Detection.Confidence).Msg("wheelchair detected")
	}
	writeJSON(w, http.StatusOK, result)
}
