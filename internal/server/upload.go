package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/cardiograph/internal/csvio"
	"github.com/vk/cardiograph/internal/fsutil"
	"github.com/vk/cardiograph/internal/snapshot"
)

// uploadedFile is the per-file summary returned by the upload endpoint.
type uploadedFile struct {
	OriginalName string         `json:"original_name"`
	Filename     string         `json:"filename"`
	Size         int64          `json:"size"`
	Kind         string         `json:"kind"`
	Processing   map[string]any `json:"processing"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid multipart request: %v", err))
		return
	}
	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(s.logger, w, http.StatusBadRequest, "no files provided")
		return
	}

	var files []uploadedFile
	for _, hdr := range headers {
		base := filepath.Base(hdr.Filename)
		if base == "" || base == "." || !fsutil.Allowed(base) {
			writeError(s.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid file type: %s", hdr.Filename))
			return
		}

		stored := time.Now().UTC().Format("20060102_150405") + "_" + base
		path := filepath.Join(s.cfg.UploadDir, stored)
		if err := saveMultipartFile(hdr, path); err != nil {
			s.logger.Error("Upload save failed.", "file", base, "error", err)
			writeError(s.logger, w, http.StatusInternalServerError, "failed to store upload")
			return
		}

		kind := fsutil.KindForFile(base)
		info := uploadedFile{
			OriginalName: hdr.Filename,
			Filename:     stored,
			Size:         hdr.Size,
			Kind:         string(kind),
			Processing:   s.processUpload(kind, path),
		}
		files = append(files, info)
		s.logger.Info("File uploaded.", "file", stored, "kind", kind, "size", hdr.Size)
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"files":   files,
		"message": fmt.Sprintf("Successfully uploaded %d files", len(files)),
	})
}

// processUpload inspects one stored upload and summarizes what the
// pipeline will be able to do with it.
func (s *Server) processUpload(kind fsutil.InputKind, path string) map[string]any {
	switch kind {
	case fsutil.KindClinical:
		records, err := csvio.ReadFile(path)
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		return map[string]any{"success": true, "measurements": len(records)}
	case fsutil.KindSnapshot:
		text, err := os.ReadFile(path)
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		parser := &snapshot.Parser{MaxDim: s.cfg.MaxGridDim}
		snap, err := parser.Parse(string(text))
		if err != nil {
			return map[string]any{"success": false, "error": err.Error()}
		}
		return map[string]any{
			"success": true,
			"width":   snap.Width,
			"height":  snap.Height,
			"time":    snap.SimTime,
		}
	case fsutil.KindImaging:
		// Accepted for storage only; the pipeline has no imaging stage.
		return map[string]any{"success": true, "note": "imaging files are stored but not analyzed"}
	default:
		return map[string]any{"success": true}
	}
}

func saveMultipartFile(hdr *multipart.FileHeader, path string) error {
	src, err := hdr.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Response encoding failed.", "error", err)
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, status int, msg string) {
	logger.Warn("Request rejected.", "status", status, "reason", msg)
	writeJSON(logger, w, status, map[string]any{"success": false, "error": msg})
}

// sourceForFile decides which study a clinical CSV belongs to. The exports
// carry no source column; by convention the Doppler study has "doppler" in
// its file name and everything else is treated as the echo study.
func sourceForFile(name string) string {
	if strings.Contains(strings.ToLower(name), "doppler") {
		return "doppler"
	}
	return "echo"
}
