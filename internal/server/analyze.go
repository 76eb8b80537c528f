package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/vk/cardiograph/internal/csvio"
	"github.com/vk/cardiograph/internal/ctxlog"
	"github.com/vk/cardiograph/internal/fsutil"
	"github.com/vk/cardiograph/internal/measurement"
	"github.com/vk/cardiograph/internal/pipeline"
	"github.com/vk/cardiograph/internal/render"
)

// analyzeRequest names previously uploaded files to analyze together.
type analyzeRequest struct {
	Files []string `json:"files"`
}

// handleAnalyze runs the real pipeline over the referenced uploads. This
// replaces the legacy behavior of inventing simulation outcomes with
// random jitter: every number in the response is derived from the inputs.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if len(req.Files) == 0 {
		writeError(s.logger, w, http.StatusBadRequest, "no files selected")
		return
	}

	in := pipeline.Inputs{MaxGridDim: s.cfg.MaxGridDim}
	for _, name := range req.Files {
		if name != filepath.Base(name) {
			writeError(s.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid file name: %s", name))
			return
		}
		path := filepath.Join(s.cfg.UploadDir, name)

		switch fsutil.KindForFile(name) {
		case fsutil.KindClinical:
			records, err := csvio.ReadFile(path)
			if err != nil {
				writeError(s.logger, w, http.StatusUnprocessableEntity, fmt.Sprintf("%s: %v", name, err))
				return
			}
			if sourceForFile(name) == string(measurement.SourceDoppler) {
				in.DopplerRecords = append(in.DopplerRecords, records...)
			} else {
				in.EchoRecords = append(in.EchoRecords, records...)
			}
		case fsutil.KindSnapshot:
			text, err := os.ReadFile(path)
			in.HasSnapshot = true
			if err != nil {
				// Parse failure semantics: the report is still
				// produced with the simulation section absent.
				in.SnapshotErr = err
				continue
			}
			in.SnapshotText = string(text)
		default:
			s.logger.Debug("Skipping non-analyzable upload.", "file", name)
		}
	}

	rep := pipeline.Run(ctxlog.WithLogger(r.Context(), s.logger), in)

	body, err := render.JSON(rep)
	if err != nil {
		s.logger.Error("Report serialization failed.", "error", err)
		writeError(s.logger, w, http.StatusInternalServerError, "failed to serialize report")
		return
	}

	resultsName := fmt.Sprintf("report_%s.json", rep.ID)
	if err := os.WriteFile(filepath.Join(s.cfg.ResultsDir, resultsName), body, 0o644); err != nil {
		s.logger.Error("Results persistence failed.", "error", err)
		writeError(s.logger, w, http.StatusInternalServerError, "failed to persist report")
		return
	}
	s.logger.Info("Analysis complete.", "report_id", rep.ID, "results_file", resultsName)

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success":      true,
		"results_file": resultsName,
		"report":       json.RawMessage(body),
	})
}
