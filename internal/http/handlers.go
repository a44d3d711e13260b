package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path"

	"orario/internal/core"
	"orario/internal/log"
	"orario/internal/services"
	"orario/internal/storage"
)

// reportResponse mirrors the JSON shape callers already consume.
type reportResponse struct {
	Period            string `json:"period"`
	Report            string `json:"report"`
	ProjectWiseReport string `json:"projectWiseReport"`
}

type archivedRunResponse struct {
	RunID    int64  `json:"runId"`
	Kind     string `json:"kind"`
	FileName string `json:"fileName"`
}

type uploadResponse struct {
	Period string                `json:"period"`
	Runs   []archivedRunResponse `json:"runs"`
}

// reportsForPreviousMonth returns the cached pair for the month that just
// closed, generating it on a cache miss.
func (s *Server) reportsForPreviousMonth(r *http.Request) (*services.GeneratedReports, error) {
	period := core.PreviousMonth(s.now())

	if cached, ok := s.reportCache.Get(period.Key()); ok {
		return cached, nil
	}

	reports, err := s.reports.Generate(r.Context(), period)
	if err != nil {
		return nil, err
	}
	s.reportCache.Set(period.Key(), reports)
	return reports, nil
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	reports, err := s.reportsForPreviousMonth(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generation failed", log.FieldError, err)
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, reportResponse{
		Period:            reports.Period.Key(),
		Report:            reports.Monthly.Serialize(),
		ProjectWiseReport: reports.Projects.Serialize(),
	})
}

func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = storage.KindMonthly
	}
	if kind != storage.KindMonthly && kind != storage.KindProjects {
		http.Error(w, "kind must be monthly or projects", http.StatusBadRequest)
		return
	}

	reports, err := s.reportsForPreviousMonth(r)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report generation failed", log.FieldError, err)
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	content := reports.Monthly.Serialize()
	fileName := reports.Period.ReportFileName()
	if kind == storage.KindProjects {
		content = reports.Projects.Serialize()
		fileName = reports.Period.ProjectReportFileName()
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+path.Base(fileName)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(content))
}

func (s *Server) handleUploadReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	period := core.PreviousMonth(s.now())
	reports, runs, err := s.reports.GenerateAndArchive(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Report archive failed",
			log.FieldPeriod, period.Key(),
			log.FieldError, err)
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}

	// The freshly generated pair is as good as a cached one.
	s.reportCache.Set(period.Key(), reports)

	resp := uploadResponse{Period: period.Key()}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, archivedRunResponse{
			RunID:    run.RunID,
			Kind:     run.Kind,
			FileName: run.FileName,
		})
	}
	writeJSON(w, r, http.StatusAccepted, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err)
	}
}
