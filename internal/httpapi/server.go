package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkarlsen/reportsmith/internal/format"
	"github.com/mkarlsen/reportsmith/internal/reportgen"
	"github.com/mkarlsen/reportsmith/internal/store"
)

// maxRequestBytes caps inbound report payloads. Inputs larger than this
// should be trimmed client-side.
const maxRequestBytes = 4 << 20

// ReportRunner synthesizes one report from raw input.
type ReportRunner interface {
	Run(ctx context.Context, in reportgen.Input) reportgen.GeneratedReport
}

// ReportArchive persists and retrieves generated reports.
type ReportArchive interface {
	Save(report reportgen.GeneratedReport, in reportgen.Input) (store.Record, error)
	Get(id string) (store.Record, error)
	ListRecent(limit int) ([]store.Record, error)
}

type Server struct {
	runner  ReportRunner
	archive ReportArchive
	log     zerolog.Logger
}

func NewServer(runner ReportRunner, archive ReportArchive, log zerolog.Logger) http.Handler {
	s := &Server{runner: runner, archive: archive, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/reports", s.handleReports)
	mux.HandleFunc("/v1/reports/", s.handleReportByID)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return s.withRequestLog(mux)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"ok":    false,
		"error": map[string]any{"message": msg},
	})
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return []byte("{}"), nil
	}
	blob, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		return nil, err
	}
	if len(blob) == 0 {
		blob = []byte("{}")
	}
	return blob, nil
}

func parseInt(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return v
}

func methodOnly(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// withRequestLog injects the server logger into the request context and
// emits one line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := s.log.WithContext(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("elapsed", time.Since(start)).
			Msg("request handled")
	})
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateReport(w, r)
	case http.MethodGet:
		s.handleListReports(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	blob, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	var req struct {
		reportgen.Input
		Format string `json:"format"`
	}
	if err := json.Unmarshal(blob, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}
	in := req.Input
	if strings.TrimSpace(in.UserName) == "" {
		in.UserName = "Anonymous"
	}

	report := s.runner.Run(r.Context(), in)

	payload := map[string]any{
		"ok":     true,
		"report": report,
	}
	if strings.EqualFold(req.Format, "html") {
		html, err := format.ToHTML(report.Markdown)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "html conversion failed")
			return
		}
		payload["html"] = html
	}

	rec, err := s.archive.Save(report, in)
	if err != nil {
		// The report was still generated; return it without an ID.
		s.log.Error().Err(err).Msg("report save failed")
		writeJSON(w, http.StatusOK, payload)
		return
	}
	payload["report_id"] = rec.ID
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 20)
	recs, err := s.archive.ListRecent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// Listings omit markdown bodies to keep responses small.
	summaries := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, map[string]any{
			"report_id":         rec.ID,
			"user_name":         rec.UserName,
			"business_category": rec.BusinessCategory,
			"framework":         rec.Framework,
			"focus":             rec.Focus,
			"tier":              rec.Tier,
			"created_at":        rec.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": summaries})
}

func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/reports/"), "/")
	if id == "" {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	rec, err := s.archive.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report": rec})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !methodOnly(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}
