package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"kmfi/internal/ports"
	"kmfi/internal/scoring"
	"kmfi/internal/workers/scorerunner"
)

type Server struct {
	scores        ports.Scores
	cycles        ports.Cycles
	jobs          ports.JobRepository
	processor     scorerunner.Processor
	defaultRegime scoring.Regime
	log           *slog.Logger
}

func New(scores ports.Scores, cycles ports.Cycles, jobs ports.JobRepository, processor scorerunner.Processor, defaultRegime scoring.Regime) *Server {
	return &Server{
		scores:        scores,
		cycles:        cycles,
		jobs:          jobs,
		processor:     processor,
		defaultRegime: defaultRegime,
		log:           slog.Default().With("component", "http"),
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)
	r.Route("/cycles/{cycleID}", func(r chi.Router) {
		r.Get("/", s.getCycle)
		r.Get("/scores", s.getCycleScores)
		r.Get("/ranking", s.getRanking)
		r.Get("/industry", s.getIndustry)
		r.Get("/companies/{companyID}/score", s.getCompanyScore)
		r.Get("/companies/{companyID}/comparison", s.getComparison)
		r.Post("/recompute", s.postRecompute)
	})
	return r
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(err error) error { return &httpError{code: http.StatusBadRequest, msg: err.Error()} }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		he *httpError
		ve *scoring.ValidationError
	)
	switch {
	case errors.As(err, &he):
		writeJSON(w, he.code, errorBody{Error: he.msg})
	case errors.Is(err, ports.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, ports.ErrLocked):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, scoring.ErrUnknownCategory):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "timed out"})
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// regime binds the optional ?regime= query parameter.
func (s *Server) regime(r *http.Request, def scoring.Regime) (scoring.Regime, error) {
	var v *string
	if err := runtime.BindQueryParameter("form", true, false, "regime", r.URL.Query(), &v); err != nil {
		return "", badRequest(err)
	}
	regime := def
	if v != nil && *v != "" {
		regime = scoring.Regime(*v)
	}
	if _, err := scoring.WeightsFor(regime); err != nil {
		return "", badRequest(err)
	}
	return regime, nil
}

type cycleResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	PreviousID *string   `json:"previousId"`
	Locked     bool      `json:"locked"`
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getCycle(w http.ResponseWriter, r *http.Request) {
	c, err := s.cycles.Get(r.Context(), chi.URLParam(r, "cycleID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cycleResponse{
		ID: c.ID, Name: c.Name, StartDate: c.StartDate, EndDate: c.EndDate, PreviousID: c.PreviousID, Locked: c.Locked,
	})
}

func (s *Server) getCycleScores(w http.ResponseWriter, r *http.Request) {
	regime, err := s.regime(r, s.defaultRegime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	report, err := s.scores.CycleScores(r.Context(), chi.URLParam(r, "cycleID"), regime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getRanking(w http.ResponseWriter, r *http.Request) {
	regime, err := s.regime(r, scoring.RegimeIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ranked, err := s.scores.Ranking(r.Context(), chi.URLParam(r, "cycleID"), regime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regime": regime, "ranking": ranked})
}

func (s *Server) getIndustry(w http.ResponseWriter, r *http.Request) {
	regime, err := s.regime(r, s.defaultRegime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	avg, err := s.scores.Industry(r.Context(), chi.URLParam(r, "cycleID"), regime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"regime": regime, "average": avg})
}

func (s *Server) getCompanyScore(w http.ResponseWriter, r *http.Request) {
	regime, err := s.regime(r, s.defaultRegime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	score, err := s.scores.CompanyScore(r.Context(), chi.URLParam(r, "cycleID"), chi.URLParam(r, "companyID"), regime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

func (s *Server) getComparison(w http.ResponseWriter, r *http.Request) {
	regime, err := s.regime(r, s.defaultRegime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cmp, err := s.scores.Comparison(r.Context(), chi.URLParam(r, "cycleID"), chi.URLParam(r, "companyID"), regime)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

type recomputeResponse struct {
	JobID    string  `json:"jobId"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

func (s *Server) postRecompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cycleID := chi.URLParam(r, "cycleID")

	var wait *bool
	var timeout *int
	if err := runtime.BindQueryParameter("form", true, false, "wait", r.URL.Query(), &wait); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "timeout", r.URL.Query(), &timeout); err != nil {
		s.writeError(w, r, badRequest(err))
		return
	}

	if err := s.cycles.EnsureUnlocked(ctx, cycleID); err != nil {
		s.writeError(w, r, err)
		return
	}
	jobID, err := s.jobs.Enqueue(ctx, cycleID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if wait == nil || !*wait {
		writeJSON(w, http.StatusAccepted, recomputeResponse{JobID: jobID, Status: "queued"})
		return
	}

	secs := 30
	if timeout != nil && *timeout > 0 {
		secs = *timeout
	}
	ctx2, cancel := context.WithTimeout(ctx, time.Duration(secs)*time.Second)
	defer cancel()
	if err := scorerunner.ProcessInline(ctx2, s.jobs, s.processor, jobID); err != nil {
		s.writeError(w, r, err)
		return
	}
	status, progress, err := s.jobs.JobStatus(ctx2, jobID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{JobID: jobID, Status: status, Progress: progress})
}
