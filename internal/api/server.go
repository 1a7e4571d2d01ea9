// Package api exposes the analysis engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strideworks/form.report/internal/config"
	"github.com/strideworks/form.report/internal/db"
	"github.com/strideworks/form.report/internal/engine"
	"github.com/strideworks/form.report/internal/httputil"
	"github.com/strideworks/form.report/internal/monitoring"
	"github.com/strideworks/form.report/internal/report"
	"github.com/strideworks/form.report/internal/timeutil"
	"github.com/strideworks/form.report/internal/version"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// liveSession is one in-flight analysis stream. The engine session itself is
// single-writer; the mutex serializes concurrent frame posts for one id.
type liveSession struct {
	mu        sync.Mutex
	session   *engine.Session
	exercise  string
	startedAt time.Time
	finished  bool
}

type Server struct {
	db    *db.DB
	cfg   *config.TuningConfig
	clock timeutil.Clock

	mu       sync.Mutex
	sessions map[string]*liveSession
}

func NewServer(database *db.DB, cfg *config.TuningConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return &Server{
		db:       database,
		cfg:      cfg,
		clock:    timeutil.RealClock{},
		sessions: make(map[string]*liveSession),
	}
}

// SetClock replaces the server clock. Tests use this to pin session timestamps.
func (s *Server) SetClock(c timeutil.Clock) {
	s.clock = c
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /api/exercises", s.listExercises)
	mux.HandleFunc("GET /api/config", s.showConfig)
	mux.HandleFunc("GET /api/sessions", s.listSessions)
	mux.HandleFunc("POST /api/sessions", s.createSession)
	mux.HandleFunc("POST /api/sessions/{id}/frames", s.postFrames)
	mux.HandleFunc("POST /api/sessions/{id}/finish", s.finishSession)
	mux.HandleFunc("GET /api/sessions/{id}/report", s.getReport)
	mux.HandleFunc("GET /api/sessions/{id}/chart", s.getChart)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]string{
		"status":     "ok",
		"version":    version.Version,
		"git_sha":    version.GitSHA,
		"build_time": version.BuildTime,
	})
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) {
	type exerciseInfo struct {
		Exercise    string `json:"exercise"`
		Description string `json:"description"`
	}
	names := engine.Exercises()
	infos := make([]exerciseInfo, 0, len(names))
	for _, name := range names {
		p, err := engine.ProfileFor(name)
		if err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to load profile %s: %v", name, err))
			return
		}
		infos = append(infos, exerciseInfo{Exercise: p.Exercise, Description: p.Description})
	}
	httputil.WriteJSONOK(w, infos)
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONOK(w, map[string]interface{}{
		"visibility_floor": s.cfg.GetVisibilityFloor(),
		"frame_rate":       s.cfg.GetFrameRate(),
		"keep_raw_frames":  s.cfg.GetKeepRawFrames(),
	})
}

// CreateSessionRequest is the POST /api/sessions body.
type CreateSessionRequest struct {
	Exercise string `json:"exercise"`
}

// CreateSessionResponse carries the new session id.
type CreateSessionResponse struct {
	ID       string `json:"id"`
	Exercise string `json:"exercise"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	profile, err := engine.ProfileFor(req.Exercise)
	if err != nil {
		if errors.Is(err, engine.ErrUnknownExercise) {
			httputil.BadRequest(w, err.Error())
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}

	session, err := engine.NewSession(profile, s.cfg.SessionOptions())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to create session: %v", err))
		return
	}

	id := uuid.NewString()
	startedAt := s.clock.Now()
	if s.db != nil {
		if err := s.db.CreateSession(id, req.Exercise, startedAt); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to persist session: %v", err))
			return
		}
	}

	s.mu.Lock()
	s.sessions[id] = &liveSession{session: session, exercise: req.Exercise, startedAt: startedAt}
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusCreated, CreateSessionResponse{ID: id, Exercise: req.Exercise})
}

func (s *Server) liveSession(id string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

// PostFramesResponse reports reps completed by this batch of frames.
type PostFramesResponse struct {
	FramesProcessed int                  `json:"frames_processed"`
	CompletedReps   []engine.RepAnalysis `json:"completed_reps"`
}

func (s *Server) postFrames(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ls := s.liveSession(id)
	if ls == nil {
		httputil.NotFound(w, fmt.Sprintf("no active session %s", id))
		return
	}

	var frames []engine.FrameSample
	if err := json.NewDecoder(r.Body).Decode(&frames); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid frames body: %v", err))
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.finished {
		httputil.BadRequest(w, "session already finished")
		return
	}

	resp := PostFramesResponse{CompletedReps: []engine.RepAnalysis{}}
	for _, frame := range frames {
		ra, err := ls.session.ProcessFrame(frame)
		if err != nil {
			httputil.BadRequest(w, fmt.Sprintf("frame %d rejected: %v", frame.Index, err))
			return
		}
		resp.FramesProcessed++
		if ra != nil {
			resp.CompletedReps = append(resp.CompletedReps, *ra)
		}
	}
	httputil.WriteJSONOK(w, resp)
}

func (s *Server) finishSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ls := s.liveSession(id)
	if ls == nil {
		httputil.NotFound(w, fmt.Sprintf("no active session %s", id))
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.finished {
		httputil.BadRequest(w, "session already finished")
		return
	}

	sessionReport := ls.session.Finish()
	ls.finished = true

	// Once the report and trace are persisted, the live session has nothing
	// left to offer: report and chart reads fall through to the store.
	if s.db != nil {
		if err := s.db.SaveReport(id, sessionReport, ls.session.PrimaryTrace(), s.clock.Now()); err != nil {
			httputil.InternalServerError(w, fmt.Sprintf("failed to persist report: %v", err))
			return
		}
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
	}
	httputil.WriteJSONOK(w, sessionReport)
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// In-flight sessions answer from memory with a mid-stream report;
	// finished sessions are evicted on persist and answer from the store.
	if ls := s.liveSession(id); ls != nil {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		httputil.WriteJSONOK(w, ls.session.Report())
		return
	}

	if s.db == nil {
		httputil.NotFound(w, fmt.Sprintf("no session %s", id))
		return
	}
	sessionReport, err := s.db.GetReport(id)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			httputil.NotFound(w, err.Error())
			return
		}
		httputil.InternalServerError(w, err.Error())
		return
	}
	httputil.WriteJSONOK(w, sessionReport)
}

func (s *Server) getChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var sessionReport engine.SessionReport
	var trace []engine.TracePoint
	var seg engine.Segmentation

	if ls := s.liveSession(id); ls != nil {
		ls.mu.Lock()
		sessionReport = ls.session.Report()
		trace = ls.session.PrimaryTrace()
		seg = ls.session.Profile().Segmentation
		ls.mu.Unlock()
	} else {
		if s.db == nil {
			httputil.NotFound(w, fmt.Sprintf("no session %s", id))
			return
		}
		var err error
		sessionReport, err = s.db.GetReport(id)
		if err != nil {
			if errors.Is(err, db.ErrSessionNotFound) {
				httputil.NotFound(w, err.Error())
				return
			}
			httputil.InternalServerError(w, err.Error())
			return
		}
		trace, err = s.db.GetTrace(id)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		profile, err := engine.ProfileFor(sessionReport.Exercise)
		if err != nil {
			httputil.InternalServerError(w, err.Error())
			return
		}
		seg = profile.Segmentation
	}

	html, err := report.SessionChartHTML(sessionReport, seg, trace)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		httputil.WriteJSONOK(w, []db.SessionRow{})
		return
	}

	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 1 {
			httputil.BadRequest(w, "invalid 'limit' parameter")
			return
		}
		limit = parsed
	}

	sessions, err := s.db.Sessions(limit)
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("failed to list sessions: %v", err))
		return
	}
	if sessions == nil {
		sessions = []db.SessionRow{}
	}
	httputil.WriteJSONOK(w, sessions)
}
