package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"velocal/internal/config"
	"velocal/internal/feed"
	appLog "velocal/internal/log"
	"velocal/internal/schedule"
)

// ScheduleSource supplies the current weekly schedule. In production this is
// *scrape.Scraper; tests inject a fake.
type ScheduleSource interface {
	Scrape(ctx context.Context) (schedule.WeeklySchedule, error)
}

// scheduleCacheTTL bounds how stale a cached scrape may get before a request
// triggers a fresh one. The page only changes weekly, so this is generous;
// the cron-driven Refresh usually renews the cache well before expiry.
const scheduleCacheTTL = 15 * time.Minute

// Server exposes the calendar over HTTP.
type Server struct {
	cfg    *config.Config
	source ScheduleSource
	mux    *http.ServeMux

	// Cached result of the last successful scrape, guarded for concurrent
	// request handlers and the background refresh.
	scheduleMu    sync.RWMutex
	scheduleCache *scheduleCache
}

type scheduleCache struct {
	sched     schedule.WeeklySchedule
	updatedAt time.Time
}

// NewServer constructs a Server around cfg and a schedule source.
func NewServer(cfg *config.Config, source ScheduleSource) *Server {
	s := &Server{
		cfg:    cfg,
		source: source,
		mux:    http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, with basic auth applied
// when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// An empty username or password disables auth rather than locking
	// everyone out with unguessable credentials.
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="velocal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/calendar.ics", s.handleCalendar)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleCalendar serves the schedule in the requested representation.
//
// GET /calendar.ics?name=...&notes=true&weeks=8&format=ics
//   - name:   calendar display name (default from config)
//   - notes:  include parenthesised annotations in descriptions (default true)
//   - weeks:  horizon ceiling, informational only; events never extend past
//     the weeks the source page actually supplies
//   - format: ics (default) | json (raw scraped schedule) | debug
//     (intermediate parse results and anomalies)
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	name := q.Get("name")
	if name == "" {
		name = s.cfg.CalendarName
	}
	notes := parseBoolDefault(q.Get("notes"), s.cfg.IncludeNotes)
	weeks := parseIntDefault(q.Get("weeks"), s.cfg.WeeksAhead)
	if weeks <= 0 {
		weeks = s.cfg.WeeksAhead
	}
	format := q.Get("format")

	sched, err := s.currentSchedule(r.Context())
	if err != nil {
		appLog.Error("schedule fetch failed", err)
		writeError(w, http.StatusBadGateway, "failed to fetch schedule: "+err.Error())
		return
	}

	loc := resolveLocationOrLocal(s.cfg.Timezone)
	genOpts := schedule.GenerateOptions{
		Reference:    time.Now().In(loc),
		IncludeNotes: notes,
		WeeksAhead:   weeks,
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, sched)

	case "debug":
		writeJSON(w, http.StatusOK, feed.BuildDebug(sched, genOpts))

	default:
		events := schedule.GenerateEvents(sched, genOpts)
		body := feed.BuildCalendar(events, feed.CalendarOptions{Name: name})

		appLog.Info("calendar served",
			"events", len(events),
			"weeks", len(sched),
			"notes", notes,
			"weeks_ahead", weeks,
		)

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="velopark-schedule.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	}
}

// currentSchedule returns the cached schedule, scraping anew when the cache
// is empty or expired.
func (s *Server) currentSchedule(ctx context.Context) (schedule.WeeklySchedule, error) {
	s.scheduleMu.RLock()
	sc := s.scheduleCache
	s.scheduleMu.RUnlock()
	if sc != nil && time.Since(sc.updatedAt) < scheduleCacheTTL {
		return sc.sched, nil
	}

	sched, err := s.source.Scrape(ctx)
	if err != nil {
		// Serve the stale cache rather than failing outright.
		if sc != nil {
			appLog.Error("scrape failed, serving stale schedule", err, "age", time.Since(sc.updatedAt).String())
			return sc.sched, nil
		}
		return nil, err
	}

	s.storeSchedule(sched)
	return sched, nil
}

// Refresh scrapes the schedule and replaces the cache. It is called by the
// cron scheduler in cmd/velocal to keep responses fast and resilient to
// transient source outages.
func (s *Server) Refresh(ctx context.Context) error {
	sched, err := s.source.Scrape(ctx)
	if err != nil {
		return err
	}
	s.storeSchedule(sched)
	appLog.Info("schedule cache refreshed", "weeks", len(sched))
	return nil
}

func (s *Server) storeSchedule(sched schedule.WeeklySchedule) {
	s.scheduleMu.Lock()
	s.scheduleCache = &scheduleCache{sched: sched, updatedAt: time.Now()}
	s.scheduleMu.Unlock()
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	return strings.EqualFold(s, "true")
}

func resolveLocationOrLocal(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", name)
		return time.Local
	}
	return loc
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
