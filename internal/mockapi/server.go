// Package mockapi is an in-memory stand-in for the dreamboard backend. It
// serves every route the domain clients call and can be scripted to fail,
// which makes it the fixture for client tests and the mock-server command.
package mockapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dotcommander/dreamboard/internal/clients/insights"
	"github.com/dotcommander/dreamboard/internal/clients/milestones"
	"github.com/dotcommander/dreamboard/internal/clients/progress"
	"github.com/dotcommander/dreamboard/internal/clients/visionboard"
	"github.com/dotcommander/dreamboard/internal/clients/weather"
)

// Route keys are "METHOD pattern", matching the router patterns below.
const (
	RouteInsightsList     = "GET /api/insights"
	RouteInsightGet       = "GET /api/insights/{id}"
	RouteInsightPatch     = "PATCH /api/insights/{id}"
	RouteInsightFeedback  = "POST /api/insights/{id}/feedback"
	RouteProgressList     = "GET /api/dreams/progress"
	RouteProgressLatest   = "GET /api/dreams/progress/latest"
	RouteProgressRecord   = "POST /api/dreams/progress"
	RouteProgressAdjust   = "POST /api/dreams/progress/adjust"
	RouteProgressDelete   = "DELETE /api/dreams/progress/{id}"
	RouteWeatherGet       = "GET /api/dreams/{dreamID}/weather"
	RouteWeatherRefresh   = "POST /api/dreams/{dreamID}/weather/refresh"
	RouteWeatherHistory   = "GET /api/dreams/{dreamID}/weather/history"
	RouteMilestoneEvents  = "GET /api/milestones/events"
	RouteMilestoneCreate  = "POST /api/milestones/events"
	RouteMilestoneUpdate  = "PUT /api/milestones/events/{id}"
	RouteMilestoneDelete  = "DELETE /api/milestones/events/{id}"
	RouteVisionItems      = "GET /api/vision-board/items"
	RouteVisionCreate     = "POST /api/vision-board/items"
	RouteVisionUpdate     = "PUT /api/vision-board/items/{id}"
	RouteVisionDelete     = "DELETE /api/vision-board/items/{id}"
	RouteVisionHistory    = "GET /api/vision-board/history"
)

type reply struct {
	status    int
	body      []byte
	remaining int
}

// Server holds the fake backend state. All methods are safe for concurrent use.
type Server struct {
	router chi.Router
	now    func() time.Time

	token                string
	insufficientInsights bool

	mu      sync.Mutex
	hits    map[string]int
	bodies  map[string][]byte
	replies map[string]*reply
	drops   map[string]int
	routes  []string

	insightsServed bool
	insights       []insights.Insight
	feedback       map[string][]insights.Feedback
	progress       []progress.Entry
	weather        map[string]weather.State
	weatherHistory map[string][]weather.State
	events         []milestones.Event
	items          []visionboard.Item
	history        []visionboard.HistoryEntry
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires "Authorization: Bearer token" on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// WithInsufficientInsights makes the insights listing answer 422.
func WithInsufficientInsights() Option {
	return func(s *Server) { s.insufficientInsights = true }
}

// WithClock replaces time.Now for generated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New returns a seeded Server.
func New(opts ...Option) *Server {
	s := &Server{
		now:            time.Now,
		hits:           map[string]int{},
		bodies:         map[string][]byte{},
		replies:        map[string]*reply{},
		drops:          map[string]int{},
		feedback:       map[string][]insights.Feedback{},
		weather:        map[string]weather.State{},
		weatherHistory: map[string][]weather.State{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	s.router = s.routesTable()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routesTable() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	handlers := map[string]http.HandlerFunc{
		RouteInsightsList:    s.listInsights,
		RouteInsightGet:      s.getInsight,
		RouteInsightPatch:    s.patchInsight,
		RouteInsightFeedback: s.insightFeedback,
		RouteProgressList:    s.listProgress,
		RouteProgressLatest:  s.latestProgress,
		RouteProgressRecord:  s.recordProgress,
		RouteProgressAdjust:  s.adjustProgress,
		RouteProgressDelete:  s.deleteProgress,
		RouteWeatherGet:      s.getWeather,
		RouteWeatherRefresh:  s.refreshWeather,
		RouteWeatherHistory:  s.weatherHistoryPage,
		RouteMilestoneEvents: s.listEvents,
		RouteMilestoneCreate: s.createEvent,
		RouteMilestoneUpdate: s.updateEvent,
		RouteMilestoneDelete: s.deleteEvent,
		RouteVisionItems:     s.listItems,
		RouteVisionCreate:    s.createItem,
		RouteVisionUpdate:    s.updateItem,
		RouteVisionDelete:    s.deleteItem,
		RouteVisionHistory:   s.visionHistory,
	}
	for route, h := range handlers {
		method, pattern, _ := strings.Cut(route, " ")
		r.Method(method, pattern, s.wrap(route, h))
		s.routes = append(s.routes, route)
	}
	slices.Sort(s.routes)
	return r
}

// Routes lists every route key, sorted.
func (s *Server) Routes() []string {
	return slices.Clone(s.routes)
}

// ReplyNext answers the next times requests on route with status and body
// instead of running the handler.
func (s *Server) ReplyNext(route string, status int, body string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[route] = &reply{status: status, body: []byte(body), remaining: times}
}

// DropNext closes the connection without a response for the next times
// requests on route.
func (s *Server) DropNext(route string, times int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drops[route] = times
}

// Hits returns how many requests reached route, including scripted ones.
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// LastBody returns the body of the most recent request on route.
func (s *Server) LastBody(route string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.bodies[route])
}

func (s *Server) wrap(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.hits[route]++
		s.bodies[route] = body
		dropping := s.drops[route] > 0
		if dropping {
			s.drops[route]--
		}
		var scripted *reply
		if rp := s.replies[route]; rp != nil && rp.remaining > 0 {
			rp.remaining--
			scripted = rp
		}
		s.mu.Unlock()

		slog.DebugContext(r.Context(), "mock request",
			"route", route,
			"url", r.URL.String(),
			"request_id", r.Header.Get("X-Request-ID"),
		)

		switch {
		case dropping:
			drop(w)
		case scripted != nil:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(scripted.status)
			_, _ = w.Write(scripted.body)
		case s.token != "" && r.Header.Get("Authorization") != "Bearer "+s.token:
			writeJSON(w, http.StatusUnauthorized, message("Invalid or expired token"))
		default:
			h(w, r)
		}
	}
}

func drop(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic(http.ErrAbortHandler)
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		panic(http.ErrAbortHandler)
	}
	_ = conn.Close()
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func message(msg string) map[string]string {
	return map[string]string{"message": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v any) bool {
	return json.NewDecoder(r.Body).Decode(v) == nil
}
