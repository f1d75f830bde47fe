package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joshp123/gobotvac/botvac"
)

const commandTimeout = 30 * time.Second

// Commander is the slice of the robot surface the relay needs. The
// concrete *botvac.Robot satisfies it; tests supply fakes.
type Commander interface {
	StartCleaning(ctx context.Context, opts botvac.CleaningOptions) (*botvac.RobotState, error)
	SendToBase(ctx context.Context) (*botvac.RobotState, error)
}

// Server exposes the configured start-cleaning command on PUT / and
// send-to-base on GET /, plus health and metrics.
type Server struct {
	robot     Commander
	identity  Identity
	cleaning  CleaningConfig
	metrics   *Metrics
	announcer *Announcer
}

type Option func(*Server)

// WithAnnouncer publishes command outcomes to MQTT.
func WithAnnouncer(announcer *Announcer) Option {
	return func(s *Server) { s.announcer = announcer }
}

func New(robot Commander, identity Identity, cleaning CleaningConfig, opts ...Option) *Server {
	s := &Server{
		robot:    robot,
		identity: identity,
		cleaning: cleaning,
		metrics:  NewMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodPut:
		s.handleStartCleaning(w, r)
	case http.MethodGet:
		s.handleSendToBase(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"robot":  s.identity.Name,
		"serial": s.identity.Serial,
	})
}

// commandSummary echoes the configuration a cleaning run was started
// with, both readable and numeric.
type commandSummary struct {
	CleaningMode          string `json:"cleaning_mode"`
	NumericCleaningMode   int    `json:"numeric_cleaning_mode"`
	NavigationMode        string `json:"navigation_mode"`
	NumericNavigationMode int    `json:"numeric_navigation_mode"`
	NumericCategory       int    `json:"numeric_category"`
	Result                string `json:"result"`
	State                 string `json:"state,omitempty"`
}

func (s *Server) handleStartCleaning(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	start := time.Now()
	state, err := s.robot.StartCleaning(ctx, botvac.CleaningOptions{
		Mode:           s.cleaning.CleaningMode,
		NavigationMode: s.cleaning.NavigationMode,
	})
	s.metrics.Observe("start_cleaning", err, time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}

	modeCode, _ := botvac.CleaningModeCode(s.cleaning.CleaningMode)
	navCode, _ := botvac.NavigationModeCode(s.cleaning.NavigationMode)
	summary := commandSummary{
		CleaningMode:          s.cleaning.CleaningMode,
		NumericCleaningMode:   modeCode,
		NavigationMode:        s.cleaning.NavigationMode,
		NumericNavigationMode: navCode,
		NumericCategory:       state.Cleaning.Category,
		Result:                state.Result,
		State:                 state.StateName(),
	}

	s.announce("start_cleaning", summary)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(summary)
}

func (s *Server) handleSendToBase(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	start := time.Now()
	state, err := s.robot.SendToBase(ctx)
	s.metrics.Observe("send_to_base", err, time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}

	s.announce("send_to_base", map[string]string{"result": state.Result, "state": state.StateName()})
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("Returning to base\n"))
}

func (s *Server) announce(command string, payload any) {
	if s.announcer == nil {
		return
	}
	if err := s.announcer.Publish(command, payload); err != nil {
		log.Printf("relay: announce %s: %v", command, err)
	}
}

// writeError maps the library taxonomy onto HTTP statuses: client-side
// capability rejections are 400s, everything upstream is a 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var unsupported botvac.UnsupportedCapabilityError
	if errors.As(err, &unsupported) {
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
