package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joshp123/gobotvac/botvac"
)

type fakeRobot struct {
	startCleaning func(ctx context.Context, opts botvac.CleaningOptions) (*botvac.RobotState, error)
	sendToBase    func(ctx context.Context) (*botvac.RobotState, error)
}

func (f *fakeRobot) StartCleaning(ctx context.Context, opts botvac.CleaningOptions) (*botvac.RobotState, error) {
	return f.startCleaning(ctx, opts)
}

func (f *fakeRobot) SendToBase(ctx context.Context) (*botvac.RobotState, error) {
	return f.sendToBase(ctx)
}

func okState(category int) *botvac.RobotState {
	return &botvac.RobotState{
		Result:   "ok",
		State:    json.RawMessage(`2`),
		Cleaning: botvac.CleaningState{Category: category},
	}
}

func testConfig() (Identity, CleaningConfig) {
	identity := Identity{
		Name:   "Kitchen",
		Serial: "OPS01234-0123456789AB",
		Secret: "0123456789ABCDEF0123456789ABCDEF",
	}
	return identity, CleaningConfig{CleaningMode: "eco", NavigationMode: "normal"}
}

func TestPutStartsCleaning(t *testing.T) {
	var gotOpts botvac.CleaningOptions
	robot := &fakeRobot{
		startCleaning: func(_ context.Context, opts botvac.CleaningOptions) (*botvac.RobotState, error) {
			gotOpts = opts
			return okState(2), nil
		},
	}
	identity, cleaning := testConfig()
	server := New(robot, identity, cleaning)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if gotOpts.Mode != "eco" || gotOpts.NavigationMode != "normal" {
		t.Fatalf("configured modes were not passed through: %+v", gotOpts)
	}

	var summary commandSummary
	if err := json.Unmarshal(recorder.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.CleaningMode != "eco" || summary.NumericCleaningMode != 1 {
		t.Fatalf("unexpected cleaning mode summary: %+v", summary)
	}
	if summary.NavigationMode != "normal" || summary.NumericNavigationMode != 1 {
		t.Fatalf("unexpected navigation mode summary: %+v", summary)
	}
	if summary.NumericCategory != 2 || summary.Result != "ok" || summary.State != "busy" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestGetSendsToBase(t *testing.T) {
	var called bool
	robot := &fakeRobot{
		sendToBase: func(context.Context) (*botvac.RobotState, error) {
			called = true
			return okState(0), nil
		},
	}
	identity, cleaning := testConfig()
	server := New(robot, identity, cleaning)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	if !called {
		t.Fatalf("send to base was not invoked")
	}
	if !strings.Contains(recorder.Body.String(), "Returning to base") {
		t.Fatalf("unexpected body: %s", recorder.Body.String())
	}
}

func TestUnsupportedCapabilityIs400(t *testing.T) {
	robot := &fakeRobot{
		startCleaning: func(context.Context, botvac.CleaningOptions) (*botvac.RobotState, error) {
			return nil, botvac.UnsupportedCapabilityError{Capability: "navigation mode", Value: "extra care"}
		},
	}
	identity, cleaning := testConfig()
	server := New(robot, identity, cleaning)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/", nil))

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

func TestUpstreamFailureIs502(t *testing.T) {
	robot := &fakeRobot{
		startCleaning: func(context.Context, botvac.CleaningOptions) (*botvac.RobotState, error) {
			return nil, botvac.TransportError{Op: "robot startCleaning", Err: context.DeadlineExceeded}
		},
	}
	identity, cleaning := testConfig()
	server := New(robot, identity, cleaning)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/", nil))

	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", recorder.Code)
	}
}

func TestOtherMethodsRejected(t *testing.T) {
	identity, cleaning := testConfig()
	server := New(&fakeRobot{}, identity, cleaning)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))

	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}

func TestHealthAndMetricsEndpoints(t *testing.T) {
	identity, cleaning := testConfig()
	server := New(&fakeRobot{
		sendToBase: func(context.Context) (*botvac.RobotState, error) { return okState(0), nil },
	}, identity, cleaning)
	handler := server.Handler()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", recorder.Code)
	}

	// One command so the counters exist.
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "gobotvac_relay_commands_total") {
		t.Fatalf("metrics output missing command counter")
	}
}
