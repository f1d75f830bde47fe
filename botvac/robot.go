package botvac

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	serialPattern = regexp.MustCompile(`(?i)^[A-Z0-9]{8}-[0-9A-F]{12}$`)
	secretPattern = regexp.MustCompile(`(?i)^[0-9A-F]{32}$`)
	portPattern   = regexp.MustCompile(`:\d+`)
)

// Robot issues commands to one physical device over the nucleo
// endpoint. Every request is signed with the device secret; this is a
// device-scoped mechanism, fully independent of the account Session.
type Robot struct {
	Name   string
	Serial string
	Secret string
	Traits []string

	vendor   Vendor
	messages string
	http     *http.Client
	now      func() time.Time
}

type RobotOption func(*Robot)

func WithTraits(traits ...string) RobotOption {
	return func(r *Robot) { r.Traits = traits }
}

func WithVendor(vendor Vendor) RobotOption {
	return func(r *Robot) { r.vendor = vendor }
}

// WithEndpoint overrides the nucleo base URL, e.g. the per-robot
// nucleo_url from the account dashboard.
func WithEndpoint(endpoint string) RobotOption {
	return func(r *Robot) { r.messages = endpoint }
}

func WithHTTPClient(client *http.Client) RobotOption {
	return func(r *Robot) { r.http = client }
}

// NewRobot validates the identifying tuple and binds it to the vendor
// command endpoint. Serial and secret formats are checked here so a
// bad descriptor fails at construction, not on first command.
func NewRobot(serial, secret, name string, opts ...RobotOption) (*Robot, error) {
	r := &Robot{
		Name:   name,
		Serial: serial,
		Secret: secret,
		vendor: Neato(),
		http:   &http.Client{Timeout: 15 * time.Second},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	if !serialPattern.MatchString(r.Serial) {
		return nil, fmt.Errorf("invalid robot serial %q", r.Serial)
	}
	if !secretPattern.MatchString(r.Secret) {
		return nil, fmt.Errorf("invalid robot secret: want 32 hex characters")
	}

	endpoint := r.messages
	if endpoint == "" {
		endpoint = r.vendor.NucleoURL
	}
	r.messages = messagesURL(endpoint, r.vendor.Name, r.Serial)

	return r, nil
}

// NewRobotFromInfo rehydrates an Account-enumerated descriptor.
func NewRobotFromInfo(info RobotInfo, opts ...RobotOption) (*Robot, error) {
	base := []RobotOption{WithTraits(info.Traits...)}
	if info.NucleoURL != "" {
		base = append(base, WithEndpoint(info.NucleoURL))
	}
	return NewRobot(info.Serial, info.Secret, info.Name, append(base, opts...)...)
}

func (r *Robot) String() string {
	return fmt.Sprintf("Name: %s, Serial: %s, Traits: %v", r.Name, r.Serial, r.Traits)
}

func (r *Robot) HasTrait(trait string) bool {
	for _, t := range r.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// messagesURL builds the command endpoint. The nucleo hosts advertise
// port 4443 but the signed URL uses the bare host.
func messagesURL(endpoint, vendorName, serial string) string {
	stripped := portPattern.ReplaceAllString(endpoint, "")
	return fmt.Sprintf("%s/vendors/%s/robots/%s/messages", strings.TrimSuffix(stripped, "/"), vendorName, serial)
}

// deviceSignature signs serial, date, and body with the device secret.
// The message layout is fixed by the nucleo protocol.
func deviceSignature(serial, secret, date string, body []byte) string {
	msg := strings.ToLower(serial) + "\n" + date + "\n" + string(body)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return hex.EncodeToString(mac.Sum(nil))
}

func (r *Robot) message(ctx context.Context, cmd string, params, out any) error {
	envelope := map[string]any{"reqId": "1", "cmd": cmd}
	if params != nil {
		envelope["params"] = params
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.messages, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	// RFC 2616 date; the device rejects anything else.
	date := r.now().UTC().Format(http.TimeFormat)
	req.Header.Set("Accept", r.vendor.AcceptHeader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Date", date)
	req.Header.Set("Authorization", "NEATOAPP "+deviceSignature(r.Serial, r.Secret, date, body))

	resp, err := r.http.Do(req)
	if err != nil {
		return TransportError{Op: "robot " + cmd, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return TransportError{Op: "robot " + cmd, Err: err}
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return AuthError{Reason: AuthInvalidCredentials, Status: resp.StatusCode, Detail: string(data)}
	}
	if resp.StatusCode >= 300 {
		return TransportError{Op: "robot " + cmd, Err: httpStatusError{Status: resp.StatusCode, Body: string(data)}}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return MalformedResponseError{Field: "body", Err: err}
	}
	return nil
}

func (r *Robot) stateCommand(ctx context.Context, cmd string, params any) (*RobotState, error) {
	var state RobotState
	if err := r.message(ctx, cmd, params, &state); err != nil {
		return nil, err
	}
	if state.Result == "" {
		return nil, MalformedResponseError{Field: "result"}
	}
	return &state, nil
}

func (r *Robot) standardCommand(ctx context.Context, cmd string) (*CommandResponse, error) {
	var resp CommandResponse
	if err := r.message(ctx, cmd, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Result == "" {
		return nil, MalformedResponseError{Field: "result"}
	}
	return &resp, nil
}

// State queries the live device state. Nothing is cached; every call
// is a fresh round trip.
func (r *Robot) State(ctx context.Context) (*RobotState, error) {
	return r.stateCommand(ctx, "getRobotState", nil)
}

func (r *Robot) PauseCleaning(ctx context.Context) (*RobotState, error) {
	return r.stateCommand(ctx, "pauseCleaning", nil)
}

func (r *Robot) ResumeCleaning(ctx context.Context) (*RobotState, error) {
	return r.stateCommand(ctx, "resumeCleaning", nil)
}

func (r *Robot) StopCleaning(ctx context.Context) (*RobotState, error) {
	return r.stateCommand(ctx, "stopCleaning", nil)
}

func (r *Robot) SendToBase(ctx context.Context) (*RobotState, error) {
	return r.stateCommand(ctx, "sendToBase", nil)
}

func (r *Robot) EnableSchedule(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "enableSchedule")
}

func (r *Robot) DisableSchedule(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "disableSchedule")
}

func (r *Robot) GetSchedule(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "getSchedule")
}

// Locate plays the find-me chime on the device.
func (r *Robot) Locate(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "findMe")
}

func (r *Robot) GeneralInfo(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "getGeneralInfo")
}

func (r *Robot) LocalStats(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "getLocalStats")
}

func (r *Robot) Preferences(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "getPreferences")
}

func (r *Robot) DismissCurrentAlert(ctx context.Context) (*CommandResponse, error) {
	return r.standardCommand(ctx, "dismissCurrentAlert")
}

// ScheduleEnabled reads the current schedule flag from the device.
func (r *Robot) ScheduleEnabled(ctx context.Context) (bool, error) {
	resp, err := r.GetSchedule(ctx)
	if err != nil {
		return false, err
	}
	enabled, ok := resp.Data["enabled"].(bool)
	if !ok {
		return false, MalformedResponseError{Field: "data.enabled"}
	}
	return enabled, nil
}

// SetScheduleEnabled issues the enable/disable command. There is no
// guard against a concurrent schedule change between a read and this
// write; last writer wins.
func (r *Robot) SetScheduleEnabled(ctx context.Context, enabled bool) error {
	if enabled {
		_, err := r.EnableSchedule(ctx)
		return err
	}
	_, err := r.DisableSchedule(ctx)
	return err
}
