package botvac

import (
	"context"
)

// Alerts that mean the persistent floor plan cannot be used for this
// run; a start in category 4 that hits one falls back to category 2.
var alertsFloorplan = map[string]bool{
	"nav_floorplan_load_fail":         true,
	"nav_floorplan_localization_fail": true,
	"nav_floorplan_not_created":       true,
}

// CleaningOptions selects human-readable cleaning parameters. Zero
// values pick the defaults: turbo, normal navigation, and the
// persistent map when the robot and its service version support one.
type CleaningOptions struct {
	Mode           string // "eco" or "turbo"
	NavigationMode string // "normal", "extra care", or "deep"
	Category       string // "house", "spot", or "persistent"
	BoundaryID     string
	MapID          string
}

// SpotOptions selects spot cleaning parameters. Zero dimensions
// default to a 400x400 cm spot.
type SpotOptions struct {
	WidthCm  int
	HeightCm int
	Mode     string
}

// StartCleaning resolves the requested modes against the lookup tables
// and the robot's traits, then sends startCleaning shaped for the
// device's houseCleaning service version. Mode resolution happens
// before any network call so unsupported requests cost zero round
// trips.
func (r *Robot) StartCleaning(ctx context.Context, opts CleaningOptions) (*RobotState, error) {
	mode, err := resolveCleaningMode(orDefault(opts.Mode, "turbo"))
	if err != nil {
		return nil, err
	}
	nav, err := r.resolveNavigationMode(orDefault(opts.NavigationMode, "normal"))
	if err != nil {
		return nil, err
	}
	var category int
	if opts.Category != "" {
		category, err = r.resolveCategory(opts.Category)
		if err != nil {
			return nil, err
		}
	}

	// Service versions live in the state report and are queried live,
	// same as the rest of the runtime state.
	state, err := r.State(ctx)
	if err != nil {
		return nil, err
	}
	service := state.AvailableServices["houseCleaning"]
	// The default category depends on the service generation, so it is
	// resolved only once the state report is in hand.
	if opts.Category == "" {
		category = r.defaultCategory(service)
	}
	params, err := houseCleaningParams(service, category, mode, nav)
	if err != nil {
		return nil, err
	}
	if opts.BoundaryID != "" {
		params["boundaryId"] = opts.BoundaryID
	}
	if opts.MapID != "" {
		params["mapId"] = opts.MapID
	}

	result, err := r.stateCommand(ctx, "startCleaning", params)
	if err != nil {
		return nil, err
	}

	// A persistent-map start fails when the robot cannot localize or
	// is off its base; fall back to the plain map once.
	if category == categoryPersistentMap && needsFloorplanFallback(result) {
		params["category"] = categoryHouse
		return r.stateCommand(ctx, "startCleaning", params)
	}
	return result, nil
}

// StartSpotCleaning starts a spot clean shaped for the device's
// spotCleaning service version.
func (r *Robot) StartSpotCleaning(ctx context.Context, opts SpotOptions) (*RobotState, error) {
	mode, err := resolveCleaningMode(orDefault(opts.Mode, "turbo"))
	if err != nil {
		return nil, err
	}
	width := opts.WidthCm
	if width == 0 {
		width = 400
	}
	height := opts.HeightCm
	if height == 0 {
		height = 400
	}

	state, err := r.State(ctx)
	if err != nil {
		return nil, err
	}

	var params map[string]any
	switch service := state.AvailableServices["spotCleaning"]; service {
	case "basic-1":
		params = map[string]any{"category": categorySpot, "mode": mode, "modifier": 2, "spotWidth": width, "spotHeight": height}
	case "basic-3":
		params = map[string]any{"category": categorySpot, "spotWidth": width, "spotHeight": height}
	case "minimal-2":
		params = map[string]any{"category": categorySpot, "modifier": 2, "navigationMode": 1}
	case "micro-2":
		params = map[string]any{"category": categorySpot, "navigationMode": 1}
	default:
		return nil, UnsupportedCapabilityError{Capability: "spotCleaning", Value: service}
	}

	return r.stateCommand(ctx, "startCleaning", params)
}

func houseCleaningParams(service string, category, mode, nav int) (map[string]any, error) {
	switch service {
	case "basic-1":
		return map[string]any{"category": category, "mode": mode, "modifier": 1}, nil
	case "minimal-2":
		return map[string]any{"category": category, "navigationMode": nav}, nil
	case "basic-2", "basic-3", "basic-4":
		return map[string]any{"category": category, "mode": mode, "modifier": 1, "navigationMode": nav}, nil
	default:
		return nil, UnsupportedCapabilityError{Capability: "houseCleaning", Value: service}
	}
}

func needsFloorplanFallback(state *RobotState) bool {
	if state.Result == "not_on_charge_base" {
		return true
	}
	return state.Alert != nil && alertsFloorplan[*state.Alert]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
