package botvac

import (
	"context"
	"fmt"
)

// Account enumerates the robots and maps tied to a user identity. It
// holds only its Session; every call re-fetches from the vendor, so
// results always reflect the live account state.
type Account struct {
	session Session
}

func NewAccount(session Session) *Account {
	return &Account{session: session}
}

// RobotInfo is the identifying tuple for one physical device, as
// returned by the account dashboard. Rehydrate it into a Robot with
// NewRobotFromInfo.
type RobotInfo struct {
	Name      string
	Serial    string
	Secret    string
	Traits    []string
	Model     string
	Firmware  string
	NucleoURL string
}

// MapInfo describes one generated floor map.
type MapInfo struct {
	ID                 string `json:"id"`
	URL                string `json:"url"`
	URLValidForSeconds int    `json:"url_valid_for_seconds"`
	GeneratedAt        string `json:"generated_at"`
	Version            int    `json:"version"`
}

// Robots fetches the device records for the account. Order follows the
// server response and is not stable across calls; identify robots by
// serial, not position.
func (a *Account) Robots(ctx context.Context) ([]RobotInfo, error) {
	var resp struct {
		Robots []struct {
			Name       string   `json:"name"`
			Serial     string   `json:"serial"`
			SecretKey  string   `json:"secret_key"`
			Traits     []string `json:"traits"`
			MACAddress *string  `json:"mac_address"`
			NucleoURL  string   `json:"nucleo_url"`
			Model      string   `json:"model"`
			Firmware   string   `json:"firmware"`
		} `json:"robots"`
	}

	if err := a.session.Get(ctx, "dashboard", &resp); err != nil {
		return nil, err
	}

	robots := make([]RobotInfo, 0, len(resp.Robots))
	for _, robot := range resp.Robots {
		if robot.MACAddress == nil {
			// Robots that never paired have no mac address; skip them.
			continue
		}
		if robot.Serial == "" || robot.SecretKey == "" {
			return nil, MalformedResponseError{Field: "robots[].serial"}
		}
		robots = append(robots, RobotInfo{
			Name:      robot.Name,
			Serial:    robot.Serial,
			Secret:    robot.SecretKey,
			Traits:    robot.Traits,
			Model:     robot.Model,
			Firmware:  robot.Firmware,
			NucleoURL: robot.NucleoURL,
		})
	}
	return robots, nil
}

// Maps fetches map metadata for every robot on the account, keyed by
// serial. Nothing is cached; calling twice fetches twice.
func (a *Account) Maps(ctx context.Context) (map[string][]MapInfo, error) {
	robots, err := a.Robots(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string][]MapInfo, len(robots))
	for _, robot := range robots {
		list, err := a.MapsFor(ctx, robot.Serial)
		if err != nil {
			return nil, fmt.Errorf("maps for %s: %w", robot.Serial, err)
		}
		maps[robot.Serial] = list
	}
	return maps, nil
}

// MapsFor fetches map metadata for a single serial.
func (a *Account) MapsFor(ctx context.Context, serial string) ([]MapInfo, error) {
	var resp struct {
		Maps []MapInfo `json:"maps"`
	}
	if err := a.session.Get(ctx, "users/me/robots/"+serial+"/maps", &resp); err != nil {
		return nil, err
	}
	return resp.Maps, nil
}

// PersistentMaps fetches persistent floor plans per robot, keyed by
// serial. A robot with an entry here supports the persistent cleaning
// category.
func (a *Account) PersistentMaps(ctx context.Context) (map[string][]MapInfo, error) {
	robots, err := a.Robots(ctx)
	if err != nil {
		return nil, err
	}

	maps := make(map[string][]MapInfo, len(robots))
	for _, robot := range robots {
		var list []MapInfo
		if err := a.session.Get(ctx, "users/me/robots/"+robot.Serial+"/persistent_maps", &list); err != nil {
			return nil, fmt.Errorf("persistent maps for %s: %w", robot.Serial, err)
		}
		maps[robot.Serial] = list
	}
	return maps, nil
}

// MapImage fetches the map image at url and returns the raw bytes
// unmodified; no decoding happens here.
func (a *Account) MapImage(ctx context.Context, url string) ([]byte, error) {
	return a.session.GetRaw(ctx, url)
}
