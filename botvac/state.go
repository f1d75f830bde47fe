package botvac

import (
	"encoding/json"
	"strconv"
)

// CommandResponse is the standard nucleo reply envelope for commands
// that do not return full robot state.
type CommandResponse struct {
	Version int            `json:"version"`
	ReqID   string         `json:"reqId"`
	Result  string         `json:"result"`
	Data    map[string]any `json:"data"`
}

type CleaningState struct {
	Category       int `json:"category"`
	Mode           int `json:"mode"`
	Modifier       int `json:"modifier"`
	NavigationMode int `json:"navigationMode"`
	SpotWidth      int `json:"spotWidth"`
	SpotHeight     int `json:"spotHeight"`
}

type RobotDetails struct {
	IsCharging        bool `json:"isCharging"`
	IsDocked          bool `json:"isDocked"`
	DockHasBeenSeen   bool `json:"dockHasBeenSeen"`
	Charge            int  `json:"charge"`
	IsScheduleEnabled bool `json:"isScheduleEnabled"`
}

type AvailableCommands struct {
	Start    bool `json:"start"`
	Stop     bool `json:"stop"`
	Pause    bool `json:"pause"`
	Resume   bool `json:"resume"`
	GoToBase bool `json:"goToBase"`
}

// RobotState is the device's own report of what it is doing. The state
// value is kept raw: firmware adds states faster than any client maps
// them, so unrecognized values must survive a round trip untouched.
type RobotState struct {
	Version           int               `json:"version"`
	ReqID             string            `json:"reqId"`
	Result            string            `json:"result"`
	State             json.RawMessage   `json:"state"`
	Action            int               `json:"action"`
	Error             *string           `json:"error"`
	Alert             *string           `json:"alert"`
	Cleaning          CleaningState     `json:"cleaning"`
	Details           RobotDetails      `json:"details"`
	AvailableCommands AvailableCommands `json:"availableCommands"`
	AvailableServices map[string]string `json:"availableServices"`
	Meta              struct {
		ModelName string `json:"modelName"`
		Firmware  string `json:"firmware"`
	} `json:"meta"`
}

var stateNames = map[int]string{
	0: "invalid",
	1: "idle",
	2: "busy",
	3: "paused",
	4: "error",
}

// StateName renders the device state for humans. Unrecognized codes
// and strings pass through as-is.
func (s *RobotState) StateName() string {
	if len(s.State) == 0 {
		return ""
	}
	var code int
	if err := json.Unmarshal(s.State, &code); err == nil {
		if name, ok := stateNames[code]; ok {
			return name
		}
		return strconv.Itoa(code)
	}
	var name string
	if err := json.Unmarshal(s.State, &name); err == nil {
		return name
	}
	return string(s.State)
}
