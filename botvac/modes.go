package botvac

// Traits are the capability flags a robot declares. They gate which
// command parameters are valid before anything goes on the wire.
const (
	TraitMaps                = "maps"
	TraitPersistentMaps      = "persistent_maps"
	TraitExtraCareNavigation = "extra_care_navigation"
)

// Nucleo cleaning categories.
const (
	categoryHouse         = 2
	categorySpot          = 3
	categoryPersistentMap = 4
)

// modeEntry maps a human-readable parameter name to its nucleo numeric
// code, optionally gated by a trait.
type modeEntry struct {
	code  int
	trait string
}

var cleaningModes = map[string]modeEntry{
	"eco":   {code: 1},
	"turbo": {code: 2},
}

var navigationModes = map[string]modeEntry{
	"normal":     {code: 1},
	"extra care": {code: 2, trait: TraitExtraCareNavigation},
	"deep":       {code: 3},
}

var categories = map[string]modeEntry{
	"house":      {code: categoryHouse},
	"spot":       {code: categorySpot},
	"persistent": {code: categoryPersistentMap, trait: TraitPersistentMaps},
}

// CleaningModeCode reports the numeric code for a cleaning mode name.
func CleaningModeCode(name string) (int, bool) {
	entry, ok := cleaningModes[name]
	return entry.code, ok
}

// NavigationModeCode reports the numeric code for a navigation mode
// name, ignoring trait gating.
func NavigationModeCode(name string) (int, bool) {
	entry, ok := navigationModes[name]
	return entry.code, ok
}

// CategoryCode reports the numeric code for a category name.
func CategoryCode(name string) (int, bool) {
	entry, ok := categories[name]
	return entry.code, ok
}

func resolveCleaningMode(name string) (int, error) {
	entry, ok := cleaningModes[name]
	if !ok {
		return 0, UnsupportedCapabilityError{Capability: "cleaning mode", Value: name}
	}
	return entry.code, nil
}

func (r *Robot) resolveNavigationMode(name string) (int, error) {
	entry, ok := navigationModes[name]
	if !ok {
		return 0, UnsupportedCapabilityError{Capability: "navigation mode", Value: name}
	}
	if entry.trait != "" && !r.HasTrait(entry.trait) {
		return 0, UnsupportedCapabilityError{Capability: "navigation mode", Value: name, Trait: entry.trait}
	}
	return entry.code, nil
}

// defaultCategory picks the map for an unspecified category. The
// persistent map is only addressable by the basic-3 and basic-4
// service generations, so the trait alone is not enough.
func (r *Robot) defaultCategory(service string) int {
	if r.HasTrait(TraitPersistentMaps) && (service == "basic-3" || service == "basic-4") {
		return categoryPersistentMap
	}
	return categoryHouse
}

// resolveCategory maps an explicit category name to its code.
func (r *Robot) resolveCategory(name string) (int, error) {
	entry, ok := categories[name]
	if !ok {
		return 0, UnsupportedCapabilityError{Capability: "category", Value: name}
	}
	if entry.trait != "" && !r.HasTrait(entry.trait) {
		return 0, UnsupportedCapabilityError{Capability: "category", Value: name, Trait: entry.trait}
	}
	return entry.code, nil
}
