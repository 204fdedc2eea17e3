package session

import "fmt"

// State is the playback state of a session.
type State int

const (
	// Idle is a session that has not been initialized.
	Idle State = iota
	// Loading is a session whose source is set but has not started playing.
	Loading
	Playing
	Paused
	Ended
	// Errored is an unrecoverable load or decoding failure; see Controller.Retry.
	Errored
)

var stateNames = map[State]string{
	Idle:    "idle",
	Loading: "loading",
	Playing: "playing",
	Paused:  "paused",
	Ended:   "ended",
	Errored: "errored",
}

// String returns a human-readable label for the playback state.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("unknown state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}
