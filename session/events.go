package session

// Event is an inbound notification from the media element.
type Event interface {
	event()
}

// TimeUpdate reports the element's current position in seconds.
type TimeUpdate struct {
	Position float64
}

// DurationChange reports the media duration once metadata is loaded.
type DurationChange struct {
	Duration float64
}

// Ready signals that the current source can be played and seeked.
type Ready struct{}

// Started signals that the element is playing, whoever asked for it.
type Started struct{}

// Stopped signals that the element paused on its own or by user input outside the session.
type Stopped struct{}

// EndOfFile signals that the element reached the end of the media.
type EndOfFile struct{}

// Failed signals an unrecoverable load or decoding failure of the current source.
type Failed struct {
	Err error
}

func (TimeUpdate) event()     {}
func (DurationChange) event() {}
func (Ready) event()          {}
func (Started) event()        {}
func (Stopped) event()        {}
func (EndOfFile) event()      {}
func (Failed) event()         {}
