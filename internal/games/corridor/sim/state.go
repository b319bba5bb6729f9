package sim

// State is the gameplay phase of a session.
type State uint8

const (
	Idle State = iota
	Running
	Paused
	Lost
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// LoseCause says why a run ended.
type LoseCause uint8

const (
	CauseNone LoseCause = iota
	CauseFall
	CauseContact
)

func (c LoseCause) String() string {
	switch c {
	case CauseFall:
		return "fall"
	case CauseContact:
		return "contact"
	default:
		return "none"
	}
}

// machine holds the session state. Every method reports whether the
// transition happened; invalid transitions leave it untouched.
type machine struct {
	state  State
	cause  LoseCause
	losses int
}

func (m *machine) start() bool {
	if m.state != Idle {
		return false
	}
	m.state = Running
	return true
}

func (m *machine) pause() bool {
	if m.state != Running {
		return false
	}
	m.state = Paused
	return true
}

func (m *machine) resume() bool {
	if m.state != Paused {
		return false
	}
	m.state = Running
	return true
}

// lose is the only way into Lost and fires once per run.
func (m *machine) lose(c LoseCause) bool {
	if m.state != Running {
		return false
	}
	m.state = Lost
	m.cause = c
	m.losses++
	return true
}

// restart leaves Lost for a new run.
func (m *machine) restart() bool {
	if m.state != Lost {
		return false
	}
	m.state = Running
	m.cause = CauseNone
	return true
}

func (m *machine) reset() {
	m.state = Idle
	m.cause = CauseNone
}
