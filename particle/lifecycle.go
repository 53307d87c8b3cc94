package particle

// State of an emitter's spawning lifecycle.
type State int

const (
	Inactive State = iota // initial and terminal, nothing alive
	Active                // spawning
	Draining              // not spawning, remaining particles age out
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Draining:
		return "draining"
	}
	return "unknown"
}

// Lifecycle gates spawning. Transitions happen only through Activate,
// Deactivate and the Draining -> Inactive settle once nothing is alive.
type Lifecycle struct {
	state    State
	lifeTime float32
}

func NewLifecycle(lifeTime float32) *Lifecycle {
	return &Lifecycle{lifeTime: lifeTime}
}

// Activate enables spawning from Inactive or Draining. It reports whether
// the state changed.
func (l *Lifecycle) Activate() bool {
	if l.state == Active {
		return false
	}
	l.state = Active
	return true
}

// Deactivate moves Active to Draining. It reports whether the state changed.
func (l *Lifecycle) Deactivate() bool {
	if l.state != Active {
		return false
	}
	l.state = Draining
	return true
}

// ShouldBeDeactivated reports whether timePassed exceeds the emitter's
// lifetime while it is still spawning. It never changes state; the frame
// loop owner decides whether to call Deactivate.
func (l *Lifecycle) ShouldBeDeactivated(timePassed float32) bool {
	return timePassed > l.lifeTime && l.state == Active
}

// IsActive is true only while spawning.
func (l *Lifecycle) IsActive() bool { return l.state == Active }

func (l *Lifecycle) State() State { return l.state }

func (l *Lifecycle) settle(live int) bool {
	if l.state == Draining && live == 0 {
		l.state = Inactive
		return true
	}
	return false
}
