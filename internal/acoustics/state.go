package acoustics

type State string

const (
	StateAdequate State = "adequate"
	StateNear     State = "near"
	StateExceeds  State = "exceeds"
)

const (
	recommendExceeds = "Implement acoustic solutions: install acoustic panels on walls and ceilings, " +
		"isolate external or internal noise sources, redesign the distribution of activities, " +
		"and improve the insulation of doors and windows."
	recommendNear = "Review mitigation measures: consider installing acoustic panels or redesigning " +
		"activities to reduce noise levels."
	recommendAdequate = "The noise level is adequate."
)

// Classify compares a level against the limits. Levels equal to a threshold
// do not cross it.
func Classify(level float64, limits Limits) State {
	switch {
	case level > limits.Exceeded:
		return StateExceeds
	case level > limits.Near:
		return StateNear
	default:
		return StateAdequate
	}
}

func (s State) Recommendation() string {
	switch s {
	case StateExceeds:
		return recommendExceeds
	case StateNear:
		return recommendNear
	default:
		return recommendAdequate
	}
}

func (s State) Symbol() string {
	switch s {
	case StateExceeds:
		return "x"
	case StateNear:
		return "!"
	default:
		return "ok"
	}
}
