package entsoe

// parseState is the decoder's position in the TimeSeries/Period/Point nesting.
type parseState uint8

const (
	stateOutside parseState = iota
	stateInTimeSeries
	stateInPeriod
	stateInPoint
	stateInTimeInterval
)

func (s parseState) String() string {
	switch s {
	case stateOutside:
		return "Outside"
	case stateInTimeSeries:
		return "InTimeSeries"
	case stateInPeriod:
		return "InPeriod"
	case stateInPoint:
		return "InPoint"
	case stateInTimeInterval:
		return "InTimeInterval"
	default:
		return "invalid"
	}
}

// Element names that drive state transitions.
const (
	elemTimeSeries   = "TimeSeries"
	elemPeriod       = "Period"
	elemPoint        = "Point"
	elemTimeInterval = "timeInterval"
)

// Leaf elements whose text is collected.
const (
	fieldCurrency   = "currency_Unit.name"
	fieldResolution = "resolution"
	fieldStart      = "start"
	fieldEnd        = "end"
	fieldPosition   = "position"
	fieldPrice      = "price.amount"
)

type transition struct {
	from parseState
	elem string
}

// enterTransitions lists the only legal ways to descend. A start tag that is
// not listed for the current state leaves the state unchanged.
var enterTransitions = map[transition]parseState{
	{stateOutside, elemTimeSeries}:    stateInTimeSeries,
	{stateInTimeSeries, elemPeriod}:   stateInPeriod,
	{stateInPeriod, elemPoint}:        stateInPoint,
	{stateInPeriod, elemTimeInterval}: stateInTimeInterval,
}

// insideTimeSeries reports whether s lies within a TimeSeries element.
func (s parseState) insideTimeSeries() bool { return s >= stateInTimeSeries }

// insidePeriod reports whether s lies within a Period element.
func (s parseState) insidePeriod() bool { return s >= stateInPeriod }

// frame remembers the state in force before a transition and the element
// depth at which the transition happened, so only the matching end tag
// unwinds it.
type frame struct {
	prev  parseState
	depth int
}

// machine tracks the current state and the open transitions.
type machine struct {
	state parseState
	stack []frame
	depth int
}

// start consumes a start tag and reports whether it caused a transition.
func (m *machine) start(name string) (entered bool) {
	m.depth++
	next, ok := enterTransitions[transition{m.state, name}]
	if !ok {
		return false
	}
	m.stack = append(m.stack, frame{prev: m.state, depth: m.depth})
	m.state = next
	return true
}

// end consumes an end tag and returns the state being left when the tag
// closes the innermost transition.
func (m *machine) end() (left parseState, exited bool) {
	defer func() { m.depth-- }()
	if n := len(m.stack); n > 0 && m.stack[n-1].depth == m.depth {
		left = m.state
		m.state = m.stack[n-1].prev
		m.stack = m.stack[:n-1]
		return left, true
	}
	return m.state, false
}
