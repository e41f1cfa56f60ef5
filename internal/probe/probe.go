package probe

// #region imports
import (
	"fmt"
	"strings"
)

// #endregion

// #region constants

// DoorCount is the number of doors in every room.
const DoorCount = 6

// LabelCount is the size of the observable label alphabet.
const LabelCount = 4

// #endregion

// #region label

// Label is a 2-bit observable room marking. Many distinct rooms share a label.
type Label uint8

// Valid reports whether l is inside the 4-value alphabet.
func (l Label) Valid() bool {
	return l < LabelCount
}

// #endregion

// #region plan

// Plan is an ordered door sequence, one byte per door, over the alphabet "0".."5".
type Plan string

// ParsePlan validates raw as a plan string.
func ParsePlan(raw string) (Plan, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '0'+DoorCount-1 {
			return "", fmt.Errorf("plan %q: invalid door at index %d", raw, i)
		}
	}
	return Plan(raw), nil
}

// PlanFromDoors builds a plan from explicit door indices.
// Indices outside 0..5 panic: callers construct these, not user input.
func PlanFromDoors(doors ...int) Plan {
	var b strings.Builder
	for _, d := range doors {
		if d < 0 || d >= DoorCount {
			panic(fmt.Sprintf("door index %d out of range", d))
		}
		b.WriteByte(byte('0' + d))
	}
	return Plan(b.String())
}

// Doors expands the plan back into door indices.
func (p Plan) Doors() []int {
	doors := make([]int, len(p))
	for i := 0; i < len(p); i++ {
		doors[i] = int(p[i] - '0')
	}
	return doors
}

// Len returns the number of doors in the plan.
func (p Plan) Len() int { return len(p) }

// #endregion

// #region result

// Result is one answered query: the plan issued and every label observed
// along it, starting with the label of the room the walk began in.
type Result struct {
	Plan   Plan
	Labels []Label
}

// Valid reports whether the result obeys the length invariant
// (len(Labels) == len(Plan)+1) and every label is in the alphabet.
// Invalid results are dropped by the assembler, never treated as fatal.
func (r Result) Valid() bool {
	if len(r.Labels) != r.Plan.Len()+1 {
		return false
	}
	for _, l := range r.Labels {
		if !l.Valid() {
			return false
		}
	}
	return true
}

// #endregion
