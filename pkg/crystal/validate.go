package crystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CoincidenceTolerance is the distance (Å) below which two atoms of a
// period are reported as overlapping.
const CoincidenceTolerance = 1e-3

// Severity says whether a finding blocks rendering or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // blocks rendering
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationError describes a single finding about a structure.
type ValidationError struct {
	Atom     int // index into Structure.Atoms, -1 for structure-level findings
	Message  string
	Severity Severity
}

func (e ValidationError) Error() string {
	if e.Atom < 0 {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] atom %d: %s", e.Severity, e.Atom, e.Message)
}

// ValidationResult splits findings into blocking errors and warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// ElementChecker reports whether an element symbol is known.
type ElementChecker interface {
	Known(element string) bool
}

// Validate inspects s without modifying it. A nil checker skips the
// element lookup.
func Validate(s *Structure, elements ElementChecker) ValidationResult {
	var res ValidationResult
	add := func(atom int, sev Severity, format string, args ...any) {
		e := ValidationError{Atom: atom, Message: fmt.Sprintf(format, args...), Severity: sev}
		if sev == SeverityError {
			res.Errors = append(res.Errors, e)
		} else {
			res.Warnings = append(res.Warnings, e)
		}
	}

	if s == nil {
		add(-1, SeverityError, "no structure")
		return res
	}
	if s.Lattice == nil {
		add(-1, SeverityError, "structure has no lattice")
	}

	for i, a := range s.Atoms {
		if a.Element == "" {
			add(i, SeverityError, "empty element symbol")
		} else if elements != nil && !elements.Known(a.Element) {
			add(i, SeverityWarning, "unknown element %q", a.Element)
		}
		if !finite(a.Position) {
			add(i, SeverityError, "non-finite position %v", a.Position)
		}
	}

	for i := 0; i < len(s.Atoms); i++ {
		for j := i + 1; j < len(s.Atoms); j++ {
			d := r3.Norm(r3.Sub(s.Atoms[i].Position, s.Atoms[j].Position))
			if d < CoincidenceTolerance {
				add(j, SeverityWarning, "coincides with atom %d", i)
			}
		}
	}

	return res
}

func finite(v r3.Vec) bool {
	for _, x := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
