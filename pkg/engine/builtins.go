package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/crystview/pkg/bondlen"
	"github.com/chazu/crystview/pkg/crystal"
	"github.com/chazu/crystview/pkg/supercell"
	"github.com/chazu/crystview/pkg/view"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms structure script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: vdw-radius -> vdw_radius
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a cartesian position in Å.
type sexpVec3 struct {
	vec r3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpFrac wraps a fractional position, resolved against the cell when the
// atom is placed.
type sexpFrac struct {
	vec r3.Vec
}

func (f *sexpFrac) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(frac %g %g %g)", f.vec.X, f.vec.Y, f.vec.Z)
}
func (f *sexpFrac) Type() *zygo.RegisteredType { return nil }

// sexpCell is what (cell ...) evaluates to.
type sexpCell struct {
	params crystal.Params
}

func (c *sexpCell) SexpString(ps *zygo.PrintState) string {
	p := c.params
	return fmt.Sprintf("(cell :a %g :b %g :c %g :alpha %g :beta %g :gamma %g)",
		p.A, p.B, p.C, p.Alpha, p.Beta, p.Gamma)
}
func (c *sexpCell) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInt extracts an integer from a Sexp. Floats are accepted when they
// hold an integral value.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a cartesian vector from a sexpVec3.
func toVec3(s zygo.Sexp) (r3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return r3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toTriple reads three numbers from a builtin's arguments.
func toTriple(fn string, args []zygo.Sexp) (r3.Vec, error) {
	if len(args) != 3 {
		return r3.Vec{}, fmt.Errorf("%s requires exactly 3 arguments, got %d", fn, len(args))
	}
	var xyz [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("%s: %c: %w", fn, "xyz"[i], err)
		}
		xyz[i] = f
	}
	return r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// kwFloat returns the keyword's numeric value, or def when it is absent.
func kwFloat(fn string, pa kwArgs, key string, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// kwBool stores the keyword's boolean value in *dst when it is present.
func kwBool(fn string, pa kwArgs, key string, dst **bool) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	*dst = &b
	return nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Structure builder
// ---------------------------------------------------------------------------

// builder accumulates what the builtins declare during one evaluation.
type builder struct {
	latticeOpts []crystal.Option

	lattice   *crystal.Lattice
	atoms     []crystal.Atom
	overrides Overrides
}

func newBuilder(opts []crystal.Option) *builder {
	return &builder{latticeOpts: opts}
}

// script finishes the evaluation. Atoms without a cell are an error.
func (sb *builder) script() (*Script, error) {
	if sb.lattice == nil {
		if len(sb.atoms) > 0 {
			return nil, fmt.Errorf("%d atom(s) defined but no (cell ...)", len(sb.atoms))
		}
		return &Script{View: sb.overrides}, nil
	}
	return &Script{
		Structure: crystal.NewStructure(sb.lattice, sb.atoms),
		View:      sb.overrides,
	}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the structure DSL builtins into a zygomys
// environment. The builtins record into sb during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sb *builder) {

	// -----------------------------------------------------------------------
	// (cell :a 4.05 :b 4.05 :c 4.05 :alpha 90 :beta 90 :gamma 90)
	// (cell :vectors (list (vec3 ...) (vec3 ...) (vec3 ...)))
	//
	// :b and :c default to :a, angles default to 90.
	// -----------------------------------------------------------------------
	env.AddFunction("cell", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if sb.lattice != nil {
			return zygo.SexpNull, fmt.Errorf("cell: cell already defined")
		}
		pa := parseArgs(args)

		var (
			l   *crystal.Lattice
			err error
		)
		if v, ok := pa.kw["vectors"]; ok {
			items, lerr := sexpListToSlice(v)
			if lerr != nil {
				return zygo.SexpNull, fmt.Errorf("cell: vectors: %w", lerr)
			}
			if len(items) != 3 {
				return zygo.SexpNull, fmt.Errorf("cell: vectors: expected 3 vec3, got %d", len(items))
			}
			var vs [3]r3.Vec
			for i, item := range items {
				vs[i], err = toVec3(item)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("cell: vectors: %w", err)
				}
			}
			l, err = crystal.NewLatticeFromVectors(vs[0], vs[1], vs[2], sb.latticeOpts...)
		} else {
			if _, ok := pa.kw["a"]; !ok {
				return zygo.SexpNull, fmt.Errorf("cell requires :a or :vectors")
			}
			var p crystal.Params
			if p.A, err = kwFloat("cell", pa, "a", 0); err != nil {
				return zygo.SexpNull, err
			}
			if p.B, err = kwFloat("cell", pa, "b", p.A); err != nil {
				return zygo.SexpNull, err
			}
			if p.C, err = kwFloat("cell", pa, "c", p.A); err != nil {
				return zygo.SexpNull, err
			}
			if p.Alpha, err = kwFloat("cell", pa, "alpha", 90); err != nil {
				return zygo.SexpNull, err
			}
			if p.Beta, err = kwFloat("cell", pa, "beta", 90); err != nil {
				return zygo.SexpNull, err
			}
			if p.Gamma, err = kwFloat("cell", pa, "gamma", 90); err != nil {
				return zygo.SexpNull, err
			}
			l, err = crystal.NewLattice(p, sb.latticeOpts...)
		}
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cell: %w", err)
		}

		sb.lattice = l
		return &sexpCell{params: l.Params()}, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1.5 0 0), cartesian Å
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toTriple("vec3", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (frac 0.5 0.5 0.5), fractional coordinates of the cell
	// -----------------------------------------------------------------------
	env.AddFunction("frac", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := toTriple("frac", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpFrac{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (atom "Fe" (frac 0 0 0)) or (atom :Fe (vec3 1.2 0 0))
	// -----------------------------------------------------------------------
	env.AddFunction("atom", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("atom requires an element and a position, got %d arguments", len(args))
		}

		elem, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("atom: element: %w", err)
		}
		elem = bondlen.Normalize(elem)
		if elem == "" {
			return zygo.SexpNull, fmt.Errorf("atom: empty element symbol")
		}

		var pos r3.Vec
		switch p := args[1].(type) {
		case *sexpVec3:
			pos = p.vec
		case *sexpFrac:
			if sb.lattice == nil {
				return zygo.SexpNull, fmt.Errorf("atom %s: frac position requires a preceding (cell ...)", elem)
			}
			pos = sb.lattice.ToCartesian(p.vec)
		default:
			return zygo.SexpNull, fmt.Errorf("atom %s: expected vec3 or frac position, got %T (%s)",
				elem, args[1], args[1].SexpString(nil))
		}

		sb.atoms = append(sb.atoms, crystal.Atom{Element: elem, Position: pos})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (view :packed true :supercell (list 2 2 1) :bonds true
	//       :vdw-radius false :labels false :camera :z)
	// -----------------------------------------------------------------------
	env.AddFunction("view", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("view takes only keyword arguments")
		}
		o := &sb.overrides

		for key, dst := range map[string]**bool{
			"packed":     &o.PackedCell,
			"bonds":      &o.Bonds,
			"vdw-radius": &o.VDWRadius,
			"labels":     &o.AtomLabels,
		} {
			if err := kwBool("view", pa, key, dst); err != nil {
				return zygo.SexpNull, err
			}
		}

		if v, ok := pa.kw["supercell"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("view: supercell: %w", err)
			}
			if len(items) != 3 {
				return zygo.SexpNull, fmt.Errorf("view: supercell: expected 3 integers, got %d", len(items))
			}
			var n [3]int
			for i, item := range items {
				if n[i], err = toInt(item); err != nil {
					return zygo.SexpNull, fmt.Errorf("view: supercell: %w", err)
				}
			}
			e := supercell.Extent{NX: n[0], NY: n[1], NZ: n[2]}
			if err := e.Validate(); err != nil {
				return zygo.SexpNull, fmt.Errorf("view: %w", err)
			}
			o.Supercell = &e
		}

		if v, ok := pa.kw["camera"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("view: camera: %w", err)
			}
			a, err := view.ParseAxis(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("view: camera: %w", err)
			}
			o.Camera = &a
		}

		return zygo.SexpNull, nil
	})
}
