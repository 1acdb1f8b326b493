package stencil

import "math"

// Reduce selects the nonlinear function applied to each row's dot
// product in a GeneralizedStencil before the rows are summed.
//
// The set is closed: each tag carries the identifier emitted into
// kernel source (an OpenCL builtin name) and the host reference
// implementation used by tests and the host backend.
type Reduce int

const (
	// Identity applies no transform: rows are summed directly.
	Identity Reduce = iota
	Sin
	Cos
	Tan
	Sinh
	Cosh
	Tanh
	Exp
	Log
	Sqrt
	Cbrt
	Erf
	Abs
	Floor
	Ceil
	Round
)

// reduceEntry ties a Reduce tag to its kernel identifier and host
// implementation.
type reduceEntry struct {
	ident string
	host  func(float64) float64
}

var reduceTable = map[Reduce]reduceEntry{
	Identity: {"identity", func(v float64) float64 { return v }},
	Sin:      {"sin", math.Sin},
	Cos:      {"cos", math.Cos},
	Tan:      {"tan", math.Tan},
	Sinh:     {"sinh", math.Sinh},
	Cosh:     {"cosh", math.Cosh},
	Tanh:     {"tanh", math.Tanh},
	Exp:      {"exp", math.Exp},
	Log:      {"log", math.Log},
	Sqrt:     {"sqrt", math.Sqrt},
	Cbrt:     {"cbrt", math.Cbrt},
	Erf:      {"erf", math.Erf},
	Abs:      {"fabs", math.Abs},
	Floor:    {"floor", math.Floor},
	Ceil:     {"ceil", math.Ceil},
	Round:    {"round", math.Round},
}

// Valid reports whether r is a registered reduction tag.
func (r Reduce) Valid() bool {
	_, ok := reduceTable[r]
	return ok
}

// String returns the kernel identifier of the tag, or "invalid".
func (r Reduce) String() string {
	if e, ok := reduceTable[r]; ok {
		return e.ident
	}
	return "invalid"
}

// Func returns the host implementation of the reduction, useful for
// reference computations. It returns nil for invalid tags.
func (r Reduce) Func() func(float64) float64 {
	if e, ok := reduceTable[r]; ok {
		return e.host
	}
	return nil
}

// fragment returns the text wrapped around a row sum in generated
// kernel source: "sin(scol)" for Sin, plain "(scol)" for Identity.
func (r Reduce) fragment(arg string) string {
	if r == Identity {
		return "(" + arg + ")"
	}
	return reduceTable[r].ident + "(" + arg + ")"
}
