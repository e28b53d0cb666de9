// Package factorgraph implements Gaussian message passing over a graph of
// variables and factors. A graph is built for a single computation and thrown
// away afterwards; nothing in here is safe for concurrent use.
package factorgraph

import (
	"fmt"

	"github.com/openmohaa/rating-api/internal/numerics"
)

// VarID is a stable index into a Variables arena.
type VarID int

// Variable is a belief node. Its value is the product of every message its
// incident factors have sent to it.
type Variable struct {
	Label string
	Value numerics.Gaussian
}

// Variables owns every variable of one graph. Factors refer to variables by
// VarID and only change them through their own message updates.
type Variables struct {
	vars []Variable
}

// New adds a uniform variable and returns its id.
func (vs *Variables) New(format string, args ...any) VarID {
	vs.vars = append(vs.vars, Variable{Label: fmt.Sprintf(format, args...), Value: numerics.Uniform})
	return VarID(len(vs.vars) - 1)
}

func (vs *Variables) Value(id VarID) numerics.Gaussian {
	return vs.vars[id].Value
}

func (vs *Variables) Label(id VarID) string {
	return vs.vars[id].Label
}

func (vs *Variables) Len() int {
	return len(vs.vars)
}

// ResetAll puts every variable back to the uniform belief.
func (vs *Variables) ResetAll() {
	for i := range vs.vars {
		vs.vars[i].Value = numerics.Uniform
	}
}
