// Package harness runs the external PIR benchmark binaries.
package harness

import (
	"strconv"
	"strings"
)

// Param is a single name=value argument passed to a benchmark binary.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered set of benchmark arguments identifying one run.
// Values are never modified after construction; builder methods return
// a new Params.
type Params []Param

// WithInt returns p extended with name=value.
func (p Params) WithInt(name string, value int) Params {
	return p.With(name, strconv.Itoa(value))
}

// With returns p extended with name=value.
func (p Params) With(name, value string) Params {
	out := make(Params, len(p), len(p)+1)
	copy(out, p)

	return append(out, Param{Name: name, Value: value})
}

// Args renders the parameters as argv entries.
func (p Params) Args() []string {
	args := make([]string, len(p))
	for i, kv := range p {
		args[i] = kv.Name + "=" + kv.Value
	}

	return args
}

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	for _, kv := range p {
		if kv.Name == name {
			return kv.Value, true
		}
	}

	return "", false
}

// String renders the parameters as a single space separated string,
// e.g. "logN=24 mode=single8 reps=10".
func (p Params) String() string {
	return strings.Join(p.Args(), " ")
}
