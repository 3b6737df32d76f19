// Package value holds the runtime values produced by the evaluator.
package value

import "strconv"

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBoolean
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "INTEGER"
	case KindBoolean:
		return "BOOLEAN"
	case KindNull:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// Value is implemented only by the types of this package.
type Value interface {
	Kind() Kind
	Inspect() string
	value()
}

type Integer struct {
	Value int64
}

type Boolean struct {
	Value bool
}

// Null is the result of an IF whose branch was not taken and that has no ELSE.
type Null struct{}

var (
	True  = &Boolean{Value: true}
	False = &Boolean{Value: false}
	NULL  = &Null{}
)

func (*Integer) value() {}
func (*Boolean) value() {}
func (*Null) value()    {}

func (*Integer) Kind() Kind { return KindInteger }
func (*Boolean) Kind() Kind { return KindBoolean }
func (*Null) Kind() Kind    { return KindNull }

func (i *Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

func (b *Boolean) Inspect() string {
	if b.Value {
		return "TRUE"
	}

	return "FALSE"
}

func (*Null) Inspect() string { return "NULL" }

// NativeBool maps a Go boolean onto the shared singletons.
func NativeBool(b bool) *Boolean {
	if b {
		return True
	}

	return False
}

// IsTruthy reports how a value behaves as a condition.
// Only NULL and FALSE are false; every integer, 0 included, is true.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case *Null:
		return false
	case *Boolean:
		return v.Value
	default:
		return true
	}
}
