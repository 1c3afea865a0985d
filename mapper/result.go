package mapper

import "reflect"

// Outcome tells how a conversion ended.
type Outcome int

const (
	// OutcomeUseDefault means the raw value was present but unusable.
	OutcomeUseDefault Outcome = iota
	// OutcomeValue means the conversion produced a value.
	OutcomeValue
	// OutcomeOmit means there was no raw value at all.
	OutcomeOmit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeValue:
		return "value"
	case OutcomeOmit:
		return "omit"
	default:
		return "use-default"
	}
}

// Result is the outcome of one conversion step.
type Result struct {
	Outcome Outcome
	Value   reflect.Value
}

// Value wraps a converted value.
func Value(v reflect.Value) Result {
	return Result{Outcome: OutcomeValue, Value: v}
}

// UseDefault reports an unusable raw value.
func UseDefault() Result {
	return Result{Outcome: OutcomeUseDefault}
}

// Omit reports a missing raw value.
func Omit() Result {
	return Result{Outcome: OutcomeOmit}
}

// Ok reports whether the result carries a value.
func (r Result) Ok() bool {
	return r.Outcome == OutcomeValue && r.Value.IsValid()
}

// Interface returns the value as any, or nil when there is none.
func (r Result) Interface() any {
	if !r.Ok() {
		return nil
	}

	return r.Value.Interface()
}
