package primitive

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"configbean/options"
	"configbean/utils"
)

// Convert converts the scalar v into a value of type to. It reports false when
// either side is not a scalar or when no category enabled in allowed covers the
// pair. Convert never panics on user data.
func Convert(v reflect.Value, to reflect.Type, allowed options.CategoryEnum) (reflect.Value, bool) {
	if !v.IsValid() || to == nil {
		return reflect.Value{}, false
	}

	from, dst := FromReflectType(v.Type()), FromReflectType(to)
	if from == 0 || dst == 0 {
		return reflect.Value{}, false
	}

	if from.IsNumber() && dst.IsNumber() {
		return convertNumber(v, to, from, dst, allowed)
	}

	if !Allowed(from, dst, allowed) {
		return reflect.Value{}, false
	}

	out := reflect.New(to).Elem()

	switch {
	case from == KindString && dst.IsNumber():
		if !parseNumber(v.String(), out, dst) {
			return reflect.Value{}, false
		}

	case from.IsInteger() && dst == KindBool:
		out.SetBool(asInt64(v, from) != 0)

	case from == KindBool && dst.IsInteger():
		var n int64
		if v.Bool() {
			n = 1
		}
		setInteger(out, dst, n)

	case from == KindString && dst == KindBool:
		b, ok := parseBool(v.String())
		if !ok {
			return reflect.Value{}, false
		}
		out.SetBool(b)

	case from == KindString && dst == KindTime:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
		if err != nil {
			return reflect.Value{}, false
		}
		out.Set(reflect.ValueOf(t))

	case from.IsInteger() && dst == KindTime:
		out.Set(reflect.ValueOf(time.Unix(asInt64(v, from), 0).UTC()))

	case from == KindString && dst == KindDuration:
		d, err := time.ParseDuration(strings.TrimSpace(v.String()))
		if err != nil {
			return reflect.Value{}, false
		}
		out.SetInt(int64(d))

	case from.IsInteger() && dst == KindDuration:
		out.SetInt(asInt64(v, from))

	case from.IsFloat() && dst == KindDuration:
		out.SetInt(int64(v.Float() * float64(time.Second)))

	default:
		return reflect.Value{}, false
	}

	return out, true
}

// convertNumber converts between two number kinds. The conversion is safe when
// the value survives it unchanged; anything else needs CategoryUnsafeNumber and
// follows Go conversion rules, except float to integer which saturates.
func convertNumber(v reflect.Value, to reflect.Type, from, dst KindEnum, allowed options.CategoryEnum) (reflect.Value, bool) {
	out := reflect.New(to).Elem()
	exact := assignNumber(out, v, from, dst)

	if IsSafeNumber(from, dst) {
		exact = true
	}

	switch {
	case exact && allowed.Has(options.CategorySafeNumber):
		return out, true
	case allowed.Has(options.CategoryUnsafeNumber):
		return out, true
	default:
		return reflect.Value{}, false
	}
}

// assignNumber stores v into out and reports whether no information was lost.
func assignNumber(out, v reflect.Value, from, dst KindEnum) bool {
	switch {
	case dst.IsSigned():
		switch {
		case from.IsSigned():
			n := v.Int()
			out.SetInt(n)
			return out.Int() == n
		case from.IsUnsigned():
			u := v.Uint()
			out.SetInt(int64(u))
			return utils.IsInRange(0, u, math.MaxInt64) && !out.OverflowInt(int64(u))
		default:
			f := v.Float()
			n := saturateSigned(f, dst.Bits())
			out.SetInt(n)
			return float64(n) == f && math.Abs(f) < math.Ldexp(1, dst.Bits()-1)
		}

	case dst.IsUnsigned():
		switch {
		case from.IsSigned():
			n := v.Int()
			out.SetUint(uint64(n))
			return n >= 0 && !out.OverflowUint(uint64(n))
		case from.IsUnsigned():
			u := v.Uint()
			out.SetUint(u)
			return out.Uint() == u
		default:
			f := v.Float()
			u := saturateUnsigned(f, dst.Bits())
			out.SetUint(u)
			return float64(u) == f && f < math.Ldexp(1, dst.Bits())
		}

	default:
		switch {
		case from.IsSigned():
			n := v.Int()
			out.SetFloat(float64(n))
			f := out.Float()
			return f < math.Ldexp(1, 63) && int64(f) == n
		case from.IsUnsigned():
			u := v.Uint()
			out.SetFloat(float64(u))
			f := out.Float()
			return f < math.Ldexp(1, 64) && uint64(f) == u
		default:
			f := v.Float()
			out.SetFloat(f)
			return math.IsNaN(f) || out.Float() == f
		}
	}
}

func saturateSigned(f float64, bits int) int64 {
	hi := math.Ldexp(1, bits-1)
	limit := int64(1)<<(bits-1) - 1
	switch {
	case math.IsNaN(f):
		return 0
	case f >= hi:
		return limit
	case f < -hi:
		return -limit - 1
	default:
		return int64(f)
	}
}

func saturateUnsigned(f float64, bits int) uint64 {
	hi := math.Ldexp(1, bits)
	limit := uint64(math.MaxUint64)
	if bits < 64 {
		limit = uint64(1)<<bits - 1
	}
	switch {
	case math.IsNaN(f), f <= 0:
		return 0
	case f >= hi:
		return limit
	default:
		return uint64(f)
	}
}

func asInt64(v reflect.Value, kind KindEnum) int64 {
	if kind.IsUnsigned() {
		return int64(v.Uint())
	}

	return v.Int()
}

func setInteger(out reflect.Value, kind KindEnum, n int64) {
	if kind.IsUnsigned() {
		out.SetUint(uint64(n))
		return
	}

	out.SetInt(n)
}

func parseNumber(s string, out reflect.Value, dst KindEnum) bool {
	s = strings.TrimSpace(s)

	switch {
	case dst.IsSigned():
		n, err := strconv.ParseInt(s, 10, dst.Bits())
		if err != nil {
			return false
		}
		out.SetInt(n)
	case dst.IsUnsigned():
		u, err := strconv.ParseUint(s, 10, dst.Bits())
		if err != nil {
			return false
		}
		out.SetUint(u)
	default:
		f, err := strconv.ParseFloat(s, dst.Bits())
		if err != nil {
			return false
		}
		out.SetFloat(f)
	}

	return true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "y", "1":
		return true, true
	case "false", "no", "off", "n", "0":
		return false, true
	default:
		return false, false
	}
}
