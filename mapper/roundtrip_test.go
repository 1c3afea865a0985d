package mapper_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"configbean/mapper"
)

func checkRoundTrip[T any](rt *rapid.T, m *mapper.Mapper, v T, opts ...cmp.Option) {
	exported, err := m.ToExportValue(v)
	if err != nil {
		rt.Fatalf("export %v: %v", v, err)
	}

	errs := mapper.NewErrorRecorder()
	res, err := m.Map(exported, reflect.TypeFor[T](), errs)
	if err != nil {
		rt.Fatalf("import %v: %v", exported, err)
	}

	if !res.Ok() {
		rt.Fatalf("import %v (%T) into %T: no value", exported, exported, v)
	}

	if diff := cmp.Diff(v, res.Value.Interface().(T), opts...); diff != "" {
		rt.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	if !errs.IsFullyValid() {
		rt.Fatalf("round trip recorded errors: %v", errs.Errors())
	}
}

func TestRoundTrip_Scalars(t *testing.T) {
	m := mapper.MustNew()

	rapid.Check(t, func(rt *rapid.T) {
		checkRoundTrip(rt, m, rapid.Int().Draw(rt, "int"))
		checkRoundTrip(rt, m, rapid.Int8().Draw(rt, "int8"))
		checkRoundTrip(rt, m, rapid.Uint16().Draw(rt, "uint16"))
		checkRoundTrip(rt, m, rapid.Uint64().Draw(rt, "uint64"))
		checkRoundTrip(rt, m, rapid.Float64Range(-1e12, 1e12).Draw(rt, "float64"))
		checkRoundTrip(rt, m, rapid.String().Draw(rt, "string"))
		checkRoundTrip(rt, m, rapid.Bool().Draw(rt, "bool"))
		checkRoundTrip(rt, m, time.Duration(rapid.Int64Range(-1<<62, 1<<62).Draw(rt, "duration")))
		checkRoundTrip(rt, m, rapid.SampledFrom([]Color{Red, Green, Blue}).Draw(rt, "color"))
		checkRoundTrip(rt, m, rapid.SampledFrom([]Level{LevelDebug, LevelInfo}).Draw(rt, "level"))
	})
}

func TestRoundTrip_CollectionOrder(t *testing.T) {
	m := mapper.MustNew()

	rapid.Check(t, func(rt *rapid.T) {
		in := rapid.SliceOfN(rapid.String(), 1, 50).Draw(rt, "list")

		exported, err := m.ToExportValue(in)
		if err != nil {
			rt.Fatal(err)
		}

		list := exported.([]any)
		if len(list) != len(in) {
			rt.Fatalf("exported %d elements, want %d", len(list), len(in))
		}

		for i := range in {
			if list[i] != in[i] {
				rt.Fatalf("element %d: got %v, want %v", i, list[i], in[i])
			}
		}

		checkRoundTrip(rt, m, in)
		checkRoundTrip(rt, m, rapid.SliceOfN(rapid.Int(), 1, 50).Draw(rt, "ints"))
	})
}

func TestRoundTrip_Bean(t *testing.T) {
	m := mapper.MustNew()
	require.NoError(t, m.Registry().RegisterRecord(NewPoint))

	rapid.Check(t, func(rt *rapid.T) {
		s := Settings{
			Title:    rapid.StringMatching(`[a-z]{1,12}`).Draw(rt, "title"),
			Color:    rapid.SampledFrom([]Color{Red, Green, Blue}).Draw(rt, "color"),
			Tags:     map[string]struct{}{},
			Weights:  rapid.MapOfN(rapid.StringMatching(`[a-z]{1,8}`), rapid.Float64Range(0, 10), 1, 5).Draw(rt, "weights"),
			Backends: []*Location{{City: rapid.StringMatching(`[A-Z][a-z]{1,8}`).Draw(rt, "city"), Zip: "0000"}},
			Limits: Limits{
				MaxConns: rapid.IntRange(1, 1000).Draw(rt, "maxConns"),
				Timeout:  time.Duration(rapid.IntRange(1, 3600).Draw(rt, "seconds")) * time.Second,
			},
			Ports: [2]int{rapid.IntRange(1, 65535).Draw(rt, "p1"), rapid.IntRange(1, 65535).Draw(rt, "p2")},
			Extra: rapid.StringMatching(`[a-z]{1,5}`).Draw(rt, "extra"),
		}

		for _, tag := range rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 1, 4).Draw(rt, "tags") {
			s.Tags[tag] = struct{}{}
		}

		checkRoundTrip(rt, m, s)
		checkRoundTrip(rt, m, Shape{Name: s.Title, Origin: ptr(NewPoint(s.Ports[0], s.Ports[1]))}, cmp.AllowUnexported(Point{}))
	})
}

func TestProperty_MapKeysMustBeStrings(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	m := mapper.MustNew()
	targets := []reflect.Type{
		reflect.TypeFor[map[string]string](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[map[string][]string](),
	}

	properties.Property("non-string keys are rejected naming String type", prop.ForAll(
		func(key any, target int) bool {
			_, err := m.Map(map[any]any{key: "1"}, targets[target], nil)
			return errors.Is(err, mapper.ErrMapKeyType) && strings.Contains(err.Error(), "String type")
		},
		gen.OneConstOf(1, -7, int64(42), uint8(3), 2.5, true, false),
		gen.IntRange(0, len(targets)-1),
	))

	properties.Property("string keys are accepted", prop.ForAll(
		func(key string) bool {
			res, err := m.Map(map[any]any{key: 1}, reflect.TypeFor[map[string]int](), nil)
			return err == nil && res.Ok() && res.Interface().(map[string]int)[key] == 1
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
