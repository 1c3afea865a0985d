package mapper_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"configbean/bean"
	"configbean/internal/diagnostic"
	"configbean/mapper"
	"configbean/options"
	"configbean/raw"
)

func mapTo[T any](t *testing.T, m *mapper.Mapper, value any) (mapper.Result, *mapper.ErrorRecorder) {
	t.Helper()

	errs := mapper.NewErrorRecorder()
	res, err := m.Map(value, reflect.TypeFor[T](), errs)
	require.NoError(t, err)

	return res, errs
}

func TestMapper_PartialDefaultScenario(t *testing.T) {
	m := mapper.MustNew(mapper.WithLogger(zaptest.NewLogger(t)))

	res, errs := mapTo[Person](t, m, rawMap(
		"name", "A",
		"nicknames", []any{"x", "y"},
		"home", nil,
	))

	require.True(t, res.Ok())
	assert.Equal(t, Person{Name: "A", Nicknames: []string{"x", "y"}}, res.Interface())

	assert.False(t, errs.IsFullyValid())
	require.Len(t, errs.Errors(), 1)
	assert.Contains(t, errs.Errors()[0], "home")
	assert.Equal(t, []string{"home"}, errs.Fallbacks())
}

func TestMapper_NullDefaultAbortsBean(t *testing.T) {
	m := mapper.MustNew()

	// Nicknames defaults to a nil slice, so the whole person falls back one level up.
	res, errs := mapTo[Person](t, m, rawMap("name", "A"))
	assert.False(t, res.Ok())
	assert.Equal(t, mapper.OutcomeUseDefault, res.Outcome)
	assert.True(t, errs.IsFullyValid())

	res, _ = mapTo[Person](t, m, nil)
	assert.Equal(t, mapper.OutcomeOmit, res.Outcome)
}

func TestMapper_ZeroScalarDefaultsKeepBean(t *testing.T) {
	type Worker struct {
		Name    string
		Enabled bool
		Retries int
		Wait    time.Duration
	}

	tests := []struct {
		name      string
		value     any
		want      Worker
		fallbacks []string
	}{
		{"missing bool", rawMap("name", "w", "retries", 3, "wait", "1s"), Worker{Name: "w", Retries: 3, Wait: time.Second}, []string{"enabled"}},
		{"missing int", rawMap("name", "w", "enabled", true, "wait", "1s"), Worker{Name: "w", Enabled: true, Wait: time.Second}, []string{"retries"}},
		{"missing duration", rawMap("name", "w", "enabled", true, "retries", 3), Worker{Name: "w", Enabled: true, Retries: 3}, []string{"wait"}},
		{"missing string", rawMap("enabled", true, "retries", 3, "wait", "1s"), Worker{Enabled: true, Retries: 3, Wait: time.Second}, []string{"name"}},
		{"empty mapping", rawMap(), Worker{}, []string{"name", "enabled", "retries", "wait"}},
	}

	m := mapper.MustNew()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, errs := mapTo[Worker](t, m, tt.value)
			require.True(t, res.Ok())
			assert.Equal(t, tt.want, res.Interface())
			assert.False(t, errs.IsFullyValid())
			assert.Equal(t, tt.fallbacks, errs.Fallbacks())
		})
	}
}

func TestMapper_RecordNullStrictness(t *testing.T) {
	r := bean.NewRegistry().MustRegisterRecord(NewPoint)
	m := mapper.MustNew(mapper.WithRegistry(r))
	assert.Same(t, r, m.Registry())

	res, _ := mapTo[Point](t, m, rawMap("x", 1))
	assert.False(t, res.Ok())

	res, _ = mapTo[Point](t, m, rawMap("x", 1, "y", 2))
	require.True(t, res.Ok())
	assert.Equal(t, NewPoint(1, 2), res.Interface())

	// a record that cannot be built leaves the nil default of Origin, which aborts Shape
	res, _ = mapTo[Shape](t, m, rawMap("name", "s", "origin", rawMap("y", 2)))
	assert.False(t, res.Ok())

	res, _ = mapTo[Shape](t, m, rawMap("name", "s", "origin", rawMap("x", 3, "y", 4)))
	require.True(t, res.Ok())
	shape := res.Interface().(Shape)
	assert.Equal(t, NewPoint(3, 4), *shape.Origin)
}

func TestMapper_Transformers(t *testing.T) {
	type Label string

	tests := []struct {
		name   string
		value  any
		target reflect.Type
		want   any
	}{
		{"identity", "text", reflect.TypeFor[string](), "text"},
		{"int to string", 42, reflect.TypeFor[string](), "42"},
		{"bool to string", true, reflect.TypeFor[string](), "true"},
		{"enum to string", Blue, reflect.TypeFor[string](), "BLUE"},
		{"named string", "x", reflect.TypeFor[Label](), Label("x")},
		{"enum by name", "green", reflect.TypeFor[Color](), Green},
		{"widening", 7, reflect.TypeFor[float64](), 7.0},
		{"safe narrowing", 100, reflect.TypeFor[int8](), int8(100)},
		{"lossy narrowing wraps", 300, reflect.TypeFor[int8](), int8(44)},
		{"float truncates", 2.9, reflect.TypeFor[int](), 2},
		{"duration text", "1m30s", reflect.TypeFor[time.Duration](), 90 * time.Second},
		{"datetime text", "2024-05-01T10:00:00Z", reflect.TypeFor[time.Time](), time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"empty interface", 12, reflect.TypeFor[any](), 12},
		{"pointer target", 5, reflect.TypeFor[*int](), ptr(5)},
	}

	m := mapper.MustNew()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mapper.NewErrorRecorder()
			res, err := m.Map(tt.value, tt.target, errs)
			require.NoError(t, err)
			require.True(t, res.Ok(), "no value for %v", tt.value)
			assert.Equal(t, tt.want, res.Interface())
			assert.True(t, errs.IsFullyValid())
		})
	}
}

func TestMapper_SoftFailures(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		target reflect.Type
	}{
		{"unknown enum", "purple", reflect.TypeFor[Color]()},
		{"text number not enabled", "12", reflect.TypeFor[int]()},
		{"list into string", []any{"a"}, reflect.TypeFor[string]()},
		{"scalar into list", "a", reflect.TypeFor[[]string]()},
		{"scalar into map", 3, reflect.TypeFor[map[string]int]()},
		{"scalar into bean", "x", reflect.TypeFor[Location]()},
		{"bad duration", "soon", reflect.TypeFor[time.Duration]()},
	}

	m := mapper.MustNew()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := mapper.NewErrorRecorder()
			res, err := m.Map(tt.value, tt.target, errs)
			require.NoError(t, err)
			assert.Equal(t, mapper.OutcomeUseDefault, res.Outcome)
			assert.Nil(t, res.Interface())

			// a soft failure is a warning; the caller decides about the default
			assert.True(t, errs.IsFullyValid())
			assert.Len(t, errs.Diagnostics().Warnings, 1)
		})
	}
}

func TestMapper_Categories(t *testing.T) {
	safe := mapper.MustNew(mapper.WithCategories(options.CategorySafeNumber | options.CategorySafeArray))

	res, _ := mapTo[int8](t, safe, 300)
	assert.False(t, res.Ok())

	res, _ = mapTo[int8](t, safe, 100)
	assert.Equal(t, int8(100), res.Interface())

	text := mapper.MustNew(mapper.WithCategories(options.CategoryDefault | options.CategoryTextNumber | options.CategoryTextualBool))

	res, _ = mapTo[int](t, text, " 12 ")
	assert.Equal(t, 12, res.Interface())

	res, _ = mapTo[bool](t, text, "yes")
	assert.Equal(t, true, res.Interface())
}

func TestMapper_Collections(t *testing.T) {
	m := mapper.MustNew()

	res, errs := mapTo[map[string]struct{}](t, m, []any{"b", "a", "b"})
	assert.Equal(t, map[string]struct{}{"a": {}, "b": {}}, res.Interface())
	assert.True(t, errs.IsFullyValid())

	res, _ = mapTo[[2]int](t, m, []any{1, 2})
	assert.Equal(t, [2]int{1, 2}, res.Interface())

	res, _ = mapTo[[2]int](t, m, []any{1})
	assert.Equal(t, [2]int{1, 0}, res.Interface())

	res, errs = mapTo[[2]int](t, m, []any{1, 2, 3})
	assert.False(t, res.Ok())
	assert.True(t, errs.IsFullyValid())

	unsafe := mapper.MustNew(mapper.WithCategories(options.CategoryDefault | options.CategoryUnsafeArray))
	res, errs = mapTo[[2]int](t, unsafe, []any{1, 2, 3})
	assert.Equal(t, [2]int{1, 2}, res.Interface())
	assert.False(t, errs.IsFullyValid())

	noArrays := mapper.MustNew(mapper.WithCategories(options.CategorySafeNumber))
	_, err := noArrays.Map([]any{1}, reflect.TypeFor[[1]int](), nil)
	require.ErrorIs(t, err, mapper.ErrUnsupportedType)
}

func TestMapper_CollectionElementErrors(t *testing.T) {
	m := mapper.MustNew()

	res, errs := mapTo[[]string](t, m, []any{"a", nil, "b"})
	assert.Equal(t, []string{"a", "b"}, res.Interface())
	assert.False(t, errs.IsFullyValid())

	diags := errs.Diagnostics()
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeNullElement, diags.Errors[0].Code)
	assert.Equal(t, "[1]", diags.Errors[0].Path)

	res, errs = mapTo[[]int](t, m, []any{1, []any{}, 3})
	assert.Equal(t, []int{1, 3}, res.Interface())
	assert.False(t, errs.IsFullyValid())
	assert.Equal(t, diagnostic.CodeInvalidValue, errs.Diagnostics().Errors[0].Code)

	res, _ = mapTo[[]string](t, m, []any{})
	assert.Equal(t, []string{}, res.Interface())
}

func TestMapper_Maps(t *testing.T) {
	m := mapper.MustNew()

	res, errs := mapTo[map[string]int](t, m, rawMap("b", 1, "a", 2))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, res.Interface())
	assert.True(t, errs.IsFullyValid())

	res, errs = mapTo[map[string]int](t, m, rawMap("a", 1, "b", nil))
	assert.Equal(t, map[string]int{"a": 1}, res.Interface())
	assert.False(t, errs.IsFullyValid())
	assert.Equal(t, diagnostic.CodeNullEntry, errs.Diagnostics().Errors[0].Code)
	assert.Equal(t, "[k=b]", errs.Diagnostics().Errors[0].Path)

	res, errs = mapTo[map[Level]int](t, m, rawMap("INFO", 1, "trace", 2))
	assert.Equal(t, map[Level]int{LevelInfo: 1}, res.Interface())
	assert.False(t, errs.IsFullyValid())

	res, _ = mapTo[map[string]int](t, m, map[string]any{"plain": 3})
	assert.Equal(t, map[string]int{"plain": 3}, res.Interface())

	_, err := m.Map(rawMap("1", "x"), reflect.TypeFor[map[int]string](), nil)
	require.ErrorIs(t, err, mapper.ErrUnsupportedType)
}

func TestMapper_FatalErrors(t *testing.T) {
	type WithStringer struct {
		Name  string
		Label fmt.Stringer
	}

	type Clash struct {
		A int `bean:"same"`
		B int `bean:"same"`
	}

	m := mapper.MustNew()

	_, err := m.Map("x", reflect.TypeFor[chan int](), nil)
	require.ErrorIs(t, err, mapper.ErrUnresolvableType)

	_, err = m.Map(rawMap("name", "n", "label", "x"), reflect.TypeFor[WithStringer](), nil)
	require.ErrorIs(t, err, mapper.ErrUnresolvableType)
	assert.Contains(t, err.Error(), `"label"`)

	_, err = m.Map(rawMap("same", 1), reflect.TypeFor[Clash](), nil)
	require.ErrorIs(t, err, bean.ErrDuplicateProperty)

	_, err = m.Map(map[any]any{1: "x"}, reflect.TypeFor[map[string]string](), nil)
	require.ErrorIs(t, err, mapper.ErrMapKeyType)
	assert.Contains(t, err.Error(), "Map keys may only be of String type")
}

func TestMapper_Casters(t *testing.T) {
	m, err := mapper.New(mapper.WithCaster(parseAddr))
	require.NoError(t, err)

	res, errs := mapTo[Service](t, m, rawMap("name", "api", "listen", "localhost:8080"))
	assert.Equal(t, Service{Name: "api", Listen: Addr{Host: "localhost", Port: 8080}}, res.Interface())
	assert.True(t, errs.IsFullyValid())

	res, _ = mapTo[Service](t, m, rawMap("name", "api", "listen", rawMap("host", "h", "port", 1)))
	assert.Equal(t, Service{Name: "api", Listen: Addr{Host: "h", Port: 1}}, res.Interface())

	// false from the caster means "not applicable": the default Addr is kept
	res, errs = mapTo[Service](t, m, rawMap("name", "api", "listen", "no-port"))
	assert.Equal(t, Service{Name: "api"}, res.Interface())
	assert.Equal(t, []string{"listen"}, errs.Fallbacks())

	_, err = m.Map(rawMap("name", "api", "listen", "h:x"), reflect.TypeFor[Service](), nil)
	require.ErrorIs(t, err, mapper.ErrCaster)
	require.ErrorIs(t, err, errBadAddr)

	_, err = mapper.New(mapper.WithCaster(42))
	require.Error(t, err)
}

func TestMapper_UnknownKeys(t *testing.T) {
	m := mapper.MustNew()

	res, errs := mapTo[Limits](t, m, rawMap("maxConns", 5, "timeout", "1s", "maxConn", 1))
	assert.Equal(t, Limits{MaxConns: 5, Timeout: time.Second}, res.Interface())
	assert.True(t, errs.IsFullyValid())

	infos := errs.Diagnostics().Infos
	require.Len(t, infos, 1)
	assert.Equal(t, diagnostic.CodeUnknownKey, infos[0].Code)
	assert.Equal(t, "maxConn", infos[0].Path)
	assert.Equal(t, []string{"maxConns"}, infos[0].Suggestions)
}

func TestMapper_ReaderEntryPoints(t *testing.T) {
	m := mapper.MustNew()
	reader := mapReader{root: rawMap("server", rawMap("limits", rawMap("maxConns", 8, "timeout", "5s")))}

	limits, ok, err := mapper.Convert[Limits](m, reader, "server.limits", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Limits{MaxConns: 8, Timeout: 5 * time.Second}, limits)

	_, ok, err = mapper.Convert[Limits](m, reader, "server.missing", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := m.ConvertToBean(reader, "server.limits", reflect.TypeFor[*Limits](), nil)
	require.NoError(t, err)
	assert.Equal(t, &Limits{MaxConns: 8, Timeout: 5 * time.Second}, got)

	got, err = m.ConvertToBean(reader, "nowhere", reflect.TypeFor[Limits](), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMapper_CommentedInputIsUnwrapped(t *testing.T) {
	m := mapper.MustNew()

	res, _ := mapTo[int](t, m, raw.Commented{Value: 3, Comments: []string{"ignored"}})
	assert.Equal(t, 3, res.Interface())
}

func TestMapper_ConcurrentUse(t *testing.T) {
	m := mapper.MustNew()

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			errs := mapper.NewErrorRecorder()
			res, err := m.Map(rawMap("name", fmt.Sprint(i), "nicknames", []any{"n"}), reflect.TypeFor[Person](), errs)
			if err != nil {
				return err
			}

			want := Person{Name: fmt.Sprint(i), Nicknames: []string{"n"}}
			if !reflect.DeepEqual(want, res.Interface()) {
				return fmt.Errorf("worker %d: got %#v", i, res.Interface())
			}
			if len(errs.Fallbacks()) != 1 {
				return fmt.Errorf("worker %d: fallbacks %v", i, errs.Fallbacks())
			}
			return nil
		})
	}

	require.NoError(t, g.Wait())
}

func TestMapper_LogsSoftFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := mapper.MustNew(mapper.WithLogger(zap.New(core)))

	_, _ = mapTo[int](t, m, "not a number")

	entries := logs.FilterMessage("value not convertible").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "", entries[0].ContextMap()["path"])
	assert.Contains(t, entries[0].ContextMap()["raw"], "not a number")
}

func ptr[T any](v T) *T {
	return &v
}
