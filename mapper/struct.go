package mapper

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"configbean/internal/diagnostic"
	"configbean/internal/match"
	"configbean/node"
	"configbean/raw"
)

const (
	suggestionThreshold = 0.6
	suggestionLimit     = 3
)

// convertBean rebuilds a struct from a mapping, one property at a time, and
// lets the bean definition decide what a missing property means.
func (m *Mapper) convertBean(ctx *MappingContext, class reflect.Type, value any) (Result, error) {
	def, ok, err := m.registry.Lookup(class)
	if err != nil {
		return Result{}, fmt.Errorf("bean %s at %q: %w", class, ctx.Path(), err)
	}

	if !ok {
		m.softFailure(ctx, value, fmt.Sprintf("%s is not a bean", class))
		return UseDefault(), nil
	}

	entries, ok := raw.Entries(value)
	if !ok {
		m.softFailure(ctx, value, fmt.Sprintf("expected a mapping, got %s", describe(value)))
		return UseDefault(), nil
	}

	rawProps := make(map[string]any, len(entries))
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if k, ok := e.Key.(string); ok {
			rawProps[k] = e.Value
			keys = append(keys, k)
		}
	}

	props := def.Properties()
	values := make([]reflect.Value, len(props))
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name

		res, err := m.convert(ctx.Child(p.Name, node.TypeOf(p.Type)), rawProps[p.Name])
		if err != nil {
			return Result{}, err
		}

		if res.Ok() {
			values[i] = res.Value
		}
	}

	m.noteUnknownKeys(ctx, keys, names)

	obj, err := def.Create(values, ctx.Path(), ctx.Errors())
	if err != nil {
		return Result{}, fmt.Errorf("bean %s at %q: %w", class, ctx.Path(), err)
	}

	if !obj.IsValid() {
		m.logger.Debug("bean not constructible from resource",
			zap.String("path", ctx.Path()),
			zap.Stringer("type", class),
			zap.String("strategy", string(def.Strategy())))
		return UseDefault(), nil
	}

	return Value(obj), nil
}

// noteUnknownKeys records keys that match no property, with spelling suggestions.
func (m *Mapper) noteUnknownKeys(ctx *MappingContext, keys, names []string) {
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	for _, k := range keys {
		if _, ok := known[k]; ok {
			continue
		}

		suggestions := match.Suggest(k, names, suggestionThreshold, suggestionLimit)
		ctx.note(diagnostic.CodeUnknownKey, fmt.Sprintf("unknown key %q", k), joinPath(ctx.Path(), k), suggestions)
		m.logger.Debug("unknown key", zap.String("path", joinPath(ctx.Path(), k)), zap.Strings("suggestions", suggestions))
	}
}
