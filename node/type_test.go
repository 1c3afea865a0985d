package node_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"configbean/node"
)

type location struct {
	City string
}

func TestTypeOf_Shape(t *testing.T) {
	tests := []struct {
		name     string
		typ      reflect.Type
		shape    node.ShapeEnum
		resolved bool
	}{
		{"string", reflect.TypeFor[string](), node.ShapeScalar, true},
		{"pointer to int", reflect.TypeFor[**int](), node.ShapeScalar, true},
		{"time is a leaf", reflect.TypeFor[time.Time](), node.ShapeScalar, true},
		{"slice", reflect.TypeFor[[]string](), node.ShapeCollection, true},
		{"array", reflect.TypeFor[[3]int](), node.ShapeCollection, true},
		{"set", reflect.TypeFor[map[string]struct{}](), node.ShapeCollection, true},
		{"map", reflect.TypeFor[map[string]int](), node.ShapeMap, true},
		{"struct", reflect.TypeFor[location](), node.ShapeBean, true},
		{"pointer to struct", reflect.TypeFor[*location](), node.ShapeBean, true},
		{"empty interface", reflect.TypeFor[any](), node.ShapeInterface, true},
		{"non-empty interface", reflect.TypeFor[fmt.Stringer](), node.ShapeUnknown, false},
		{"channel", reflect.TypeFor[chan int](), node.ShapeUnknown, false},
		{"complex", reflect.TypeFor[complex64](), node.ShapeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := node.TypeOf(tt.typ)
			_, ok := desc.Class()
			assert.Equal(t, tt.resolved, ok)
			assert.Equal(t, tt.shape, desc.Shape())
		})
	}
}

func TestType_Arg(t *testing.T) {
	desc := node.TypeFor[map[string][]*location]()

	key, ok := desc.Arg(0)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), key.Declared())

	value, ok := desc.Arg(1)
	require.True(t, ok)
	assert.Equal(t, node.ShapeCollection, value.Shape())

	elem, ok := value.Arg(0)
	require.True(t, ok)
	class, ok := elem.Class()
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[location](), class)
	assert.Equal(t, 1, elem.PointerDepth())

	_, ok = desc.Arg(2)
	assert.False(t, ok)

	_, ok = node.TypeFor[string]().Arg(0)
	assert.False(t, ok)

	_, ok = node.TypeFor[fmt.Stringer]().Arg(0)
	assert.False(t, ok)
}

func ExampleShapeEnum_String() {
	fmt.Println(node.ShapeBean, node.ShapeEnum(42))
	// Output:
	// ShapeBean ShapeEnum(42)
}
