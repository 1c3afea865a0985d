package node

//go:generate go tool stringer -type=ShapeEnum -output=shape_string.go

// ShapeEnum is the structural category of a target type. The mapper picks its
// conversion strategy by shape.
type ShapeEnum int

const (
	ShapeUnknown ShapeEnum = iota
	ShapeScalar
	ShapeInterface
	ShapeCollection
	ShapeMap
	ShapeBean

	// ShapeTotal is a constant that represents the total number of shapes defined
	ShapeTotal = int(iota)
)
