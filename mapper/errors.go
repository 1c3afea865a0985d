package mapper

import "errors"

var (
	ErrUnresolvableType = errors.New("type cannot be resolved to a concrete class")
	ErrUnsupportedType  = errors.New("unsupported type")
	ErrMapKeyType       = errors.New("Map keys may only be of String type")
	ErrCaster           = errors.New("caster failed")
)
