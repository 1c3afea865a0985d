package bean

import "errors"

var (
	ErrPropertyCount      = errors.New("property value count does not match the bean definition")
	ErrDuplicateProperty  = errors.New("duplicate bean property name")
	ErrEmptyPropertyName  = errors.New("empty bean property name")
	ErrInvalidConstructor = errors.New("invalid record constructor")
	ErrInvalidFactory     = errors.New("invalid bean factory")
	ErrInvocation         = errors.New("bean invocation failed")
	ErrAlreadyLookedUp    = errors.New("type was already looked up")
)
