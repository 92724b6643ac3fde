package classmeta

import (
	"errors"
	"fmt"
)

// ErrNoSuchProperty is matched by every NoSuchPropertyError.
var ErrNoSuchProperty = errors.New("no such property")

// NoSuchPropertyError is returned when a property lookup misses.
type NoSuchPropertyError struct {
	Name string
	Type Type
}

func (e *NoSuchPropertyError) Error() string {
	return fmt.Sprintf("no property '%s' found on %s", e.Name, e.Type)
}

// Is makes errors.Is(err, ErrNoSuchProperty) succeed.
func (e *NoSuchPropertyError) Is(target error) bool {
	return target == ErrNoSuchProperty
}
