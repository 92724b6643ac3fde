package hierarchy

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClassNotFound is matched by *ClassNotFoundError.
	ErrClassNotFound = errors.New("class not found")
	// ErrAmbiguousClass is matched by *AmbiguousClassError.
	ErrAmbiguousClass = errors.New("ambiguous class name")
)

// ClassNotFoundError is returned when no analyzed class has the requested name.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class %s not found", e.Name)
}

func (e *ClassNotFoundError) Is(target error) bool {
	return target == ErrClassNotFound
}

// AmbiguousClassError is returned when a simple name matches several classes.
type AmbiguousClassError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguousClassError) Error() string {
	return fmt.Sprintf("class name %s is ambiguous: %s", e.Name, strings.Join(e.Candidates, ", "))
}

func (e *AmbiguousClassError) Is(target error) bool {
	return target == ErrAmbiguousClass
}

// CycleError describes classes whose declared supertypes form a cycle.
// Merges along the cycle are skipped; merges from outside it still apply.
type CycleError struct {
	Classes []string `json:"classes"`
}

func (e *CycleError) Error() string {
	return "inheritance cycle: " + strings.Join(e.Classes, " <-> ")
}
