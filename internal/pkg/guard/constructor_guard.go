// Package guard provides a defensive construction check for value objects,
// entities, commands and queries. Embedding a ConstructorGuard lets a type
// detect whether it was created through its designated constructor or as a
// zero value, keeping domain invariants intact.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is provided for a zero-value guard.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as properly constructed. The zero value
// fails validation, so any struct embedding a guard must go through its
// constructor to be usable.
//
// Example:
//
//	var ErrScanCommandNotConstructed = errors.New("command must be created via its constructor")
//
//	type ProcessCheckpointScanCommand struct {
//	    trackNumber kernel.TrackNumber
//	    guard       guard.ConstructorGuard
//	}
//
//	func (c ProcessCheckpointScanCommand) Validate() error {
//	    return c.guard.Validate(ErrScanCommandNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed. Call it in every constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was properly constructed.
// For a zero-value guard it returns validationError, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
