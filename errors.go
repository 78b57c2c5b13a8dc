package modplan

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every validation failure matches ErrConfig and every
// registry or resolution failure matches ErrResolve under errors.Is.
var (
	// ErrConfig is the category of descriptor configuration errors.
	ErrConfig = errors.New("invalid module configuration")

	// ErrResolve is the category of registry and resolution errors.
	ErrResolve = errors.New("module resolution failed")

	// ErrNoRegistry is returned by a Resolver that was not given a registry.
	ErrNoRegistry = errors.New("resolver has no registry")
)

// DuplicateDependencyError reports a dependency name listed more than once
// across the public, private and disabled sets of one descriptor.
type DuplicateDependencyError struct {
	Module string
	Name   string
}

func (e *DuplicateDependencyError) Error() string {
	return fmt.Sprintf("module %s: dependency %q is declared more than once", e.Module, e.Name)
}

func (e *DuplicateDependencyError) Is(target error) bool { return target == ErrConfig }

// SelfDependencyError reports a descriptor listing itself as a dependency.
type SelfDependencyError struct {
	Module string
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("module %s: depends on itself", e.Module)
}

func (e *SelfDependencyError) Is(target error) bool { return target == ErrConfig }

// UnrecognizedOptionError reports a configuration option with an unknown value.
type UnrecognizedOptionError struct {
	Module string
	Option string
	Value  string
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("module %s: unrecognized %s %q", e.Module, e.Option, e.Value)
}

func (e *UnrecognizedOptionError) Is(target error) bool { return target == ErrConfig }

// InvalidNameError reports an empty module or dependency name.
type InvalidNameError struct {
	Module string
	Field  string
}

func (e *InvalidNameError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("%s: name must not be empty", e.Field)
	}
	return fmt.Sprintf("module %s: %s: name must not be empty", e.Module, e.Field)
}

func (e *InvalidNameError) Is(target error) bool { return target == ErrConfig }

// ValidationErrors collects every problem found in one descriptor.
type ValidationErrors struct {
	Module string
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	if e.Module == "" {
		fmt.Fprintf(&b, "%d validation errors:", len(e.Errors))
	} else {
		fmt.Fprintf(&b, "module %s: %d validation errors:", e.Module, len(e.Errors))
	}
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s", err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying errors for errors.Is/As compatibility.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

func (e *ValidationErrors) add(err error) {
	e.Errors = append(e.Errors, err)
}

// toError returns nil if no errors were collected, otherwise the collector.
func (e *ValidationErrors) toError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// CyclicDependencyError is returned when resolution reaches a module that is
// still being resolved.
type CyclicDependencyError struct {
	// Path is the cycle, starting and ending with the same module.
	// Example: ["A", "B", "A"]
	Path []string
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	return "dependency cycle detected: " + formatPath(e.Path)
}

func (e *CyclicDependencyError) Is(target error) bool { return target == ErrResolve }

// MissingModuleError is returned when a dependency has no registry entry.
type MissingModuleError struct {
	// Name is the module that could not be found.
	Name string
	// RequestedBy is the module that declared the dependency. Empty for the root.
	RequestedBy string
}

func (e *MissingModuleError) Error() string {
	if e.RequestedBy == "" {
		return fmt.Sprintf("module %q not found in registry", e.Name)
	}
	return fmt.Sprintf("module %q required by %s not found in registry", e.Name, e.RequestedBy)
}

func (e *MissingModuleError) Is(target error) bool { return target == ErrResolve }

// DuplicateModuleError is returned when registering a name that is already present.
type DuplicateModuleError struct {
	Name string
}

func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is already registered", e.Name)
}

func (e *DuplicateModuleError) Is(target error) bool { return target == ErrResolve }

// formatPath formats a module path for display.
// Example: ["A", "B", "A"] -> "A -> B -> A"
func formatPath(path []string) string {
	return strings.Join(path, " -> ")
}
