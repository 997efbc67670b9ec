package api

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError represents a resource not found error with contextual
// information. The error includes resource type and name for precise error
// reporting and supports custom error messages for specific use cases.
type NotFoundError struct {
	// ResourceType categorizes the type of resource that was not found
	// (e.g., "operation", "service", "environment")
	ResourceType string

	// ResourceName is the specific identifier of the resource that was not found
	ResourceName string

	// Message provides a custom error message if the default format is insufficient
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s not found", e.ResourceType, e.ResourceName)
}

// IsNotFound checks if an error is a NotFoundError using error unwrapping.
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a new NotFoundError with the specified resource
// type and name.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{
		ResourceType: resourceType,
		ResourceName: resourceName,
	}
}

// Specific NotFoundError constructors for each resource type.
var (
	// NewOperationNotFoundError creates an operation not found error.
	NewOperationNotFoundError = func(id string) *NotFoundError {
		return NewNotFoundError("operation", id)
	}

	// NewServiceNotFoundError creates a service not found error.
	NewServiceNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("service", name)
	}

	// NewEnvironmentNotFoundError creates an environment not found error.
	NewEnvironmentNotFoundError = func(name string) *NotFoundError {
		return NewNotFoundError("environment", name)
	}
)

// ValidationError indicates a malformed request. Field names the offending
// request field where one can be identified.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, messageFmt string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(messageFmt, args...)}
}

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// DependencyCycleError indicates the declared service dependencies contain a
// cycle. Services lists the unresolvable subset.
type DependencyCycleError struct {
	Services []string
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected among services: %s", strings.Join(e.Services, ", "))
}

// IsDependencyCycle checks if an error is a DependencyCycleError.
func IsDependencyCycle(err error) bool {
	var cycleErr *DependencyCycleError
	return errors.As(err, &cycleErr)
}

// UnknownDependencyError indicates a descriptor references a dependency that
// is not part of the descriptor set.
type UnknownDependencyError struct {
	Service    string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("service %s declares unknown dependency %s", e.Service, e.Dependency)
}

// IsUnknownDependency checks if an error is an UnknownDependencyError.
func IsUnknownDependency(err error) bool {
	var unknownErr *UnknownDependencyError
	return errors.As(err, &unknownErr)
}

// TimeoutError indicates a bounded wait elapsed before the desired condition
// was observed: a service state poll, or the EOD in-flight drain.
type TimeoutError struct {
	// Subject identifies what was being waited on (service name, "drain", ...).
	Subject string

	// Elapsed is how long the wait actually ran.
	Elapsed time.Duration

	// Budget is the configured timeout that was exceeded.
	Budget time.Duration

	// Detail carries condition-specific context (desired state, queue depth).
	Detail string
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timeout waiting on %s after %s (budget %s)", e.Subject, e.Elapsed.Round(time.Millisecond), e.Budget)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsTimeout checks if an error is a TimeoutError.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}

// RemoteExecutionError indicates the transition command itself failed:
// connectivity, permissions, or an unknown unit on the target host.
type RemoteExecutionError struct {
	Service string
	Host    string
	Action  ActionKind
	Err     error
}

func (e *RemoteExecutionError) Error() string {
	return fmt.Sprintf("%s of service %s on host %s failed: %v", e.Action, e.Service, e.Host, e.Err)
}

func (e *RemoteExecutionError) Unwrap() error {
	return e.Err
}

// IsRemoteExecution checks if an error is a RemoteExecutionError.
func IsRemoteExecution(err error) bool {
	var remoteErr *RemoteExecutionError
	return errors.As(err, &remoteErr)
}

// ConcurrentOperationError indicates an operation of the same kind is already
// active for the environment and forceExecution was not set.
type ConcurrentOperationError struct {
	Kind              OperationKind
	Environment       string
	ActiveOperationID string
}

func (e *ConcurrentOperationError) Error() string {
	return fmt.Sprintf("%s operation %s is already active for environment %s", e.Kind, e.ActiveOperationID, e.Environment)
}

// IsConcurrentOperation checks if an error is a ConcurrentOperationError.
func IsConcurrentOperation(err error) bool {
	var concurrentErr *ConcurrentOperationError
	return errors.As(err, &concurrentErr)
}
