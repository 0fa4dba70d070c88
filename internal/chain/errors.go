// Package chain implements the chain execution engine: validation,
// batch scheduling, data routing, node execution and result recording.
package chain

import (
	"fmt"
	"strings"
	"time"

	"yqhp/chain-engine/pkg/types"
)

// ErrorKind classifies engine errors.
type ErrorKind string

const (
	// KindValidation indicates a structural problem with the definition,
	// detected before any node starts.
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindPluginInvocation indicates a capability call failure.
	KindPluginInvocation ErrorKind = "PLUGIN_INVOCATION_ERROR"
	// KindMissingField indicates a transform or mapping referenced an absent field.
	KindMissingField ErrorKind = "MISSING_FIELD_ERROR"
	// KindExpression indicates a malformed or failing condition expression.
	KindExpression ErrorKind = "EXPRESSION_ERROR"
	// KindCycle indicates the scheduler found a cycle the validator missed.
	KindCycle ErrorKind = "CYCLE_ERROR"
	// KindCancellation indicates the run was cancelled.
	KindCancellation ErrorKind = "CANCELLATION_ERROR"
	// KindTimeout indicates the run exceeded its deadline.
	KindTimeout ErrorKind = "TIMEOUT_ERROR"
)

// ValidationError aborts a run before any node starts. It carries the full
// validation report.
type ValidationError struct {
	Report types.ValidationReport
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] chain validation failed: %s", KindValidation, strings.Join(e.Report.Errors, "; "))
}

// NewValidationError creates a ValidationError from a report.
func NewValidationError(report types.ValidationReport) *ValidationError {
	return &ValidationError{Report: report}
}

// PluginInvocationError wraps a capability call failure.
type PluginInvocationError struct {
	NodeID       string
	CapabilityID string
	Cause        error
}

// Error implements the error interface.
func (e *PluginInvocationError) Error() string {
	return fmt.Sprintf("[%s] capability '%s' failed at node '%s': %v", KindPluginInvocation, e.CapabilityID, e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *PluginInvocationError) Unwrap() error {
	return e.Cause
}

// NewPluginInvocationError creates a new PluginInvocationError.
func NewPluginInvocationError(nodeID, capabilityID string, cause error) *PluginInvocationError {
	return &PluginInvocationError{NodeID: nodeID, CapabilityID: capabilityID, Cause: cause}
}

// MissingFieldError indicates a referenced field was absent from the input
// payload and no default was configured for it.
type MissingFieldError struct {
	NodeID string
	Field  string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("[%s] node '%s' references field '%s' which is absent from its input", KindMissingField, e.NodeID, e.Field)
}

// NewMissingFieldError creates a new MissingFieldError.
func NewMissingFieldError(nodeID, field string) *MissingFieldError {
	return &MissingFieldError{NodeID: nodeID, Field: field}
}

// ExpressionError wraps a condition expression failure with the node it
// occurred at.
type ExpressionError struct {
	NodeID     string
	Expression string
	Cause      error
}

// Error implements the error interface.
func (e *ExpressionError) Error() string {
	return fmt.Sprintf("[%s] condition at node '%s' failed: %v", KindExpression, e.NodeID, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ExpressionError) Unwrap() error {
	return e.Cause
}

// NewExpressionError creates a new ExpressionError.
func NewExpressionError(nodeID, expr string, cause error) *ExpressionError {
	return &ExpressionError{NodeID: nodeID, Expression: expr, Cause: cause}
}

// CycleError reports nodes the scheduler could not order. The validator
// rejects cyclic definitions, so a run only hits this when a definition
// bypassed validation.
type CycleError struct {
	Remaining []string // node ids that could not be scheduled
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("[%s] cycle detected, unschedulable nodes: %s", KindCycle, strings.Join(e.Remaining, ", "))
}

// NewCycleError creates a new CycleError.
func NewCycleError(remaining []string) *CycleError {
	return &CycleError{Remaining: remaining}
}

// CancellationError indicates the run was cancelled by the caller.
type CancellationError struct {
	Cause error
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] run cancelled: %v", KindCancellation, e.Cause)
	}
	return fmt.Sprintf("[%s] run cancelled", KindCancellation)
}

// Unwrap returns the underlying error.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates the run exceeded its configured deadline.
type TimeoutError struct {
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("[%s] run timed out after %v", KindTimeout, e.Timeout)
	}
	return fmt.Sprintf("[%s] run timed out", KindTimeout)
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// IsCycleError reports whether err is a CycleError.
func IsCycleError(err error) bool {
	_, ok := err.(*CycleError)
	return ok
}
