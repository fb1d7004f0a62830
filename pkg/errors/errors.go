// Copyright (c) 2026 timesnap-btrfs authors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a generation failure.
type ErrorCode string

const (
	// ErrCodeToolUnavailable indicates a required external tool is missing
	// from PATH (btrfs, grub-probe, grub-script-check).
	ErrCodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	// ErrCodeUnsupportedFilesystem indicates the root filesystem is not btrfs.
	ErrCodeUnsupportedFilesystem ErrorCode = "UNSUPPORTED_FILESYSTEM"
	// ErrCodeNoBootableKernels indicates a separate boot partition contained
	// no kernel images. Only raised in separate-boot mode.
	ErrCodeNoBootableKernels ErrorCode = "NO_BOOTABLE_KERNELS"
	// ErrCodeInvalidGeneratedSyntax indicates the staged configuration failed
	// the external syntax check and the previous configuration was restored.
	ErrCodeInvalidGeneratedSyntax ErrorCode = "INVALID_GENERATED_SYNTAX"
	// ErrCodeNoSnapshotsFound indicates the run produced zero menu entries.
	// This is a clean termination, not an internal failure.
	ErrCodeNoSnapshotsFound ErrorCode = "NO_SNAPSHOTS_FOUND"
	// ErrCodeMountFailure indicates the read-only snapshot mount could not be
	// established.
	ErrCodeMountFailure ErrorCode = "MOUNT_FAILURE"
	// ErrCodeUnmountTimeout indicates the unmount retries were exhausted.
	// Never fatal, logged only.
	ErrCodeUnmountTimeout ErrorCode = "UNMOUNT_TIMEOUT"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError provides structured error information for better
// observability. It includes an error code for programmatic handling, a
// human-readable message, the underlying cause, and optional context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a new StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new StructuredError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithContext wraps an error with additional context information.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: context,
	}
}

// CodeOf extracts the ErrorCode from err, unwrapping as needed.
// Returns ErrCodeInternal for non-structured errors and "" for nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var serr *StructuredError
	if stderrors.As(err, &serr) {
		return serr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
