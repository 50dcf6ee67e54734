package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/workflow"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Validation failure, hash mismatch or failed scenario
	ExitCommandError = 2 // Command error (unknown recipe, unreadable input, wiring fault, etc.)
)

// CLI error codes (E001-E099). Build errors carry their own E2xx/E3xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeInputRead   = "E002" // Input file unreadable
	ErrCodeInputParse  = "E003" // Input file malformed
	ErrCodeBadSet      = "E004" // Malformed --set assignment
	ErrCodeNotFound    = "E005" // Build not found in the archive
	ErrCodeStore       = "E006" // Archive open/read/write failure
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeCUECheck    = "E008" // CUE preview rejected the input
	ErrCodeMismatch    = "E009" // Rebuilt hash differs from the recorded one
	ErrCodeScenario    = "E010" // One or more scenarios failed
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitCommandError (2) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E203", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Fprintln.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// outputCommandError reports a command-level failure (exit code 2).
func outputCommandError(f *OutputFormatter, code, message string, details any) error {
	_ = f.Error(code, message, details)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputBuildError reports a failed build. Validation failures list every
// rejected field and exit with 1; wiring faults exit with 2.
func outputBuildError(f *OutputFormatter, err error) error {
	code := workflow.ErrorCode(err)
	if code == "" {
		code = ErrCodeGeneric
	}

	errs, ok := params.AsValidationErrors(err)
	if !ok {
		_ = f.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: fmt.Sprintf("%d invalid parameter(s)", len(errs)),
				Details: errs,
			},
		})
	} else {
		fmt.Fprintf(f.Writer, "✗ %d invalid parameter(s):\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(f.Writer, "  %s\n", e.Error())
		}
	}
	return WrapExitError(ExitFailure, code, err)
}
