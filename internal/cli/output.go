package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/maitred-run/maitred/internal/engine"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // successful execution
	ExitFailure      = 1 // operation rejected (capacity, time conflict, illegal transition, ...)
	ExitCommandError = 2 // command error (bad flags, missing config, unreachable journal)
)

// ExitError carries a specific exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error
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

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Engine rejections
// map to ExitFailure; anything unclassified is a command error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if engine.KindOf(err) != "" {
		return ExitFailure
	}
	return ExitCommandError
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure inside a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // stable kind code, e.g. "TIME_CONFLICT"
	Message string `json:"message"`
}

// Success outputs a successful result in the configured format. The
// text argument is what a human sees; data is the JSON payload.
func (f *OutputFormatter) Success(text string, data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Fail outputs an operation error in the configured format and returns
// an error carrying the right exit code.
func (f *OutputFormatter) Fail(err error) error {
	code := string(engine.KindOf(err))
	if code == "" {
		code = "ERROR"
	}
	if f.Format == "json" {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: err.Error()},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %v\n", code, err)
	}
	return WrapExitError(GetExitCode(err), "operation failed", err)
}

// VerboseLog writes a diagnostic line when verbose mode is on. With
// JSON output the line goes to ErrWriter so the payload stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.Writer
	if f.Format == "json" && f.ErrWriter != nil {
		w = f.ErrWriter
	}
	fmt.Fprintf(w, format+"\n", args...)
}
