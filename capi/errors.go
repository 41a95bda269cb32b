package capi

import (
	"strconv"

	"github.com/serum-errors/go-serum"
)

const (
	CodeIo               = "cloudglass-error-io"
	CodeMissing          = "cloudglass-error-missing"
	CodeSerialization    = "cloudglass-error-serialization"
	CodeNotACommand      = "cloudglass-error-not-a-command"
	CodeManifestInvalid  = "cloudglass-error-manifest-invalid"
	CodeSearchingCatalog = "cloudglass-error-searching-catalog"
	CodeOptionUnknown    = "cloudglass-error-option-unknown"
	CodeOptionMissing    = "cloudglass-error-option-missing"
	CodeValidation       = "cloudglass-error-validation"
	CodeExecution        = "cloudglass-error-execution"
	CodeApi              = "cloudglass-error-api"
	CodeJobFailed        = "cloudglass-error-job-failed"
	CodeTimeout          = "cloudglass-error-timeout"
	CodeQuery            = "cloudglass-error-query"
	CodeInternal         = "cloudglass-error-internal"
	CodeUnknown          = "cloudglass-error-unknown"
)

// DetailExitCode is the serum detail key carrying a process exit code.
const DetailExitCode = "exitcode"

// ExitCode reports the process exit code an error calls for.
// A nil error is 0.  An error carrying the DetailExitCode detail yields
// that value; anything else is the generic failure code, 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if sv, ok := err.(*serum.ErrorValue); ok {
		for _, d := range sv.Data.Details {
			if d[0] != DetailExitCode {
				continue
			}
			if n, convErr := strconv.Atoi(d[1]); convErr == nil {
				return n
			}
		}
	}
	return 1
}

// ErrorIo wraps generic I/O errors from the Go stdlib.
//
// Errors:
//
//    - cloudglass-error-io --
func ErrorIo(context string, path string, cause error) error {
	result := serum.Errorf(CodeIo, "io error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}, {"path", path}})
	return result
}

// ErrorMissing is used when an expected artifact does not exist.
//
// Errors:
//
//    - cloudglass-error-missing --
func ErrorMissing(path string, cause error) error {
	result := serum.Errorf(CodeMissing, "no artifact at path %q: %w", path, cause)
	addDetails(result, [][2]string{{"path", path}})
	return result
}

// ErrorSerialization is returned when decoding a command manifest
// or an API payload fails.
//
// Errors:
//
//    - cloudglass-error-serialization --
func ErrorSerialization(context string, cause error) error {
	result := serum.Errorf(CodeSerialization, "serialization error: %s: %w", context, cause)
	addDetails(result, [][2]string{{"context", context}})
	return result
}

// ErrorNotACommand is returned when a loaded artifact is not recognizable
// as a command (the capsule envelope is absent).
//
// Errors:
//
//    - cloudglass-error-not-a-command --
func ErrorNotACommand(path string) error {
	return serum.Error(CodeNotACommand,
		serum.WithMessageTemplate("artifact at {{path|q}} is not a command"),
		serum.WithDetail("path", path),
	)
}

// ErrorManifestInvalid is returned when a command manifest contains
// invalid data, such as an unparsable option declaration or an action
// id with no registered implementation.
//
// Errors:
//
//    - cloudglass-error-manifest-invalid --
func ErrorManifestInvalid(path string, reason string) error {
	return serum.Error(CodeManifestInvalid,
		serum.WithMessageTemplate("invalid command manifest {{path|q}}: {{reason}}"),
		serum.WithDetail("path", path),
		serum.WithDetail("reason", reason),
	)
}

// ErrorSearchingCatalog is returned when full catalog discovery fails.
// This is fatal: there is no fallback left after full discovery.
//
// Errors:
//
//    - cloudglass-error-searching-catalog --
func ErrorSearchingCatalog(path string, cause error) error {
	result := serum.Errorf(CodeSearchingCatalog,
		"error while searching the command catalog at %q: %w", path, cause)
	addDetails(result, [][2]string{{"path", path}})
	return result
}

// ErrorOptionUnknown is returned when an invocation carries a flag the
// resolved command does not declare.
//
// Errors:
//
//    - cloudglass-error-option-unknown --
func ErrorOptionUnknown(flag string) error {
	return serum.Error(CodeOptionUnknown,
		serum.WithMessageTemplate("invalid option: {{flag|q}}"),
		serum.WithDetail("flag", flag),
	)
}

// ErrorOptionMissing is returned when a required option has no value.
//
// Errors:
//
//    - cloudglass-error-option-missing --
func ErrorOptionMissing(name string) error {
	return serum.Error(CodeOptionMissing,
		serum.WithMessageTemplate("required option {{name}} not specified"),
		serum.WithDetail("name", name),
	)
}

// ErrorValidation is returned when a command's own validation function
// rejects an invocation.  The message comes back verbatim.
//
// Errors:
//
//    - cloudglass-error-validation --
func ErrorValidation(message string) error {
	return serum.Error(CodeValidation, serum.WithMessageLiteral(message))
}

// ErrorExecution wraps a failure reported by a command action.
// An exit code may be attached; see ExitCode.
//
// Errors:
//
//    - cloudglass-error-execution --
func ErrorExecution(commandName string, cause error) error {
	result := serum.Errorf(CodeExecution, "command %q failed: %w", commandName, cause)
	addDetails(result, [][2]string{{"command", commandName}})
	return result
}

// ErrorApi is returned when the remote API answers with a failure status.
//
// Errors:
//
//    - cloudglass-error-api --
func ErrorApi(status int, message string) error {
	return serum.Error(CodeApi,
		serum.WithMessageTemplate("api error (status {{status}}): {{message}}"),
		serum.WithDetail("status", strconv.Itoa(status)),
		serum.WithDetail("message", message),
	)
}

// ErrorJobFailed is returned when a remote job reports a terminal failure
// state.  The remote message surfaces verbatim and the condition is never
// retried.
//
// Errors:
//
//    - cloudglass-error-job-failed --
func ErrorJobFailed(message string) error {
	return serum.Error(CodeJobFailed, serum.WithMessageLiteral(message))
}

// ErrorTimeout is returned when a bounded poll loop exhausts its attempt
// budget without the remote job reaching a terminal state.
//
// Errors:
//
//    - cloudglass-error-timeout --
func ErrorTimeout(context string, attempts uint64) error {
	return serum.Error(CodeTimeout,
		serum.WithMessageTemplate("{{context}}: gave up after {{attempts}} attempts"),
		serum.WithDetail("context", context),
		serum.WithDetail("attempts", strconv.FormatUint(attempts, 10)),
	)
}

// ErrorTimeoutDuring is like ErrorTimeout, for the case where the attempt
// budget ran out while the checks themselves kept failing; the last failure
// is carried as the cause.
//
// Errors:
//
//    - cloudglass-error-timeout --
func ErrorTimeoutDuring(context string, attempts uint64, cause error) error {
	result := serum.Errorf(CodeTimeout, "%s: gave up after %d attempts: %w", context, attempts, cause)
	addDetails(result, [][2]string{
		{"context", context},
		{"attempts", strconv.FormatUint(attempts, 10)},
	})
	return result
}

// ErrorQuery is returned when a --query expression cannot be evaluated.
//
// Errors:
//
//    - cloudglass-error-query --
func ErrorQuery(expression string, cause error) error {
	result := serum.Errorf(CodeQuery, "invalid query %q: %w", expression, cause)
	addDetails(result, [][2]string{{"query", expression}})
	return result
}

// ErrorInternal is for miscellaneous errors that should be handled
// internally.  In most cases, prefer to use more specific errors.
//
// Errors:
//
//    - cloudglass-error-internal --
func ErrorInternal(msgTmpl string, cause error) error {
	return serum.Errorf(CodeInternal, "%s: %w", msgTmpl, cause)
}

// ErrorUnknown is returned when an unknown error occurs.
//
// Errors:
//
//    - cloudglass-error-unknown --
func ErrorUnknown(msgTmpl string, cause error) error {
	return serum.Errorf(CodeUnknown, "%s: %w", msgTmpl, cause)
}

// WithExitCode attaches an exit code detail to an existing serum error.
// Non-serum errors are passed through unchanged.
func WithExitCode(err error, code int) error {
	if sv, ok := err.(*serum.ErrorValue); ok {
		sv.Data.Details = append(sv.Data.Details, [2]string{DetailExitCode, strconv.Itoa(code)})
	}
	return err
}

// addDetails is a helper to get around the fact that serum.Errorf doesn't
// accept detail options.  Remove if serum grows that feature.
func addDetails(err error, details [][2]string) {
	s := err.(*serum.ErrorValue)
	s.Data.Details = append(s.Data.Details, details...)
}
