package errors

import (
	"fmt"
)

// AppError is a structured application error with a stable code and a
// message safe to show to the user.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving the code when the
// wrapped error is already an AppError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCause attaches an underlying cause to an AppError
func WithCause(appErr *AppError, cause error) *AppError {
	return &AppError{
		Code:    appErr.Code,
		Message: appErr.Message,
		Cause:   cause,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Error codes for the extraction engine. All extraction failures are
// terminal and all-or-nothing per call.
const (
	CodeSheetNotFound       = "SHEET_NOT_FOUND"
	CodeEmptySheet          = "EMPTY_SHEET"
	CodeMultipleSheets      = "MULTIPLE_SHEETS"
	CodeUnsupportedFormat   = "UNSUPPORTED_FORMAT"
	CodeInvalidColumnLetter = "INVALID_COLUMN_LETTER"
	CodeNoDataFound         = "NO_DATA_FOUND"
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	CodeInternalError       = "INTERNAL_ERROR"
)

// SheetNotFound reports that no sheet matched the target name exactly or by
// substring.
func SheetNotFound(target string) *AppError {
	return New(CodeSheetNotFound, fmt.Sprintf("no sheet matching %q was found in the workbook", target))
}

// EmptySheet reports a matched sheet with zero rows.
func EmptySheet(name string) *AppError {
	return New(CodeEmptySheet, fmt.Sprintf("sheet %q contains no rows", name))
}

// MultipleSheets reports a multi-sheet workbook on the single-sheet upload path.
func MultipleSheets(count int) *AppError {
	return New(CodeMultipleSheets, fmt.Sprintf("workbook contains %d sheets; custom uploads must contain exactly one", count))
}

// UnsupportedFormat reports an unrecognized file extension or content type.
func UnsupportedFormat(ext string) *AppError {
	if ext == "" {
		return New(CodeUnsupportedFormat, "file has no extension; expected a spreadsheet or delimited-text file")
	}
	return New(CodeUnsupportedFormat, fmt.Sprintf("unsupported file format %q; expected a spreadsheet or delimited-text file", ext))
}

// InvalidColumnLetter reports a column letter that is empty or contains
// characters outside A-Z after sanitization.
func InvalidColumnLetter(field, input string) *AppError {
	return New(CodeInvalidColumnLetter, fmt.Sprintf("column letter %q for %s is not a valid spreadsheet column (A-ZZZ)", input, field))
}

// NoDataFound reports an extraction that retained zero rows.
func NoDataFound() *AppError {
	return New(CodeNoDataFound, "no data rows were found below the detected header")
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
