package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries an operator-facing message alongside the text shown to the
// user in chat. Callback handling must never surface a raw error to Telegram.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: fmt.Sprintf("That doesn't look right. %s", msg),
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("Database error: %s", underlyingMsg),
		UserMessage: "Something went wrong on our side, please try again later 🔁",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

func NewProviderError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "Market data provider error",
		UserMessage: "Market data is temporarily unavailable, please try again later 🔁",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

func NewNotFoundError(query string) *AppError {
	return &AppError{
		Code:        "E310",
		Message:     fmt.Sprintf("Cryptocurrency not found: %s", query),
		UserMessage: fmt.Sprintf("Couldn't find %q, check the spelling 🔍", query),
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

func NewDeliveryError(cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     "Telegram delivery error",
		UserMessage: "",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}
