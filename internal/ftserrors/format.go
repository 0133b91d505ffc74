package ftserrors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatForCLI renders err for terminal display: message, code, and cause
// chain if present. Used by the cmd/ftsengine CLI's error output.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}
	e, ok := err.(*Error)
	if !ok {
		e = Wrap(CodeInternal, err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", e.Message))
	sb.WriteString(fmt.Sprintf("  Code: %s\n", e.Code))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("  Cause: %s\n", e.Cause.Error()))
	}
	return sb.String()
}

// jsonError is the JSON representation of an Error.
type jsonError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Category  string            `json:"category"`
	Severity  string            `json:"severity"`
	Details   map[string]string `json:"details,omitempty"`
	Cause     string            `json:"cause,omitempty"`
	Retryable bool              `json:"retryable"`
}

// FormatJSON renders err as JSON, suitable for machine consumption.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}
	e, ok := err.(*Error)
	if !ok {
		e = Wrap(CodeInternal, err)
	}
	je := jsonError{
		Code:      e.Code,
		Message:   e.Message,
		Category:  string(e.Category),
		Severity:  string(e.Severity),
		Details:   e.Details,
		Retryable: e.Retryable,
	}
	if e.Cause != nil {
		je.Cause = e.Cause.Error()
	}
	return json.Marshal(je)
}

// LogAttrs returns key/value pairs suitable for slog.Any("error", ...) or
// spreading as structured log attributes.
func LogAttrs(err error) map[string]any {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if !ok {
		return map[string]any{"error": err.Error()}
	}
	result := map[string]any{
		"error_code": e.Code,
		"message":    e.Message,
		"category":   string(e.Category),
		"severity":   string(e.Severity),
		"retryable":  e.Retryable,
	}
	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}
	for k, v := range e.Details {
		result["detail_"+k] = v
	}
	return result
}
