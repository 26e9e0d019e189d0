// Package reliability classifies backing-store failures into conditions the
// participant can act on.
package reliability

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"
)

// Condition is a coarse failure category for a store error.
type Condition string

const (
	ConditionNone              Condition = ""
	ConditionServiceDisabled   Condition = "service_disabled"
	ConditionPermissionDenied  Condition = "permission_denied"
	ConditionWorksheetNotFound Condition = "worksheet_not_found"
	ConditionTransient         Condition = "transient"
	ConditionTimeout           Condition = "timeout"
	ConditionUnknown           Condition = "unknown"
)

// IsRetryableHTTPStatus classifies retryable HTTP status codes.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// Classify maps err to a Condition. Structured Google API errors are checked
// first; anything else falls back to the markers the Sheets API puts in its
// error text.
func Classify(err error) Condition {
	if err == nil {
		return ConditionNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ConditionTimeout
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		for _, d := range apiErr.Details {
			if strings.Contains(strings.ToUpper(stringify(d)), "SERVICE_DISABLED") {
				return ConditionServiceDisabled
			}
		}
		switch {
		case apiErr.Code == 403:
			if markedDisabled(apiErr.Message) {
				return ConditionServiceDisabled
			}
			return ConditionPermissionDenied
		case apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range"):
			return ConditionWorksheetNotFound
		case IsRetryableHTTPStatus(apiErr.Code):
			return ConditionTransient
		}
	}

	upper := strings.ToUpper(err.Error())
	switch {
	case markedDisabled(upper):
		return ConditionServiceDisabled
	case strings.Contains(upper, "PERMISSION_DENIED") || strings.Contains(upper, "403"):
		return ConditionPermissionDenied
	case strings.Contains(upper, "WORKSHEETNOTFOUND") || strings.Contains(upper, "UNABLE TO PARSE RANGE"):
		return ConditionWorksheetNotFound
	}
	return ConditionUnknown
}

func markedDisabled(msg string) bool {
	upper := strings.ToUpper(msg)
	return strings.Contains(upper, "SERVICE_DISABLED") || strings.Contains(upper, "HAS NOT BEEN USED IN PROJECT")
}

func stringify(v any) string {
	switch d := v.(type) {
	case string:
		return d
	case map[string]any:
		var b strings.Builder
		for k, val := range d {
			b.WriteString(k)
			b.WriteByte('=')
			if s, ok := val.(string); ok {
				b.WriteString(s)
			}
			b.WriteByte(' ')
		}
		return b.String()
	default:
		return ""
	}
}
