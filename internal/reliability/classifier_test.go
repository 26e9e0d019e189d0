package reliability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestIsRetryableHTTPStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{400, false},
		{403, false},
		{429, true},
		{500, true},
		{503, true},
	}
	for _, tc := range cases {
		got := IsRetryableHTTPStatus(tc.code)
		if got != tc.want {
			t.Fatalf("IsRetryableHTTPStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Condition
	}{
		{"nil", nil, ConditionNone},
		{"deadline", fmt.Errorf("read: %w", context.DeadlineExceeded), ConditionTimeout},
		{"api disabled", &googleapi.Error{Code: 403, Message: "Google Sheets API has not been used in project 123 before"}, ConditionServiceDisabled},
		{"api forbidden", &googleapi.Error{Code: 403, Message: "The caller does not have permission"}, ConditionPermissionDenied},
		{"bad range", &googleapi.Error{Code: 400, Message: "Unable to parse range: 'missing'!A1"}, ConditionWorksheetNotFound},
		{"unavailable", fmt.Errorf("wrapped: %w", &googleapi.Error{Code: 503}), ConditionTransient},
		{"text disabled", errors.New("APIError: SERVICE_DISABLED"), ConditionServiceDisabled},
		{"text denied", errors.New("PERMISSION_DENIED: no access"), ConditionPermissionDenied},
		{"text worksheet", errors.New("WorksheetNotFound: responses"), ConditionWorksheetNotFound},
		{"other", errors.New("connection refused"), ConditionUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.err); got != tc.want {
				t.Fatalf("Classify(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
