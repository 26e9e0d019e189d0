package survey

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nexus-form/nexus/internal/policy"
)

// ErrInvalidAnswer is returned when a submitted value is outside its question's range.
var ErrInvalidAnswer = errors.New("invalid answer")

// Answers holds one participant's encoded answers keyed by field.
type Answers map[string]string

// ParseForm validates the submitted values and returns the encoded answers
// and the outcome rating.
func ParseForm(form url.Values) (Answers, int, error) {
	answers := make(Answers, len(questions))
	for _, q := range questions {
		if q.Kind == KindText {
			continue
		}
		n, err := parseInt(q, form.Get(q.Key))
		if err != nil {
			return nil, 0, err
		}
		answers[q.Key] = strconv.Itoa(n)
	}

	for _, q := range questions {
		if q.Kind != KindText {
			continue
		}
		answers[q.Key] = freeText(q, answers, form.Get(q.Key))
	}

	outcome, err := parseInt(Outcome, form.Get(Outcome.Key))
	if err != nil {
		return nil, 0, err
	}
	return answers, outcome, nil
}

func parseInt(q Question, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidAnswer, q.Key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidAnswer, q.Key)
	}
	lo, hi := q.Min, q.Max
	if q.Kind == KindChoice {
		lo, hi = 1, len(q.Options)
	}
	if n < lo || n > hi {
		return 0, fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidAnswer, q.Key, lo, hi)
	}
	return n, nil
}

// freeText keeps the follow-up text only when its parent choice selected
// OtherOption, and masks contact details since the form is anonymous.
func freeText(q Question, answers Answers, raw string) string {
	if q.DependsOn != "" {
		parent, _ := Lookup(q.DependsOn)
		if answers[q.DependsOn] != strconv.Itoa(OptionIndex(parent, OtherOption)) {
			return ""
		}
	}
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) > FreeTextMaxRunes {
		text = string([]rune(text)[:FreeTextMaxRunes])
	}
	text, _ = policy.RedactPII(text)
	return strings.TrimSpace(text)
}

// OptionIndex returns the 1-based index of label in q.Options, or 0.
func OptionIndex(q Question, label string) int {
	for i, o := range q.Options {
		if o == label {
			return i + 1
		}
	}
	return 0
}
