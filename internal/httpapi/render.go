package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/nexus-form/nexus/internal/match"
	"github.com/nexus-form/nexus/internal/survey"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))

type view string

const (
	viewForm        view = "form"
	viewShared      view = "shared"
	viewThanks      view = "thanks"
	viewCompleted   view = "completed"
	viewUnavailable view = "unavailable"
)

type pageData struct {
	View      view
	Joining   bool
	MatchID   string
	Consent   bool
	Notice    string
	Error     string
	ShareLink string
	RootLink  string
	Questions []questionView
	Outcome   questionView
}

type questionView struct {
	Key       string
	Label     string
	Kind      string
	Widget    string
	Min       int
	Max       int
	Value     string
	DependsOn string
	Options   []optionView
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

// formData builds the form view, pre-filling prior values when re-rendering
// after a rejected submission.
func formData(role match.Role, prior url.Values) pageData {
	qs := survey.Questions()
	views := make([]questionView, 0, len(qs))
	for _, q := range qs {
		views = append(views, newQuestionView(q, prior))
	}
	return pageData{
		View:      viewForm,
		Joining:   role.Joining(),
		MatchID:   role.MatchID,
		Consent:   prior.Get("consent") != "",
		Questions: views,
		Outcome:   newQuestionView(survey.Outcome, prior),
	}
}

func newQuestionView(q survey.Question, prior url.Values) questionView {
	value := prior.Get(q.Key)
	if value == "" {
		switch q.Kind {
		case survey.KindScale:
			value = strconv.Itoa(q.Default)
		case survey.KindChoice:
			value = "1"
		}
	}
	v := questionView{
		Key:       q.Key,
		Label:     q.Label,
		Kind:      string(q.Kind),
		Widget:    q.Widget,
		Min:       q.Min,
		Max:       q.Max,
		Value:     value,
		DependsOn: q.DependsOn,
	}
	for i, label := range q.Options {
		idx := strconv.Itoa(i + 1)
		v.Options = append(v.Options, optionView{Value: idx, Label: label, Selected: idx == value})
	}
	return v
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	if data.RootLink == "" {
		data.RootLink = RootLink(s.cfg.BaseURL)
	}
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "page", data); err != nil {
		s.logger.Error("render page", zap.String("view", string(data.View)), zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
