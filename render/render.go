// Package render turns loader view models into HTML pages, or into JSON for
// clients that ask for it.
package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/DEFRA/fes-frontend/i18n"
	"github.com/DEFRA/fes-frontend/models"
)

//go:embed templates/*.html
var templates embed.FS

// Field types understood by the page template
const (
	Text     = "text"
	TextArea = "textarea"
	Date     = "date"
	Radios   = "radios"
	Checkbox = "checkboxes"
	Select   = "select"
	File     = "file"
	Hidden   = "hidden"
)

type (
	// Option is one choice of a radios, checkboxes or select field
	Option struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}

	// Field is one form input. Label and Hint are translation keys.
	Field struct {
		Name    string   `json:"name"`
		Type    string   `json:"type"`
		Label   string   `json:"label"`
		Hint    string   `json:"hint,omitempty"`
		Options []Option `json:"options,omitempty"`
		Value   string   `json:"value,omitempty"`
		Values  []string `json:"values,omitempty"`
		Error   string   `json:"error,omitempty"`
	}

	// Button submits the form with _action set to Action
	Button struct {
		Action    string `json:"action"`
		Label     string `json:"label"`
		Secondary bool   `json:"secondary,omitempty"`
	}

	// Row is one row of a summary list
	Row struct {
		Key       string `json:"key"`
		Value     string `json:"value"`
		ChangeURL string `json:"changeUrl,omitempty"`
	}

	// Item is one row of a table of added things (products, landings, catches)
	Item struct {
		ID           string   `json:"id"`
		Cells        []string `json:"cells"`
		RemoveAction string   `json:"removeAction,omitempty"`
		Link         string   `json:"link,omitempty"`
	}

	// ErrorItem is a field error with its message already translated
	ErrorItem struct {
		Key     string `json:"key"`
		Message string `json:"message"`
		Text    string `json:"text"`
	}

	// View is what a loader computes for a page
	View struct {
		Status       int         `json:"-"`
		Template     string      `json:"-"`
		Title        string      `json:"title"`
		Lang         string      `json:"lang"`
		BackURL      string      `json:"backUrl,omitempty"`
		CSRF         string      `json:"csrf,omitempty"`
		Notification string      `json:"notification,omitempty"`
		Errors       []ErrorItem `json:"errors,omitempty"`
		Rows         []Row       `json:"rows,omitempty"`
		Columns      []string    `json:"columns,omitempty"`
		Items        []Item      `json:"items,omitempty"`
		Fields       []Field     `json:"fields,omitempty"`
		Buttons      []Button    `json:"buttons,omitempty"`
		Multipart    bool        `json:"-"`
		Data         interface{} `json:"data,omitempty"`

		rawErrors []models.FieldError
	}
)

// NewView returns a view for the page titled by the translation key title
func NewView(title, lang string) *View {
	return &View{Title: title, Lang: lang, Template: "page", Status: http.StatusOK}
}

// AddErrors records field errors, switching the response status to 400
func (v *View) AddErrors(errs ...models.FieldError) *View {
	if len(errs) == 0 {
		return v
	}
	v.rawErrors = append(v.rawErrors, errs...)
	v.Status = http.StatusBadRequest
	return v
}

// HasErrors reports whether any field errors were recorded
func (v *View) HasErrors() bool {
	return len(v.rawErrors) > 0
}

// Bind fills the value of each field from values. Multi-valued fields take a
// comma separated list.
func (v *View) Bind(values map[string]string) *View {
	for i := range v.Fields {
		f := &v.Fields[i]
		value, ok := values[f.Name]
		if !ok {
			continue
		}
		if f.Type == Checkbox {
			f.Values = splitList(value)
			continue
		}
		f.Value = value
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// WantsJSON reports whether the client asked for the view model rather than HTML
func WantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Renderer writes views as HTML or JSON
type Renderer struct {
	catalog   *i18n.Catalog
	templates *template.Template
}

// New parses the embedded templates
func New(catalog *i18n.Catalog) (*Renderer, error) {
	r := &Renderer{catalog: catalog}
	funcs := template.FuncMap{
		"t": catalog.T,
		"contains": func(values []string, value string) bool {
			for _, v := range values {
				if v == value {
					return true
				}
			}
			return false
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r.templates = t
	return r, nil
}

// Render translates the view's errors and writes it in the negotiated format
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, v *View) error {
	v.Errors = v.Errors[:0]
	byField := map[string]string{}
	for _, fe := range v.rawErrors {
		text := r.catalog.T(v.Lang, fe.Message)
		v.Errors = append(v.Errors, ErrorItem{Key: fe.Key, Message: fe.Message, Text: text})
		if _, seen := byField[fe.Key]; !seen {
			byField[fe.Key] = text
		}
	}
	for i := range v.Fields {
		v.Fields[i].Error = byField[v.Fields[i].Name]
	}
	if v.Status == 0 {
		v.Status = http.StatusOK
	}

	if WantsJSON(req) {
		buf, err := json.Marshal(v)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(v.Status)
		_, err = w.Write(buf)
		return err
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, v.Template+".html", v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(v.Status)
	_, err := buf.WriteTo(w)
	return err
}
