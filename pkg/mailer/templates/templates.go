package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names understood by the email worker.
const (
	Welcome       = "welcome"
	ResetPassword = "reset_password"
)

// EmailData is the data every template is rendered with.
type EmailData struct {
	AppName       string `json:"AppName"`
	Name          string `json:"Name"`
	Username      string `json:"Username"`
	Email         string `json:"Email"`
	ResetURL      string `json:"ResetURL,omitempty"`
	ExpiresAtText string `json:"ExpiresAtText,omitempty"`
}

// ToMap converts EmailData to the map carried by mailer.EmailJob.
func (d EmailData) ToMap() map[string]any {
	m := map[string]any{
		"AppName":  d.AppName,
		"Name":     d.Name,
		"Username": d.Username,
		"Email":    d.Email,
	}
	if d.ResetURL != "" {
		m["ResetURL"] = d.ResetURL
	}
	if d.ExpiresAtText != "" {
		m["ExpiresAtText"] = d.ExpiresAtText
	}
	return m
}

// ExpiresIn formats now+dur for display in an email.
func ExpiresIn(dur time.Duration) string {
	return time.Now().Add(dur).UTC().Format("02 January 2006, 15:04 MST")
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
	}
	return value
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": defaultFn,
		"year":    func() int { return time.Now().UTC().Year() },
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render renders <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}
