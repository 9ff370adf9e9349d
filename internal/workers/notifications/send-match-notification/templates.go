// internal/workers/notifications/send-match-notification/templates.go
package sendmatchnotification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
)

type messageTemplate struct {
	subject *template.Template
	text    *template.Template
	html    *htmltemplate.Template
	sms     *template.Template
}

type rendered struct {
	Subject string
	Text    string
	HTML    string
	SMS     string
}

// templateData is what every template sees.
type templateData struct {
	RecipientName string
	BandName      string
	VenueName     string
	OverallScore  int
	Status        string
	AcceptanceID  string
	Metadata      map[string]interface{}
}

var templates = map[string]messageTemplate{
	TypeRiderAccepted: {
		subject: template.Must(template.New("subject").Parse(
			`{{.VenueName}} accepted your Spider Rider`)),
		text: template.Must(template.New("text").Parse(
			`Hi {{.RecipientName}},

{{.VenueName}} has accepted the Spider Rider for {{.BandName}}.
Compatibility: {{.OverallScore}}/100 ({{.Status}}).
{{if .AcceptanceID}}Acceptance reference: {{.AcceptanceID}}
{{end}}
You can now request dates directly with the venue.`)),
		html: htmltemplate.Must(htmltemplate.New("html").Parse(
			`<p>Hi {{.RecipientName}},</p>
<p><strong>{{.VenueName}}</strong> has accepted the Spider Rider for <strong>{{.BandName}}</strong>.</p>
<p>Compatibility: {{.OverallScore}}/100 ({{.Status}})</p>
{{if .AcceptanceID}}<p>Acceptance reference: {{.AcceptanceID}}</p>{{end}}
<p>You can now request dates directly with the venue.</p>`)),
		sms: template.Must(template.New("sms").Parse(
			`{{.VenueName}} accepted your rider for {{.BandName}} ({{.OverallScore}}/100).`)),
	},
	TypeMatchFound: {
		subject: template.Must(template.New("subject").Parse(
			`New {{.Status}} match: {{.BandName}} at {{.VenueName}}`)),
		text: template.Must(template.New("text").Parse(
			`Hi {{.RecipientName}},

{{.BandName}} and {{.VenueName}} scored {{.OverallScore}}/100 ({{.Status}}).
Review the match to see each compatibility check.`)),
		html: htmltemplate.Must(htmltemplate.New("html").Parse(
			`<p>Hi {{.RecipientName}},</p>
<p><strong>{{.BandName}}</strong> and <strong>{{.VenueName}}</strong> scored {{.OverallScore}}/100 ({{.Status}}).</p>
<p>Review the match to see each compatibility check.</p>`)),
	},
}

func render(notificationType string, data templateData) (*rendered, error) {
	tmpl, ok := templates[notificationType]
	if !ok {
		return nil, fmt.Errorf("template not found for type: %s", notificationType)
	}

	out := &rendered{}
	var err error
	if out.Subject, err = execText(tmpl.subject, data); err != nil {
		return nil, err
	}
	if out.Text, err = execText(tmpl.text, data); err != nil {
		return nil, err
	}
	if tmpl.sms != nil {
		if out.SMS, err = execText(tmpl.sms, data); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := tmpl.html.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	out.HTML = buf.String()
	return out, nil
}

func execText(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
