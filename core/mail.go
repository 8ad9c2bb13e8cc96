package core

import (
	"bytes"
	htmltmpl "html/template"
	"net/mail"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templates   = make(map[string]emailTemplate)
	templatesMu sync.RWMutex
)

type (
	emailTemplate struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}

	EmailMessage struct {
		To      []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// RegisterEmailTemplate parses and stores the text & HTML bodies of an email template.
// Templates are strict: a missing key fails rendering.
func RegisterEmailTemplate(name, text, html string) error {
	tt, err := texttmpl.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return errors.Wrapf(err, "parsing %s text template", name)
	}
	ht, err := htmltmpl.New(name).Option("missingkey=error").Parse(html)
	if err != nil {
		return errors.Wrapf(err, "parsing %s html template", name)
	}

	templatesMu.Lock()
	defer templatesMu.Unlock()
	templates[name] = emailTemplate{text: tt, html: ht}
	return nil
}

func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
		return nil
	} else if m.TemplateName == "" {
		return nil
	}

	templatesMu.RLock()
	tmpl, ok := templates[m.TemplateName]
	templatesMu.RUnlock()
	if !ok {
		return errors.Errorf("email template %q not registered", m.TemplateName)
	}

	var buff bytes.Buffer
	if err := tmpl.text.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrap(err, "rendering text")
	}
	m.TextContent = buff.String()

	buff.Reset()
	if err := tmpl.html.Execute(&buff, m.TemplateData); err != nil {
		return errors.Wrap(err, "rendering html")
	}
	m.HTMLContent = buff.String()
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }
