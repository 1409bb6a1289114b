package notify

import (
	"bytes"
	"fmt"
	"html/template"
	texttemplate "text/template"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

const (
	subjectPrefix   = "New Contact Submission: "
	fallbackSubject = "No Subject"
)

var textBody = texttemplate.Must(texttemplate.New("text").Parse(`You have received a new message from your website contact form.

Details:
Name: {{.Name}}
Email: {{.Email}}
Phone: {{.CountryCode}} {{.Phone}}
Category: {{.Category}}
Sub-Category: {{.SubCategory}}

Message:
{{.Message}}
`))

var htmlBody = template.Must(template.New("html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Contact Submission</h2>
  <div style="background: #f9f9f9; padding: 20px; border-radius: 5px;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
    <p><strong>Phone:</strong> {{.CountryCode}} {{.Phone}}</p>
    <p><strong>Category:</strong> {{.Category}}</p>
    <p><strong>Sub-Category:</strong> {{.SubCategory}}</p>
    <hr style="border: 0; border-top: 1px solid #ddd; margin: 20px 0;">
    <p><strong>Message:</strong></p>
    <p style="white-space: pre-wrap;">{{.Message}}</p>
  </div>
</div>
`))

// htmlView is the data for the HTML alternative. html/template escapes each
// field for its context, so visitor text shows up verbatim.
type htmlView struct {
	Name        string
	Email       string
	CountryCode string
	Phone       string
	Category    string
	SubCategory string
	Message     string
}

// Subject builds the operator-facing subject line.
func Subject(s *domain.Submission) string {
	if s.Subject == "" {
		return subjectPrefix + fallbackSubject
	}
	return subjectPrefix + s.Subject
}

// RenderText renders the plain-text body.
func RenderText(s *domain.Submission) (string, error) {
	var buf bytes.Buffer
	if err := textBody.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render text body: %w", err)
	}
	return buf.String(), nil
}

// RenderHTML renders the HTML alternative.
func RenderHTML(s *domain.Submission) (string, error) {
	view := htmlView{
		Name:        s.Name,
		Email:       s.Email,
		CountryCode: s.CountryCode,
		Phone:       s.Phone,
		Category:    s.Category,
		SubCategory: s.SubCategory,
		Message:     s.Message,
	}

	var buf bytes.Buffer
	if err := htmlBody.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return buf.String(), nil
}
