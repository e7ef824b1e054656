package mail

import (
	"bytes"
	"html/template"
)

type EnquiryData struct {
	PropertyTitle    string
	PropertyURL      string
	Name             string
	Contact          string
	Message          string
	PreferredContact string
}

var enquiryTemplate = template.Must(template.New("enquiry").Parse(`<div style="font-family: Arial, sans-serif; background:#f7f9fc; padding:24px;">
  <div style="max-width:600px; margin:auto; background:#ffffff; padding:24px; border-radius:8px;">
    <h2 style="color:#0e2442; margin-bottom:12px;">New Property Enquiry</h2>
    <p style="color:#4e6c95; margin-bottom:20px;">A new enquiry has been submitted for the property below.</p>
    <table style="width:100%; border-collapse:collapse; margin-bottom:20px;">
      <tr><td style="padding:8px 0; font-weight:bold;">Property</td><td style="padding:8px 0;">{{.PropertyTitle}}</td></tr>
      <tr><td style="padding:8px 0; font-weight:bold;">Name</td><td style="padding:8px 0;">{{.Name}}</td></tr>
      <tr><td style="padding:8px 0; font-weight:bold;">Contact</td><td style="padding:8px 0;">{{.Contact}}</td></tr>
      <tr><td style="padding:8px 0; font-weight:bold;">Preferred Contact</td><td style="padding:8px 0; text-transform:capitalize;">{{.PreferredContact}}</td></tr>
    </table>
    {{if .Message}}<p style="margin-bottom:20px;"><strong>Message:</strong><br/>{{.Message}}</p>{{end}}
    <a href="{{.PropertyURL}}" style="display:inline-block; padding:12px 18px; background:#0e2442; color:#ffffff; text-decoration:none; border-radius:6px; font-weight:bold;">View Property</a>
    <p style="margin-top:30px; font-size:12px; color:#888;">This enquiry was generated via AB Real Estate.</p>
  </div>
</div>
`))

// EnquiryMessage renders the agent/admin notification for a new enquiry.
// All interpolated values are HTML-escaped.
func EnquiryMessage(to []string, data EnquiryData) (Message, error) {
	var buf bytes.Buffer
	if err := enquiryTemplate.Execute(&buf, data); err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "New Enquiry – " + data.PropertyTitle,
		HTML:    buf.String(),
	}, nil
}
