package email

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

var thankYouTmpl = template.Must(template.New("thankyou").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0ea5e9;">Thank you, {{.Name}}!</h2>
  <p>We received your interest in joining the Village of Wonder Lake for the property at <strong>{{.Address}}</strong>.</p>
  <p>A member of the One Wonder Lake team will reach out with next steps about voluntary annexation. In the meantime you can read answers to common questions on our website.</p>
  <p><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>
  <hr style="border: none; border-top: 1px solid #e5e7eb;">
  <p style="font-size: 12px; color: #6b7280;">Don't want these emails? <a href="{{.UnsubscribeURL}}">Unsubscribe</a>.</p>
</div>`))

var answerTmpl = template.Must(template.New("answer").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #0ea5e9;">Hi {{.Name}},</h2>
  <p>You asked:</p>
  <blockquote style="border-left: 3px solid #0ea5e9; padding-left: 12px; color: #374151;">{{.Question}}</blockquote>
  <p>Here is our answer:</p>
  <p>{{.Answer}}</p>
  <hr style="border: none; border-top: 1px solid #e5e7eb;">
  <p style="font-size: 12px; color: #6b7280;">Don't want these emails? <a href="{{.UnsubscribeURL}}">Unsubscribe</a>.</p>
</div>`))

// UnsubscribeURL builds the link that lands on the site's unsubscribe page.
func UnsubscribeURL(siteURL, token, kind string) string {
	q := url.Values{"token": {token}, "type": {kind}}
	return strings.TrimRight(siteURL, "/") + "/unsubscribe?" + q.Encode()
}

// ThankYou renders the note sent after an interest submission.
func ThankYou(siteURL, name, address, token string) (subject, html string, err error) {
	var buf bytes.Buffer
	err = thankYouTmpl.Execute(&buf, map[string]string{
		"Name":           name,
		"Address":        address,
		"SiteURL":        siteURL,
		"UnsubscribeURL": UnsubscribeURL(siteURL, token, RelatedInterested),
	})
	if err != nil {
		return "", "", eris.Wrap(err, "email: render thank-you")
	}
	return "Thank you for your interest in One Wonder Lake", buf.String(), nil
}

// AnswerNotice renders the note sent when a community question is answered.
func AnswerNotice(siteURL, name, question, answer, token string) (subject, html string, err error) {
	var buf bytes.Buffer
	err = answerTmpl.Execute(&buf, map[string]string{
		"Name":           name,
		"Question":       question,
		"Answer":         answer,
		"UnsubscribeURL": UnsubscribeURL(siteURL, token, RelatedQuestion),
	})
	if err != nil {
		return "", "", eris.Wrap(err, "email: render answer")
	}
	return "Your question about Wonder Lake annexation has been answered", buf.String(), nil
}
