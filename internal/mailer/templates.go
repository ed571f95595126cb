package mailer

import (
	"bytes"
	"html/template"
	"time"
)

var (
	otpTemplate = template.Must(template.New("otp").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>{{.Title}}</h2>
<p>Your verification code is:</p>
<p style="font-size:28px;letter-spacing:6px"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
</body></html>`))

	inviteTemplate = template.Must(template.New("invite").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<p>Hello {{.NomineeName}},</p>
<p>{{.OwnerName}} has named you as a trusted nominee in Family Vault.</p>
<p><a href="{{.Link}}">Confirm your email address</a></p>
</body></html>`))

	grantTemplate = template.Must(template.New("grant").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<p>Hello {{.NomineeName}},</p>
<p>{{.OwnerName}} has been inactive for {{.Days}} days. You can now request emergency access to the documents they shared with you.</p>
{{if .CustomMessage}}<blockquote>{{.CustomMessage}}</blockquote>{{end}}
</body></html>`))
)

func render(t *template.Template, data any) (string, error) {
	var b bytes.Buffer
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// OTPMessage renders the email carrying a one-time password. title names
// what the code is for, e.g. "Confirm your sign-up".
func OTPMessage(to, title, code string, validity time.Duration) (Message, error) {
	html, err := render(otpTemplate, struct {
		Title   string
		Code    string
		Minutes int
	}{title, code, int(validity.Minutes())})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: title, HTML: html}, nil
}

// InviteMessage renders the nominee invitation with the verification link.
func InviteMessage(to, nomineeName, ownerName, link string) (Message, error) {
	html, err := render(inviteTemplate, struct {
		NomineeName, OwnerName, Link string
	}{nomineeName, ownerName, link})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: "You have been named a Family Vault nominee", HTML: html}, nil
}

// GrantMessage renders the notification sent to nominees when emergency
// access opens for an inactive owner.
func GrantMessage(to, nomineeName, ownerName, customMessage string, days int) (Message, error) {
	html, err := render(grantTemplate, struct {
		NomineeName, OwnerName, CustomMessage string
		Days                                  int
	}{nomineeName, ownerName, customMessage, days})
	if err != nil {
		return Message{}, err
	}
	return Message{To: []string{to}, Subject: "Emergency access is now available", HTML: html}, nil
}
