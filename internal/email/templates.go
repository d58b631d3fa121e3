package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// TemplateData is the input to every notification template.
type TemplateData struct {
	RecipientName string
	Title         string
	Message       string
	AppURL        string
}

const notificationHTMLBody = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>{{.Title}}</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>{{.Message}}</p>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Open the app</a> to see the details.</p>{{end}}
  <p style="color: #7b8794; font-size: 12px;">You are receiving this because of your notification preferences.</p>
</body>
</html>`

const notificationTextBody = `{{.Title}}

Hi {{.RecipientName}},

{{.Message}}
{{if .AppURL}}
Open {{.AppURL}} to see the details.
{{end}}
You are receiving this because of your notification preferences.`

const welcomeHTMLBody = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Welcome aboard</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>Your account is ready. Sign in to pick up your first task.</p>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Sign in</a></p>{{end}}
</body>
</html>`

const welcomeTextBody = `Welcome aboard

Hi {{.RecipientName}},

Your account is ready. Sign in to pick up your first task.
{{if .AppURL}}
Sign in at {{.AppURL}}
{{end}}`

const passwordResetHTMLBody = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #1f2933;">
  <h2>Password reset</h2>
  <p>Hi {{.RecipientName}},</p>
  <p>{{.Message}}</p>
  {{if .AppURL}}<p><a href="{{.AppURL}}">Reset your password</a></p>{{end}}
  <p style="color: #7b8794; font-size: 12px;">If you did not request this, you can ignore this email.</p>
</body>
</html>`

const passwordResetTextBody = `Password reset

Hi {{.RecipientName}},

{{.Message}}
{{if .AppURL}}
Reset your password at {{.AppURL}}
{{end}}
If you did not request this, you can ignore this email.`

var (
	notificationHTML  = htmltemplate.Must(htmltemplate.New("notification_html").Parse(notificationHTMLBody))
	notificationText  = texttemplate.Must(texttemplate.New("notification_text").Parse(notificationTextBody))
	welcomeHTML       = htmltemplate.Must(htmltemplate.New("welcome_html").Parse(welcomeHTMLBody))
	welcomeText       = texttemplate.Must(texttemplate.New("welcome_text").Parse(welcomeTextBody))
	passwordResetHTML = htmltemplate.Must(htmltemplate.New("password_reset_html").Parse(passwordResetHTMLBody))
	passwordResetText = texttemplate.Must(texttemplate.New("password_reset_text").Parse(passwordResetTextBody))
)

// subjectPrefixes maps each action type to the subject line prefix.
var subjectPrefixes = map[domain.ActionType]string{
	domain.ActionTaskCreated:     "New task",
	domain.ActionTaskAssigned:    "Task assigned to you",
	domain.ActionTaskUpdated:     "Task updated",
	domain.ActionTaskCompleted:   "Task completed",
	domain.ActionTaskDeleted:     "Task deleted",
	domain.ActionTaskRestored:    "Task restored",
	domain.ActionTaskReminder:    "Task reminder",
	domain.ActionActivityCreated: "New activity",
	domain.ActionActivityUpdated: "Activity updated",
	domain.ActionActivityDeleted: "Activity deleted",
	domain.ActionCommentAdded:    "New comment",
	domain.ActionCommentUpdated:  "Comment updated",
	domain.ActionMention:         "You were mentioned",
	domain.ActionAnnouncement:    "Announcement",
}

// RenderNotification produces the subject and both bodies for one
// notification email. Unknown action types fall back to the bare title.
func RenderNotification(action domain.ActionType, data TemplateData) (subject, html, text string, err error) {
	subject = data.Title
	if prefix, ok := subjectPrefixes[action]; ok {
		subject = fmt.Sprintf("%s: %s", prefix, data.Title)
	}
	html, text, err = render(notificationHTML, notificationText, data)
	return subject, html, text, err
}

// RenderWelcome produces the account welcome email.
func RenderWelcome(data TemplateData) (subject, html, text string, err error) {
	html, text, err = render(welcomeHTML, welcomeText, data)
	return "Welcome to Task Manager", html, text, err
}

// RenderPasswordReset produces the password reset email.
func RenderPasswordReset(data TemplateData) (subject, html, text string, err error) {
	html, text, err = render(passwordResetHTML, passwordResetText, data)
	return "Reset your password", html, text, err
}

func render(html *htmltemplate.Template, text *texttemplate.Template, data TemplateData) (string, string, error) {
	var htmlBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render html template: %w", err)
	}
	var textBuf bytes.Buffer
	if err := text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render text template: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
