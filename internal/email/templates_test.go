package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

func TestRenderNotification(t *testing.T) {
	data := TemplateData{
		RecipientName: "Meron",
		Title:         "Fix the compressor",
		Message:       "You have been assigned a new task.",
		AppURL:        "https://tasks.example.com",
	}

	subject, html, text, err := RenderNotification(domain.ActionTaskAssigned, data)
	require.NoError(t, err)

	assert.Equal(t, "Task assigned to you: Fix the compressor", subject)
	assert.Contains(t, html, "Fix the compressor")
	assert.Contains(t, html, "https://tasks.example.com")
	assert.Contains(t, text, "You have been assigned a new task.")
}

func TestRenderNotification_UnknownActionFallsBack(t *testing.T) {
	subject, _, _, err := RenderNotification(domain.ActionType("SOMETHING_ELSE"), TemplateData{
		RecipientName: "Meron",
		Title:         "Plain title",
		Message:       "m",
	})
	require.NoError(t, err)
	assert.Equal(t, "Plain title", subject)
}

func TestRenderNotification_EscapesHTML(t *testing.T) {
	_, html, text, err := RenderNotification(domain.ActionCommentAdded, TemplateData{
		RecipientName: "Meron",
		Title:         "t",
		Message:       `<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, text, "<script>", "text body is not HTML escaped")
}

func TestBuildMessage(t *testing.T) {
	job, err := NewJob("user@example.com", "Task reminder: water the plants",
		"<p>hello</p>", "hello", JobContext{})
	require.NoError(t, err)

	msg, err := buildMessage("noreply@tasks.example.com", job)
	require.NoError(t, err)

	raw := string(msg)
	assert.Contains(t, raw, "From: <noreply@tasks.example.com>")
	assert.Contains(t, raw, "To: <user@example.com>")
	assert.Contains(t, raw, "Subject: ")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	// Text part first so minimal clients stop there.
	assert.Less(t, strings.Index(raw, "text/plain"), strings.Index(raw, "text/html"))
}

func TestRenderWelcomeAndReset(t *testing.T) {
	subject, html, _, err := RenderWelcome(TemplateData{RecipientName: "Meron", AppURL: "https://tasks.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Task Manager", subject)
	assert.Contains(t, html, "Welcome aboard")

	subject, html, text, err := RenderPasswordReset(TemplateData{
		RecipientName: "Meron",
		Message:       "A password reset was requested for your account.",
		AppURL:        "https://tasks.example.com/reset?token=abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, html, "token=abc")
	assert.Contains(t, text, "A password reset was requested")
}
