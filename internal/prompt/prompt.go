package prompt

import (
	"strings"

	"docsummarizer/internal/domain"
)

const systemPrompt = "You are an assistant that analyzes the contents of a document or webpage " +
	"and provides a short summary, ignoring navigation or irrelevant boilerplate text. " +
	"Respond in markdown."

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

type Message struct {
	Role    Role
	Content string
}

// Spec is the ordered system/user message pair sent to a summarizer.
type Spec struct {
	Messages []Message
}

// Build never truncates the document text.
func Build(doc domain.Document) Spec {
	var user strings.Builder
	user.Grow(len(doc.Title) + len(doc.Text) + 96)
	user.WriteString("You are analyzing a document titled **")
	user.WriteString(doc.Title)
	user.WriteString("**. Please summarize the following content:\n\n")
	user.WriteString(doc.Text)

	return Spec{
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: user.String()},
		},
	}
}

func (s Spec) System() string {
	return s.content(RoleSystem)
}

func (s Spec) User() string {
	return s.content(RoleUser)
}

func (s Spec) content(role Role) string {
	for _, m := range s.Messages {
		if m.Role == role {
			return m.Content
		}
	}

	return ""
}
