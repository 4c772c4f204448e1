package model

import (
	"strings"
	"time"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one persisted entry of a thread's history, keyed by
// (ThreadID, MessageID).  Content is the plain text flattened from the
// assistant service's content blocks.
type Message struct {
	ThreadID    string
	MessageID   string
	Role        Role
	Content     string
	CreatedAt   time.Time
	AssistantID string
}

// ContentType tags the variant held by a ContentBlock.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentImageFile ContentType = "image_file"
	ContentImageURL  ContentType = "image_url"
)

// ContentBlock is a single typed part of a message body.  Only the field
// matching Type is meaningful.
type ContentBlock struct {
	Type     ContentType
	Text     string // ContentText
	FileID   string // ContentImageFile
	ImageURL string // ContentImageURL
}

// TextBlock is shorthand for a text content block.
func TextBlock(s string) ContentBlock {
	return ContentBlock{Type: ContentText, Text: s}
}

// FlattenText joins the text blocks with newlines and drops every other
// variant.
func FlattenText(blocks []ContentBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == ContentText {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
