package gmail

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
	"time"

	gmailapi "google.golang.org/api/gmail/v1"

	"github.com/recurhq/recur/internal/service"
)

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	htmlScriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	whitespacePattern = regexp.MustCompile(`[ \t]+`)
)

// decodeMessage reduces a raw Gmail message to the subject, sender, date,
// and plain-text body the detection pipeline reads. Multipart messages
// prefer the longest text/plain part; HTML-only messages are stripped to
// text.
func decodeMessage(raw *gmailapi.Message) (*service.Message, error) {
	if raw == nil || raw.Payload == nil {
		return nil, fmt.Errorf("message has no payload")
	}

	msg := &service.Message{ID: raw.Id}
	for _, h := range raw.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			msg.Subject = h.Value
		case "from":
			msg.Sender = h.Value
		}
	}

	if raw.InternalDate > 0 {
		msg.Date = time.UnixMilli(raw.InternalDate).UTC()
	}

	plain, html := collectBodies(raw.Payload)
	switch {
	case plain != "":
		msg.Body = plain
	case html != "":
		msg.Body = stripHTML(html)
	default:
		// A subject-only message can still carry enough signal.
		msg.Body = ""
	}

	return msg, nil
}

// collectBodies walks the MIME tree and returns the longest text/plain
// and text/html bodies found.
func collectBodies(part *gmailapi.MessagePart) (plain, html string) {
	if part == nil {
		return "", ""
	}

	if part.Body != nil && part.Body.Data != "" {
		decoded, err := base64.RawURLEncoding.DecodeString(part.Body.Data)
		if err == nil {
			text := string(decoded)
			switch {
			case strings.HasPrefix(part.MimeType, "text/plain") && len(text) > len(plain):
				plain = text
			case strings.HasPrefix(part.MimeType, "text/html") && len(text) > len(html):
				html = text
			}
		}
	}

	for _, child := range part.Parts {
		childPlain, childHTML := collectBodies(child)
		if len(childPlain) > len(plain) {
			plain = childPlain
		}
		if len(childHTML) > len(html) {
			html = childHTML
		}
	}

	return plain, html
}

// stripHTML reduces an HTML body to whitespace-normalized text.
func stripHTML(s string) string {
	s = htmlScriptPattern.ReplaceAllString(s, " ")
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = whitespacePattern.ReplaceAllString(s, " ")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
