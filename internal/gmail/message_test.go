package gmail

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmailapi "google.golang.org/api/gmail/v1"
)

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecodeMessageHeaders(t *testing.T) {
	raw := &gmailapi.Message{
		Id:           "msg-1",
		InternalDate: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC).UnixMilli(),
		Payload: &gmailapi.MessagePart{
			MimeType: "text/plain",
			Headers: []*gmailapi.MessagePartHeader{
				{Name: "Subject", Value: "Your Netflix receipt"},
				{Name: "From", Value: "Netflix <info@netflix.com>"},
			},
			Body: &gmailapi.MessagePartBody{Data: encode("Payment received: $15.99")},
		},
	}

	msg, err := decodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.ID)
	assert.Equal(t, "Your Netflix receipt", msg.Subject)
	assert.Equal(t, "Netflix <info@netflix.com>", msg.Sender)
	assert.Equal(t, 2024, msg.Date.Year())
	assert.Equal(t, "Payment received: $15.99", msg.Body)
}

func TestDecodeMessagePrefersLongestPlainPart(t *testing.T) {
	raw := &gmailapi.Message{
		Id: "msg-2",
		Payload: &gmailapi.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailapi.MessagePart{
				{
					MimeType: "text/plain",
					Body:     &gmailapi.MessagePartBody{Data: encode("short")},
				},
				{
					MimeType: "text/html",
					Body:     &gmailapi.MessagePartBody{Data: encode("<p>html version of the receipt</p>")},
				},
				{
					MimeType: "multipart/mixed",
					Parts: []*gmailapi.MessagePart{
						{
							MimeType: "text/plain; charset=utf-8",
							Body:     &gmailapi.MessagePartBody{Data: encode("a much longer plain text body with the receipt details")},
						},
					},
				},
			},
		},
	}

	msg, err := decodeMessage(raw)
	require.NoError(t, err)
	assert.Equal(t, "a much longer plain text body with the receipt details", msg.Body)
}

func TestDecodeMessageHTMLFallback(t *testing.T) {
	raw := &gmailapi.Message{
		Id: "msg-3",
		Payload: &gmailapi.MessagePart{
			MimeType: "text/html",
			Body: &gmailapi.MessagePartBody{
				Data: encode("<html><style>p{color:red}</style><body><p>Thank you for your payment of <b>$9.99</b></p></body></html>"),
			},
		},
	}

	msg, err := decodeMessage(raw)
	require.NoError(t, err)
	assert.Contains(t, msg.Body, "Thank you for your payment of $9.99")
	assert.NotContains(t, msg.Body, "<p>")
	assert.NotContains(t, msg.Body, "color:red")
}

func TestDecodeMessageNoPayload(t *testing.T) {
	_, err := decodeMessage(&gmailapi.Message{Id: "msg-4"})
	assert.Error(t, err)
}

func TestStripHTMLEntities(t *testing.T) {
	got := stripHTML("Caf&eacute; &amp; co &nbsp; charged &quot;you&quot;")
	assert.Contains(t, got, `& co`)
	assert.Contains(t, got, `"you"`)
}
