package mailformat

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"retrieve-bankmail/internal/models"

	"github.com/emersion/go-message/mail"
)

// The portal's text extraction keeps line breaks as literal markup
var lineBreakMarkup = regexp.MustCompile(`(?i)<br\s*/?>`)

// NormalizeContent replaces every line-break tag in text with a newline.
// Text without such markup is returned unchanged.
func NormalizeContent(text string) string {
	return lineBreakMarkup.ReplaceAllString(text, "\n")
}

// Date formats seen on the mail list, most specific first
var dateLayouts = []string{
	"02/01/2006 3:04 PM",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
}

// ParseDate interprets the bank-supplied date text. It is only used for rendering;
// the record itself keeps the raw text.
func ParseDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MessageTime returns the parsed message date or fallback when the text is not recognized
func MessageTime(msg *models.Message, fallback time.Time) time.Time {
	if t, ok := ParseDate(msg.Date()); ok {
		return t
	}
	return fallback
}

// Render writes msg as a single-part text/plain RFC 5322 message.
func Render(w io.Writer, msg *models.Message, fromAddress string, date time.Time) error {
	content, ok := msg.Content()
	if !ok {
		return fmt.Errorf("message %s has no content", msg.ID())
	}

	var h mail.Header
	h.SetDate(date)
	h.SetSubject(msg.Subject())
	h.SetAddressList("From", []*mail.Address{{Name: msg.Sender(), Address: fromAddress}})
	h.SetText("X-Bankmail-Id", msg.ID())
	h.SetText("X-Bankmail-Date", msg.Date())
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	wc, err := mail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("writing header of message %s: %w", msg.ID(), err)
	}
	if _, err := io.WriteString(wc, content); err != nil {
		return fmt.Errorf("writing body of message %s: %w", msg.ID(), err)
	}
	return wc.Close()
}
