package models

// Message represents one bankmail inbox entry scraped from the mail list
type Message struct {
	id      string
	subject string
	sender  string
	date    string

	content    string
	hasContent bool
}

// NewMessage creates a Message from the fields of one inbox row. Values are stored verbatim.
func NewMessage(id, subject, sender, date string) *Message {
	return &Message{
		id:      id,
		subject: subject,
		sender:  sender,
		date:    date,
	}
}

func (m *Message) ID() string      { return m.id }
func (m *Message) Subject() string { return m.subject }
func (m *Message) Sender() string  { return m.sender }

// Date returns the date text exactly as the portal rendered it.
func (m *Message) Date() string { return m.date }

// SetContent attaches the message body. A later call replaces the earlier value.
func (m *Message) SetContent(content string) {
	m.content = content
	m.hasContent = true
}

// Content returns the body and whether it has been set.
func (m *Message) Content() (string, bool) {
	return m.content, m.hasContent
}
