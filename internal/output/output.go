package output

import (
	"fmt"
	"io"
	"time"

	"retrieve-bankmail/internal/mailformat"
	"retrieve-bankmail/internal/models"

	"github.com/emersion/go-mbox"
	"github.com/sirupsen/logrus"
)

// Emitter writes retrieved messages in the order they are handed over
type Emitter interface {
	Emit(msg *models.Message) error
	Close() error
}

// LogEmitter writes one structured log record per message
type LogEmitter struct {
	log *logrus.Entry
}

func NewLogEmitter(log *logrus.Entry) *LogEmitter {
	return &LogEmitter{log: log}
}

func (e *LogEmitter) Emit(msg *models.Message) error {
	content, ok := msg.Content()
	if !ok {
		return fmt.Errorf("message %s has no content", msg.ID())
	}

	e.log.WithFields(logrus.Fields{
		"id":      msg.ID(),
		"from":    msg.Sender(),
		"subject": msg.Subject(),
		"date":    msg.Date(),
		"content": content,
	}).Info("bankmail")
	return nil
}

func (e *LogEmitter) Close() error { return nil }

// MboxEmitter streams messages as an mbox file
type MboxEmitter struct {
	w           *mbox.Writer
	fromAddress string
	now         func() time.Time
}

func NewMboxEmitter(w io.Writer, fromAddress string) *MboxEmitter {
	return &MboxEmitter{
		w:           mbox.NewWriter(w),
		fromAddress: fromAddress,
		now:         time.Now,
	}
}

func (e *MboxEmitter) Emit(msg *models.Message) error {
	date := mailformat.MessageTime(msg, e.now())

	mw, err := e.w.CreateMessage(e.fromAddress, date)
	if err != nil {
		return fmt.Errorf("starting mbox entry for %s: %w", msg.ID(), err)
	}
	return mailformat.Render(mw, msg, e.fromAddress, date)
}

// Close terminates the last mbox entry.
func (e *MboxEmitter) Close() error {
	return e.w.Close()
}
