package bankwest

import (
	"context"
	"fmt"
	"strings"

	"retrieve-bankmail/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	rowSelector     = `.MasterTable_default > tbody > tr`
	subjectSelector = `a > div`
	cellSelector    = `td`
	senderSelector  = `div`
	idSelector      = `td > input`
)

// Positional cells within an inbox row
const (
	dateCell   = 2
	senderCell = 4
)

// Enumerate reads every inbox row off the rendered mail list, keeping at most limit rows
// when limit is non-negative. The whole list is materialized before returning.
func (p *Portal) Enumerate(ctx context.Context, limit int) ([]*models.Message, error) {
	if p.state != models.SessionAuthenticated {
		return nil, ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	p.log.Debug("getting page content")
	html, err := p.page.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading mail page: %w", err)
	}

	messages, err := ParseInbox(html, limit)
	if err != nil {
		return nil, err
	}

	p.log.Tracef("retrieved %d messages", len(messages))
	return messages, nil
}

// ParseInbox extracts messages from mail list HTML in the order the rows appear.
// Any retained row missing one of its fields fails the whole parse.
func ParseInbox(html string, limit int) ([]*models.Message, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing mail page: %w", err)
	}

	rows := doc.Find(rowSelector)
	if limit >= 0 && limit < rows.Length() {
		rows = rows.Slice(0, limit)
	}

	messages := make([]*models.Message, 0, rows.Length())
	var rowErr error
	rows.EachWithBreak(func(i int, row *goquery.Selection) bool {
		msg, err := parseRow(i+1, row)
		if err != nil {
			rowErr = err
			return false
		}
		messages = append(messages, msg)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	return messages, nil
}

func parseRow(n int, row *goquery.Selection) (*models.Message, error) {
	missing := func(selector string) error {
		return &StructureError{Page: "inbox", Selector: selector, Row: n}
	}

	subject := row.Find(subjectSelector).First()
	if subject.Length() == 0 {
		return nil, missing(subjectSelector)
	}

	cells := row.Find(cellSelector)
	if cells.Length() <= senderCell {
		return nil, missing(fmt.Sprintf("%s:nth-of-type(%d)", cellSelector, senderCell+1))
	}

	sender := cells.Eq(senderCell).Find(senderSelector).First()
	if sender.Length() == 0 {
		return nil, missing(senderSelector)
	}

	id, ok := row.Find(idSelector).First().Attr("value")
	if !ok || strings.TrimSpace(id) == "" {
		return nil, missing(idSelector + "[value]")
	}

	return models.NewMessage(id, innerText(subject), innerText(sender), innerText(cells.Eq(dateCell))), nil
}

// innerText approximates the rendered text of an element by collapsing whitespace runs.
func innerText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}
