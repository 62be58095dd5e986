// Package bankwesttest provides an in-memory online banking site for tests.
// Pages are plain HTML; selectors are evaluated with goquery, so a fake page answers
// the same CSS queries the real browser would.
package bankwesttest

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"retrieve-bankmail/internal/models"

	"github.com/PuerkitoBio/goquery"
)

const (
	LoginURL   = "https://bank.test/Session/PersonalLogin"
	HomeURL    = "https://bank.test/Home"
	FailedURL  = "https://bank.test/Session/PersonalLogin?error=1"
	MailURL    = "https://bank.test/SecureMailWeb/MailPage.aspx?app=cm"
	MessageURL = "https://bank.test/SecureMailWeb/ReadMailPage.aspx?msgid=%s&status=R"
)

// Config returns portal settings pointing at the fake site with short waits
func Config() models.PortalConfig {
	return models.PortalConfig{
		LoginURL:          LoginURL,
		MailURL:           MailURL,
		MessageURL:        MessageURL,
		Timeout:           time.Second,
		NavigationTimeout: time.Second,
	}
}

// Row is one message in the fake inbox
type Row struct {
	ID      string
	Subject string
	Sender  string
	Date    string
	Body    string

	OmitID      bool
	OmitSubject bool
	OmitBody    bool
}

// Site is a set of pages plus the login behaviour
type Site struct {
	Pages map[string]string
	// Accept decides whether a submitted identifier/secret pair logs in
	Accept func(identifier, secret string) bool
	// Logins counts submitted login forms
	Logins int
}

// NewSite builds the login, home, inbox and message pages for rows.
// The login form accepts exactly identifier/secret.
func NewSite(identifier, secret string, rows []Row) *Site {
	s := &Site{
		Pages: map[string]string{
			LoginURL:  loginPage(""),
			FailedURL: loginPage("Your login details are incorrect"),
			HomeURL:   `<html><body><a class="logoutButton" href="#">Logout</a></body></html>`,
			MailURL:   InboxPage(rows),
		},
		Accept: func(id, pw string) bool {
			return id == identifier && pw == secret
		},
	}

	for _, row := range rows {
		if row.OmitBody {
			s.Pages[fmt.Sprintf(MessageURL, row.ID)] = `<html><body><div class="error">Message unavailable</div></body></html>`
			continue
		}
		s.Pages[fmt.Sprintf(MessageURL, row.ID)] = MessagePage(row.Body)
	}

	return s
}

func loginPage(errMsg string) string {
	return `<html><body>
<form method="post">
  <span class="error">` + html.EscapeString(errMsg) + `</span>
  <input name="PAN" type="text"/>
  <input name="Password" type="password"/>
  <button name="button" type="submit">Login</button>
</form>
</body></html>`
}

// InboxPage renders the mail list table the way the portal lays it out
func InboxPage(rows []Row) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="leftColumn">
<table class="MasterTable_default">
<thead><tr><th></th><th>Subject</th><th>Date</th><th></th><th>From</th></tr></thead>
<tbody>
`)
	for _, row := range rows {
		b.WriteString("<tr>")
		if row.OmitID {
			b.WriteString(`<td></td>`)
		} else {
			fmt.Fprintf(&b, `<td><input type="hidden" value="%s"/></td>`, html.EscapeString(row.ID))
		}
		if row.OmitSubject {
			fmt.Fprintf(&b, `<td><span>%s</span></td>`, html.EscapeString(row.Subject))
		} else {
			fmt.Fprintf(&b, `<td><a href="#"><div>%s</div></a></td>`, html.EscapeString(row.Subject))
		}
		fmt.Fprintf(&b, `<td>%s</td>`, html.EscapeString(row.Date))
		b.WriteString(`<td><img src="unread.gif"/></td>`)
		fmt.Fprintf(&b, `<td><div>%s</div></td>`, html.EscapeString(row.Sender))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table></div></body></html>")
	return b.String()
}

// MessagePage renders a detail page whose body text carries literal <br> markup
func MessagePage(body string) string {
	return `<html><body><div id="rightColumn"><span id="ctl00_MainContent_lblBody">` +
		html.EscapeString(body) + `</span></div></body></html>`
}

// Page is a fake browser tab over a Site
type Page struct {
	Site    *Site
	URL     string
	Fields  map[string]string
	Visited []string
	Closed  int
}

// NewPage opens a blank page on site
func NewPage(site *Site) *Page {
	return &Page{Site: site, Fields: map[string]string{}}
}

func (p *Page) doc() (*goquery.Document, error) {
	src, ok := p.Site.Pages[p.URL]
	if !ok {
		src = `<html><body><h1>Not Found</h1></body></html>`
	}
	return goquery.NewDocumentFromReader(strings.NewReader(src))
}

func (p *Page) find(ctx context.Context, selector string) (*goquery.Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := p.doc()
	if err != nil {
		return nil, err
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, context.DeadlineExceeded
	}
	return sel, nil
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Closed > 0 {
		return fmt.Errorf("page closed")
	}
	p.URL = url
	p.Visited = append(p.Visited, url)
	p.Fields = map[string]string{}
	return nil
}

func (p *Page) WaitElement(ctx context.Context, selector string) error {
	_, err := p.find(ctx, selector)
	return err
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if _, err := p.find(ctx, selector); err != nil {
		return err
	}
	p.Fields[selector] = value
	return nil
}

// Click on the login button submits the form; other clicks are no-ops.
func (p *Page) Click(ctx context.Context, selector string) error {
	sel, err := p.find(ctx, selector)
	if err != nil {
		return err
	}
	if name, _ := sel.Attr("name"); name != "button" {
		return nil
	}

	p.Site.Logins++
	next := FailedURL
	if p.Site.Accept(p.Fields[`input[name="PAN"]`], p.Fields[`input[name="Password"]`]) {
		next = HomeURL
	}
	return p.Navigate(ctx, next)
}

func (p *Page) Text(ctx context.Context, selector string) (string, error) {
	sel, err := p.find(ctx, selector)
	if err != nil {
		return "", err
	}
	return sel.Text(), nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if src, ok := p.Site.Pages[p.URL]; ok {
		return src, nil
	}
	return "", nil
}

func (p *Page) Close() error {
	p.Closed++
	return nil
}
