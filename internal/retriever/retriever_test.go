package retriever

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"retrieve-bankmail/internal/bankwest"
	"retrieve-bankmail/internal/bankwest/bankwesttest"
	"retrieve-bankmail/internal/config"
	"retrieve-bankmail/internal/credential"
	"retrieve-bankmail/internal/models"
	"retrieve-bankmail/internal/output"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type MockBrowser struct {
	Page    *bankwesttest.Page
	OpenErr error
}

func (m *MockBrowser) Open(ctx context.Context) (bankwest.Page, error) {
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return m.Page, nil
}

type MockCredentials struct {
	Pair models.Credential
	Err  error
}

func (m *MockCredentials) Credential(context.Context) (models.Credential, error) {
	return m.Pair, m.Err
}

func (m *MockCredentials) Invalidate(context.Context, models.Credential) error {
	return nil
}

type collectingEmitter struct {
	messages []*models.Message
}

func (c *collectingEmitter) Emit(msg *models.Message) error {
	c.messages = append(c.messages, msg)
	return nil
}

func (c *collectingEmitter) Close() error { return nil }

func rows(n int) []bankwesttest.Row {
	out := make([]bankwesttest.Row, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, bankwesttest.Row{
			ID:      fmt.Sprintf("ID-%d", i),
			Subject: fmt.Sprintf("Subject %d", i),
			Sender:  "Bankwest",
			Date:    "05/03/2024",
			Body:    fmt.Sprintf("Hello %d<br>Bankwest", i),
		})
	}
	return out
}

func testConfig(limit int) *models.Config {
	cfg := config.Default()
	cfg.Portal = bankwesttest.Config()
	cfg.Limit = limit
	return cfg
}

func setup(site *bankwesttest.Site, limit int) (*Retriever, *bankwesttest.Page, *collectingEmitter, *test.Hook) {
	log, hook := test.NewNullLogger()
	page := bankwesttest.NewPage(site)
	emitter := &collectingEmitter{}
	creds := &MockCredentials{Pair: models.Credential{Identifier: "12345678", Secret: "right"}}
	r := New(&MockBrowser{Page: page}, creds, emitter, testConfig(limit), logrus.NewEntry(log))
	return r, page, emitter, hook
}

func TestRun_EndToEndWithLimit(t *testing.T) {
	site := bankwesttest.NewSite("12345678", "right", rows(5))
	r, page, emitter, hook := setup(site, 3)

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, emitter.messages, 3)

	for i, msg := range emitter.messages {
		require.Equal(t, fmt.Sprintf("ID-%d", i+1), msg.ID())
		require.NotEmpty(t, msg.Subject())
		require.NotEmpty(t, msg.Sender())
		require.NotEmpty(t, msg.Date())
		content, ok := msg.Content()
		require.True(t, ok)
		require.Equal(t, fmt.Sprintf("Hello %d\nBankwest", i+1), content)
	}

	var fetched []string
	for _, u := range page.Visited {
		for i := 1; i <= 5; i++ {
			if u == fmt.Sprintf(bankwesttest.MessageURL, fmt.Sprintf("ID-%d", i)) {
				fetched = append(fetched, u)
			}
		}
	}
	require.Equal(t, []string{
		fmt.Sprintf(bankwesttest.MessageURL, "ID-1"),
		fmt.Sprintf(bankwesttest.MessageURL, "ID-2"),
		fmt.Sprintf(bankwesttest.MessageURL, "ID-3"),
	}, fetched)

	require.Equal(t, 1, page.Closed)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "finished getting mail", entry.Message)
	require.Equal(t, 3, entry.Data["count"])
}

func TestRun_NoLimit(t *testing.T) {
	site := bankwesttest.NewSite("12345678", "right", rows(4))
	r, _, emitter, _ := setup(site, models.NoLimit)

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Len(t, emitter.messages, 4)
}

func TestRun_MalformedRowEmitsNothing(t *testing.T) {
	data := rows(5)
	data[1].OmitID = true
	site := bankwesttest.NewSite("12345678", "right", data)
	r, page, emitter, _ := setup(site, models.NoLimit)

	n, err := r.Run(context.Background())
	require.Equal(t, PhaseEnumerate, FailedPhase(err), "got %v", err)
	require.True(t, bankwest.IsStructureError(err), "got %v", err)
	require.Zero(t, n)
	require.Empty(t, emitter.messages)
	require.Equal(t, 1, page.Closed)
}

func TestRun_LoginFatal(t *testing.T) {
	site := bankwesttest.NewSite("12345678", "another", rows(2))
	r, page, emitter, _ := setup(site, models.NoLimit)

	_, err := r.Run(context.Background())
	require.Equal(t, PhaseLogin, FailedPhase(err), "got %v", err)
	require.ErrorIs(t, err, bankwest.ErrLoginFailed)
	require.Equal(t, 2, site.Logins)
	require.Empty(t, emitter.messages)
	require.Equal(t, 1, page.Closed)
}

func TestRun_EnvOnlyWrongPasswordIsLoginFailure(t *testing.T) {
	t.Setenv("PAN", "12345678")
	t.Setenv("PASSWORD", "wrong")

	site := bankwesttest.NewSite("12345678", "right", rows(2))
	log, _ := test.NewNullLogger()
	entry := logrus.NewEntry(log)
	page := bankwesttest.NewPage(site)
	resolver := credential.NewResolver("test", entry, credential.NewEnvStore("PAN", "PASSWORD"))
	r := New(&MockBrowser{Page: page}, resolver, &collectingEmitter{}, testConfig(models.NoLimit), entry)

	_, err := r.Run(context.Background())
	require.Equal(t, PhaseLogin, FailedPhase(err), "got %v", err)
	require.ErrorIs(t, err, bankwest.ErrLoginFailed)
	require.Equal(t, 1, page.Closed)
}

func TestRun_NoCredentials(t *testing.T) {
	site := bankwesttest.NewSite("12345678", "right", rows(2))
	log, _ := test.NewNullLogger()
	page := bankwesttest.NewPage(site)
	creds := &MockCredentials{Err: credential.ErrNoCredentials}
	r := New(&MockBrowser{Page: page}, creds, &collectingEmitter{}, testConfig(models.NoLimit), logrus.NewEntry(log))

	_, err := r.Run(context.Background())
	require.Equal(t, PhaseCredentials, FailedPhase(err), "got %v", err)
	require.ErrorIs(t, err, credential.ErrNoCredentials)
	require.Empty(t, page.Visited, "no navigation without credentials")
	require.Equal(t, 1, page.Closed)
}

func TestRun_MissingBodyStopsRun(t *testing.T) {
	data := rows(3)
	data[1].OmitBody = true
	site := bankwesttest.NewSite("12345678", "right", data)
	r, page, emitter, _ := setup(site, models.NoLimit)

	n, err := r.Run(context.Background())
	require.Equal(t, PhaseFetch, FailedPhase(err), "got %v", err)
	require.Equal(t, 1, n)
	require.Len(t, emitter.messages, 1)
	require.Equal(t, 1, page.Closed)
}

func TestRun_BrowserLaunchFailure(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := New(&MockBrowser{OpenErr: errors.New("chromium not found")}, &MockCredentials{}, &collectingEmitter{}, testConfig(models.NoLimit), logrus.NewEntry(log))

	_, err := r.Run(context.Background())
	require.Equal(t, PhaseBrowser, FailedPhase(err), "got %v", err)
}

func TestRun_LogEmitter(t *testing.T) {
	site := bankwesttest.NewSite("12345678", "right", rows(2))
	log, hook := test.NewNullLogger()
	entry := logrus.NewEntry(log)
	creds := &MockCredentials{Pair: models.Credential{Identifier: "12345678", Secret: "right"}}
	r := New(&MockBrowser{Page: bankwesttest.NewPage(site)}, creds, output.NewLogEmitter(entry), testConfig(models.NoLimit), entry)

	_, err := r.Run(context.Background())
	require.NoError(t, err)

	var ids []interface{}
	for _, e := range hook.AllEntries() {
		if e.Message == "bankmail" {
			ids = append(ids, e.Data["id"])
			require.NotEmpty(t, e.Data["content"])
		}
		for _, v := range e.Data {
			require.NotEqual(t, "right", v, "secret leaked into %q", e.Message)
		}
	}
	require.Equal(t, []interface{}{"ID-1", "ID-2"}, ids)
}
