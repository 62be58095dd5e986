package bankwest

import (
	"context"
	"fmt"
	"testing"

	"retrieve-bankmail/internal/bankwest/bankwesttest"
	"retrieve-bankmail/internal/models"

	"github.com/stretchr/testify/require"
)

func TestFetchContent(t *testing.T) {
	rows := sampleRows(2)
	site := bankwesttest.NewSite("12345678", "right", rows)
	portal, page := loggedInPortal(t, site)

	msg := models.NewMessage(rows[1].ID, rows[1].Subject, rows[1].Sender, rows[1].Date)
	require.NoError(t, portal.FetchContent(context.Background(), msg))

	content, ok := msg.Content()
	require.True(t, ok)
	require.Equal(t, "Body 2\nRegards", content)
	require.Equal(t, fmt.Sprintf(bankwesttest.MessageURL, rows[1].ID), page.URL)
}

func TestFetchContent_OpaqueID(t *testing.T) {
	id := "abc%2F+/=="
	site := bankwesttest.NewSite("12345678", "right", []bankwesttest.Row{{ID: id, Body: "hi"}})
	portal, page := loggedInPortal(t, site)

	msg := models.NewMessage(id, "s", "f", "d")
	require.NoError(t, portal.FetchContent(context.Background(), msg))
	require.Equal(t, "https://bank.test/SecureMailWeb/ReadMailPage.aspx?msgid=abc%2F+/==&status=R", page.URL)
}

func TestFetchContent_MissingBody(t *testing.T) {
	rows := sampleRows(1)
	rows[0].OmitBody = true
	site := bankwesttest.NewSite("12345678", "right", rows)
	portal, _ := loggedInPortal(t, site)

	msg := models.NewMessage(rows[0].ID, "s", "f", "d")
	err := portal.FetchContent(context.Background(), msg)

	var structErr *StructureError
	require.ErrorAs(t, err, &structErr)
	require.Equal(t, "message", structErr.Page)

	_, ok := msg.Content()
	require.False(t, ok)
}

func TestFetchContent_EmptyID(t *testing.T) {
	portal, _ := loggedInPortal(t, bankwesttest.NewSite("12345678", "right", nil))
	require.ErrorIs(t, portal.FetchContent(context.Background(), models.NewMessage("", "s", "f", "d")), ErrMissingID)
}
