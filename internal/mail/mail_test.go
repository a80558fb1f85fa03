package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfirmationMessage(t *testing.T) {
	msg := NewConfirmationMessage("Yamdb.ru <mail@yamdb.ru>", "alice@example.com", "472913")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, []string{"alice@example.com"}, msg.To)
	assert.Equal(t, ConfirmationSubject, msg.Subject)
	assert.Equal(t, "Your confirmation code: 472913", msg.Body)
}

func TestSMTPSender(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotBody []byte

	s := NewSMTPSender("mail.local", 2525, "", "")
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
		return nil
	}

	msg := NewConfirmationMessage("Yamdb.ru <mail@yamdb.ru>", "alice@example.com", "472913")
	require.NoError(t, s.Send(context.Background(), msg))

	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Equal(t, "mail@yamdb.ru", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, string(gotBody), "Subject: "+ConfirmationSubject)
	assert.Contains(t, string(gotBody), "Your confirmation code: 472913")

	t.Run("transport error", func(t *testing.T) {
		s.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }
		assert.ErrorContains(t, s.Send(context.Background(), msg), "smtp send failed")
	})

	t.Run("bad sender", func(t *testing.T) {
		msg := msg
		msg.From = "not an address"
		assert.Error(t, s.Send(context.Background(), msg))
	})
}

func TestLogSender(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, s.Send(context.Background(), NewConfirmationMessage("a@b.c", "x@y.z", "123456")))
	assert.Contains(t, buf.String(), "Your confirmation code: 123456")
}
