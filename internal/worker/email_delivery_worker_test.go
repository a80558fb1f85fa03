package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb-api/internal/mail"
)

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newTestWorker(sender mail.Sender) *EmailDeliveryWorker {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	return NewEmailDeliveryWorker(nil, sender, "test.email", logger)
}

func TestHandleDeliversDecodedMessage(t *testing.T) {
	sender := &recordingSender{}
	w := newTestWorker(sender)

	msg := mail.NewConfirmationMessage("mail@yamdb.ru", "alice@example.com", "123456")
	body, err := json.Marshal(msg)
	require.NoError(t, err)

	require.NoError(t, w.handle(context.Background(), body))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, msg.ID, sender.sent[0].ID)
	assert.Equal(t, msg.Body, sender.sent[0].Body)
}

func TestHandleRejects(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		w := newTestWorker(&recordingSender{})
		assert.ErrorContains(t, w.handle(context.Background(), []byte("{")), "decode email failed")
	})

	t.Run("no recipients", func(t *testing.T) {
		w := newTestWorker(&recordingSender{})
		body, _ := json.Marshal(mail.Message{ID: "x"})
		assert.ErrorContains(t, w.handle(context.Background(), body), "no recipients")
	})

	t.Run("sender error", func(t *testing.T) {
		w := newTestWorker(&recordingSender{err: errors.New("smtp down")})
		body, _ := json.Marshal(mail.NewConfirmationMessage("a@b.c", "x@y.z", "123456"))
		assert.ErrorContains(t, w.handle(context.Background(), body), "smtp down")
	})
}

func TestCloseWithoutStart(t *testing.T) {
	w := newTestWorker(&recordingSender{})
	assert.NotPanics(t, w.Close)
}
