package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"yamdb-api/internal/mail"
	"yamdb-api/internal/platform/database"
	"yamdb-api/internal/repository"
	"yamdb-api/internal/validation"
)

const testSecret = "test-secret"

type fakeSender struct {
	sent []mail.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (s *fakeSender) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.sent)
	m := codePattern.FindStringSubmatch(s.sent[len(s.sent)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func newAuthService(t *testing.T, db *gorm.DB, sender mail.Sender) *AuthService {
	t.Helper()
	return NewAuthService(
		repository.NewUserRepository(db),
		validation.New(),
		sender,
		AuthConfig{
			JWTSecret:     testSecret,
			JWTExpiration: time.Hour,
			CodeHashCost:  bcrypt.MinCost,
			MailFrom:      "Yamdb.ru <mail@yamdb.ru>",
		},
		newTestLogger(),
	)
}

func requireFieldError(t *testing.T, err error, field string) validation.Errors {
	t.Helper()
	var ve validation.Errors
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	assert.Contains(t, ve, field)
	return ve
}
