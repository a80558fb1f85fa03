// Package mail builds and delivers outbound email.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	ConfirmationSubject  = "Confirmation code for Yamdb"
	confirmationTemplate = "Your confirmation code: %s"
)

// Message is one outbound email. It is also the payload published to the
// email queue.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Sender delivers a message. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewConfirmationMessage renders the confirmation code email for to.
func NewConfirmationMessage(from, to, code string) Message {
	return Message{
		ID:        uuid.NewString(),
		From:      from,
		To:        []string{to},
		Subject:   ConfirmationSubject,
		Body:      fmt.Sprintf(confirmationTemplate, code),
		CreatedAt: time.Now().UTC(),
	}
}
