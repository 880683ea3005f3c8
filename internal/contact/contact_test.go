package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/mailer"
)

type fakeStore struct {
	inserted []Message
	err      error
}

func (f *fakeStore) Insert(_ context.Context, msg Message) (Message, error) {
	if f.err != nil {
		return Message{}, f.err
	}
	msg.ID = "msg-1"
	msg.CreatedAt = time.Now()
	f.inserted = append(f.inserted, msg)
	return msg, nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestSubmitStoresAndNotifies(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{}
	svc := NewService(store, mail, "inbox@example.com")

	stored, err := svc.Submit(context.Background(), Message{
		Name: "Bob", Email: "bob@example.com", Subject: "Lessons", Message: "Piano please",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", stored.ID)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "inbox@example.com", mail.sent[0].To)
}

func TestSubmitStoreFailureSendsNoMail(t *testing.T) {
	store := &fakeStore{err: errors.New("db down")}
	mail := &fakeMailer{}
	svc := NewService(store, mail, "inbox@example.com")

	_, err := svc.Submit(context.Background(), Message{Name: "Bob"})
	require.Error(t, err)
	assert.Empty(t, mail.sent)
}

func TestSubmitMailFailureKeepsRow(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{err: errors.New("smtp relay down")}
	svc := NewService(store, mail, "inbox@example.com")

	stored, err := svc.Submit(context.Background(), Message{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrMailFailed)
	// The insert already happened; the caller gets the stored message back.
	assert.Len(t, store.inserted, 1)
	assert.Equal(t, "msg-1", stored.ID)
}
