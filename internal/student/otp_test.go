package student

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/internal/auth"
	"academy/internal/mailer"
)

type fakeStore struct {
	students map[string]*Student
	otps     []OTP
	failSave bool
}

func newFakeStore(students ...*Student) *fakeStore {
	fs := &fakeStore{students: map[string]*Student{}}
	for _, s := range students {
		fs.students[s.Email] = s
	}
	return fs
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*Student, error) {
	return f.students[email], nil
}

func (f *fakeStore) InsertOTP(_ context.Context, email, code string, expiresAt time.Time) (OTP, error) {
	if f.failSave {
		return OTP{}, errors.New("store down")
	}
	rec := OTP{
		ID:        strconv.Itoa(len(f.otps) + 1),
		Email:     email,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.otps = append(f.otps, rec)
	return rec, nil
}

func (f *fakeStore) LatestOTP(_ context.Context, email string) (*OTP, error) {
	idx := make([]int, 0, len(f.otps))
	for i, rec := range f.otps {
		if rec.Email == email {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return nil, nil
	}
	sort.Slice(idx, func(a, b int) bool {
		return f.otps[idx[a]].CreatedAt.After(f.otps[idx[b]].CreatedAt)
	})
	rec := f.otps[idx[0]]
	return &rec, nil
}

func (f *fakeStore) ConsumeOTP(_ context.Context, id string) (bool, error) {
	for i := range f.otps {
		if f.otps[i].ID == id && f.otps[i].ConsumedAt == nil {
			now := time.Now()
			f.otps[i].ConsumedAt = &now
			return true, nil
		}
	}
	return false, nil
}

type fakeMailer struct {
	sent []mailer.Message
	fail bool
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeLimiter struct{ allow bool }

func (f fakeLimiter) Allow(context.Context, string) (bool, error) { return f.allow, nil }

var testToken = TokenConfig{Issuer: "academy-api", Key: "secret", TTL: time.Hour}

func ada() *Student {
	return &Student{ID: "stu-1", Name: "Ada", Email: "student@example.com", Course: "Violin"}
}

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "non-digit in %q", code)
		}
	}

	code, err := GenerateCode(4)
	require.NoError(t, err)
	assert.Len(t, code, 4)
}

func TestIssueUnknownStudent(t *testing.T) {
	svc := NewService(newFakeStore(), nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	err := svc.Issue(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestIssueStoresBeforeMail(t *testing.T) {
	store := newFakeStore(ada())
	store.failSave = true
	mail := &fakeMailer{}
	svc := NewService(store, nil, mail, 6, 5*time.Minute, testToken)

	err := svc.Issue(context.Background(), "student@example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMailFailed)
	assert.Empty(t, mail.sent, "mail must not go out when the store write fails")
}

func TestIssueMailFailureKeepsRecord(t *testing.T) {
	store := newFakeStore(ada())
	svc := NewService(store, nil, &fakeMailer{fail: true}, 6, 5*time.Minute, testToken)

	err := svc.Issue(context.Background(), "student@example.com")
	assert.ErrorIs(t, err, ErrMailFailed)
	assert.Len(t, store.otps, 1, "otp row stays stored on mail failure")
}

func TestIssueRateLimited(t *testing.T) {
	svc := NewService(newFakeStore(ada()), fakeLimiter{allow: false}, &fakeMailer{}, 6, 5*time.Minute, testToken)

	err := svc.Issue(context.Background(), "student@example.com")
	assert.ErrorIs(t, err, ErrTooManySends)
}

func TestVerifyNoRecord(t *testing.T) {
	svc := NewService(newFakeStore(ada()), nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	_, _, err := svc.Verify(context.Background(), "student@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

func TestVerifyExpiredEvenOnMatch(t *testing.T) {
	store := newFakeStore(ada())
	svc := NewService(store, nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	_, err := store.InsertOTP(context.Background(), "student@example.com", "123456", time.Now().Add(-time.Second))
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), "student@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPExpired)
}

func TestVerifyWrongCode(t *testing.T) {
	store := newFakeStore(ada())
	svc := NewService(store, nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	_, err := store.InsertOTP(context.Background(), "student@example.com", "123456", time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), "student@example.com", "654321")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifySucceedsExactlyOnce(t *testing.T) {
	store := newFakeStore(ada())
	svc := NewService(store, nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	_, err := store.InsertOTP(context.Background(), "student@example.com", "123456", time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), "student@example.com", "123456")
	require.NoError(t, err)

	// A consumed code must not verify again.
	_, _, err = svc.Verify(context.Background(), "student@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestVerifyUsesNewestRecord(t *testing.T) {
	store := newFakeStore(ada())
	svc := NewService(store, nil, &fakeMailer{}, 6, 5*time.Minute, testToken)

	_, err := store.InsertOTP(context.Background(), "student@example.com", "111111", time.Now().Add(5*time.Minute))
	require.NoError(t, err)
	store.otps[0].CreatedAt = time.Now().Add(-time.Minute)
	_, err = store.InsertOTP(context.Background(), "student@example.com", "222222", time.Now().Add(5*time.Minute))
	require.NoError(t, err)

	_, _, err = svc.Verify(context.Background(), "student@example.com", "111111")
	assert.ErrorIs(t, err, ErrOTPInvalid, "superseded code must not verify")

	_, _, err = svc.Verify(context.Background(), "student@example.com", "222222")
	assert.NoError(t, err)
}

func TestIssueThenVerifyEndToEnd(t *testing.T) {
	store := newFakeStore(ada())
	mail := &fakeMailer{}
	svc := NewService(store, fakeLimiter{allow: true}, mail, 6, 5*time.Minute, testToken)

	require.NoError(t, svc.Issue(context.Background(), "student@example.com"))

	require.Len(t, store.otps, 1)
	stored := store.otps[0]
	assert.Len(t, stored.Code, 6)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), stored.ExpiresAt, 5*time.Second)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "student@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Text, stored.Code)

	token, profile, err := svc.Verify(context.Background(), "student@example.com", stored.Code)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Ada", profile.Name)

	claims, err := auth.Parse(token.Value, testToken.Key, testToken.Issuer)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", claims.Subject)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, auth.RoleStudent, claims.Role)
}
