package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOTPMail(t *testing.T) {
	msg := OTPMail("student@example.com", "Ada", "042137", 5*time.Minute)

	assert.Equal(t, "student@example.com", msg.To)
	assert.Equal(t, "Ada", msg.ToName)
	assert.Contains(t, msg.Subject, "OTP")
	assert.Contains(t, msg.HTML, "042137")
	assert.Contains(t, msg.HTML, "Ada")
	assert.Contains(t, msg.HTML, "5 minutes")
	assert.Contains(t, msg.Text, "042137")
}

func TestMilestoneMail(t *testing.T) {
	msg := MilestoneMail("student@example.com", "Ada", 8)

	assert.Contains(t, msg.Subject, "Ada")
	assert.Contains(t, msg.HTML, ">8<")
	assert.Contains(t, msg.HTML, "Sessions Completed")
	assert.Contains(t, msg.Text, "8 sessions")
}

func TestContactMail(t *testing.T) {
	msg := ContactMail("admin@example.com", "Bob", "bob@example.com", "", "Lessons", "I want to learn piano", "")

	assert.Equal(t, "admin@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Lessons")
	assert.Contains(t, msg.Subject, "Bob")
	assert.Contains(t, msg.HTML, "Not provided")
	assert.Contains(t, msg.HTML, "Not specified")
	assert.Contains(t, msg.HTML, "I want to learn piano")
}

func TestContactMailEscapesHTML(t *testing.T) {
	msg := ContactMail("admin@example.com", "<script>x</script>", "bob@example.com", "", "s", "m", "email")

	assert.NotContains(t, msg.HTML, "<script>")
}
