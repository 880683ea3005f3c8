package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

var otpHTML = template.Must(template.New("otp").Parse(`<p>Hello <b>{{.Name}}</b>,</p>
<p>Your OTP is: <b>{{.Code}}</b></p>
<p>It will expire in <b>{{.Minutes}} minutes</b>.</p>
<p>- VN Music Academy</p>`))

var milestoneHTML = template.Must(template.New("milestone").Parse(`<div style="font-family:Arial,sans-serif;background:#fafafa;padding:20px">
  <div style="max-width:600px;margin:0 auto;border-radius:12px;overflow:hidden;box-shadow:0 8px 30px rgba(0,0,0,0.08)">
    <div style="background:#4A4947;padding:35px 40px;text-align:center">
      <h1 style="color:#fff;font-size:28px;margin:0">VN Music Academy</h1>
    </div>
    <div style="padding:40px;background:#fff">
      <p style="font-size:17px;color:#333">Dear <strong>{{.Name}}</strong>,</p>
      <div style="border:2px solid #4A4947;border-radius:12px;padding:35px;text-align:center;margin:25px 0">
        <div style="font-size:48px">&#127881;</div>
        <div style="font-size:64px;font-weight:800;color:#4A4947">{{.Sessions}}</div>
        <div style="font-size:18px;color:#4A4947;font-weight:600;text-transform:uppercase;letter-spacing:1px">Sessions Completed</div>
      </div>
      <p style="font-size:16px;color:#666;text-align:center">Congratulations on reaching this milestone! Your dedication to your musical journey is inspiring. Keep up the excellent work.</p>
    </div>
    <div style="background:#4A4947;padding:25px 40px;text-align:center">
      <span style="color:#fff;font-weight:600">VN Music Academy</span>
    </div>
  </div>
</div>`))

var contactHTML = template.Must(template.New("contact").Parse(`<div style="font-family:Arial,sans-serif;background:#f9fafb;padding:20px">
  <div style="max-width:600px;margin:auto;background:#fff;border-radius:8px;overflow:hidden">
    <div style="background:#4f46e5;color:#fff;padding:20px;text-align:center">
      <h1 style="margin:0;font-size:24px">VN Music Academy</h1>
      <p style="margin:5px 0 0">New Contact Form Submission</p>
    </div>
    <div style="padding:20px">
      <p><strong>Name:</strong> {{.Name}}</p>
      <p><strong>Email:</strong> {{.Email}}</p>
      <p><strong>Phone:</strong> {{.Phone}}</p>
      <p><strong>Subject:</strong> {{.Subject}}</p>
      <p><strong>Preferred Contact:</strong> {{.Preferred}}</p>
      <div style="margin:20px 0;padding:15px;background:#f3f4f6;border-left:4px solid #4f46e5">
        <p style="margin:0;white-space:pre-line">{{.Body}}</p>
      </div>
    </div>
    <div style="background:#f9fafb;padding:15px;text-align:center;font-size:14px;color:#6b7280">
      <p>This email was sent automatically by VN Music Academy's contact system.</p>
      <p>Received on {{.Received}}</p>
    </div>
  </div>
</div>`))

// OTPMail builds the login-code email for a student.
func OTPMail(to, name, code string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	var buf bytes.Buffer
	_ = otpHTML.Execute(&buf, map[string]any{"Name": name, "Code": code, "Minutes": minutes})
	return Message{
		To:      to,
		ToName:  name,
		Subject: "Your OTP for VN Music Academy Login",
		HTML:    buf.String(),
		Text: fmt.Sprintf("Hello %s,\n\nYour OTP is: %s\nIt will expire in %d minutes.\n\n- VN Music Academy",
			name, code, minutes),
	}
}

// MilestoneMail builds the congratulatory email for a session milestone.
func MilestoneMail(to, name string, sessions int) Message {
	var buf bytes.Buffer
	_ = milestoneHTML.Execute(&buf, map[string]any{"Name": name, "Sessions": sessions})
	return Message{
		To:      to,
		ToName:  name,
		Subject: fmt.Sprintf("Congratulations %s!", name),
		HTML:    buf.String(),
		Text: fmt.Sprintf("Hi %s,\n\nYou've completed %d sessions with VN Music Academy!\n\nCongratulations on reaching this milestone! Keep up the excellent work.\n\n- VN Music Academy",
			name, sessions),
	}
}

// ContactMail builds the admin notification for a contact-form submission.
func ContactMail(inbox, name, email, phone, subject, body, preferred string) Message {
	if phone == "" {
		phone = "Not provided"
	}
	if preferred == "" {
		preferred = "Not specified"
	}
	var buf bytes.Buffer
	_ = contactHTML.Execute(&buf, map[string]any{
		"Name":      name,
		"Email":     email,
		"Phone":     phone,
		"Subject":   subject,
		"Body":      body,
		"Preferred": preferred,
		"Received":  time.Now().Format(time.RFC1123),
	})
	return Message{
		To:      inbox,
		Subject: fmt.Sprintf("New Contact Form: %s - From %s", subject, name),
		HTML:    buf.String(),
		Text: fmt.Sprintf("New contact form submission\n\nName: %s\nEmail: %s\nPhone: %s\nSubject: %s\nPreferred contact: %s\n\n%s",
			name, email, phone, subject, preferred, body),
	}
}
