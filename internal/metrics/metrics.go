package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters exported on /metrics.
var (
	OTPIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_otp_issued_total",
		Help: "OTP codes generated and stored.",
	})

	OTPVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_otp_verified_total",
		Help: "OTP verification attempts by result.",
	}, []string{"result"})

	MilestonesFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "academy_milestones_fired_total",
		Help: "Attendance milestones that triggered a congratulatory mail job.",
	})

	MailSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "academy_mail_sent_total",
		Help: "Outbound mails by kind and status.",
	}, []string{"kind", "status"})
)
