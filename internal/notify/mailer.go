package notify

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"yoke_travel/internal/config"
)

var (
	dialer *gomail.Dialer
	from   string
)

// Init configures the SMTP dialer from environment. Without credentials all
// sends become logged no-ops, which is how tests run.
func Init() {
	user := config.GetEnv("EMAIL_USER", "")
	pass := config.GetEnv("EMAIL_PASS", "")
	if user == "" {
		logrus.Info("EMAIL_USER not set – outbound email disabled")
		return
	}
	host := config.GetEnv("EMAIL_HOST", "smtp.gmail.com")
	port, err := strconv.Atoi(config.GetEnv("EMAIL_PORT", "587"))
	if err != nil {
		port = 587
	}
	dialer = gomail.NewDialer(host, port, user, pass)
	from = config.GetEnv("EMAIL_FROM", "YOKE <no-reply@yoke.com>")
}

// send delivers one message in a detached goroutine. Failure is logged and
// never reaches the caller.
func send(to, subject, plain, html string) {
	go func() {
		if dialer == nil {
			logrus.WithField("to", to).Debug("mailer disabled, dropping " + subject)
			return
		}
		m := gomail.NewMessage()
		m.SetHeader("From", from)
		m.SetHeader("To", to)
		m.SetHeader("Subject", subject)
		m.SetBody("text/plain", plain)
		if html != "" {
			m.AddAlternative("text/html", html)
		}
		if err := dialer.DialAndSend(m); err != nil {
			logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).WithError(err).Error("email send failed")
		}
	}()
}

func SendOTP(email, otp string) {
	send(email, "OTP Verification - YOKE",
		fmt.Sprintf("Your OTP is %s. It is valid for 10 minutes.", otp), "")
}

func SendBookingConfirmation(email string, bookingID uint, tripName string, numPeople int, amount float64) {
	plain := fmt.Sprintf("Booking #%d\nTrip: %s\nPeople: %d\nAmount: ₹%.2f", bookingID, tripName, numPeople, amount)
	html := fmt.Sprintf(`<div style="font-family: Arial; max-width: 600px;"><h2>Booking #%d</h2><p>Trip: %s</p><p>People: %d</p><p>Amount: ₹%.2f</p></div>`,
		bookingID, tripName, numPeople, amount)
	send(email, "Booking Confirmed", plain, html)
}

func SendBookingCancellation(email string, bookingID uint, tripName string, numPeople int, refund float64) {
	plain := fmt.Sprintf("Booking Cancelled: #%d\nTrip: %s\nPeople: %d\nRefund Amount: ₹%.2f", bookingID, tripName, numPeople, refund)
	html := fmt.Sprintf(`<div style="font-family: Arial; max-width: 600px;"><h2>Booking Cancelled: #%d</h2><p><strong>Trip:</strong> %s</p><p><strong>People:</strong> %d</p><p><strong>Refund Amount:</strong> ₹%.2f</p></div>`,
		bookingID, tripName, numPeople, refund)
	send(email, "Booking Cancelled", plain, html)
}
