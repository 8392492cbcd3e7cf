package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPaymentReceipt(toEmail, groupName, reference string, amount int64) error
	SendPayoutNotice(toEmail, groupName string, cycleNumber int, amount int64) error
	SendOverdueReminder(toEmail, groupName string, cycleNumber int, amount, penalty int64) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// formatAmount renders a kobo amount as naira with two decimals.
func formatAmount(amount int64) string {
	return fmt.Sprintf("₦%d.%02d", amount/100, amount%100)
}

func (s *emailService) SendPaymentReceipt(toEmail, groupName, reference string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Payment Confirmed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Payment Confirmed</h2>
			<p>Your payment of <strong>%s</strong> for the group <strong>%s</strong> has been verified.</p>
			<p>Reference: <code>%s</code></p>
			<p>Thank you for staying on schedule.</p>
		</div>
	`, formatAmount(amount), groupName, reference)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Receipt sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendPayoutNotice(toEmail, groupName string, cycleNumber int, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Payout Is On Its Way")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>It's Your Turn!</h2>
			<p>Cycle %d of <strong>%s</strong> is complete and your payout of <strong>%s</strong> has been settled.</p>
			<p>The amount shown is net of the service fee.</p>
		</div>
	`, cycleNumber, groupName, formatAmount(amount))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send payout notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Payout notice sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendOverdueReminder(toEmail, groupName string, cycleNumber int, amount, penalty int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Contribution Overdue")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Contribution Overdue</h2>
			<p>Your contribution of <strong>%s</strong> for cycle %d of <strong>%s</strong> is past due.</p>
			<p>A late penalty of <strong>%s</strong> has been applied. Please pay as soon as possible so the group can progress.</p>
		</div>
	`, formatAmount(amount), cycleNumber, groupName, formatAmount(penalty))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send overdue reminder to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Overdue reminder sent to %s\n", toEmail)
	return nil
}
