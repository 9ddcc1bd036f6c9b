package services

import (
	"fmt"
	"net/url"
	"sync"
	"tradepost_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// VerificationMailer delivers a verification link to a mailbox. Implementors
// must treat delivery as best-effort: callers never fail an operation on a
// mailer error.
type VerificationMailer interface {
	SendVerificationEmail(email, token string) error
}

var (
	client     *resend.Client
	clientOnce = sync.Once{}
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: getEmailClient(cfg.Email.ApiKey),
	}
}

func getEmailClient(apiKey string) *resend.Client {
	clientOnce.Do(func() {
		client = resend.NewClient(apiKey)
	})
	return client
}

func (es *EmailService) SendEmail(to []string, subject string, body string) error {
	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	_, err := es.client.Emails.Send(params)
	if err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}

	return nil
}

// SendVerificationEmail delivers the verification link for a freshly issued
// token. The link points at the frontend, which relays the token to the
// verify endpoint.
func (es *EmailService) SendVerificationEmail(email, token string) error {
	verificationLink := fmt.Sprintf("%s/auth/verify-email?token=%s",
		es.cfg.Server.FrontendURL, url.QueryEscape(token))

	emailBody := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.header { background-color: #2B6CB0; color: white; padding: 20px; text-align: center; }
				.content { padding: 20px; background-color: #f9f9f9; }
				.button { display: inline-block; padding: 15px 30px; background-color: #2B6CB0; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
				.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
			</style>
		</head>
		<body>
			<div class="container">
				<div class="header">
					<h1>Verify your email address</h1>
				</div>
				<div class="content">
					<p>Please verify your email by clicking the following link:</p>
					<p style="text-align: center;">
						<a href="%s" class="button">Verify Email</a>
					</p>
					<p>This link will expire in 24 hours.</p>
					<p>If you did not create an account, please ignore this email.</p>

					<p>Link not working? Copy and paste the following URL into your browser:</p>
					<p style="word-break: break-all;">%s</p>
				</div>

				<div class="footer">
					<p>Tradepost | Questions? Contact us at %s</p>
				</div>
			</div>
		</body>
		</html>
	`, verificationLink, verificationLink, es.cfg.Email.SupportEmail)

	err := es.SendEmail([]string{email}, "Verify Your Email Address", emailBody)
	if err != nil {
		es.logger.Error("Failed to send verification email", gecho.Field("error", err), gecho.Field("to", email))
		return err
	}

	return nil
}
