package mailer

type Service interface {
	SendInviteEmail(toEmail, inviteURL, token string) error
}
