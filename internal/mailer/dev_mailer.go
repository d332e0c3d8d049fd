package mailer

import (
	"fmt"

	"github.com/charitymap/charitymap-api/pkg/logger"
)

type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendInviteEmail(toEmail, inviteURL, token string) error {
	logger.Info("[DEV MAIL] Invite Email",
		"to", toEmail,
		"invite_url", inviteURL,
		"token", token,
	)

	fmt.Printf("\n"+
		"=================================================================\n"+
		"INVITE EMAIL (DEV MODE)\n"+
		"=================================================================\n"+
		"To: %s\n"+
		"Subject: You're invited to join CharityMap\n"+
		"\n"+
		"Registration URL: %s\n"+
		"Token: %s\n"+
		"=================================================================\n\n",
		toEmail, inviteURL, token)

	return nil
}
