package types

// SendEmailRequest is the payload the external auth service posts to the
// send-email function when a user needs a verification message.
type SendEmailRequest struct {
	User      EmailUser `json:"user"`
	EmailData EmailData `json:"email_data"`
}

type EmailUser struct {
	Email string `json:"email"`
}

// EmailData carries the one-time code, its hash for the verify link, and
// the redirect target. EmailActionType distinguishes signup, recovery, and
// email-change flows.
type EmailData struct {
	Token           string `json:"token"`
	TokenHash       string `json:"token_hash"`
	RedirectTo      string `json:"redirect_to"`
	EmailActionType string `json:"email_action_type"`
	SiteURL         string `json:"site_url"`
}

// EmailMessage is the wire payload of the transactional email provider.
type EmailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}
