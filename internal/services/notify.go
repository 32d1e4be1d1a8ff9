package services

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/devfolio/portfolio-backend/internal/feedback"
)

// EmailNotifier sends the site owner an email for every new submission.
// Delivery is fire and forget: a mail outage never surfaces to the
// visitor, it only shows up in the logs.
type EmailNotifier struct {
	client *sendgrid.Client
	from   string
	to     string
}

func NewEmailNotifier(apiKey, from, to string) *EmailNotifier {
	return &EmailNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

func (n *EmailNotifier) SubmissionCreated(evt feedback.Event) {
	go func() {
		subject, body := renderSubmission(evt)
		from := mail.NewEmail("Portfolio Feedback", n.from)
		to := mail.NewEmail("", n.to)
		message := mail.NewSingleEmail(from, subject, to, body, "")

		resp, err := n.client.Send(message)
		if err != nil {
			log.Printf("failed to send %s notification: %v", evt.Kind, err)
			return
		}
		if resp.StatusCode >= 300 {
			log.Printf("sendgrid rejected %s notification: status %d", evt.Kind, resp.StatusCode)
		}
	}()
}

func renderSubmission(evt feedback.Event) (subject, body string) {
	switch evt.Kind {
	case "suggestion":
		subject = fmt.Sprintf("New feature suggestion: %s", evt.Title)
		body = fmt.Sprintf("%s suggested:\n\n%s\n\n%s\n\nSubmitted at %s",
			evt.Author, evt.Title, evt.Excerpt, evt.CreatedAt.Format("2006-01-02 15:04 MST"))
	default:
		subject = fmt.Sprintf("New comment from %s (%d/5)", evt.Author, evt.Rating)
		body = fmt.Sprintf("%s rated the site %d/5:\n\n%s\n\nSubmitted at %s",
			evt.Author, evt.Rating, evt.Excerpt, evt.CreatedAt.Format("2006-01-02 15:04 MST"))
	}
	return subject, body
}
