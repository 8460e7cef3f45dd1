package notify

import (
	smtpclient "campus-workflow-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

var Instance Provider

// Provider delivers notifications fire-and-forget: a failed send is logged
// and never surfaces to the operation that triggered it.
type Provider interface {
	Send(to, subject, body string)
}

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

func (i impl) Send(to, subject, body string) {
	if to == "" {
		log.WithField("subject", subject).Warn("notification skipped, recipient is empty")
		return
	}
	go func() {
		err := smtpclient.Instance.SendEMail(to, subject, body)
		if err != nil {
			log.
				WithError(err).
				WithField("recipient", to).
				WithField("subject", subject).
				Error("notification delivery failed")
		}
	}()
}
