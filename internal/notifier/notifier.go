package notifier

import (
	log "github.com/sirupsen/logrus"
)

// Notifier abstracts the delivery channel (console now, email later).
type Notifier interface {
	Notify(subject, message string) error
}

// Console logs notifications instead of sending them.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Notify(subject, message string) error {
	log.WithField("subject", subject).Info(message)
	return nil
}
