// Package jobs defines the background jobs dispatched through pkg/queue.
package jobs

import (
	"fmt"

	"github.com/aurelben/boutiq/pkg/mail"
	"github.com/aurelben/boutiq/pkg/queue"
)

// WelcomeEmailJob greets a freshly registered user. Dispatched from the
// registration listener so the signup request never waits on SMTP.
type WelcomeEmailJob struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (j *WelcomeEmailJob) Handle() error {
	return mail.To(j.Email).
		Subject("Welcome to Boutiq!").
		Body(fmt.Sprintf("<h1>Hi %s</h1><p>Your account has been created. Happy shopping!</p>", j.Username)).
		Send()
}

// Register wires every job type into the queue registry so workers can
// deserialise payloads by name. Call once at boot.
func Register() {
	queue.Register("*jobs.WelcomeEmailJob", func() queue.Job { return &WelcomeEmailJob{} })
}
