package demo

import (
	"github.com/vango-dev/reactor/pkg/binding"
)

// TypeName simulates typing into the controlled name field: the host
// updates its input, then reports the edit as a write.
func (a *App) TypeName(v string) error {
	return a.act("type-name", func() error {
		a.host.nameValue = v
		return a.nameField.Input(v)
	})
}

// TypeEmail simulates typing into the uncontrolled email field. Only the
// host's input changes; no signal is written.
func (a *App) TypeEmail(v string) error {
	a.host.emailValue = v
	return nil
}

// MountEmail attaches the host's email input to the uncontrolled binding.
func (a *App) MountEmail() {
	a.email.Ref().Attach(binding.SourceFunc[string](func() string {
		return a.host.emailValue
	}))
}

// UnmountEmail detaches the host's email input.
func (a *App) UnmountEmail() {
	a.email.Ref().Detach()
}

// Submit reads both fields untracked and records the submission.
func (a *App) Submit() (Submission, error) {
	var sub Submission
	err := a.act("submit", func() error {
		email, err := a.email.Value()
		if err != nil {
			return err
		}
		sub = Submission{Name: a.nameField.Value(), Email: email}
		return nil
	})
	if err != nil {
		return Submission{}, err
	}
	a.submissions = append(a.submissions, sub)
	return sub, nil
}
