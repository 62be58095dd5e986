package credential

import (
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptStore asks the operator on the terminal. It never stores anything itself.
type PromptStore struct {
	ask     func(title string, secret bool) (string, error)
	confirm func(title string) (bool, error)
}

func NewPromptStore() *PromptStore {
	return &PromptStore{
		ask:     askInput,
		confirm: askConfirm,
	}
}

func (p *PromptStore) Interactive() bool { return true }

// Get prompts for the identifier, or for the secret until the operator confirms what they typed.
func (p *PromptStore) Get(_, account string) (string, error) {
	if account == IdentifierAccount {
		value, err := p.ask("Enter your Bankwest PAN", false)
		if err != nil {
			return "", err
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", ErrNotFound
		}
		return value, nil
	}

	for {
		secret, err := p.ask("Enter your Bankwest online banking password", true)
		if err != nil {
			return "", err
		}
		ok, err := p.confirm("Are you happy with the password you entered?")
		if err != nil {
			return "", err
		}
		if !ok {
			continue
		}
		if secret == "" {
			return "", ErrNotFound
		}
		return secret, nil
	}
}

func (p *PromptStore) Set(_, _, _ string) error { return nil }

func (p *PromptStore) Delete(_, _ string) error { return nil }

func askInput(title string, secret bool) (string, error) {
	var value string
	input := huh.NewInput().
		Title(title).
		Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword)
	}

	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return value, nil
}

func askConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
