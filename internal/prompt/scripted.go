package prompt

import (
	"fmt"

	apperrors "rds-snapshot-copy/internal/errors"
)

// Scripted is a non-interactive Prompter double. Each Choose call consumes
// the next entry of Choices, each Confirm call the next entry of Confirms;
// running out of answers cancels, as an operator hitting Ctrl-C would.
type Scripted struct {
	Choices  []string
	Confirms []bool

	// ChooseCalls and ConfirmCalls record the questions and option lists
	// presented, in order.
	ChooseCalls  []ChooseCall
	ConfirmCalls []string
}

// ChooseCall records one Choose invocation
type ChooseCall struct {
	Question string
	Options  []string
}

// Choose returns the next scripted choice after validating it is an option
func (s *Scripted) Choose(question string, options []string) (string, error) {
	s.ChooseCalls = append(s.ChooseCalls, ChooseCall{Question: question, Options: options})

	if len(s.Choices) == 0 {
		return "", apperrors.ErrPromptCancelled
	}
	choice := s.Choices[0]
	s.Choices = s.Choices[1:]

	for _, option := range options {
		if option == choice {
			return choice, nil
		}
	}
	return "", fmt.Errorf("scripted choice %q is not among the presented options", choice)
}

// Confirm returns the next scripted answer
func (s *Scripted) Confirm(question string) (bool, error) {
	s.ConfirmCalls = append(s.ConfirmCalls, question)

	if len(s.Confirms) == 0 {
		return false, apperrors.ErrPromptCancelled
	}
	answer := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return answer, nil
}
