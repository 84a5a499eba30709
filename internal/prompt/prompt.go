// Package prompt presents interactive choices to the operator. The
// Prompter capability is what resolvers depend on, so non-interactive
// doubles can stand in during tests.
package prompt

// Prompter presents a list of choices or a yes/no question and returns the
// operator's answer. Implementations fail with errors.ErrPromptCancelled
// when the operator cancels.
type Prompter interface {
	// Choose presents the options and returns the chosen one.
	Choose(question string, options []string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(question string) (bool, error)
}
