package workflow

// Prompter is the operator-facing side of a workflow invocation. The CLI
// implements it over stdin/stdout; tests implement it with scripted input.
//
// PromptInt re-prompts on non-numeric input until it can return an integer;
// range rules (positivity, bounds) stay with the caller because each prompt
// point has its own documented recovery behavior.
type Prompter interface {
	PromptLine(label string) (string, error)
	PromptInt(label string) (int, error)
	Display(header []string, rows [][]string)
}
