package harness

import (
	"io"
	"strconv"
)

// ScriptPrompter feeds a fixed input script to a workflow invocation and
// records everything displayed. An exhausted script returns io.EOF, which
// the workflow surfaces as an input error.
type ScriptPrompter struct {
	Inputs []string

	// Displays collects every Display call as header-then-rows.
	Displays [][][]string

	pos int
}

func (p *ScriptPrompter) next() (string, error) {
	if p.pos >= len(p.Inputs) {
		return "", io.EOF
	}
	v := p.Inputs[p.pos]
	p.pos++
	return v, nil
}

func (p *ScriptPrompter) PromptLine(label string) (string, error) {
	return p.next()
}

// PromptInt mirrors the interactive prompter: non-numeric input is skipped
// and the next line is read.
func (p *ScriptPrompter) PromptInt(label string) (int, error) {
	for {
		raw, err := p.next()
		if err != nil {
			return 0, err
		}
		if v, err := strconv.Atoi(raw); err == nil {
			return v, nil
		}
	}
}

func (p *ScriptPrompter) Display(header []string, rows [][]string) {
	p.Displays = append(p.Displays, append([][]string{header}, rows...))
}
