package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/mechshop/internal/report"
)

// linePrompter implements workflow.Prompter over a line-oriented reader and
// writer (stdin/stdout in production, buffers in tests).
type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newLinePrompter(r io.Reader, w io.Writer) *linePrompter {
	return &linePrompter{r: bufio.NewReader(r), w: w}
}

// PromptLine writes the label and returns the next input line, without the
// trailing newline.
func (p *linePrompter) PromptLine(label string) (string, error) {
	fmt.Fprintf(p.w, "\t%s: ", label)
	line, err := p.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptInt prompts until the operator supplies a parseable integer.
// Range rules stay with the caller; only syntax is retried here.
func (p *linePrompter) PromptInt(label string) (int, error) {
	for {
		raw, err := p.PromptLine(label)
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			fmt.Fprintln(p.w, "\tYour input is invalid! Please enter an integer.")
			continue
		}
		return v, nil
	}
}

// Display renders rows as an aligned table.
func (p *linePrompter) Display(header []string, rows [][]string) {
	fmt.Fprint(p.w, report.Table{Header: header, Rows: rows}.Render())
}
