package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hpungsan/roster/internal/errors"
	"github.com/hpungsan/roster/internal/ops"
)

// prompter asks for field values one line at a time.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// ask prompts for f until the answer is acceptable. For reference fields an
// invalid answer prints a numbered menu of valid ids; answering with a menu
// number picks that id.
func (p *prompter) ask(f ops.PromptField) (string, error) {
	if f.RefTable != "" && len(f.Choices) == 0 {
		return "", errors.NewInvalidRequest(fmt.Sprintf("%s references %s, which has no rows", f.Name, f.RefTable))
	}

	label := f.Name
	if f.MultiValue {
		label += " (separate values with |)"
	}
	for {
		fmt.Fprintf(p.out, "%s: ", label)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if f.Accepts(answer) {
			return answer, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(f.Choices) {
			return f.Choices[n-1], nil
		}

		fmt.Fprintf(p.out, "%q is not a valid %s id. Choose one:\n", answer, strings.TrimSuffix(f.RefTable, "s"))
		for i, choice := range f.Choices {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, choice)
		}
	}
}

// readLine returns the next line without its line ending.
// EOF before any input aborts the prompt.
func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errors.NewInvalidRequest("input ended before all fields were entered")
		}
		return "", errors.NewIO("read", "stdin", err)
	}
	return strings.TrimSpace(line), nil
}
