package main

import (
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// terminalPrompter asks for labels on the terminal.
type terminalPrompter struct {
	rl          *readline.Instance
	prompt      func(a ...interface{}) string
	onInterrupt func()
}

func newTerminalPrompter() (*terminalPrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, err
	}
	return &terminalPrompter{
		rl:     rl,
		prompt: color.New(color.FgCyan).SprintFunc(),
	}, nil
}

func (p *terminalPrompter) Prompt(prompt string) (string, error) {
	p.rl.SetPrompt(p.prompt(prompt))
	line, err := p.rl.Readline()
	if err == readline.ErrInterrupt && p.onInterrupt != nil {
		p.onInterrupt()
	}
	return strings.TrimSpace(line), err
}

func (p *terminalPrompter) Close() error {
	return p.rl.Close()
}
