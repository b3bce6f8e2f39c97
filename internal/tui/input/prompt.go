// Package input parses the TUI command prompt.
package input

import (
	"fmt"
	"strings"
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// Commands lists the prompt commands in suggestion order.
var Commands = []PromptCommand{
	{Name: "/month", Description: "Jump to a month (YYYY-MM)"},
	{Name: "/today", Description: "Jump to today"},
	{Name: "/find", Description: "Select a booking by reference or guest"},
	{Name: "/reset", Description: "Forget manual room choices"},
}

// Action is a parsed prompt command.
type Action struct {
	Name string
	Arg  string
}

// Parse splits a prompt line into a known command and its argument.
func Parse(line string) (Action, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Action{}, fmt.Errorf("commands start with /, try /find %s", line)
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	arg = strings.TrimSpace(arg)
	for _, c := range Commands {
		if c.Name != name {
			continue
		}
		if (name == "/month" || name == "/find") && arg == "" {
			return Action{}, fmt.Errorf("%s needs an argument", name)
		}
		return Action{Name: name, Arg: arg}, nil
	}
	return Action{}, fmt.Errorf("unknown command %s", name)
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}
