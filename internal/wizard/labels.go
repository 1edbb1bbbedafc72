package wizard

import (
	"strings"

	"baristabot/internal/chat"
)

// Labels are the reply-keyboard texts the engine treats as control tokens
type Labels struct {
	Cancel []string
	Yes    string
	No     string
	Skip   []string
}

func (l Labels) isCancel(in chat.Input) bool {
	if in.Action() == ActionCancel {
		return true
	}
	return matches(in.Text, l.Cancel)
}

func (l Labels) isSkip(in chat.Input) bool {
	if in.Action() == ActionSkip {
		return true
	}
	return matches(in.Text, l.Skip)
}

// confirmation returns (answer, recognised)
func (l Labels) confirmation(in chat.Input) (bool, bool) {
	switch in.Action() {
	case ActionYes:
		return true, true
	case ActionNo:
		return false, true
	}

	text := strings.TrimSpace(in.Text)
	switch {
	case text != "" && text == l.Yes:
		return true, true
	case text != "" && text == l.No:
		return false, true
	}
	return false, false
}

func (l Labels) cancelKeyboard() [][]string {
	if len(l.Cancel) == 0 {
		return nil
	}
	return [][]string{{l.Cancel[0]}}
}

func (l Labels) hasCancel(rows [][]string) bool {
	for _, row := range rows {
		for _, label := range row {
			if matches(label, l.Cancel) {
				return true
			}
		}
	}
	return false
}

func (l Labels) confirmKeyboard() [][]string {
	rows := [][]string{{l.Yes, l.No}}
	return append(rows, l.cancelKeyboard()...)
}

func matches(text string, tokens []string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	for _, t := range tokens {
		if strings.EqualFold(text, t) {
			return true
		}
	}
	return false
}
