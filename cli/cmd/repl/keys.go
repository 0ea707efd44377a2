package repl

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
)

// handleRunningKey handles keys while a program runs. Ctrl+C interrupts it;
// a line typed while it waits for input is handed to it.
func (m model) handleRunningKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		m.eval.interrupt()
		m.awaiting = false
		m.input.SetValue("")

		return m, nil

	case !m.awaiting:
		return m, nil

	case msg.Type == tea.KeyEnter:
		line := m.input.Value()
		echo := m.input.Prompt + inputStyle.Render(line)

		m.awaiting = false
		m.input.SetValue("")
		m.eval.answer(line)

		return m, tea.Println(echo)

	case msg.Type == tea.KeyCtrlD:
		m.awaiting = false
		m.eval.endInput()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	if m.running {
		return m.handleRunningKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.altNavActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		m.altNavActive = false

		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}

		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.cycleCandidates(1), nil

	case tea.KeyShiftTab:
		return m.cycleCandidates(-1), nil

	case tea.KeyUp:
		if msg.Alt {
			return m.navigateCtrl(-1), nil
		}

		return m.navigate(-1, false), nil

	case tea.KeyDown:
		if msg.Alt {
			return m.navigateCtrl(1), nil
		}

		return m.navigate(1, false), nil

	case tea.KeyShiftUp:
		return m.navigate(-1, true), nil

	case tea.KeyShiftDown:
		return m.navigate(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes:
		// Space confirms the candidate while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// Any other key (backspace, delete, arrows, etc.) edits without
	// auto-confirming a completion.
	var cmd tea.Cmd

	m.tabActive = false
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycleCandidates selects the next (dir > 0) or previous candidate and
// writes it over the current word. A sole candidate is completed at once.
func (m model) cycleCandidates(dir int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + dir + n) % n

	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if dir < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also confirms the completion when exactly
// one candidate remains and the typed word already equals it.
// Deletions and cursor movement pass false so editing never completes
// unexpectedly.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	if m.input.Value()[m.wordStart:m.wordEnd] == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// seekHistory returns the index of the nearest entry in direction dir from
// the current history position that satisfies match, or -1.
func (m model) seekHistory(dir int, match func(HistoryEntry) bool) int {
	for i := m.historyIdx + dir; i >= 0 && i < m.history.Len(); i += dir {
		if entry, err := m.history.GetEntry(i); err == nil && match(entry) {
			return i
		}
	}

	return -1
}

// recall loads history entry i into the input, switching to its mode.
func (m model) recall(i int) model {
	entry, err := m.history.GetEntry(i)
	if err != nil {
		return m
	}

	if m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// resetHistory leaves history navigation with an empty input.
func (m model) resetHistory() model {
	m.historyIdx = m.history.Len()
	m.input.SetValue("")
	refreshMatches(&m, false)

	return m
}

// navigate steps through history. With sameMode it only visits entries of
// the current mode; otherwise the mode follows the recalled entry. Stepping
// past the newest entry clears the input.
func (m model) navigate(dir int, sameMode bool) model {
	mode := m.mode

	i := m.seekHistory(dir, func(e HistoryEntry) bool {
		return !sameMode || e.Mode == mode
	})

	switch {
	case i >= 0:
		return m.recall(i)

	case dir > 0 && m.historyIdx < m.history.Len():
		return m.resetHistory()
	}

	return m
}

// navigateCtrl steps through command history only, switching to command
// mode. Running off either end restores the mode and input that were active
// before navigation began.
func (m model) navigateCtrl(dir int) model {
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i := m.seekHistory(dir, func(e HistoryEntry) bool {
		return e.Mode == modeCtrl
	}); i >= 0 {
		return m.recall(i)
	}

	m.altNavActive = false

	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m
}
