// Package tui provides an interactive chat session over an indexed
// website, following the Elm architecture via Bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/custodia-labs/sitechat-cli/internal/core/domain"
	"github.com/custodia-labs/sitechat-cli/internal/core/ports/driving"
)

// turn is one question and its answer in the transcript.
type turn struct {
	question string
	answer   string
	sources  []domain.RetrievedChunk
	err      error
}

// answerReceived carries a completed ask back into the update loop.
type answerReceived struct {
	question string
	result   *domain.RetrievalResult
	err      error
}

// datasetChanged signals that the dataset file changed on disk while
// the session was running.
type datasetChanged struct{}

// Model is the chat session model. It implements tea.Model.
type Model struct {
	ask       driving.AskService
	opts      domain.AskOptions
	ctx       context.Context
	sessionID string
	siteURL   string

	// changes delivers dataset change signals; nil disables the notice.
	changes <-chan struct{}

	input   textinput.Model
	view    viewport.Model
	spin    spinner.Model
	styles  *Styles
	turns   []turn
	waiting bool
	stale   bool
	width   int
	height  int
	ready   bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// NewModel creates a chat model over the given ask service. The changes
// channel may be nil; when set, a signal marks the session as stale.
func NewModel(ask driving.AskService, siteURL string, opts domain.AskOptions, changes <-chan struct{}) (*Model, error) {
	if ask == nil {
		return nil, errors.New("tui: ask service is required")
	}

	input := textinput.New()
	input.Placeholder = "Ask a question about the site..."
	input.Focus()
	input.CharLimit = 500

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return &Model{
		ask:       ask,
		opts:      opts,
		ctx:       context.Background(),
		sessionID: uuid.New().String()[:8],
		siteURL:   siteURL,
		changes:   changes,
		input:     input,
		spin:      spin,
		styles:    DefaultStyles(),
	}, nil
}

// WithContext sets the context used for ask calls.
func (m *Model) WithContext(ctx context.Context) *Model {
	m.ctx = ctx
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tea.SetWindowTitle("sitechat - " + m.siteURL),
	}
	if m.changes != nil {
		cmds = append(cmds, m.watchChanges())
	}
	return tea.Batch(cmds...)
}

// watchChanges waits for one dataset change signal.
func (m *Model) watchChanges() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return datasetChanged{}
	}
}

// submit runs the pending question against the ask service.
func (m *Model) submit(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.ask.Ask(m.ctx, question, m.opts)
		return answerReceived{question: question, result: result, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputHeight := 4
		if !m.ready {
			m.view = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.view.Width = msg.Width
			m.view.Height = msg.Height - inputHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.turns = append(m.turns, turn{question: question})
			m.refresh()
			return m, tea.Batch(m.submit(question), m.spin.Tick)
		}

	case answerReceived:
		m.waiting = false
		if len(m.turns) > 0 {
			last := &m.turns[len(m.turns)-1]
			last.err = msg.err
			if msg.result != nil {
				last.answer = msg.result.Answer
				last.sources = msg.result.Sources
			}
		}
		m.refresh()
		return m, nil

	case datasetChanged:
		m.stale = true
		m.refresh()
		// Keep listening for further changes.
		return m, m.watchChanges()

	case spinner.TickMsg:
		if m.waiting {
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Initialising..."
	}

	var footer strings.Builder
	if m.waiting {
		footer.WriteString(m.styles.Spinner.Render(m.spin.View()+" thinking...") + "\n")
	}
	footer.WriteString(m.styles.InputBox.Width(m.width - 4).Render(m.input.View()))
	footer.WriteString("\n" + m.styles.Help.Render("enter: send | esc: quit"))

	return m.view.View() + "\n" + footer.String()
}

// refresh rebuilds the transcript and scrolls to the bottom.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.view.SetContent(m.transcript())
	m.view.GotoBottom()
}

// transcript renders all turns as styled text.
func (m *Model) transcript() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("sitechat %s [%s]", m.siteURL, m.sessionID)))
	b.WriteString("\n\n")

	if m.stale {
		b.WriteString(m.styles.Notice.Render("Dataset changed on disk; answers may be stale. Rebuild the index to refresh."))
		b.WriteString("\n\n")
	}

	for i := range m.turns {
		t := &m.turns[i]
		b.WriteString(m.styles.User.Render("You: ") + t.question + "\n")

		switch {
		case t.err != nil && len(t.sources) > 0:
			// Retrieval worked, generation did not.
			b.WriteString(m.styles.Error.Render("Answer unavailable: "+t.err.Error()) + "\n")
			m.writeSources(&b, t.sources)
		case t.err != nil:
			b.WriteString(m.styles.Error.Render("Error: "+t.err.Error()) + "\n")
		case t.answer != "":
			b.WriteString(m.styles.Assistant.Render(t.answer) + "\n")
			m.writeSources(&b, t.sources)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m *Model) writeSources(b *strings.Builder, sources []domain.RetrievedChunk) {
	for _, s := range sources {
		b.WriteString(m.styles.Source.Render(fmt.Sprintf("  source: %s (%.2f)", s.Chunk.DataLink, s.Similarity)))
		b.WriteString("\n")
	}
}

// Run starts the chat session.
func (m *Model) Run() error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Turns returns the transcript turns (for testing).
func (m *Model) Turns() []turn {
	return m.turns
}

// Waiting reports whether an ask is in flight (for testing).
func (m *Model) Waiting() bool {
	return m.waiting
}

// Stale reports whether the dataset changed during the session.
func (m *Model) Stale() bool {
	return m.stale
}
