// Package ui provides the Bubbletea terminal user interface for sweepcheck
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FileStatus represents the processing state of a single source file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusSampling
	StatusRendering
	StatusValidating
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single source recording
type FileProgress struct {
	InputPath string
	Status    FileStatus

	// Sampled plan
	Transform string
	Variable  string

	// Sweep rendering progress
	Rendered int
	Total    int

	// Timing
	StartTime   time.Time
	ElapsedTime time.Duration

	// Result
	Coefficient float64 // NaN for a degenerate distance sequence

	// Error tracking
	Error error
}

// Model is the Bubbletea model for the validation run UI
type Model struct {
	// File queue
	Files          []FileProgress
	CurrentIndex   int
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	// Run summary, filled by AllCompleteMsg
	Mean       float64
	Median     float64
	HasSummary bool

	// Global state
	StartTime time.Time
	Done      bool

	// Channel for receiving progress updates from the driver
	ProgressChan chan tea.Msg

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(inputFiles []string) Model {
	files := make([]FileProgress, len(inputFiles))
	for i, path := range inputFiles {
		files[i] = FileProgress{
			InputPath: path,
			Status:    StatusQueued,
		}
	}

	return Model{
		Files:        files,
		CurrentIndex: -1, // No file processing yet
		TotalFiles:   len(inputFiles),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100), // Buffered channel
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return waitForProgress(m.ProgressChan)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		m.CurrentIndex = msg.FileIndex
		m.Files[m.CurrentIndex].Status = StatusSampling
		m.Files[m.CurrentIndex].StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case SweepPlanMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Transform = msg.Transform
			f.Variable = msg.Variable
			f.Status = StatusRendering
		}
		return m, waitForProgress(m.ProgressChan)

	case RenderProgressMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Status = StatusRendering
			f.Rendered = msg.Done
			f.Total = msg.Total
			f.ElapsedTime = time.Since(f.StartTime)
		}
		return m, waitForProgress(m.ProgressChan)

	case ValidatingMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Status = StatusValidating
			f.ElapsedTime = time.Since(f.StartTime)
		}
		return m, waitForProgress(m.ProgressChan)

	case FileCompleteMsg:
		if f := m.file(msg.FileIndex); f != nil {
			f.Transform = msg.Transform
			f.Variable = msg.Variable
			f.Coefficient = msg.Coefficient
			f.Error = msg.Error
			f.ElapsedTime = time.Since(f.StartTime)

			if msg.Error != nil {
				f.Status = StatusError
				m.FailedFiles++
			} else {
				f.Status = StatusComplete
				m.CompletedFiles++
			}
		}
		return m, waitForProgress(m.ProgressChan)

	case AllCompleteMsg:
		m.Mean = msg.Mean
		m.Median = msg.Median
		m.HasSummary = msg.Summary
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderProcessingView(m)
}

// file returns the addressed queue entry, or nil for an out-of-range
// index (stale messages during shutdown).
func (m *Model) file(index int) *FileProgress {
	if index < 0 || index >= len(m.Files) {
		return nil
	}
	return &m.Files[index]
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
