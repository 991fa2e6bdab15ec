package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jlrickert/dexview/pkg/dex"
)

// Bridge is the dex.Renderer used by the browser. The pipeline calls it while
// holding its locks, so it only records the latest state and signals the UI
// without blocking. Intermediate states may be coalesced.
type Bridge struct {
	mu      sync.Mutex
	view    dex.View
	hasView bool
	loading bool
	err     string
	errSeq  uint64

	notify chan struct{}
	done   chan struct{}
	once   sync.Once
}

var _ dex.Renderer = (*Bridge)(nil)

func NewBridge() *Bridge {
	return &Bridge{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// bridgeMsg carries the bridge state into the model.
type bridgeMsg struct {
	View    dex.View
	HasView bool
	Loading bool
	Err     string
	ErrSeq  uint64
}

func (b *Bridge) Render(v dex.View) {
	b.mu.Lock()
	b.view = v
	b.hasView = true
	b.err = ""
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) SetLoading(on bool) {
	b.mu.Lock()
	b.loading = on
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) SetError(msg string) {
	b.mu.Lock()
	b.err = msg
	b.errSeq++
	b.mu.Unlock()
	b.signal()
}

func (b *Bridge) signal() {
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Wait returns a command that blocks until the bridge changes, then reports
// its current state. It returns nil after Close.
func (b *Bridge) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
		case <-b.done:
			return nil
		}
		return b.snapshot()
	}
}

func (b *Bridge) snapshot() bridgeMsg {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bridgeMsg{
		View:    b.view,
		HasView: b.hasView,
		Loading: b.loading,
		Err:     b.err,
		ErrSeq:  b.errSeq,
	}
}

// Close releases any pending Wait.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}
