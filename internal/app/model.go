// Package app is the Bubble Tea host for the file browser.
//
// The host owns one filetree.FileTree and everything the tree cannot do on
// its own: the pending-operation gate, the input line, the preview pane, the
// VCS overlay, the filesystem watcher and the footer. Each update follows a
// fixed order. A key goes to the gate when it is armed, then to the input
// line when it is open, then to the tree, and finally to the host's own
// actions. After the tree handles an event the host drains the command queue
// and turns each intent into UI state or a tea.Cmd.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/treykane/cli-files/internal/config"
	"github.com/treykane/cli-files/internal/fileops"
	"github.com/treykane/cli-files/internal/filetree"
	"github.com/treykane/cli-files/internal/pending"
	"github.com/treykane/cli-files/internal/queue"
	"github.com/treykane/cli-files/internal/vcs"
)

// Options configures a Model.
type Options struct {
	// Root is the directory to browse. Required.
	Root   string
	Config config.Config

	// VCS reports repository status. Nil uses git in Root.
	VCS vcs.Provider
	// Executor performs confirmed and input-line operations. Nil confines a
	// fileops.Local to Root.
	Executor fileops.Executor

	// LoadConfig reads the config as saved on disk, without session
	// overrides. Nil uses config.Load.
	LoadConfig func() (config.Config, error)
	// SaveConfig persists config changes. Nil uses config.Save.
	SaveConfig func(config.Config) error
	// WriteClipboard copies text. Nil uses the system clipboard.
	WriteClipboard func(string) error
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg  config.Config
	root string

	tree     *filetree.FileTree
	queue    *queue.Queue
	gate     *pending.Gate
	gateHint string
	keys     filetree.KeyMap
	ops      fileops.Executor

	vcs        vcs.Provider
	gitOverlay vcs.Overlay
	gitSummary string
	gitSeq     int

	overlay overlayMode
	input   textinput.Model
	inputOp queue.InputOperation
	// refreshPending records a watcher refresh that arrived while the tree
	// was unfocused.
	refreshPending bool

	help     help.Model
	showHelp bool

	viewport     viewport.Model
	spinner      spinner.Model
	previewPath  string
	rendering    bool
	renderSeq    int
	pendingPath  string
	pendingWidth int
	renderCache  map[string]renderCacheEntry

	watcher  *fsnotify.Watcher
	watchSeq int

	searchSeq int

	width      int
	height     int
	treeOffset int
	status     string

	loadConfig     func() (config.Config, error)
	saveConfig     func(config.Config) error
	writeClipboard func(string) error
}

// New builds the host for opts.Root. It fails when the root cannot be read.
func New(opts Options) (*Model, error) {
	if opts.Root == "" {
		return nil, errors.New("root directory is required")
	}
	cfg := opts.Config
	cfg.PreviewMode = config.NormalizePreviewMode(cfg.PreviewMode)
	if cfg.MaxPreviewBytes <= 0 {
		cfg.MaxPreviewBytes = config.DefaultMaxPreviewBytes
	}
	if cfg.WatchDebounceMillis <= 0 {
		cfg.WatchDebounceMillis = config.DefaultWatchDebounceMillis
	}

	keys, gateKeys := loadKeyMaps(cfg)
	gate := pending.NewGate()
	gate.SetKeys(gateKeys.Keys(actionConfirmAccept), gateKeys.Keys(actionConfirmCancel))
	q := queue.New()
	ft, err := filetree.New(opts.Root, filetree.BuildOptions{ShowHidden: cfg.ShowHidden}, q, keys)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Root, err)
	}
	root := ft.Tree().RootPath()

	provider := opts.VCS
	if provider == nil {
		provider = vcs.Git{Dir: root}
	}
	ops := opts.Executor
	if ops == nil {
		ops = fileops.NewLocal(root)
	}
	load := opts.LoadConfig
	if load == nil {
		load = loadSavedConfig
	}
	save := opts.SaveConfig
	if save == nil {
		save = config.Save
	}
	writeClipboard := opts.WriteClipboard
	if writeClipboard == nil {
		writeClipboard = clipboard.WriteAll
	}

	input := textinput.New()
	input.CharLimit = InputCharLimit

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		cfg:            cfg,
		root:           root,
		tree:           ft,
		queue:          q,
		gate:           gate,
		gateHint:       gateHintFor(gateKeys),
		keys:           keys,
		ops:            ops,
		vcs:            provider,
		input:          input,
		help:           help.New(),
		viewport:       viewport.New(0, 0),
		spinner:        sp,
		renderCache:    map[string]renderCacheEntry{},
		status:         "Ready",
		loadConfig:     load,
		saveConfig:     save,
		writeClipboard: writeClipboard,
	}
	return m, nil
}

// loadSavedConfig reads the config file. A missing file yields defaults.
func loadSavedConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil && !errors.Is(err, config.ErrNotConfigured) {
		return cfg, err
	}
	return cfg, nil
}

// Init drains the startup preview and starts the watcher and git snapshot.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.drainQueue(), m.refreshGitCmd()}
	if m.cfg.Watch {
		cmds = append(cmds, m.startWatcher())
	}
	return tea.Batch(cmds...)
}

// Close releases the watcher. Safe to call more than once.
func (m *Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	err := m.watcher.Close()
	m.watcher = nil
	return err
}

// Update routes messages to their handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		return m.handleSpinnerTick(msg)
	case renderRequestMsg:
		return m.handleRenderRequest(msg)
	case renderResultMsg:
		return m.handleRenderResult(msg)
	case gitStatusMsg:
		return m.handleGitStatus(msg)
	case fsEventMsg:
		return m.handleFsEvent(msg)
	case fsErrorMsg:
		return m.handleFsError(msg)
	case watchDebounceMsg:
		return m.handleWatchDebounce(msg)
	case searchResultMsg:
		return m.handleSearchResult(msg)
	case execFinishedMsg:
		return m.handleExecFinished(msg)
	}

	if m.overlay == overlayInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// afterTreeChange reconciles scrolling and schedules a git snapshot. Call it
// whenever the tree snapshot was replaced.
func (m *Model) afterTreeChange() tea.Cmd {
	m.adjustTreeOffset()
	return m.refreshGitCmd()
}

func (m *Model) debounce() time.Duration {
	return time.Duration(m.cfg.WatchDebounceMillis) * time.Millisecond
}
