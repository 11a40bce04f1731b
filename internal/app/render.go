// render.go implements the debounced, cached preview pane.
//
// Every selection change asks for a preview, so holding j would otherwise
// read and render one file per key repeat. requestRender bumps a sequence
// number and schedules the work after RenderDebounce; a request whose
// sequence is stale when the timer fires is dropped. The read and render then
// run in a tea.Cmd goroutine and come back as a renderResultMsg, which is
// dropped too if the selection moved on in the meantime.
//
// Finished previews are cached per path, keyed by modification time, width
// bucket and preview mode. Markdown in rendered mode goes through Glamour;
// Glamour renderers are cached per style and width in a small LRU.
package app

import (
	"bytes"
	"container/list"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/treykane/cli-files/internal/config"
	"github.com/treykane/cli-files/internal/filetree"
)

// renderCacheEntry stores a completed preview alongside the inputs that
// produced it.
type renderCacheEntry struct {
	mtime   time.Time
	width   int
	mode    string
	content string
}

// renderRequestMsg is emitted by the debounce timer.
type renderRequestMsg struct {
	path  string
	width int
	seq   int
}

// renderResultMsg carries a finished preview back to Update.
type renderResultMsg struct {
	path    string
	width   int
	mode    string
	seq     int
	content string
	mtime   time.Time
	err     error
}

// previewRequest holds everything the background render needs, copied out of
// the model so the goroutine never touches it.
type previewRequest struct {
	path       string
	width      int
	mode       string
	maxBytes   int64
	style      string
	showHidden bool
}

var (
	// maxRendererCacheEntries bounds the number of Glamour renderers
	// retained in memory.
	maxRendererCacheEntries = 8

	rendererCacheMu    sync.Mutex
	rendererCache      = map[rendererKey]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[rendererKey]*list.Element{}
)

type rendererKey struct {
	style string
	width int
}

// setPreview makes path the previewed entry and renders it.
func (m *Model) setPreview(path string) tea.Cmd {
	if path != m.previewPath {
		m.viewport.GotoTop()
	}
	m.previewPath = path
	return m.requestRender(path)
}

// refreshPreview re-renders the current preview, e.g. after a resize or a
// mode switch.
func (m *Model) refreshPreview() tea.Cmd {
	if m.previewPath == "" {
		return nil
	}
	return m.requestRender(m.previewPath)
}

// clearPreview empties the pane when nothing is selected.
func (m *Model) clearPreview() {
	m.previewPath = ""
	m.pendingPath = ""
	m.rendering = false
	m.renderSeq++
	m.viewport.SetContent("")
}

// invalidatePreview forgets the cached preview of path.
func (m *Model) invalidatePreview(path string) {
	delete(m.renderCache, path)
}

// requestRender shows a cached preview immediately or schedules a render.
func (m *Model) requestRender(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	width := renderWidthBucket(m.viewport.Width)
	if info, err := os.Stat(path); err == nil {
		if entry, ok := m.renderCache[path]; ok && entry.width == width && entry.mode == m.cfg.PreviewMode && entry.mtime.Equal(info.ModTime()) {
			m.viewport.SetContent(entry.content)
			m.rendering = false
			m.pendingPath = ""
			return nil
		}
	}
	m.rendering = true
	m.viewport.SetContent(m.spinner.View() + " Loading preview...")
	m.renderSeq++
	seq := m.renderSeq
	m.pendingPath = path
	m.pendingWidth = width
	return tea.Tick(RenderDebounce, func(time.Time) tea.Msg {
		return renderRequestMsg{path: path, width: width, seq: seq}
	})
}

func (m *Model) handleRenderRequest(msg renderRequestMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.renderSeq || msg.path != m.pendingPath {
		return m, nil
	}
	return m, renderPreviewCmd(previewRequest{
		path:       msg.path,
		width:      msg.width,
		mode:       m.cfg.PreviewMode,
		maxBytes:   m.cfg.MaxPreviewBytes,
		style:      m.cfg.GlamourStyle,
		showHidden: m.tree.Tree().ShowHidden(),
	}, msg.seq)
}

func (m *Model) handleRenderResult(msg renderResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.renderSeq || msg.path != m.previewPath {
		return m, nil
	}
	m.rendering = false
	m.pendingPath = ""
	if msg.err != nil {
		m.viewport.SetContent(mutedStyle.Render("Cannot preview: " + msg.err.Error()))
		appLog.Warn("preview failed", "path", msg.path, "error", msg.err)
		return m, nil
	}
	m.renderCache[msg.path] = renderCacheEntry{
		mtime:   msg.mtime,
		width:   msg.width,
		mode:    msg.mode,
		content: msg.content,
	}
	m.viewport.SetContent(msg.content)
	return m, nil
}

func (m *Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if m.rendering {
		m.viewport.SetContent(m.spinner.View() + " Loading preview...")
	}
	return m, cmd
}

// togglePreviewMode flips between rendered and raw and persists the choice.
func (m *Model) togglePreviewMode() {
	if m.cfg.PreviewMode == config.PreviewRaw {
		m.cfg.PreviewMode = config.PreviewRendered
	} else {
		m.cfg.PreviewMode = config.PreviewRaw
	}
	m.status = "Preview: " + m.cfg.PreviewMode
	if err := m.persistPreviewMode(); err != nil {
		m.setStatusError("Preview: "+m.cfg.PreviewMode+" (not saved)", err)
	}
}

// persistPreviewMode writes only the preview mode back to the saved config.
// Session overrides such as --no-watch or the hidden toggle stay unsaved.
func (m *Model) persistPreviewMode() error {
	saved, err := m.loadConfig()
	if err != nil {
		return err
	}
	saved.PreviewMode = m.cfg.PreviewMode
	return m.saveConfig(saved)
}

// renderPreviewCmd reads and renders a preview off the update goroutine.
func renderPreviewCmd(req previewRequest, seq int) tea.Cmd {
	return func() tea.Msg {
		content, mtime, err := renderPreview(req)
		return renderResultMsg{
			path:    req.path,
			width:   req.width,
			mode:    req.mode,
			seq:     seq,
			content: content,
			mtime:   mtime,
			err:     err,
		}
	}
}

// renderPreview produces the pane content for one path: a listing for
// directories, a notice for binary files, Glamour output for markdown in
// rendered mode and plain text otherwise.
func renderPreview(req previewRequest) (string, time.Time, error) {
	info, err := os.Stat(req.path)
	if err != nil {
		return "", time.Time{}, err
	}
	if info.IsDir() {
		listing, err := renderDirListing(req.path, req.showHidden)
		return listing, info.ModTime(), err
	}

	data, truncated, err := readPreviewBytes(req.path, req.maxBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	if isBinary(data) {
		return mutedStyle.Render(fmt.Sprintf("Binary file (%s)", formatSize(info.Size()))), info.ModTime(), nil
	}

	text := string(data)
	if req.mode == config.PreviewRendered && isMarkdown(req.path) {
		text = renderMarkdown(text, req.style, req.width)
	} else {
		text = strings.ReplaceAll(text, "\t", "    ")
	}
	if truncated {
		text += "\n" + mutedStyle.Render(fmt.Sprintf("… truncated at %s of %s", formatSize(req.maxBytes), formatSize(info.Size())))
	}
	return text, info.ModTime(), nil
}

// renderDirListing lists a directory the way the tree orders it.
func renderDirListing(path string, showHidden bool) (string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}
	var dirs, files []string
	for _, entry := range entries {
		if filetree.Excluded(entry.Name(), showHidden) {
			continue
		}
		if entry.IsDir() {
			dirs = append(dirs, dirStyle.Render(entry.Name()+"/"))
		} else {
			files = append(files, entry.Name())
		}
	}
	if len(dirs)+len(files) == 0 {
		return mutedStyle.Render("(empty directory)"), nil
	}
	// os.ReadDir sorts by name already.
	return strings.Join(append(dirs, files...), "\n"), nil
}

// readPreviewBytes reads at most limit bytes and reports whether more remained.
func readPreviewBytes(path string, limit int64) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// isBinary treats content with a NUL byte, or that is not UTF-8, as binary.
func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffBytes {
		sniff = sniff[:binarySniffBytes]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}
	// A multibyte rune cut at the end of the sample is not binary.
	for i := 1; i < utf8.UTFMax && i <= len(sniff); i++ {
		tail := sniff[len(sniff)-i:]
		if utf8.RuneStart(tail[0]) {
			if !utf8.FullRune(tail) {
				sniff = sniff[:len(sniff)-i]
			}
			break
		}
	}
	return !utf8.Valid(sniff)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown":
		return true
	}
	return false
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// renderMarkdown renders with a cached Glamour renderer. Failures fall back
// to the raw text so the user still sees content.
func renderMarkdown(content, style string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := getRenderer(style, width)
	if err != nil {
		appLog.Error("create markdown renderer", "width", width, "error", err)
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		appLog.Error("render markdown content", "width", width, "error", err)
		return content
	}
	return out
}

// getRenderer returns a cached TermRenderer, creating one on a miss.
func getRenderer(style string, width int) (*glamour.TermRenderer, error) {
	key := rendererKey{style: resolveGlamourStyle(style), width: width}
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	if renderer, ok := rendererCache[key]; ok {
		if node, ok := rendererCacheNodes[key]; ok {
			rendererCacheOrder.MoveToBack(node)
		}
		return renderer, nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamourStyleOption(key.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	rendererCache[key] = renderer
	rendererCacheNodes[key] = rendererCacheOrder.PushBack(key)
	evictOldestRendererIfNeeded()
	return renderer, nil
}

func evictOldestRendererIfNeeded() {
	for len(rendererCache) > maxRendererCacheEntries && rendererCacheOrder.Len() > 0 {
		oldest := rendererCacheOrder.Front()
		key, _ := oldest.Value.(rendererKey)
		rendererCacheOrder.Remove(oldest)
		delete(rendererCache, key)
		delete(rendererCacheNodes, key)
	}
}

func resetRendererCacheForTests() {
	rendererCacheMu.Lock()
	defer rendererCacheMu.Unlock()
	rendererCache = map[rendererKey]*glamour.TermRenderer{}
	rendererCacheOrder = list.New()
	rendererCacheNodes = map[rendererKey]*list.Element{}
}

// resolveGlamourStyle picks the style: CLI_FILES_GLAMOUR_STYLE, then
// GLAMOUR_STYLE, then the configured value, then "dark".
func resolveGlamourStyle(configured string) string {
	for _, candidate := range []string{os.Getenv("CLI_FILES_GLAMOUR_STYLE"), os.Getenv("GLAMOUR_STYLE"), configured} {
		if style := strings.ToLower(strings.TrimSpace(candidate)); style != "" {
			return style
		}
	}
	return "dark"
}

// glamourStyleOption maps a style name to a renderer option. "auto" queries
// the terminal background; unknown names fall back to dark.
func glamourStyleOption(style string) glamour.TermRendererOption {
	switch style {
	case "auto":
		return glamour.WithAutoStyle()
	case "dark", "light", "notty":
		return glamour.WithStandardStyle(style)
	default:
		return glamour.WithStandardStyle("dark")
	}
}
