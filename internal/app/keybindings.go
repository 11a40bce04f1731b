package app

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/treykane/cli-files/internal/config"
	"github.com/treykane/cli-files/internal/filetree"
	"github.com/treykane/cli-files/internal/pending"
)

// Host actions. Tree actions (cursor movement, activate, delete, ...) live in
// the filetree package and share one key map with these.
const (
	// actionQuit exits the application.
	actionQuit = "app.quit"

	// actionHelp toggles the full key reference in the footer.
	actionHelp = "help.toggle"

	// actionCopyPath copies the selected entry's absolute path.
	actionCopyPath = "item.copy_path"

	// actionHiddenToggle shows or hides dot-files.
	actionHiddenToggle = "tree.hidden.toggle"

	// actionPreviewPageUp scrolls the preview pane up by one page.
	actionPreviewPageUp = "preview.scroll.page_up"

	// actionPreviewPageDown scrolls the preview pane down by one page.
	actionPreviewPageDown = "preview.scroll.page_down"
)

// Gate actions answer a pending confirmation. They live in their own key map
// since the gate sees keys before any host or tree action does.
const (
	gateActionPrefix = "confirm."

	// actionConfirmAccept runs the pending operation.
	actionConfirmAccept = gateActionPrefix + "accept"

	// actionConfirmCancel discards the pending operation.
	actionConfirmCancel = gateActionPrefix + "cancel"
)

var gateActionKeys = map[string][]string{
	actionConfirmAccept: pending.DefaultConfirmKeys,
	actionConfirmCancel: pending.DefaultCancelKeys,
}

var hostActionKeys = map[string][]string{
	actionQuit:            {"q", "ctrl+c"},
	actionHelp:            {"?"},
	actionCopyPath:        {"y"},
	actionHiddenToggle:    {"."},
	actionPreviewPageUp:   {"pgup"},
	actionPreviewPageDown: {"pgdown"},
}

// actionDescriptions label every action in the help view, in display order.
var actionDescriptions = []struct {
	action string
	desc   string
}{
	{filetree.ActionDown, "down"},
	{filetree.ActionUp, "up"},
	{filetree.ActionJumpDown, "jump down"},
	{filetree.ActionJumpUp, "jump up"},
	{filetree.ActionFirst, "top"},
	{filetree.ActionLast, "bottom"},
	{filetree.ActionActivate, "open/toggle"},
	{filetree.ActionSearch, "search"},
	{filetree.ActionReset, "reset"},
	{filetree.ActionNewFile, "new file"},
	{filetree.ActionNewDir, "new dir"},
	{filetree.ActionDelete, "delete"},
	{filetree.ActionCommand, "run command"},
	{filetree.ActionTogglePreview, "preview mode"},
	{actionPreviewPageUp, "preview up"},
	{actionPreviewPageDown, "preview down"},
	{actionCopyPath, "copy path"},
	{actionHiddenToggle, "hidden"},
	{actionHelp, "help"},
	{actionQuit, "quit"},
}

// shortHelpActions are shown in the footer while full help is closed.
var shortHelpActions = []string{
	filetree.ActionActivate,
	filetree.ActionSearch,
	filetree.ActionNewFile,
	filetree.ActionDelete,
	actionHelp,
	actionQuit,
}

// defaultActionKeys merges the tree's bindings with the host's.
func defaultActionKeys() map[string][]string {
	out := filetree.DefaultActionKeys()
	for action, keys := range hostActionKeys {
		out[action] = append([]string(nil), keys...)
	}
	return out
}

// loadKeybindings layers defaults, config overrides, then the keymap file.
func loadKeybindings(cfg config.Config) filetree.KeyMap {
	keys, _ := loadKeyMaps(cfg)
	return keys
}

// loadKeyMaps builds the host key map and the gate key map from the same
// override layers. Gate actions are routed by their "confirm." prefix.
func loadKeyMaps(cfg config.Config) (keys, gateKeys filetree.KeyMap) {
	layers := []map[string]string{cfg.Keybindings, loadKeymapFile(cfg.KeymapFile)}
	var hostLayers, gateLayers []map[string]string
	for _, layer := range layers {
		host, gate := splitGateOverrides(layer)
		hostLayers = append(hostLayers, host)
		gateLayers = append(gateLayers, gate)
	}
	return filetree.NewKeyMap(defaultActionKeys(), hostLayers...),
		filetree.NewKeyMap(gateActionKeys, gateLayers...)
}

func splitGateOverrides(layer map[string]string) (host, gate map[string]string) {
	host = map[string]string{}
	gate = map[string]string{}
	for action, key := range layer {
		if strings.HasPrefix(strings.TrimSpace(action), gateActionPrefix) {
			gate[action] = key
		} else {
			host[action] = key
		}
	}
	return host, gate
}

// gateHintFor describes the confirm and cancel keys, e.g.
// "enter/y confirm · esc/n/q cancel".
func gateHintFor(gateKeys filetree.KeyMap) string {
	return keyLabels(gateKeys.Keys(actionConfirmAccept)) + " confirm · " +
		keyLabels(gateKeys.Keys(actionConfirmCancel)) + " cancel"
}

func keyLabels(keys []string) string {
	labels := make([]string, 0, len(keys))
	for _, k := range keys {
		labels = append(labels, filetree.KeyLabel(k))
	}
	return strings.Join(labels, "/")
}

// loadKeymapFile reads a JSON object of action → key. A missing file is not
// an error; unreadable or malformed files are logged and ignored.
func loadKeymapFile(path string) map[string]string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			appLog.Warn("read keymap file", "path", path, "error", err)
		}
		return nil
	}
	overrides := map[string]string{}
	if err := json.Unmarshal(data, &overrides); err != nil {
		appLog.Warn("parse keymap file", "path", path, "error", err)
		return nil
	}
	return overrides
}

// helpKeyMap adapts the key map to bubbles/help.
type helpKeyMap struct {
	keys filetree.KeyMap
}

func (h helpKeyMap) binding(action string) key.Binding {
	for _, d := range actionDescriptions {
		if d.action == action {
			return h.keys.Binding(action, d.desc)
		}
	}
	return h.keys.Binding(action, action)
}

func (h helpKeyMap) ShortHelp() []key.Binding {
	out := make([]key.Binding, 0, len(shortHelpActions))
	for _, action := range shortHelpActions {
		out = append(out, h.binding(action))
	}
	return out
}

// FullHelp groups bindings into columns of five.
func (h helpKeyMap) FullHelp() [][]key.Binding {
	var columns [][]key.Binding
	for i := 0; i < len(actionDescriptions); i += 5 {
		end := min(i+5, len(actionDescriptions))
		column := make([]key.Binding, 0, end-i)
		for _, d := range actionDescriptions[i:end] {
			column = append(column, h.keys.Binding(d.action, d.desc))
		}
		columns = append(columns, column)
	}
	return columns
}
