package filetree

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Tree actions. Each names something the file tree does in response to a
// key; the keys themselves come from the KeyMap.
const (
	ActionFirst         = "tree.jump.top"
	ActionLast          = "tree.jump.bottom"
	ActionDown          = "tree.cursor.down"
	ActionUp            = "tree.cursor.up"
	ActionJumpDown      = "tree.page.down"
	ActionJumpUp        = "tree.page.up"
	ActionActivate      = "tree.activate"
	ActionReset         = "tree.refresh"
	ActionCommand       = "item.command"
	ActionDelete        = "item.delete"
	ActionNewFile       = "item.new_file"
	ActionNewDir        = "item.new_dir"
	ActionSearch        = "search.open"
	ActionTogglePreview = "preview.mode.toggle"
)

var defaultActionKeys = map[string][]string{
	ActionFirst:         {"g", "home"},
	ActionLast:          {"shift+g", "end"},
	ActionDown:          {"j", "down"},
	ActionUp:            {"k", "up"},
	ActionJumpDown:      {"ctrl+n"},
	ActionJumpUp:        {"ctrl+p"},
	ActionActivate:      {"enter"},
	ActionReset:         {`\`},
	ActionCommand:       {"e"},
	ActionDelete:        {"d"},
	ActionNewFile:       {"n"},
	ActionNewDir:        {"shift+n"},
	ActionSearch:        {"/"},
	ActionTogglePreview: {"t"},
}

// DefaultActionKeys returns a copy of the tree's default bindings.
func DefaultActionKeys() map[string][]string {
	out := make(map[string][]string, len(defaultActionKeys))
	for action, keys := range defaultActionKeys {
		out[action] = append([]string(nil), keys...)
	}
	return out
}

// KeyMap translates key strings to actions.
type KeyMap struct {
	forAction map[string][]string
	toAction  map[string]string
}

// NewKeyMap builds a key map from default bindings. Each override replaces
// the full key set of a known action; unknown actions are logged and
// ignored. Later override maps win.
func NewKeyMap(defaults map[string][]string, overrides ...map[string]string) KeyMap {
	k := KeyMap{forAction: make(map[string][]string, len(defaults))}
	for action, keys := range defaults {
		normalized := make([]string, 0, len(keys))
		for _, key := range keys {
			if key = NormalizeKey(key); key != "" {
				normalized = append(normalized, key)
			}
		}
		k.forAction[action] = normalized
	}
	for _, layer := range overrides {
		for action, key := range layer {
			action = strings.TrimSpace(action)
			key = NormalizeKey(key)
			if action == "" || key == "" {
				continue
			}
			if _, ok := k.forAction[action]; !ok {
				treeLog.Warn("ignore unknown keybinding action", "action", action)
				continue
			}
			k.forAction[action] = []string{key}
		}
	}
	k.reindex()
	return k
}

// DefaultKeyMap binds only the tree's own actions.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(defaultActionKeys)
}

// reindex builds the key to action lookup. When two actions claim one key
// the first in sorted action order keeps it.
func (k *KeyMap) reindex() {
	actions := make([]string, 0, len(k.forAction))
	for action := range k.forAction {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	k.toAction = map[string]string{}
	for _, action := range actions {
		for _, key := range k.forAction[action] {
			if existing, ok := k.toAction[key]; ok {
				treeLog.Warn("keybinding conflict ignored", "key", key, "action", action, "existing_action", existing)
				continue
			}
			k.toAction[key] = action
		}
	}
}

// Action returns the action bound to key, or "".
func (k KeyMap) Action(key string) string {
	return k.toAction[NormalizeKey(key)]
}

// Keys returns the keys bound to action.
func (k KeyMap) Keys(action string) []string {
	return append([]string(nil), k.forAction[action]...)
}

// Binding returns a help-ready binding for action.
func (k KeyMap) Binding(action, desc string) key.Binding {
	keys := k.Keys(action)
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		labels = append(labels, KeyLabel(key))
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(strings.Join(labels, "/"), desc),
	)
}

// NormalizeKey converts a key string to the form used in bindings:
// lowercase, with a single uppercase letter written as "shift+<letter>".
// Bubble Tea reports shifted letters as the uppercase rune, so "G" and
// "shift+g" bind the same key.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if len([]rune(key)) == 1 && strings.ToUpper(key) == key && strings.ToLower(key) != key {
		return "shift+" + strings.ToLower(key)
	}
	return strings.ToLower(key)
}

// KeyLabel renders a normalized key for help text, e.g. "shift+g" as "G".
func KeyLabel(key string) string {
	if rest, ok := strings.CutPrefix(key, "shift+"); ok && len([]rune(rest)) == 1 {
		return strings.ToUpper(rest)
	}
	return key
}
