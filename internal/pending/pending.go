// Package pending sequences destructive operations behind an explicit
// confirm/cancel step.
//
// A Gate is either idle or awaiting confirmation of exactly one Operation.
// While awaiting, every key is consumed by the gate; only the confirm and
// cancel keys change its state. Confirming always returns the gate to idle,
// whether or not the operation succeeds.
package pending

import (
	"fmt"
	"slices"
	"strings"

	"github.com/treykane/cli-files/internal/logging"
)

var log = logging.New("pending")

// Operation is a destructive action awaiting confirmation.
type Operation interface {
	// Describe returns the prompt shown while the operation is pending.
	Describe() string
	operation()
}

// DeleteFile removes a file or directory tree.
type DeleteFile struct {
	Path string
}

func (DeleteFile) operation() {}

func (d DeleteFile) Describe() string {
	return fmt.Sprintf("Delete %s?", d.Path)
}

// Outcome reports what HandleKey did with a key.
type Outcome int

const (
	// Ignored means the gate was idle and the key should be handled elsewhere.
	Ignored Outcome = iota
	// Swallowed means the gate is awaiting and consumed an unrelated key.
	Swallowed
	// Confirmed means the operation was executed and the gate is idle again.
	Confirmed
	// Cancelled means the operation was discarded.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Swallowed:
		return "swallowed"
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "ignored"
	}
}

// ExecFunc runs a confirmed operation.
type ExecFunc func(Operation) error

var (
	DefaultConfirmKeys = []string{"enter", "y"}
	DefaultCancelKeys  = []string{"esc", "n", "q"}
)

// Gate is the two-state confirmation machine. The zero value is idle and
// uses the default key sets.
type Gate struct {
	op      Operation
	confirm []string
	cancel  []string
}

func NewGate() *Gate {
	return &Gate{}
}

// SetKeys replaces the confirm and cancel key sets. Empty sets keep the
// defaults.
func (g *Gate) SetKeys(confirm, cancel []string) {
	g.confirm = normalizeKeys(confirm)
	g.cancel = normalizeKeys(cancel)
}

// Arm moves an idle gate to awaiting confirmation of op. It reports false
// when op is nil or another operation is already pending.
func (g *Gate) Arm(op Operation) bool {
	if op == nil || g.op != nil {
		return false
	}
	g.op = op
	log.Debug("armed", "operation", op.Describe())
	return true
}

// Pending returns the awaited operation, or nil when idle.
func (g *Gate) Pending() Operation {
	return g.op
}

func (g *Gate) Awaiting() bool {
	return g.op != nil
}

// HandleKey feeds one key to the gate. On confirm, exec runs with the
// pending operation after the gate has already returned to idle, and its
// error is returned unchanged.
func (g *Gate) HandleKey(key string, exec ExecFunc) (Outcome, error) {
	if g.op == nil {
		return Ignored, nil
	}
	key = strings.ToLower(strings.TrimSpace(key))

	switch {
	case slices.Contains(g.confirmKeys(), key):
		op := g.op
		g.op = nil
		if exec == nil {
			return Confirmed, nil
		}
		if err := exec(op); err != nil {
			log.Warn("confirmed operation failed", "operation", op.Describe(), "error", err)
			return Confirmed, err
		}
		log.Info("confirmed operation", "operation", op.Describe())
		return Confirmed, nil
	case slices.Contains(g.cancelKeys(), key):
		log.Debug("cancelled", "operation", g.op.Describe())
		g.op = nil
		return Cancelled, nil
	default:
		return Swallowed, nil
	}
}

func (g *Gate) confirmKeys() []string {
	if len(g.confirm) == 0 {
		return DefaultConfirmKeys
	}
	return g.confirm
}

func (g *Gate) cancelKeys() []string {
	if len(g.cancel) == 0 {
		return DefaultCancelKeys
	}
	return g.cancel
}

func normalizeKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}
