package feedback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is the toast severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one toast.
type Notice struct {
	Level    Level     `json:"level"`
	Resource string    `json:"resource,omitempty"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Notifier receives toasts. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(n Notice)
}

// LogNotifier writes toasts to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: logger.With().Str("module", "feedback").Logger()}
}

func (l *LogNotifier) Notify(n Notice) {
	ev := l.log.Info()
	if n.Level == LevelError {
		ev = l.log.Warn()
	}
	ev.Str("level_ui", string(n.Level)).Str("resource", n.Resource).Msg(n.Message)
}

const defaultRecorderLimit = 100

// Recorder keeps the most recent toasts in memory so a UI can poll them.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Notice
	now   func() time.Time
}

// NewRecorder keeps up to limit notices; limit <= 0 means 100.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = defaultRecorderLimit
	}
	return &Recorder{limit: limit, now: time.Now}
}

func (r *Recorder) Notify(n Notice) {
	if n.At.IsZero() {
		n.At = r.now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	if over := len(r.items) - r.limit; over > 0 {
		r.items = append([]Notice(nil), r.items[over:]...)
	}
}

// Recent returns up to n notices, newest first. n <= 0 returns all of them.
func (r *Recorder) Recent(n int) []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 || n > len(r.items) {
		n = len(r.items)
	}
	out := make([]Notice, 0, n)
	for i := len(r.items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, r.items[i])
	}
	return out
}

// Fanout delivers every notice to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(n Notice) {
	for _, nf := range f {
		if nf != nil {
			nf.Notify(n)
		}
	}
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(Notice) {}
