package diag

import "sync"

// Kind identifies a recorded sink call.
type Kind string

const (
	KindBegin   Kind = "begin"
	KindUpdate  Kind = "update"
	KindEnd     Kind = "end"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Event is one recorded sink call.
type Event struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Message  string  `json:"message,omitempty" yaml:"message,omitempty"`
	Progress float64 `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Recorder keeps every sink call in memory.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Begin(message string) { r.add(Event{Kind: KindBegin, Message: message}) }

func (r *Recorder) Update(message string, progress float64) {
	r.add(Event{Kind: KindUpdate, Message: message, Progress: Clamp01(progress)})
}

func (r *Recorder) End()                      { r.add(Event{Kind: KindEnd}) }
func (r *Recorder) LogSuccess(message string) { r.add(Event{Kind: KindSuccess, Message: message}) }
func (r *Recorder) LogWarning(message string) { r.add(Event{Kind: KindWarning, Message: message}) }
func (r *Recorder) LogError(message string)   { r.add(Event{Kind: KindError, Message: message}) }

// Events returns a copy of all recorded events in call order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Messages returns the messages of events of kind k in call order.
func (r *Recorder) Messages(k Kind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e.Message)
		}
	}
	return out
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
