package merge

// Sink receives progress and leveled diagnostics from a merge run.
// Calls happen synchronously on the merging goroutine and must not alter
// merge state. Implementations accept empty messages.
type Sink interface {
	Begin(message string)
	// Update reports progress in [0,1]; implementations clamp.
	Update(message string, progress float64)
	End()

	LogSuccess(message string)
	LogWarning(message string)
	LogError(message string)
}

type nopSink struct{}

func (nopSink) Begin(string)           {}
func (nopSink) Update(string, float64) {}
func (nopSink) End()                   {}
func (nopSink) LogSuccess(string)      {}
func (nopSink) LogWarning(string)      {}
func (nopSink) LogError(string)        {}
