package transfer

// EventKind discriminates the discrete progress moments of a transfer.
type EventKind int

const (
	// EventDownloading is emitted while payload bytes are arriving.
	EventDownloading EventKind = iota

	// EventFinished is emitted once when the output file is complete.
	EventFinished
)

// Event is one observable progress moment. Name is set for
// EventDownloading; Path and Size are set for EventFinished.
type Event struct {
	Kind EventKind
	Name string
	Path string
	Size int64
}

// Hook observes transfer events. It is called synchronously from
// inside the transfer and must return quickly; it must not start
// further transfers. Panics raised by a hook are contained and do not
// affect the transfer outcome.
type Hook func(Event)

// DownloadingEvent reports that bytes for the named file are arriving.
func DownloadingEvent(name string) Event {
	return Event{Kind: EventDownloading, Name: name}
}

// FinishedEvent reports a completed output file and its size in bytes.
func FinishedEvent(path string, size int64) Event {
	return Event{Kind: EventFinished, Path: path, Size: size}
}

// safeHook wraps a hook so that a panicking observer cannot abort the
// transfer it is watching. A nil hook becomes a no-op.
func safeHook(hook Hook) Hook {
	if hook == nil {
		return func(Event) {}
	}
	return func(e Event) {
		defer func() {
			_ = recover()
		}()
		hook(e)
	}
}
