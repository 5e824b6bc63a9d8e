package logger

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Kind classifies a warning so tests and the run summary can count how many
// fallback-to-empty paths fired, instead of scraping log text.
type Kind string

const (
	KindConfig         Kind = "config"
	KindNavigation     Kind = "navigation"
	KindExtraction     Kind = "extraction"
	KindHistory        Kind = "history"
	KindCategoryEmpty  Kind = "category_empty"
	KindSingleCategory Kind = "single_category"
	KindRunLog         Kind = "runlog"
)

var warnings = &recorder{counts: map[Kind]int{}}

type recorder struct {
	mu     sync.Mutex
	counts map[Kind]int
}

// Warnf logs a warning and records it under its kind.
func Warnf(kind Kind, format string, args ...any) {
	warnings.mu.Lock()
	warnings.counts[kind]++
	warnings.mu.Unlock()
	log.Printf("WARN [%s] %s", kind, fmt.Sprintf(format, args...))
}

// Count returns how many warnings of the given kind have been recorded.
func Count(kind Kind) int {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()
	return warnings.counts[kind]
}

// Total returns the number of warnings recorded across all kinds.
func Total() int {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()
	n := 0
	for _, c := range warnings.counts {
		n += c
	}
	return n
}

// Reset clears recorded warnings. Intended for tests and run boundaries.
func Reset() {
	warnings.mu.Lock()
	defer warnings.mu.Unlock()
	warnings.counts = map[Kind]int{}
}

var dedup = &deduplicator{
	flushDelay: 2 * time.Second,
}

type deduplicator struct {
	mu         sync.Mutex
	lastMsg    string
	count      int
	flushDelay time.Duration
	timer      *time.Timer
}

func (d *deduplicator) flush() {
	if d.count == 0 {
		return
	}
	if d.count == 1 {
		log.Print(d.lastMsg)
	} else {
		log.Printf("%s (%d)", d.lastMsg, d.count)
	}
	d.count = 0
	d.lastMsg = ""
}

// Dedup logs like log.Printf but collapses immediate repeats of the same
// message into a single line with a count. Useful for per-page progress
// lines that repeat across a long pagination run.
func Dedup(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	dedup.mu.Lock()
	defer dedup.mu.Unlock()

	if msg == dedup.lastMsg {
		dedup.count++
		if dedup.timer != nil {
			dedup.timer.Stop()
		}
		dedup.timer = time.AfterFunc(dedup.flushDelay, func() {
			dedup.mu.Lock()
			defer dedup.mu.Unlock()
			dedup.flush()
		})
		return
	}

	dedup.flush()
	dedup.lastMsg = msg
	dedup.count = 1
	dedup.timer = time.AfterFunc(dedup.flushDelay, func() {
		dedup.mu.Lock()
		defer dedup.mu.Unlock()
		dedup.flush()
	})
}
