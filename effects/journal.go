package effects

import (
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rickb777/date/v2/timespan"

	"github.com/out-of-band/efftrack/effects/kind"
)

// Shape names the region shape that produced a classification event.
type Shape string

const (
	ShapeValue     Shape = "value"
	ShapeConstant  Shape = "constant"
	ShapeReference Shape = "reference"
)

// Event is one classification event in a context's admission trail.
type Event struct {
	// Seq orders events within the context, starting at 0.
	Seq int
	// Shape is the region shape admitted.
	Shape Shape
	// Type is the Go type of the admitted value.
	Type string
	// Delta is the full mask merged by this event, including any
	// floating-point exception bits folded in from the status register.
	Delta kind.Kind
	// Site is the admission call site as "file.go:line".
	Site string
	// SiteHash fingerprints Site for cheap aggregation of repeated
	// admissions from the same call site.
	SiteHash uint64
	// At bounds the moment the event was recorded.
	At timespan.TimeSpan
}

type journal struct {
	events []Event
}

func (j *journal) record(shape Shape, typ string, delta kind.Kind, site string) {
	j.events = append(j.events, Event{
		Seq:      len(j.events),
		Shape:    shape,
		Type:     typ,
		Delta:    delta,
		Site:     site,
		SiteHash: xxhash.Sum64String(site),
		At:       eventWindow(),
	})
}

// Trail returns a copy of the admission trail recorded so far, or nil when
// the context was constructed without WithJournal. Clear does not discard
// the trail: it spans every segment of the session.
func (c *Context) Trail() []Event {
	if c.journal == nil {
		return nil
	}
	return slices.Clone(c.journal.events)
}

const epsilon = time.Millisecond

// eventWindow brackets the current instant, since two clock reads around an
// admission never land on the same nanosecond.
func eventWindow() timespan.TimeSpan {
	now := time.Now()
	return timespan.BetweenTimes(now.Add(-epsilon), now.Add(epsilon))
}

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}
