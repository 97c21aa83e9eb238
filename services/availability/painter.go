// File: services/availability/painter.go
package availability

import (
	"context"
	"time"

	"slotsync/models"
	"slotsync/services/schedule"
)

// PaintMode is what a drag stroke does to the slots it passes over.
type PaintMode string

const (
	PaintAdd    PaintMode = "add"
	PaintRemove PaintMode = "remove"
)

// PaintSession is the drag-based editor for one user's weekly grid. It is an
// event-driven, single-goroutine object: Press/Enter/Release arrive in order
// from one input source, so there is no internal locking.
//
// Pending edits live apart from persisted state until Save. Navigating to
// another week saves the current week first (awaited), then loads the
// destination from the per-week cache or the store. Loads carry a generation
// token; a response that arrives after a newer navigation is discarded.
type PaintSession struct {
	svc    AvailabilityService
	userID string

	week     []schedule.DayInfo
	pending  map[models.SlotKey]bool
	dirty    bool
	painting bool
	mode     PaintMode

	cache      map[int]map[models.SlotKey]bool
	generation uint64

	now func() time.Time
}

// NewPaintSession creates an editor positioned on the week containing anchor.
// The now func gates which slots may be painted; pass nil for wall-clock time.
func NewPaintSession(svc AvailabilityService, userID string, anchor time.Time, now func() time.Time) *PaintSession {
	if now == nil {
		now = time.Now
	}
	return &PaintSession{
		svc:     svc,
		userID:  userID,
		week:    schedule.WeekOf(anchor),
		pending: make(map[models.SlotKey]bool),
		cache:   make(map[int]map[models.SlotKey]bool),
		now:     now,
	}
}

// Week returns the seven days currently displayed.
func (p *PaintSession) Week() []schedule.DayInfo { return p.week }

// Pending returns a copy of the current pending selection.
func (p *PaintSession) Pending() map[models.SlotKey]bool {
	return cloneSet(p.pending)
}

// Dirty reports whether there are unsaved edits.
func (p *PaintSession) Dirty() bool { return p.dirty }

// Load fetches the current week's persisted marks into the pending set.
func (p *PaintSession) Load(ctx context.Context) error {
	gen := p.nextGeneration()
	key := p.week[0].DayIndex

	if cached, ok := p.cache[key]; ok {
		p.pending = cloneSet(cached)
		p.dirty = false
		return nil
	}

	// Clear before fetching so a slow load never shows another week's marks.
	p.pending = make(map[models.SlotKey]bool)
	p.dirty = false

	marks, err := p.svc.WeekMarks(ctx, p.userID, p.week)
	if err != nil {
		return err
	}
	p.applyLoad(gen, key, marks)
	return nil
}

// Press starts a stroke on a slot. Starting on an unmarked bookable slot
// paints in add mode, starting on a marked one paints in remove mode.
// Non-bookable slots are inert: they neither change the selection nor start a
// stroke.
func (p *PaintSession) Press(dayIndex, hour int) {
	day, ok := p.dayFor(dayIndex)
	if !ok || !schedule.IsSlotBookable(day.Date, hour, p.now()) {
		return
	}
	key := models.SlotKey{DayIndex: dayIndex, Hour: hour}
	if p.pending[key] {
		p.mode = PaintRemove
	} else {
		p.mode = PaintAdd
	}
	p.painting = true
	p.apply(key)
}

// Enter extends an active stroke over another slot. The stroke's mode is
// applied without re-reading the slot's prior state.
func (p *PaintSession) Enter(dayIndex, hour int) {
	if !p.painting {
		return
	}
	day, ok := p.dayFor(dayIndex)
	if !ok || !schedule.IsSlotBookable(day.Date, hour, p.now()) {
		return
	}
	p.apply(models.SlotKey{DayIndex: dayIndex, Hour: hour})
}

// Release ends the stroke. Leaving the grid entirely counts as a release.
func (p *PaintSession) Release() {
	p.painting = false
}

// Save persists the pending selection for the current week. It is a no-op
// when nothing changed. On failure the pending edits are preserved so the
// user can retry; there is no automatic retry.
func (p *PaintSession) Save(ctx context.Context) error {
	if !p.dirty {
		return nil
	}
	if _, err := p.svc.SaveWeek(ctx, p.userID, p.week, p.pending); err != nil {
		return err
	}
	p.cache[p.week[0].DayIndex] = cloneSet(p.pending)
	p.dirty = false
	return nil
}

// Navigate saves the current week, then moves to the week containing target
// and loads it. The save is awaited before the load begins so an old week's
// edits can never land after a newer week is displayed.
func (p *PaintSession) Navigate(ctx context.Context, target time.Time) error {
	if err := p.Save(ctx); err != nil {
		return err
	}
	p.painting = false
	p.week = schedule.WeekOf(target)
	return p.Load(ctx)
}

// NavigateWeeks moves delta weeks forward (or back, when negative).
func (p *PaintSession) NavigateWeeks(ctx context.Context, delta int) error {
	return p.Navigate(ctx, p.week[0].Date.AddDate(0, 0, delta*7))
}

func (p *PaintSession) apply(key models.SlotKey) {
	if p.mode == PaintAdd {
		p.pending[key] = true
	} else {
		delete(p.pending, key)
	}
	p.dirty = true
}

func (p *PaintSession) dayFor(dayIndex int) (schedule.DayInfo, bool) {
	for _, d := range p.week {
		if d.DayIndex == dayIndex {
			return d, true
		}
	}
	return schedule.DayInfo{}, false
}

func (p *PaintSession) nextGeneration() uint64 {
	p.generation++
	return p.generation
}

// applyLoad installs a fetched week unless a newer navigation has already
// superseded it.
func (p *PaintSession) applyLoad(gen uint64, weekKey int, marks []models.AvailabilityMark) {
	if gen != p.generation {
		return
	}
	loaded := make(map[models.SlotKey]bool, len(marks))
	for _, m := range marks {
		loaded[m.Key()] = true
	}
	p.pending = loaded
	p.cache[weekKey] = cloneSet(loaded)
	p.dirty = false
}

func cloneSet(src map[models.SlotKey]bool) map[models.SlotKey]bool {
	dst := make(map[models.SlotKey]bool, len(src))
	for k, v := range src {
		if v {
			dst[k] = true
		}
	}
	return dst
}
