// Package toggle coordinates completion toggles: it serializes writes per
// (habit, day), keeps the heatmap cache in step with the entry write, and
// fans out invalidation events so open views can refetch.
package toggle

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/streaks/internal/errors"
	"github.com/julianstephens/streaks/internal/logger"
	"github.com/julianstephens/streaks/internal/models"
	"github.com/julianstephens/streaks/internal/period"
	"github.com/julianstephens/streaks/internal/storage"
)

// Periods invalidated by any toggle. The toggled day can sit in every view
// at once, so all four are always named.
var invalidatedPeriods = []string{"today", "weekly", "monthly", "overall"}

// Invalidation announces that a toggle changed data some view may be
// showing. Subscribers refetch; the event carries no statuses itself.
type Invalidation struct {
	EventID  string
	HabitID  int64
	Date     string
	Periods  []string
	NewValue models.Status
}

type Coordinator struct {
	store storage.Provider

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	subMu sync.Mutex
	subs  []chan Invalidation
}

func New(store storage.Provider) *Coordinator {
	return &Coordinator{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Toggle flips the completion state of (habitID, date): a never-toggled day
// goes straight to Complete, otherwise Complete and Incomplete swap. The
// read-modify-write runs under a per-(habit, day) lock so concurrent toggles
// of the same key serialize instead of losing updates.
func (c *Coordinator) Toggle(habitID int64, date string, now time.Time) (models.Status, error) {
	if err := c.validate(habitID, date); err != nil {
		return models.StatusUnset, err
	}

	key := lockKey(habitID, date)
	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	current, err := c.store.GetEntryStatus(habitID, date)
	if err != nil {
		return models.StatusUnset, err
	}

	next := current.Next()
	if err := c.store.ToggleEntryWrite(habitID, date, next, now); err != nil {
		return models.StatusUnset, err
	}

	logger.Debug("toggled entry", "habit", habitID, "date", date, "from", current.String(), "to", next.String())
	c.publish(habitID, date, next)
	return next, nil
}

// TogglePrior writes the transition from a status the caller already has in
// hand, skipping the read. Callers that render from a possibly stale view
// should prefer Toggle: passing a stale prior here double-applies the flip
// and lands back on the old value.
func (c *Coordinator) TogglePrior(habitID int64, date string, prior models.Status, now time.Time) (models.Status, error) {
	if err := c.validate(habitID, date); err != nil {
		return models.StatusUnset, err
	}
	if !prior.Valid() {
		return models.StatusUnset, errors.Validationf("invalid prior status %d", int(prior))
	}

	key := lockKey(habitID, date)
	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	next := prior.Next()
	if err := c.store.ToggleEntryWrite(habitID, date, next, now); err != nil {
		return models.StatusUnset, err
	}

	c.publish(habitID, date, next)
	return next, nil
}

// Subscribe registers a listener for invalidation events. The returned
// cancel func must be called when the listener goes away.
func (c *Coordinator) Subscribe() (<-chan Invalidation, func()) {
	ch := make(chan Invalidation, 16)

	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()

	cancel := func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		for i, sub := range c.subs {
			if sub == ch {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

func (c *Coordinator) validate(habitID int64, date string) error {
	if habitID <= 0 {
		return errors.Validationf("invalid habit id %d", habitID)
	}
	if _, err := period.ParseDay(date); err != nil {
		return errors.Validationf("%v", err)
	}
	if _, err := c.store.GetHabit(habitID); err != nil {
		return err
	}
	return nil
}

// publish delivers an invalidation to every subscriber without blocking the
// toggle path. A subscriber that has fallen behind misses the event; views
// self-correct on their next refetch.
func (c *Coordinator) publish(habitID int64, date string, newValue models.Status) {
	event := Invalidation{
		EventID:  uuid.NewString(),
		HabitID:  habitID,
		Date:     date,
		Periods:  invalidatedPeriods,
		NewValue: newValue,
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, sub := range c.subs {
		select {
		case sub <- event:
		default:
			logger.Warn("dropped invalidation event", "habit", habitID, "date", date)
		}
	}
}

func (c *Coordinator) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

func lockKey(habitID int64, date string) string {
	return fmt.Sprintf("%d|%s", habitID, date)
}
