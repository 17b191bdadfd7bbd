package core

import "time"

// Scheduler is a single-threaded virtual-time timer wheel.
//
// Time only moves when Advance is called, so everything registered on a
// Scheduler runs on the caller's goroutine in a deterministic order: by due
// time, then by registration order. The owner cancels exactly the tasks it
// created; a cancelled task never fires again, even if it was due inside
// the Advance call that cancelled it.
type Scheduler struct {
	now    time.Duration
	nextID uint64
	tasks  []*Task
}

// Task is a handle to a scheduled callback.
type Task struct {
	s        *Scheduler
	id       uint64
	due      time.Duration
	interval func() time.Duration // nil for one-shot tasks
	fn       func()
	active   bool
}

// NewScheduler creates a scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	return s.add(d, nil, fn)
}

// Every runs fn every d, first firing d from now.
func (s *Scheduler) Every(d time.Duration, fn func()) *Task {
	return s.add(d, func() time.Duration { return d }, fn)
}

// EveryFunc runs fn repeatedly. The delay before each firing comes from
// next, which is evaluated at registration and again after every firing.
func (s *Scheduler) EveryFunc(next func() time.Duration, fn func()) *Task {
	return s.add(next(), next, fn)
}

func (s *Scheduler) add(d time.Duration, interval func() time.Duration, fn func()) *Task {
	s.nextID++
	t := &Task{
		s:        s,
		id:       s.nextID,
		due:      s.now + clampDelay(d),
		interval: interval,
		fn:       fn,
		active:   true,
	}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves virtual time forward by d, firing every task that becomes
// due. Tasks registered by callbacks fire within the same call when they
// fall due before the new time.
func (s *Scheduler) Advance(d time.Duration) {
	if d < 0 {
		return
	}
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		if t.interval == nil {
			t.active = false
		}
		t.fn()
		if t.active && t.interval != nil {
			t.due = s.now + clampDelay(t.interval())
		}
	}
	s.now = target
	s.compact()
}

// nextDue returns the earliest active task due at or before target.
func (s *Scheduler) nextDue(target time.Duration) *Task {
	var best *Task
	for _, t := range s.tasks {
		if !t.active || t.due > target {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.active {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = kept
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.active = false
	}
	s.tasks = s.tasks[:0]
}

// Pending returns the number of active tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if t.active {
			n++
		}
	}
	return n
}

// Cancel stops the task. Safe to call on a nil or already cancelled task.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.active = false
}

// Active reports whether the task will fire again.
func (t *Task) Active() bool {
	return t != nil && t.active
}

// Remaining returns the time until the task next fires, or 0 if inactive.
func (t *Task) Remaining() time.Duration {
	if !t.Active() {
		return 0
	}
	return t.due - t.s.now
}

// Reschedule moves the next firing of an active task to d from now.
func (t *Task) Reschedule(d time.Duration) {
	if !t.Active() {
		return
	}
	t.due = t.s.now + clampDelay(d)
}

// clampDelay keeps repeating tasks from spinning forever on a zero delay.
func clampDelay(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return time.Millisecond
	}
	return d
}
