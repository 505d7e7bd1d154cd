// Package alert turns noisy per-frame detection signals into a debounced,
// time-bounded actuation sequence for the warning indicator.
package alert

import (
	"log"
	"sync"
	"time"

	"github.com/renderix/roadwatch/internal/vision"
)

// State is the alert machine state.
type State int

const (
	// StateIdle means no recent detection; the actuator is off.
	StateIdle State = iota
	// StateActive means the actuator is on for the current alert episode.
	StateActive
	// StateCooldown means the episode ended; further detections are
	// discarded until the cooldown elapses.
	StateCooldown
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateCooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}

// Recorder receives one notification per alert episode, carrying the
// detection that started it. Suppressed and repeated detections are not
// reported. Record runs after the actuator command and outside the
// machine's lock, so a slow recorder cannot delay the indicator or block
// status reads.
type Recorder interface {
	Record(det *vision.Detection)
}

// Machine is the alert state machine. It owns the single AlertState for the
// process and is driven by Tick once per pipeline pass. All time comparisons
// use the timestamps handed to Tick; the machine never reads the system
// clock, so tests can drive it with simulated time.
type Machine struct {
	actuator Actuator
	recorder Recorder
	duration time.Duration
	cooldown time.Duration

	mu          sync.Mutex
	state       State
	activatedAt time.Time
	cooldownAt  time.Time
	lastTick    time.Time
	suppressed  int
}

// NewMachine creates a Machine in StateIdle. duration bounds how long the
// actuator stays on per episode; cooldown is the quiet period after an
// episode before a new one may begin.
func NewMachine(actuator Actuator, duration, cooldown time.Duration) *Machine {
	return &Machine{
		actuator: actuator,
		duration: duration,
		cooldown: cooldown,
		state:    StateIdle,
	}
}

// SetRecorder sets the optional episode recorder.
func (m *Machine) SetRecorder(r Recorder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorder = r
}

// Tick advances the machine by one pipeline pass. now is the frame
// timestamp for this pass; det is the detection found in the frame, or nil.
//
// A now that is not strictly after the last seen tick time marks a
// misbehaving frame source: the tick is ignored entirely (state, timers and
// last-seen time unchanged) and a warning is logged.
//
// A returned error is an actuator write failure. The logical state still
// advances on such a failure, so the next transition retries the hardware.
func (m *Machine) Tick(now time.Time, det *vision.Detection) error {
	m.mu.Lock()
	rec, err := m.advance(now, det)
	m.mu.Unlock()

	if rec != nil {
		rec.Record(det)
	}
	return err
}

// advance applies one transition while holding the lock. It returns the
// recorder to notify when this tick started a new episode; the notification
// itself happens in Tick after the lock is released.
func (m *Machine) advance(now time.Time, det *vision.Detection) (Recorder, error) {
	if !m.lastTick.IsZero() && !now.After(m.lastTick) {
		log.Printf("alert: ignoring non-monotonic tick %v (last seen %v)",
			now.Format(time.RFC3339Nano), m.lastTick.Format(time.RFC3339Nano))
		return nil, nil
	}
	m.lastTick = now

	switch m.state {
	case StateIdle:
		if det == nil {
			return nil, nil
		}
		m.state = StateActive
		m.activatedAt = now
		// Indicator first; bookkeeping follows.
		return m.recorder, m.actuator.Set(true)

	case StateActive:
		// Repeat detections do not reset the episode timer: the alert
		// duration runs from the first trigger, so sustained traffic
		// cannot hold the indicator on indefinitely.
		if now.Sub(m.activatedAt) >= m.duration {
			m.state = StateCooldown
			m.cooldownAt = now
			return nil, m.actuator.Set(false)
		}
		return nil, nil

	case StateCooldown:
		if now.Sub(m.cooldownAt) >= m.cooldown {
			// Actuator is already off; no command needed.
			m.state = StateIdle
			return nil, nil
		}
		if det != nil {
			m.suppressed++
		}
		return nil, nil
	}

	return nil, nil
}

// Shutdown forces the machine to StateIdle and the actuator off. Called on
// process shutdown so the indicator is never left stuck on.
func (m *Machine) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateIdle
	return m.actuator.Set(false)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Suppressed returns the number of detections discarded during cooldown
// since the machine was created.
func (m *Machine) Suppressed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suppressed
}

// ActiveSince returns the activation time of the current episode. The bool
// is false unless the machine is in StateActive.
func (m *Machine) ActiveSince() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return time.Time{}, false
	}
	return m.activatedAt, true
}
