package alert

import "log"

// Actuator drives the physical warning indicator. Implementations own the
// hardware details; the machine only issues on/off commands.
type Actuator interface {
	Set(active bool) error
}

// Simulated is an Actuator that logs commands instead of driving hardware.
// Used on development machines without GPIO.
type Simulated struct{}

// NewSimulated creates a Simulated actuator.
func NewSimulated() *Simulated {
	return &Simulated{}
}

// Set logs the requested indicator state.
func (s *Simulated) Set(active bool) error {
	if active {
		log.Println("actuator (simulated): ON")
	} else {
		log.Println("actuator (simulated): OFF")
	}
	return nil
}
