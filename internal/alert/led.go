package alert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// gpioBase is the sysfs GPIO root on Linux.
const gpioBase = "/sys/class/gpio"

// LED drives an LED on a GPIO pin through the Linux sysfs interface.
type LED struct {
	pin  int
	base string
}

// NewLED exports the given GPIO pin, configures it as an output, and turns
// it off. Returns an error if the sysfs GPIO interface is unavailable, in
// which case callers typically fall back to the Simulated actuator.
func NewLED(pin int) (*LED, error) {
	return newLED(gpioBase, pin)
}

func newLED(base string, pin int) (*LED, error) {
	l := &LED{pin: pin, base: base}

	pinDir := filepath.Join(base, fmt.Sprintf("gpio%d", pin))
	if _, err := os.Stat(pinDir); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(filepath.Join(base, "export"), []byte(strconv.Itoa(pin)), 0644); err != nil {
			return nil, fmt.Errorf("export gpio %d: %w", pin, err)
		}
		// The kernel needs a moment to create the pin's attribute files.
		time.Sleep(100 * time.Millisecond)
	}

	if err := os.WriteFile(filepath.Join(pinDir, "direction"), []byte("out"), 0644); err != nil {
		return nil, fmt.Errorf("set gpio %d direction: %w", pin, err)
	}

	if err := l.Set(false); err != nil {
		return nil, err
	}
	return l, nil
}

// Set drives the pin high or low.
func (l *LED) Set(active bool) error {
	v := "0"
	if active {
		v = "1"
	}
	path := filepath.Join(l.base, fmt.Sprintf("gpio%d", l.pin), "value")
	if err := os.WriteFile(path, []byte(v), 0644); err != nil {
		return fmt.Errorf("write gpio %d value: %w", l.pin, err)
	}
	return nil
}

// Close turns the LED off and unexports the pin.
func (l *LED) Close() error {
	setErr := l.Set(false)
	if err := os.WriteFile(filepath.Join(l.base, "unexport"), []byte(strconv.Itoa(l.pin)), 0644); err != nil && setErr == nil {
		return fmt.Errorf("unexport gpio %d: %w", l.pin, err)
	}
	return setErr
}
