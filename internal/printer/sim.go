package printer

import (
	"errors"

	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/receipt"
)

// simDevice logs every operation instead of touching hardware. It reports a
// permanently healthy printer so the order pipeline can be exercised end to
// end on machines without one.
type simDevice struct {
	logger *zap.Logger
	open   bool
}

// NewSimulated constructs the simulated device.
func NewSimulated(logger *zap.Logger) Device {
	return &simDevice{logger: logger}
}

func (d *simDevice) SetPort(port string) error {
	d.logger.Debug("sim printer: set port", zap.String("port", port))
	return nil
}

func (d *simDevice) Open() error {
	d.open = true
	d.logger.Debug("sim printer: open")
	return nil
}

func (d *simDevice) Close() error {
	d.open = false
	d.logger.Debug("sim printer: close")
	return nil
}

func (d *simDevice) Reset() error {
	return d.check("reset")
}

func (d *simDevice) SelfTest() error {
	return d.check("self test")
}

func (d *simDevice) PrintText(text receipt.Text) error {
	if err := d.check("print"); err != nil {
		return err
	}
	d.logger.Debug("sim printer: text",
		zap.String("content", text.Content),
		zap.String("encoding", string(text.Encoding)),
		zap.Bool("bold", text.Bold),
	)
	return nil
}

func (d *simDevice) Feed(lines int) error {
	if err := d.check("feed"); err != nil {
		return err
	}
	d.logger.Debug("sim printer: feed", zap.Int("lines", lines))
	return nil
}

func (d *simDevice) Cut() error {
	if err := d.check("cut"); err != nil {
		return err
	}
	d.logger.Debug("sim printer: cut")
	return nil
}

func (d *simDevice) QueryStatus() (Status, error) {
	if !d.open {
		return StatusOffline, errors.New("port not open")
	}
	return StatusNormal, nil
}

func (d *simDevice) check(op string) error {
	if !d.open {
		return errors.New("sim printer: " + op + " on closed port")
	}
	return nil
}
