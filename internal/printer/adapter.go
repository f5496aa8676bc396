package printer

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/receipt"
)

// Result is the structured outcome of one print attempt. Device failures are
// always folded into it; Execute never panics or propagates device errors.
type Result struct {
	Success bool
	Message string
}

// Adapter owns the single printer handle and walks print jobs through it.
// The port opens lazily on the first job and reopens automatically after a
// device error closed it. Not safe for concurrent use; the spooler's single
// worker is the only caller.
type Adapter struct {
	dev       Device
	cfg       config.Printer
	logger    *zap.Logger
	simulated bool
	open      bool
}

// NewAdapter builds the adapter around the configured device.
func NewAdapter(dev Device, simulated bool, cfg config.Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		dev:       dev,
		cfg:       cfg.Printer,
		logger:    logger,
		simulated: simulated,
	}
}

// Execute runs every primitive of the job in order against the device.
func (a *Adapter) Execute(job receipt.Job) Result {
	if !a.cfg.Enabled {
		// No driver in play at all; report success so order flow proceeds,
		// but say so explicitly.
		return Result{Success: true, Message: "simulated success: printing disabled"}
	}

	if err := a.ensureOpen(); err != nil {
		return Result{Success: false, Message: fmt.Sprintf("open printer port: %v", err)}
	}

	if a.cfg.StatusCheck {
		if st, err := a.dev.QueryStatus(); err == nil {
			switch st {
			case StatusOffline, StatusCoverOpen, StatusPaperOut:
				return Result{Success: false, Message: "printer not ready: " + st.String()}
			}
		} else {
			a.logger.Warn("printer status probe failed", zap.Error(err))
		}
	}

	for _, p := range job {
		if err := a.dispatch(p); err != nil {
			a.teardown()
			return Result{Success: false, Message: fmt.Sprintf("print failed: %v", err)}
		}
	}

	if a.cfg.StatusCheck {
		if st, err := a.dev.QueryStatus(); err == nil && st == StatusPaperOut {
			return Result{Success: false, Message: "printed, but " + st.String() + " detected afterwards"}
		}
	}

	if a.simulated {
		return Result{Success: true, Message: "simulated print completed (no printer attached)"}
	}
	return Result{Success: true, Message: "print completed"}
}

// SelfTest triggers the device's built-in test page.
func (a *Adapter) SelfTest() error {
	if !a.cfg.Enabled {
		return nil
	}
	if err := a.ensureOpen(); err != nil {
		return err
	}
	return a.dev.SelfTest()
}

// Close releases the printer handle; the adapter reopens on the next job.
func (a *Adapter) Close() error {
	if !a.open {
		return nil
	}
	a.open = false
	return a.dev.Close()
}

func (a *Adapter) dispatch(p receipt.Primitive) error {
	switch prim := p.(type) {
	case receipt.Text:
		return a.dev.PrintText(prim)
	case receipt.Feed:
		return a.dev.Feed(prim.Lines)
	case receipt.Cut:
		// Machines without a cutter reject the command; the ticket is
		// already printed, so this never fails the job.
		if err := a.dev.Cut(); err != nil {
			a.logger.Warn("paper cut failed", zap.Error(err))
		}
		return nil
	default:
		return fmt.Errorf("unknown print primitive %T", p)
	}
}

func (a *Adapter) ensureOpen() error {
	if a.open {
		return nil
	}
	if a.cfg.Port != "" {
		if err := a.dev.SetPort(a.cfg.Port); err != nil {
			return err
		}
	}
	if err := a.dev.Open(); err != nil {
		return err
	}
	if err := a.dev.Reset(); err != nil {
		_ = a.dev.Close()
		return err
	}
	a.open = true
	return nil
}

func (a *Adapter) teardown() {
	a.open = false
	if err := a.dev.Close(); err != nil {
		a.logger.Warn("printer close failed", zap.Error(err))
	}
}
