// Package printer executes receipt print jobs against a thermal printer.
// A capability interface hides the device specifics; an ESC/POS adapter
// drives real hardware over serial/usb/parallel/device/tcp transports and a
// simulated adapter serves headless environments, selected by configuration.
package printer

import "github.com/TongyunK/orderFood-system/internal/receipt"

// Status is the closed set of device conditions a status probe can report.
type Status int

const (
	StatusNormal Status = iota
	StatusOffline
	StatusCoverOpen
	StatusPaperOut
	StatusCutterFault
	StatusHeadOverheat
	StatusQueryFailed
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusOffline:
		return "offline"
	case StatusCoverOpen:
		return "cover open"
	case StatusPaperOut:
		return "out of paper"
	case StatusCutterFault:
		return "cutter fault"
	case StatusHeadOverheat:
		return "print head overheated"
	case StatusQueryFailed:
		return "status query failed"
	default:
		return "unknown"
	}
}

// Device is the printer capability surface. Implementations are not safe
// for concurrent use; the print spooler serializes access.
type Device interface {
	SetPort(port string) error
	Open() error
	Close() error
	Reset() error
	SelfTest() error
	PrintText(text receipt.Text) error
	Feed(lines int) error
	Cut() error
	QueryStatus() (Status, error)
}
