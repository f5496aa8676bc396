package printer

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"

	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/receipt"
)

// ESC/POS command bytes.
var (
	cmdInit     = []byte{0x1B, 0x40}             // ESC @
	cmdSelfTest = []byte{0x12, 0x54}             // DC2 T
	cmdCut      = []byte{0x1D, 0x56, 0x42, 0x00} // GS V partial cut
)

const statusReadTimeout = 500 * time.Millisecond

// escposDevice drives an ESC/POS printer over a byte stream. Serial line
// parameters (baud, parity, bits) are expected to be preconfigured on the
// host tty; the device itself only speaks the command stream.
type escposDevice struct {
	cfg    config.Printer
	logger *zap.Logger
	port   string
	conn   io.ReadWriteCloser
}

// NewESCPOS constructs a real ESC/POS device for the configured transport.
func NewESCPOS(cfg config.Config, logger *zap.Logger) Device {
	return &escposDevice{
		cfg:    cfg.Printer,
		logger: logger,
		port:   cfg.Printer.Port,
	}
}

func (d *escposDevice) SetPort(port string) error {
	if d.conn != nil {
		return errors.New("cannot change port while open")
	}
	d.port = port
	return nil
}

func (d *escposDevice) Open() error {
	if d.conn != nil {
		return nil
	}
	if d.port == "" {
		return errors.New("printer port not configured")
	}
	switch d.cfg.Transport {
	case "tcp":
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(d.port, strconv.Itoa(d.cfg.TCPPort)), 5*time.Second)
		if err != nil {
			return fmt.Errorf("dial printer %s: %w", d.port, err)
		}
		d.conn = conn
	case "serial", "usb", "parallel", "device":
		f, err := os.OpenFile(d.port, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("open printer port %s: %w", d.port, err)
		}
		d.conn = f
	default:
		return fmt.Errorf("unsupported printer transport: %s", d.cfg.Transport)
	}
	d.logger.Info("printer port opened",
		zap.String("transport", d.cfg.Transport),
		zap.String("port", d.port),
	)
	return nil
}

func (d *escposDevice) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *escposDevice) Reset() error {
	return d.write(cmdInit)
}

func (d *escposDevice) SelfTest() error {
	return d.write(cmdSelfTest)
}

func (d *escposDevice) PrintText(text receipt.Text) error {
	if err := d.write(alignCmd(text.Align)); err != nil {
		return err
	}
	if err := d.write(scaleCmd(text.Scale)); err != nil {
		return err
	}
	if err := d.write(boldCmd(text.Bold)); err != nil {
		return err
	}
	encoded, err := encodeText(text.Content, text.Encoding)
	if err != nil {
		return fmt.Errorf("encode %q as %s: %w", text.Content, text.Encoding, err)
	}
	if err := d.write(encoded); err != nil {
		return err
	}
	return d.write([]byte{'\n'})
}

func (d *escposDevice) Feed(lines int) error {
	if lines <= 0 {
		return nil
	}
	if lines > 255 {
		lines = 255
	}
	return d.write([]byte{0x1B, 0x64, byte(lines)}) // ESC d n
}

func (d *escposDevice) Cut() error {
	return d.write(cmdCut)
}

// QueryStatus probes the device with DLE EOT requests. A transport that
// cannot answer (write-only device files, dumb adapters) reports
// StatusQueryFailed rather than an error the caller must handle.
func (d *escposDevice) QueryStatus() (Status, error) {
	if d.conn == nil {
		return StatusOffline, errors.New("port not open")
	}

	readback := func(n byte) (byte, error) {
		if _, err := d.conn.Write([]byte{0x10, 0x04, n}); err != nil {
			return 0, err
		}
		type deadliner interface{ SetReadDeadline(time.Time) error }
		if dl, ok := d.conn.(deadliner); ok {
			_ = dl.SetReadDeadline(time.Now().Add(statusReadTimeout))
		}
		buf := make([]byte, 1)
		if _, err := io.ReadFull(d.conn, buf); err != nil {
			return 0, err
		}
		return buf[0], nil
	}

	printerStatus, err := readback(1)
	if err != nil {
		return StatusQueryFailed, err
	}
	if printerStatus&0x08 != 0 {
		return StatusOffline, nil
	}

	offlineCause, err := readback(2)
	if err != nil {
		return StatusQueryFailed, err
	}
	if offlineCause&0x04 != 0 {
		return StatusCoverOpen, nil
	}

	errStatus, err := readback(3)
	if err != nil {
		return StatusQueryFailed, err
	}
	if errStatus&0x08 != 0 {
		return StatusCutterFault, nil
	}
	if errStatus&0x40 != 0 {
		return StatusHeadOverheat, nil
	}

	paperStatus, err := readback(4)
	if err != nil {
		return StatusQueryFailed, err
	}
	if paperStatus&0x60 != 0 {
		return StatusPaperOut, nil
	}

	return StatusNormal, nil
}

func (d *escposDevice) write(p []byte) error {
	if d.conn == nil {
		return errors.New("port not open")
	}
	_, err := d.conn.Write(p)
	return err
}

func alignCmd(a receipt.Alignment) []byte {
	n := byte(0)
	switch a {
	case receipt.AlignCenter:
		n = 1
	case receipt.AlignRight:
		n = 2
	}
	return []byte{0x1B, 0x61, n} // ESC a
}

func scaleCmd(s receipt.Scale) []byte {
	switch s {
	case receipt.ScaleSmall:
		return []byte{0x1B, 0x4D, 1, 0x1D, 0x21, 0x00} // font B, 1x1
	case receipt.ScaleDouble:
		return []byte{0x1B, 0x4D, 0, 0x1D, 0x21, 0x01} // font A, double height
	case receipt.ScaleQuad:
		return []byte{0x1B, 0x4D, 0, 0x1D, 0x21, 0x11} // font A, 2x2
	default:
		return []byte{0x1B, 0x4D, 0, 0x1D, 0x21, 0x00}
	}
}

func boldCmd(on bool) []byte {
	n := byte(0)
	if on {
		n = 1
	}
	return []byte{0x1B, 0x45, n} // ESC E
}

func encodeText(content string, enc receipt.Encoding) ([]byte, error) {
	switch enc {
	case receipt.EncodingBig5:
		return traditionalchinese.Big5.NewEncoder().Bytes([]byte(content))
	default:
		return simplifiedchinese.GBK.NewEncoder().Bytes([]byte(content))
	}
}
