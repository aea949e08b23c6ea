// Package serial opens and configures the panel's UART character device.
// The CTMA395 runs at a non-standard 4,000,000 baud that the termios Bspeed
// constants can't express, so configuration goes through termios2's BOTHER
// mechanism via a raw ioctl rather than the stdlib's cooked serial support.
package serial

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

const (
	// Baud is the panel's fixed UART rate.
	Baud = 4000000

	// InactivityTimeout is how long the daemon waits for a byte before
	// treating the link as idle and lifting off any in-progress touches.
	InactivityTimeout = 25 * time.Millisecond
)

// Port is the open, configured serial device.
type Port struct {
	f *os.File
}

// Open opens path (typically /dev/ctp_uart) and configures it for the
// panel's fixed baud rate and 8N1 framing, raw mode, no flow control.
func Open(path string) (*Port, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", path, err)
	}

	if err := configure(int(f.Fd())); err != nil {
		f.Close()
		return nil, fmt.Errorf("serial: configure %s: %w", path, err)
	}

	return &Port{f: f}, nil
}

// configure applies termios2 with BOTHER so the custom baud rate can be
// expressed, bypassing the fixed Bnnnn constants the plain termios ioctls
// are limited to.
func configure(fd int) error {
	t, err := unix.IoctlGetTermios2(fd, unix.TCGETS2)
	if err != nil {
		return err
	}

	t.Cflag &^= unix.CBAUD | unix.CSIZE | unix.PARENB | unix.CSTOPB
	t.Cflag |= unix.BOTHER | unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Ispeed = Baud
	t.Ospeed = Baud

	// Raw mode: no line discipline processing, no echo, reads are
	// satisfied byte-by-byte as they arrive.
	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios2(fd, unix.TCSETS2, t)
}

// ReadByte reads a single byte, blocking until either one byte arrives or
// InactivityTimeout elapses. It reports (0, false, nil) on timeout and a
// non-nil error only for a genuine I/O failure.
func (p *Port) ReadByte() (b byte, ok bool, err error) {
	if err := p.f.SetReadDeadline(time.Now().Add(InactivityTimeout)); err != nil {
		return 0, false, err
	}

	var buf [1]byte
	n, err := p.f.Read(buf[:])
	if err != nil {
		if os.IsTimeout(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if n == 0 {
		return 0, false, nil
	}
	return buf[0], true, nil
}

// Close releases the underlying file descriptor.
func (p *Port) Close() error {
	return p.f.Close()
}
