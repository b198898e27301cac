package printer

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"
)

// DefaultPort is the raw printing port of networked Brother printers.
const DefaultPort = "9100"

// Backend delivers encoded raster data to a device.
type Backend interface {
	Write(ctx context.Context, data []byte) error
	String() string
}

// ParseBackend picks a backend from a printer descriptor such as
// "tcp://192.168.0.23:9100", "file:///dev/usb/lp0" or "/dev/usb/lp0".
func ParseBackend(descriptor string) (Backend, error) {
	switch {
	case descriptor == "":
		return nil, fmt.Errorf("printer descriptor is empty")
	case strings.HasPrefix(descriptor, "/"):
		return &fileBackend{path: descriptor}, nil
	}

	u, err := url.Parse(descriptor)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse printer descriptor %q: %w", descriptor, err)
	}
	switch u.Scheme {
	case "tcp":
		host := u.Host
		if host == "" {
			return nil, fmt.Errorf("printer descriptor %q has no host", descriptor)
		}
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), DefaultPort)
		}
		return &networkBackend{addr: host, timeout: 10 * time.Second}, nil
	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("printer descriptor %q has no path", descriptor)
		}
		return &fileBackend{path: u.Path}, nil
	}
	return nil, fmt.Errorf("couldn't guess the backend to use from the printer descriptor %q", descriptor)
}

type networkBackend struct {
	addr    string
	timeout time.Duration
}

func (b *networkBackend) String() string { return "tcp://" + b.addr }

func (b *networkBackend) Write(ctx context.Context, data []byte) error {
	d := net.Dialer{Timeout: b.timeout}
	conn, err := d.DialContext(ctx, "tcp", b.addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetWriteDeadline(deadline)
	} else {
		conn.SetWriteDeadline(time.Now().Add(b.timeout))
	}
	_, err = conn.Write(data)
	return err
}

type fileBackend struct {
	path string
}

func (b *fileBackend) String() string { return "file://" + b.path }

func (b *fileBackend) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(b.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
