package source

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/benbjohnson/clock"
)

// reconnectDelay is how long a TCP source waits before redialing after a
// connection drops.
const reconnectDelay = 3 * time.Second

// TCP consumes newline-delimited text from a TCP endpoint. Unlike File,
// it never resumes: a reconnect starts reading wherever the new
// connection's sender happens to begin.
type TCP struct {
	Addr  string
	Clock clock.Clock
}

// NewTCP returns a TCP source for addr ("host:port").
func NewTCP(addr string, clk clock.Clock) *TCP {
	if clk == nil {
		clk = clock.New()
	}
	return &TCP{Addr: addr, Clock: clk}
}

func (t *TCP) Address() string { return t.Addr }

// Run dials t.Addr and streams lines until ctx is cancelled, reconnecting
// with reconnectDelay between attempts whenever the connection drops or
// fails to establish.
func (t *TCP) Run(ctx context.Context, emit func(lines []string)) error {
	for {
		if err := t.connectOnce(ctx, emit); err != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Clock.After(reconnectDelay):
		}
	}
}

func (t *TCP) connectOnce(ctx context.Context, emit func(lines []string)) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", t.Addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		emit([]string{scanner.Text()})
	}
	return scanner.Err()
}
