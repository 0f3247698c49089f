package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// startTestSMTPServer starts a minimal SMTP server on a random port that
// accepts one message, records the DATA section and then returns. It only
// implements the commands the gomail dialer issues.
func startTestSMTPServer(t *testing.T) (host string, port int, data func() string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		received strings.Builder
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer ln.Close()
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 localhost Test SMTP Service Ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				break
			}
			line = strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
				fmt.Fprintf(conn, "250-localhost Hello\r\n250 OK\r\n")
			case strings.HasPrefix(line, "DATA"):
				fmt.Fprintf(conn, "354 End data with <CR><LF>.<CR><LF>\r\n")
				for {
					dline, derr := r.ReadString('\n')
					if derr != nil || strings.TrimSpace(dline) == "." {
						break
					}
					mu.Lock()
					received.WriteString(dline)
					mu.Unlock()
				}
				fmt.Fprintf(conn, "250 OK: queued as 12345\r\n")
			case strings.HasPrefix(line, "QUIT"):
				fmt.Fprintf(conn, "221 Bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "250 OK\r\n")
			}
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	data = func() string {
		mu.Lock()
		defer mu.Unlock()
		return received.String()
	}
	stop = func() {
		ln.Close()
		wg.Wait()
	}
	return "127.0.0.1", addr.Port, data, stop
}

func TestSMTPTransport_Send_HappyPath(t *testing.T) {
	host, port, data, stop := startTestSMTPServer(t)

	transport := NewSMTPTransport(host, port, "sender@example.com", "app-pass", zaptest.NewLogger(t).Sugar())
	msg := BuildMessage("sender@example.com", "dest@example.com", Submission{Name: "Ana", Email: "ana@x.com", Phone: "+55119"})

	outcome, err := transport.Send(context.Background(), msg)
	stop()

	require.NoError(t, err)
	assert.Equal(t, OutcomeSent, outcome)

	raw := data()
	assert.Contains(t, raw, "From: sender@example.com")
	assert.Contains(t, raw, "To: dest@example.com")
	assert.Contains(t, raw, "Subject: "+Subject)
	assert.Contains(t, raw, "text/plain; charset=UTF-8")
	assert.Contains(t, raw, "Ana")
	assert.Contains(t, raw, "ana@x.com")
}

func TestSMTPTransport_Send_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	transport := NewSMTPTransport("127.0.0.1", port, "sender@example.com", "app-pass", zaptest.NewLogger(t).Sugar())
	outcome, err := transport.Send(context.Background(), BuildMessage("sender@example.com", "dest@example.com", Submission{}))

	assert.Equal(t, OutcomeFailed, outcome)
	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "smtp", terr.Transport)
}

func TestSMTPTransport_Send_CanceledContext(t *testing.T) {
	transport := NewSMTPTransport("127.0.0.1", 1, "sender@example.com", "app-pass", zaptest.NewLogger(t).Sugar())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := transport.Send(ctx, Message{})
	assert.Equal(t, OutcomeFailed, outcome)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSMTPTransport_Configuration(t *testing.T) {
	transport := NewSMTPTransport("smtp.gmail.com", 587, "user@gmail.com", "p@ssw0rd!@#$%^&*()", zaptest.NewLogger(t).Sugar())

	assert.Equal(t, "smtp", transport.Name())
	assert.Equal(t, "smtp.gmail.com", transport.GetHost())
	assert.Equal(t, 587, transport.GetPort())
	assert.Implements(t, (*Transport)(nil), transport)
}
