package mail

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestBuildMessageHeaders(t *testing.T) {
	msg := BuildMessage("HostelBite <no-reply@hostelbite.app>", "alice@test.com", "Your code", "Code: 482913")

	if !strings.Contains(msg, "To: alice@test.com\r\n") {
		t.Fatalf("missing To header: %q", msg)
	}
	if !strings.Contains(msg, "Subject: Your code\r\n") {
		t.Fatalf("missing Subject header: %q", msg)
	}
	if !strings.HasSuffix(msg, "\r\n\r\nCode: 482913") {
		t.Fatalf("body not separated from headers: %q", msg)
	}
}

func TestNewSMTPSenderDefaultsTimeout(t *testing.T) {
	s := NewSMTPSender("smtp.test", "587", "", "", "from@test", 0)
	if s.Timeout != 10*time.Second {
		t.Fatalf("expected 10s default timeout, got %v", s.Timeout)
	}
}

func TestSendFailsFastOnSilentServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	// Accept connections but never write the SMTP greeting.
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}

	s := NewSMTPSender(host, port, "", "", "from@test", 200*time.Millisecond)
	start := time.Now()
	err = s.SendVerificationCode("to@test", "Alice", "482913")
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("expected an error from a server that never answers")
	}
	if elapsed > 5*time.Second {
		t.Fatalf("send did not respect the timeout, took %v", elapsed)
	}
}

func TestEnvelopeFrom(t *testing.T) {
	if got := envelopeFrom("HostelBite <no-reply@hostelbite.app>"); got != "no-reply@hostelbite.app" {
		t.Fatalf("envelopeFrom = %q", got)
	}
	if got := envelopeFrom("no-reply@hostelbite.app"); got != "no-reply@hostelbite.app" {
		t.Fatalf("envelopeFrom bare = %q", got)
	}
}
