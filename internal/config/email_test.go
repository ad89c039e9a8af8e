package config

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

func TestResendSenderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := resend.NewClient("re_test")
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	client.BaseURL = base
	sender := &resendSender{client: client}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	err = sender.send(ctx, "desk@tapaal.in", "accounts@tapaal.in", "subject", "<p>body</p>")
	if err == nil {
		t.Fatal("send succeeded against a stalled server")
	}
	if took := time.Since(start); took > 2*time.Second {
		t.Errorf("send took %s, context deadline ignored", took)
	}
}

func TestSMTPSenderHonoursContext(t *testing.T) {
	// accepts connections but never speaks SMTP
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()
	addr := ln.Addr().(*net.TCPAddr)
	sender := &smtpSender{dialer: gomail.NewDialer("127.0.0.1", addr.Port, "", "")}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = sender.send(ctx, "desk@tapaal.in", "accounts@tapaal.in", "subject", "<p>body</p>")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}
