package redis

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func TestNewClient_PasswordOverridesURL(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	if _, err := NewClient(Config{URL: "redis://" + mr.Addr()}); err == nil {
		t.Fatal("expected auth error without password")
	}

	client, err := NewClient(Config{URL: "redis://:wrong@" + mr.Addr(), Password: "s3cret"})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_ = client.Close()
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	if _, err := NewClient(Config{URL: "redis://" + addr}); err == nil {
		t.Fatal("expected error for stopped server")
	}
}
