package schema

import (
	"net/http"
	"testing"
	"testing/fstest"
	"time"
)

func TestLoaderConfigDefaults(t *testing.T) {
	var cfg LoaderConfig
	if cfg.Limit() != DefaultMaxDocumentBytes {
		t.Fatalf("unexpected default limit %d", cfg.Limit())
	}
	if cfg.Remote.HTTPClient() != nil {
		t.Fatalf("remote loading must be off by default")
	}

	cfg = NewLoaderConfig(nil, WithFiles(fstest.MapFS{}), WithMaxBytes(64))
	if cfg.Files == nil || cfg.Limit() != 64 {
		t.Fatalf("options not applied: %+v", cfg)
	}
}

func TestRemoteHTTPClient(t *testing.T) {
	client := NewLoaderConfig(WithRemote(3 * time.Second)).Remote.HTTPClient()
	if client == nil || client.Timeout != 3*time.Second {
		t.Fatalf("expected fresh client with timeout, got %+v", client)
	}

	own := &http.Client{}
	cfg := NewLoaderConfig(WithRemote(time.Second), WithRemoteClient(own))
	got := cfg.Remote.HTTPClient()
	if got == own || got.Timeout != time.Second {
		t.Fatalf("expected a copy carrying the timeout, got %+v", got)
	}
	if own.Timeout != 0 {
		t.Fatalf("caller client must not be modified")
	}

	if NewLoaderConfig(WithRemoteClient(nil)).Remote.HTTPClient() != nil {
		t.Fatalf("a nil client must not enable remote loading")
	}
}
