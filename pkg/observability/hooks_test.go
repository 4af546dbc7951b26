package observability

import (
	"context"
	"testing"
	"time"
)

type countingHTTP struct {
	NoopHTTPHooks
	responses int
}

func (c *countingHTTP) OnResponse(context.Context, string, string, string, int, time.Duration) {
	c.responses++
}

func TestRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Load().(NoopLoadHooks); !ok {
		t.Error("Load() should default to NoopLoadHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}

	h := &countingHTTP{}
	SetHTTPHooks(h)
	HTTP().OnResponse(context.Background(), "GET", "www.ebi.ac.uk", "/proteins/api/features/P05067", 200, time.Millisecond)
	if h.responses != 1 {
		t.Errorf("registered hook saw %d responses, want 1", h.responses)
	}

	SetHTTPHooks(nil)
	if HTTP() != HTTPHooks(h) {
		t.Error("SetHTTPHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}
