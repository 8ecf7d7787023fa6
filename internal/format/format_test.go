package format

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRegistryLookupCaches(t *testing.T) {
	r := NewRegistry()
	builds := 0
	r.Register("upper", func() Formatter {
		builds++
		return func(v interface{}) string { return "X" }
	})

	for i := 0; i < 3; i++ {
		f, err := r.Lookup("upper")
		if err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
		if got := f(nil); got != "X" {
			t.Errorf("Expected X, got %s", got)
		}
	}
	if builds != 1 {
		t.Errorf("Expected factory to run once, ran %d times", builds)
	}
	if !r.Cached("upper") {
		t.Error("Expected key to be cached")
	}
}

func TestRegistryUnknownKey(t *testing.T) {
	r := NewDefaultRegistry(Options{})
	_, err := r.Lookup("sparkline")
	if !errors.Is(err, ErrUnknownFormatter) {
		t.Fatalf("Expected ErrUnknownFormatter, got %v", err)
	}
	var unknown *UnknownFormatterError
	if !errors.As(err, &unknown) || unknown.Key != "sparkline" {
		t.Errorf("Expected error to carry the key, got %v", err)
	}
}

func TestRegistryConcurrentLookup(t *testing.T) {
	r := NewDefaultRegistry(Options{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, key := range r.Keys() {
				if _, err := r.Lookup(key); err != nil {
					t.Errorf("Lookup %s failed: %v", key, err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestDefaultFormatters(t *testing.T) {
	r := NewDefaultRegistry(Options{DateLayout: "2006-01-02 15:04", Location: time.UTC})

	tests := []struct {
		key   string
		value interface{}
		want  string
	}{
		{"string", "hello", "hello"},
		{"string", nil, ""},
		{"string", 3.0, "3"},
		{"string", true, "true"},
		{"string", map[string]interface{}{"b": 1.0, "a": "x"}, `{"a":"x","b":1}`},
		{"size", 512.0, "512 B"},
		{"size", 1536.0, "1.5 KiB"},
		{"size", 3.0 * 1024 * 1024 * 1024, "3.0 GiB"},
		{"date", 0.0, "1970-01-01 00:00"},
		{"date", 1443657600000.0, "2015-10-01 00:00"},
		{"float", 0.25, "0.25"},
		{"icon", map[string]interface{}{"icon": "ok", "title": "fine"}, "✓"},
		{"icon", map[string]interface{}{"icon": "unknown", "title": "odd"}, "odd"},
		{"link", map[string]interface{}{"href": "/x", "title": "Download"}, "Download"},
		{"route", map[string]interface{}{"route": "detail", "id": 7.0, "title": "run_01.bag"}, "run_01.bag"},
		{"pill", "good", "[good]"},
		{"json", []interface{}{1.0, "a"}, `[1,"a"]`},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			f, err := r.Lookup(tt.key)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			if got := f(tt.value); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100", 100},
		{"1k", 1024},
		{"1.5K", 1536},
		{" 2 mb ", 2 * 1024 * 1024},
		{"1g", 1 << 30},
		{"1GB", 1 << 30},
		{"3b", 3},
		{"7e", 7 << 60},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if err != nil {
			t.Errorf("ParseSize(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "abc", "1q", "-1k", "1y", "8e", "9zb"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
