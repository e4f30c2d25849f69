package backend

import (
	"errors"
	"testing"

	"github.com/loykin/ternmigrate/internal/dialect/mysql"
	"github.com/loykin/ternmigrate/internal/dialect/postgresql"
	"github.com/loykin/ternmigrate/internal/dialect/sqlserver"
)

func TestNew_KnownSubprotocols(t *testing.T) {
	for _, sub := range []string{mysql.Subprotocol, postgresql.Subprotocol, sqlserver.Subprotocol} {
		t.Run(sub, func(t *testing.T) {
			b, err := New(sub, nil, "testdb")
			if err != nil {
				t.Fatalf("New(%s): %v", sub, err)
			}
			if b.Compiler == nil || b.Introspector == nil || b.Registry == nil {
				t.Fatalf("incomplete backend for %s: %#v", sub, b)
			}
		})
	}
}

func TestNew_UnsupportedSubprotocol(t *testing.T) {
	_, err := New("oracle", nil, "testdb")
	var unsupported *UnsupportedBackendError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedBackendError, got %v", err)
	}
}

func TestParseH2Major(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"1.4.200", 1, false},
		{"2.2.224", 2, false},
		{" 2.1.214 ", 2, false},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseH2Major(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseH2Major(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ParseH2Major(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}
