package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/leadlens-io/leadlens/internal/kpi"
)

func TestNewSender(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing host",
			cfg:     Config{From: "reports@example.com"},
			wantErr: true,
		},
		{
			name:    "missing from and username",
			cfg:     Config{Host: "smtp.example.com"},
			wantErr: true,
		},
		{
			name: "from falls back to username",
			cfg:  Config{Host: "smtp.example.com", Username: "reports@example.com"},
		},
		{
			name: "complete",
			cfg:  Config{Host: "smtp.example.com", Port: 465, From: "reports@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSender(tt.cfg, nil)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.cfg.Subject != DefaultSubject {
				t.Errorf("expected default subject, got %q", s.cfg.Subject)
			}
		})
	}
}

func TestNewSender_Defaults(t *testing.T) {
	s, err := NewSender(Config{Host: "smtp.example.com", Username: "reports@example.com"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.cfg.Port != 587 {
		t.Errorf("expected default port 587, got %d", s.cfg.Port)
	}
	if s.cfg.From != "reports@example.com" {
		t.Errorf("expected from to fall back to username, got %q", s.cfg.From)
	}
}

func TestRenderBody(t *testing.T) {
	totals := kpi.Totals{DoorsKnocked: 100, HomeownersTalked: 30, QualifiedLeads: 9, AppointmentsSet: 3}
	body, err := RenderBody(BodyData{
		PersonName:  "Jane Doe",
		DateRange:   "2026-01-01 to 2026-01-31",
		Totals:      totals,
		Rates:       kpi.CalculateRates(totals),
		GeneratedAt: time.Date(2026, 1, 31, 18, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Hi Jane Doe,",
		"2026-01-01 to 2026-01-31",
		">100<",
		">30<",
		">30.0%<",
		">33.3%<",
		">3.0%<",
		"Generated on 2026-01-31 18:00:00",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRenderBody_EscapesName(t *testing.T) {
	body, err := RenderBody(BodyData{PersonName: "<script>alert(1)</script>"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(body, "<script>") {
		t.Error("person name was not HTML-escaped")
	}
}
