// ABOUTME: Tests for CRM data models
// ABOUTME: Validates lead status parsing, transition policies, and enum checks
package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseLeadStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want LeadStatus
	}{
		{"qualified", LeadQualified},
		{"  Converted ", LeadConverted},
		{"NEW", LeadNew},
		{"call-back-later", LeadStatus("CALL-BACK-LATER")},
	}

	for _, tt := range tests {
		if got := ParseLeadStatus(tt.raw); got != tt.want {
			t.Errorf("ParseLeadStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestLeadStatusTerminal(t *testing.T) {
	for _, s := range []LeadStatus{LeadConverted, LeadWon, LeadClosed, LeadLost} {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []LeadStatus{LeadNew, LeadContacted, LeadQualified, LeadProposal} {
		if s.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", s)
		}
	}
}

func TestPermissivePolicyAcceptsAnything(t *testing.T) {
	p := PermissivePolicy{}

	if err := p.Allow(LeadLost, LeadNew); err != nil {
		t.Errorf("expected reopen to be allowed, got %v", err)
	}
	if err := p.Allow(LeadNew, LeadStatus("SOMETHING_CUSTOM")); err != nil {
		t.Errorf("expected custom status to be allowed, got %v", err)
	}
	if err := p.Allow(LeadNew, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected empty status to be rejected, got %v", err)
	}
}

func TestStrictPolicy(t *testing.T) {
	p := StrictPolicy{}

	if err := p.Allow(LeadNew, LeadQualified); err != nil {
		t.Errorf("expected NEW -> QUALIFIED, got %v", err)
	}
	if err := p.Allow(LeadNew, LeadStatus("BOGUS")); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected unknown status to be rejected, got %v", err)
	}
	if err := p.Allow(LeadConverted, LeadNew); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected terminal status to be sticky, got %v", err)
	}
	if err := p.Allow(LeadLost, LeadLost); err != nil {
		t.Errorf("expected same-status update on terminal lead, got %v", err)
	}
}

func TestPolicyFor(t *testing.T) {
	if _, ok := PolicyFor(true).(StrictPolicy); !ok {
		t.Error("expected strict policy")
	}
	if _, ok := PolicyFor(false).(PermissivePolicy); !ok {
		t.Error("expected permissive policy")
	}
}

func TestEnumValidators(t *testing.T) {
	if !IsValidProjectStatus(ProjectInProgress) || IsValidProjectStatus("PLANNED") {
		t.Error("project status validation mismatch")
	}
	if !IsValidInteractionType(InteractionPhoneCall) || IsValidInteractionType("fax") {
		t.Error("interaction type validation mismatch")
	}
	if !IsValidNotificationType(NotificationLead) || IsValidNotificationType("alert") {
		t.Error("notification type validation mismatch")
	}
}

func TestLeadIsConverted(t *testing.T) {
	lead := &Lead{Status: LeadNew}
	if lead.IsConverted() {
		t.Error("new lead should not be converted")
	}

	id := int64(7)
	lead.ConvertedToCustomerID = &id
	if !lead.IsConverted() {
		t.Error("lead with customer reference should be converted")
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("")
	if err != nil || got != nil {
		t.Fatalf("empty input should give nil, nil; got %v, %v", got, err)
	}

	got, err = ParseDate("2025-03-14")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != 3 || got.Day() != 14 {
		t.Errorf("unexpected date %v", got)
	}

	got, err = ParseDate("2025-03-14T09:30:00-05:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 14 {
		t.Errorf("expected UTC normalization, got %v", got)
	}

	got, err = ParseDate("2025-05-01T10:00:00")
	if err != nil {
		t.Fatalf("zone-less datetime should parse: %v", err)
	}
	if got.Hour() != 10 || got.Location() != time.UTC {
		t.Errorf("expected 10:00 UTC, got %v", got)
	}

	if _, err := ParseDate("next tuesday"); err == nil {
		t.Error("expected error for free-form date")
	}
}
