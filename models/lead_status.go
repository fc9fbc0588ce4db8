// ABOUTME: Lead status enumeration and transition policies
// ABOUTME: Permissive policy mirrors free-form status updates, strict policy is opt-in
package models

import (
	"errors"
	"fmt"
	"strings"
)

// LeadStatus is the sales-pipeline state of a lead.
type LeadStatus string

const (
	LeadNew         LeadStatus = "NEW"
	LeadPending     LeadStatus = "PENDING"
	LeadContacted   LeadStatus = "CONTACTED"
	LeadActive      LeadStatus = "ACTIVE"
	LeadQualified   LeadStatus = "QUALIFIED"
	LeadNegotiating LeadStatus = "NEGOTIATING"
	LeadProposal    LeadStatus = "PROPOSAL"
	LeadConverted   LeadStatus = "CONVERTED"
	LeadWon         LeadStatus = "WON"
	LeadClosed      LeadStatus = "CLOSED"
	LeadLost        LeadStatus = "LOST"
)

// LeadStatuses lists the known statuses in pipeline order.
var LeadStatuses = []LeadStatus{
	LeadNew,
	LeadPending,
	LeadContacted,
	LeadActive,
	LeadQualified,
	LeadNegotiating,
	LeadProposal,
	LeadConverted,
	LeadWon,
	LeadClosed,
	LeadLost,
}

var ErrInvalidTransition = errors.New("invalid lead status transition")

// IsKnown reports whether s is one of the enumerated statuses.
func (s LeadStatus) IsKnown() bool {
	for _, known := range LeadStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further pipeline work happens after s.
func (s LeadStatus) IsTerminal() bool {
	switch s {
	case LeadConverted, LeadWon, LeadClosed, LeadLost:
		return true
	}
	return false
}

// ParseLeadStatus normalizes case and whitespace. Unknown values are kept as-is.
func ParseLeadStatus(raw string) LeadStatus {
	return LeadStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// TransitionPolicy decides whether a lead may move from one status to another.
type TransitionPolicy interface {
	Allow(from, to LeadStatus) error
}

// PermissivePolicy accepts any non-empty status.
type PermissivePolicy struct{}

func (PermissivePolicy) Allow(_, to LeadStatus) error {
	if to == "" {
		return fmt.Errorf("%w: status is required", ErrInvalidTransition)
	}
	return nil
}

// StrictPolicy only accepts known statuses and never leaves a terminal state.
type StrictPolicy struct{}

func (StrictPolicy) Allow(from, to LeadStatus) error {
	if !to.IsKnown() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from.IsTerminal() && from != to {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	return nil
}

// PolicyFor returns the strict policy when strict is set.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictPolicy{}
	}
	return PermissivePolicy{}
}
