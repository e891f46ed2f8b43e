package domain

import "time"

// Installation is one tenant binding to the upstream service. Created when
// the service reports an "installed" event, deleted on "uninstalled"; the
// plan tier is mutated by billing events.
type Installation struct {
	ID        int64
	Owner     string
	OwnerKind OwnerKind
	Plan      PlanTier
	SubStatus SubscriptionStatus
	// SubExpiresAt is the end of the current billing period, when known.
	SubExpiresAt          *time.Time
	BillingCustomerID     string
	BillingSubscriptionID string
	// OAuthToken is the upstream OAuth token in plaintext. The repository
	// encrypts it at rest (AES-256-GCM, stored as nonce:tag:ciphertext).
	OAuthToken string
	Settings   Settings
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Suspended reports whether the installation is currently suspended.
// Suspension does not change the plan tier.
func (in *Installation) Suspended() bool {
	return in.SubStatus == SubSuspended
}

// Holiday is a per-installation non-working date. Recurring holidays apply
// to the same month/day every year.
type Holiday struct {
	InstallationID int64
	Date           time.Time
	Name           string
	Recurring      bool
}

// AuditEntry records one engine action against an installation.
type AuditEntry struct {
	ID             int64
	InstallationID int64
	Action         string
	Details        map[string]any
	CreatedAt      time.Time
}

// RiskEntry is an operator-maintained register row, distinct from the
// computed per-item risk assessment.
type RiskEntry struct {
	ID             string
	InstallationID int64
	ProjectNumber  int
	Title          string
	Description    string
	Severity       RiskLevel // critical..low; RiskNone is not storable
	Status         RiskStatus
	Owner          string
	LinkedIssues   []int
	MitigationPlan string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the register invariants before persistence.
func (r *RiskEntry) Validate() error {
	if r.Title == "" {
		return &ValidationError{Msg: "risk title is required"}
	}
	switch r.Severity {
	case RiskCritical, RiskHigh, RiskMedium, RiskLow:
	default:
		return &ValidationError{Msg: "risk severity must be one of critical, high, medium, low"}
	}
	switch r.Status {
	case RiskOpen, RiskMitigated, RiskClosed:
	default:
		return &ValidationError{Msg: "risk status must be one of open, mitigated, closed"}
	}
	return nil
}
