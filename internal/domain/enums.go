package domain

// Estimate is the t-shirt size attached to an item. It maps to working days
// through the installation's estimate table.
type Estimate string

const (
	EstimateXS  Estimate = "XS"
	EstimateS   Estimate = "S"
	EstimateM   Estimate = "M"
	EstimateL   Estimate = "L"
	EstimateXL  Estimate = "XL"
	EstimateXXL Estimate = "XXL"
)

// EstimateOrder is the canonical option order used when creating the
// single-select field upstream.
var EstimateOrder = []Estimate{EstimateXS, EstimateS, EstimateM, EstimateL, EstimateXL, EstimateXXL}

// Confidence qualifies how trustworthy an estimate is. It maps to buffer
// working days through the installation's confidence table.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ConfidenceOrder is the canonical option order used when creating the
// single-select field upstream.
var ConfidenceOrder = []Confidence{ConfidenceHigh, ConfidenceMedium, ConfidenceLow}

// PlanTier is the billing plan of an installation.
type PlanTier string

const (
	PlanFree PlanTier = "free"
	PlanPro  PlanTier = "pro"
)

// FreeTierItemLimit caps how many items of a project the free plan processes.
const FreeTierItemLimit = 25

// ItemLimit returns the number of project items processed per recomputation,
// or 0 for unbounded.
func (p PlanTier) ItemLimit() int {
	if p == PlanPro {
		return 0
	}
	return FreeTierItemLimit
}

// SubscriptionStatus tracks the billing lifecycle of an installation.
type SubscriptionStatus string

const (
	SubActive    SubscriptionStatus = "active"
	SubTrialing  SubscriptionStatus = "trialing"
	SubCanceled  SubscriptionStatus = "canceled"
	SubSuspended SubscriptionStatus = "suspended"
	SubNone      SubscriptionStatus = ""
)

// OwnerKind distinguishes organization-owned from user-owned installations.
type OwnerKind string

const (
	OwnerOrganization OwnerKind = "organization"
	OwnerUser         OwnerKind = "user"
)

// ItemState is the open/closed state of the underlying issue.
type ItemState string

const (
	ItemOpen   ItemState = "open"
	ItemClosed ItemState = "closed"
)

// StatusDone is the status field value treated as terminal regardless of the
// issue state.
const StatusDone = "Done"

// ItemClass tags an item with the scheduling behavior it gets during a pass.
// The class is fixed at load time so the date engine can dispatch on it
// instead of re-checking raw fields.
type ItemClass string

const (
	// ClassLeaf items receive computed start/target dates.
	ClassLeaf ItemClass = "leaf"
	// ClassSummary items roll dates up from their children and are never
	// written directly.
	ClassSummary ItemClass = "summary"
	// ClassCompleted items keep their actual end date and are excluded from
	// writes. Completion wins over summary.
	ClassCompleted ItemClass = "completed"
)

// RiskLevel is the categorical result of risk scoring. The register
// (operator-entered risks) uses the subset critical..low.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskStatus is the lifecycle of a register entry.
type RiskStatus string

const (
	RiskOpen      RiskStatus = "open"
	RiskMitigated RiskStatus = "mitigated"
	RiskClosed    RiskStatus = "closed"
)

// WorkloadLevel buckets an assignee's remaining load.
type WorkloadLevel string

const (
	WorkloadLow        WorkloadLevel = "low"
	WorkloadNormal     WorkloadLevel = "normal"
	WorkloadHigh       WorkloadLevel = "high"
	WorkloadOverloaded WorkloadLevel = "overloaded"
)

// VarianceStatus buckets an item's schedule against its baseline.
type VarianceStatus string

const (
	VarianceAhead      VarianceStatus = "ahead"
	VarianceOnTrack    VarianceStatus = "onTrack"
	VarianceBehind     VarianceStatus = "behind"
	VarianceDone       VarianceStatus = "done"
	VarianceNoBaseline VarianceStatus = "noBaseline"
)

// FieldName is the logical name of one of the nine project fields the engine
// knows about. Values are the exact upstream display names; matching against
// field lists is case-sensitive.
type FieldName string

const (
	FieldStartDate       FieldName = "Start Date"
	FieldTargetDate      FieldName = "Target Date"
	FieldActualEndDate   FieldName = "Actual End Date"
	FieldBaselineStart   FieldName = "Baseline Start"
	FieldBaselineTarget  FieldName = "Baseline Target"
	FieldEstimate        FieldName = "Estimate"
	FieldConfidence      FieldName = "Confidence"
	FieldPercentComplete FieldName = "% Complete"
	FieldStatus          FieldName = "Status"
)

// KnownFields lists every logical field in a stable order.
var KnownFields = []FieldName{
	FieldStartDate, FieldTargetDate, FieldActualEndDate,
	FieldBaselineStart, FieldBaselineTarget,
	FieldEstimate, FieldConfidence, FieldPercentComplete, FieldStatus,
}

// ProFields are only auto-created for installations on the Pro plan.
var ProFields = map[FieldName]bool{
	FieldBaselineStart:  true,
	FieldBaselineTarget: true,
	FieldConfidence:     true,
}
