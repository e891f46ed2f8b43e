package webhook

import "encoding/json"

// EventHeader names the header carrying the event kind.
const EventHeader = "X-GitHub-Event"

// Event kinds dispatched by the engine. Anything else is acknowledged and
// ignored.
const (
	EventInstallation = "installation"
	EventIssues       = "issues"
	EventProjectsItem = "projects_v2_item"
	EventProjectsV2   = "projects_v2"
	EventPing         = "ping"
)

// InstallationEvent covers created/deleted/suspend/unsuspend.
type InstallationEvent struct {
	Action       string `json:"action"`
	Installation struct {
		ID      int64 `json:"id"`
		Account struct {
			Login string `json:"login"`
			Type  string `json:"type"`
		} `json:"account"`
	} `json:"installation"`
}

// IssuesEvent covers closed/reopened/edited/labeled/milestoned/demilestoned.
type IssuesEvent struct {
	Action string `json:"action"`
	Issue  struct {
		Number int `json:"number"`
	} `json:"issue"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
	Installation struct {
		ID int64 `json:"id"`
	} `json:"installation"`
}

// ProjectItemEvent fires when an item's fields change, including for the
// engine's own writes; the coordinator's cooldown absorbs those.
type ProjectItemEvent struct {
	Action         string `json:"action"`
	ProjectsV2Item struct {
		ProjectNodeID string `json:"project_node_id"`
	} `json:"projects_v2_item"`
	Installation struct {
		ID int64 `json:"id"`
	} `json:"installation"`
}

// BillingEvent is the billing provider's webhook envelope. Object holds the
// provider-specific payload (checkout session or subscription).
type BillingEvent struct {
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// Billing event types driving the plan state machine.
const (
	BillingCheckoutCompleted   = "checkout.session.completed"
	BillingSubscriptionUpdated = "customer.subscription.updated"
	BillingSubscriptionDeleted = "customer.subscription.deleted"
)

// CheckoutSession is the object of a checkout.session.completed event.
// ClientReferenceID carries the installation id the checkout was begun for.
type CheckoutSession struct {
	Customer          string `json:"customer"`
	Subscription      string `json:"subscription"`
	ClientReferenceID string `json:"client_reference_id"`
}

// Subscription is the object of subscription lifecycle events.
type Subscription struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	// CurrentPeriodEnd is a unix timestamp.
	CurrentPeriodEnd int64 `json:"current_period_end"`
}
