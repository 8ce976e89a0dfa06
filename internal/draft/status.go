package draft

import "time"

// Status is the review-lifecycle state of a draft.
type Status string

const (
	StatusPending        Status = "pending"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusAutoPosted     Status = "auto_posted"
	StatusAutoPostFailed Status = "auto_post_failed"
	StatusPublished      Status = "published"
	StatusPublishFailed  Status = "publish_failed"
)

// Terminal reports whether the status ends the review lifecycle.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// PendingEntry is a draft currently shown to a reviewer, keyed by the
// chat message handle it was presented with.
type PendingEntry struct {
	Draft     Draft     `json:"draft"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// QueueEntry is a reviewer-approved draft waiting for its publish
// time, keyed by slot key.
type QueueEntry struct {
	Draft         Draft     `json:"draft"`
	ScheduledHour int       `json:"scheduledHour"`
	Platform      Platform  `json:"platform"`
	FormatKey     string    `json:"formatKey"`
	ApprovedAt    time.Time `json:"approvedAt"`
}
