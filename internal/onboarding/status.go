package onboarding

// Status is one value of the small fixed verification vocabulary reported by
// the engineer service. Profile uses pending/completed, KYC and bank use
// pending/approved/rejected, and the aggregate uses
// verified/rejected/pending_review.
type Status string

const (
	StatusPending       Status = "pending"
	StatusCompleted     Status = "completed"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusVerified      Status = "verified"
	StatusPendingReview Status = "pending_review"
)

// IsPending reports whether the step still needs a submission.
func (s Status) IsPending() bool {
	return s == StatusPending
}

// IsApproved reports whether the step passed review. The service uses
// "completed" for profile and "approved" for the document steps.
func (s Status) IsApproved() bool {
	return s == StatusApproved || s == StatusCompleted || s == StatusVerified
}

// IsRejected reports whether the step failed review.
func (s Status) IsRejected() bool {
	return s == StatusRejected
}

// Label renders the status the way the status screen presents it.
func (s Status) Label() string {
	switch {
	case s.IsApproved():
		return "Approved"
	case s.IsRejected():
		return "Rejected"
	default:
		return "Under Review"
	}
}

// StatusSnapshot is the four-field verification record owned by the engineer
// service. The portal only reads it.
type StatusSnapshot struct {
	ProfileStatus Status `json:"profile_status"`
	KYCStatus     Status `json:"kyc_status"`
	BankStatus    Status `json:"bank_status"`
	OverallStatus Status `json:"overall_status"`
}

// Verified reports whether the whole application has been approved.
func (s StatusSnapshot) Verified() bool {
	return s.OverallStatus == StatusVerified
}

// Rejected reports whether any sub-step was rejected.
func (s StatusSnapshot) Rejected() bool {
	return s.OverallStatus == StatusRejected
}
