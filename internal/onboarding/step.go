package onboarding

// Step identifies one of the five onboarding screens. Together with Resolve
// and ResolveResubmit it forms the explicit state machine that decides what a
// partner sees next.
type Step string

const (
	StepAuth    Step = "auth"
	StepProfile Step = "profile"
	StepKYC     Step = "kyc"
	StepBank    Step = "bank"
	StepStatus  Step = "status"
)

// pipeline is the strict linear order of the post-auth steps.
var pipeline = []Step{StepProfile, StepKYC, StepBank, StepStatus}

// Index returns the position of the step in the pipeline. Auth sits before
// the pipeline at -1.
func (s Step) Index() int {
	for i, step := range pipeline {
		if step == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s names a known screen.
func (s Step) Valid() bool {
	return s == StepAuth || s.Index() >= 0
}

// Resolve maps the authentication state and a verification status snapshot to
// exactly one screen. It is a pure function; ordered rules, first match wins:
//
//  1. no session credential            -> auth
//  2. no snapshot (no record upstream) -> profile
//  3. profile missing or pending       -> profile
//  4. kyc pending                      -> kyc
//  5. bank pending                     -> bank
//  6. otherwise                        -> status
//
// A rejected sub-step does not route backward here; the status screen
// surfaces rejection and offers re-submission via ResolveResubmit.
func Resolve(authenticated bool, snap *StatusSnapshot) Step {
	if !authenticated {
		return StepAuth
	}
	if snap == nil {
		return StepProfile
	}
	if snap.ProfileStatus == "" || snap.ProfileStatus.IsPending() {
		return StepProfile
	}
	if snap.KYCStatus.IsPending() {
		return StepKYC
	}
	if snap.BankStatus.IsPending() {
		return StepBank
	}
	return StepStatus
}

// ResolveResubmit picks the screen a rejected application re-opens: the first
// rejected sub-step in pipeline order. Approved steps are never reopened. The
// second return value is false when nothing is rejected.
func ResolveResubmit(snap *StatusSnapshot) (Step, bool) {
	if snap == nil {
		return StepAuth, false
	}
	switch {
	case snap.ProfileStatus.IsRejected():
		return StepProfile, true
	case snap.KYCStatus.IsRejected():
		return StepKYC, true
	case snap.BankStatus.IsRejected():
		return StepBank, true
	}
	return StepAuth, false
}
