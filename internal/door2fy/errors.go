package door2fy

import (
	"errors"
	"fmt"
)

// ErrNoRecord is returned by GetStatus when the engineer service answers 404,
// meaning the account exists but onboarding has never been started. It is
// deliberately distinct from transport failures and other non-2xx statuses so
// callers can treat a brand-new account and an outage differently.
var ErrNoRecord = errors.New("no engineer record")

// APIError is a non-success response from the engineer service, carrying the
// server-supplied detail message.
type APIError struct {
	Operation string
	Status    int
	Detail    string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s failed with status %d", e.Operation, e.Status)
}

// RegistrationError reports a failed register call.
type RegistrationError struct {
	Detail string
}

func (e *RegistrationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "Registration failed"
}

// OTPVerificationError reports a mismatched or expired OTP as seen by the
// engineer service.
type OTPVerificationError struct {
	Detail string
}

func (e *OTPVerificationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "OTP verification failed"
}
