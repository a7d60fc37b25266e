package door2fy

import "io"

// Mode discriminates the identifier a partner registers with.
type Mode string

const (
	ModeMobile Mode = "mobile"
	ModeEmail  Mode = "email"
)

// RegisterResult correlates the subsequent OTP verification with the register
// call that triggered it.
type RegisterResult struct {
	SessionID string
	IsNewUser bool
	Message   string
}

// ProfilePayload is the canonical profile shape sent to the engineer service.
type ProfilePayload struct {
	FullName string   `json:"full_name"`
	Mobile   string   `json:"mobile"`
	Email    string   `json:"email"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	PinCode  string   `json:"pin_code"`
	Skills   []string `json:"skills"`
	DOB      string   `json:"dob,omitempty"`
}

// File is one binary attachment forwarded to the engineer service. The portal
// never stores it; the reader is drained straight into the multipart body.
type File struct {
	Name   string
	Reader io.Reader
}

// KYCSubmission is the multipart payload of the KYC upload.
type KYCSubmission struct {
	AadhaarNumber    string
	PANNumber        string
	AddressProofType string
	AddressProof     File
	Photo            File
}

// BankSubmission is the multipart payload of the bank details upload.
type BankSubmission struct {
	BankName      string
	AccountNumber string
	IFSCCode      string
	Proof         File
}
