package onboarding

import "strings"

// Skills is the fixed list of service categories a partner can pick from.
var Skills = []string{
	"Plumbing",
	"Electrical",
	"HVAC",
	"Carpentry",
	"Painting",
	"Appliance Repair",
	"Masonry",
	"Welding",
	"Roofing",
	"Flooring",
}

// ValidationError blocks a submission before any upstream call is made. Title
// and Message carry the user-facing notice.
type ValidationError struct {
	Title   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Title + ": " + e.Message
}

// ProfileForm carries the profile screen fields.
type ProfileForm struct {
	FullName string
	Mobile   string
	Email    string
	Address  string
	City     string
	State    string
	PinCode  string
	DOB      string
	Skills   []string
}

// Validate enforces the profile screen's required fields.
func (f ProfileForm) Validate() *ValidationError {
	if f.FullName == "" || f.Address == "" || f.City == "" || f.PinCode == "" {
		return &ValidationError{Title: "Incomplete Form", Message: "Please fill in all required fields"}
	}
	if len(f.Skills) == 0 {
		return &ValidationError{Title: "Skills Required", Message: "Please select at least one skill"}
	}
	return nil
}

// KYCForm carries the KYC screen fields. The file contents stay in the
// transport layer; validation only needs to know they were attached.
type KYCForm struct {
	AadhaarNumber   string
	PANNumber       string
	HasProfilePhoto bool
	HasAddressProof bool
}

// Validate enforces the KYC screen's required fields and documents.
func (f KYCForm) Validate() *ValidationError {
	if f.AadhaarNumber == "" || f.PANNumber == "" {
		return &ValidationError{Title: "Incomplete Form", Message: "Please enter Aadhaar and PAN numbers"}
	}
	if !f.HasProfilePhoto || !f.HasAddressProof {
		return &ValidationError{Title: "Documents Required", Message: "Please upload all required documents"}
	}
	return nil
}

// BankForm carries the bank screen fields.
type BankForm struct {
	AccountHolderName    string
	AccountNumber        string
	ConfirmAccountNumber string
	IFSCCode             string
	BankName             string
	HasProof             bool
}

// Validate enforces the bank screen's required fields, the account number
// confirmation, and the cheque/passbook document.
func (f BankForm) Validate() *ValidationError {
	if f.AccountHolderName == "" || f.AccountNumber == "" || f.IFSCCode == "" || f.BankName == "" {
		return &ValidationError{Title: "Incomplete Form", Message: "Please fill in all required fields"}
	}
	if f.AccountNumber != f.ConfirmAccountNumber {
		return &ValidationError{Title: "Account Number Mismatch", Message: "Account numbers do not match"}
	}
	if !f.HasProof {
		return &ValidationError{Title: "Document Required", Message: "Please upload cancelled cheque or passbook"}
	}
	return nil
}

// IsEmail reports whether an identifier should be treated as an email address
// rather than a mobile number.
func IsEmail(identifier string) bool {
	return strings.Contains(identifier, "@")
}
