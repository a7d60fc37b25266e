package onboarding

import "testing"

func validProfile() ProfileForm {
	return ProfileForm{
		FullName: "Asha Verma",
		Mobile:   "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		PinCode:  "560001",
		Skills:   []string{"Plumbing"},
	}
}

func TestProfileFormValidate(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}

	missing := validProfile()
	missing.City = ""
	err := missing.Validate()
	if err == nil || err.Message != "Please fill in all required fields" {
		t.Fatalf("expected required-fields error, got %v", err)
	}

	noSkills := validProfile()
	noSkills.Skills = nil
	err = noSkills.Validate()
	if err == nil || err.Message != "Please select at least one skill" {
		t.Fatalf("expected skills error, got %v", err)
	}
}

func TestKYCFormValidate(t *testing.T) {
	form := KYCForm{AadhaarNumber: "123412341234", PANNumber: "ABCDE1234F", HasProfilePhoto: true, HasAddressProof: true}
	if err := form.Validate(); err != nil {
		t.Fatalf("valid kyc rejected: %v", err)
	}

	form.PANNumber = ""
	err := form.Validate()
	if err == nil || err.Message != "Please enter Aadhaar and PAN numbers" {
		t.Fatalf("expected number error, got %v", err)
	}

	form.PANNumber = "ABCDE1234F"
	form.HasProfilePhoto = false
	err = form.Validate()
	if err == nil || err.Title != "Documents Required" {
		t.Fatalf("expected documents error, got %v", err)
	}
}

func TestBankFormValidate(t *testing.T) {
	form := BankForm{
		AccountHolderName:    "Asha Verma",
		AccountNumber:        "1234",
		ConfirmAccountNumber: "1234",
		IFSCCode:             "HDFC0001234",
		BankName:             "HDFC Bank",
		HasProof:             true,
	}
	if err := form.Validate(); err != nil {
		t.Fatalf("valid bank form rejected: %v", err)
	}

	form.ConfirmAccountNumber = "1235"
	err := form.Validate()
	if err == nil || err.Message != "Account numbers do not match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}

	form.ConfirmAccountNumber = "1234"
	form.HasProof = false
	err = form.Validate()
	if err == nil || err.Message != "Please upload cancelled cheque or passbook" {
		t.Fatalf("expected proof error, got %v", err)
	}
}

func TestIsEmail(t *testing.T) {
	if !IsEmail("asha@example.com") {
		t.Fatalf("address with @ should be email")
	}
	if IsEmail("9876543210") {
		t.Fatalf("digits should be treated as mobile")
	}
}
