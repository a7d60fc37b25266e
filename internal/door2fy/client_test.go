package door2fy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

func TestRegisterSendsModeAndidentifier(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{"session_id": "reg-1", "is_new_user": true, "message": "OTP sent"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.Register(context.Background(), ModeEmail, "asha@example.com")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if got["mode"] != "email" || got["email"] != "asha@example.com" {
		t.Fatalf("unexpected request body %v", got)
	}
	if _, ok := got["mobile"]; ok {
		t.Fatalf("email registration must not carry a mobile field")
	}
	if result.SessionID != "reg-1" || !result.IsNewUser {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRegisterAcceptsIdentifierKey(t *testing.T) {
	// Some service revisions name the correlation id "identifier".
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"identifier": "reg-2"})
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL).Register(context.Background(), ModeMobile, "9876543210")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.SessionID != "reg-2" {
		t.Fatalf("expected reg-2, got %q", result.SessionID)
	}
}

func TestRegisterSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid mobile number"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Register(context.Background(), ModeMobile, "12")
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("expected RegistrationError, got %v", err)
	}
	if regErr.Error() != "Invalid mobile number" {
		t.Fatalf("expected upstream detail, got %q", regErr.Error())
	}
}

func TestVerifyOTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["session_id"] != "reg-1" || body["otp"] != "123456" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid OTP"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	token, err := client.VerifyOTP(context.Background(), "reg-1", "123456")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected tok-1, got %q", token)
	}

	_, err = client.VerifyOTP(context.Background(), "reg-1", "000000")
	var otpErr *OTPVerificationError
	if !errors.As(err, &otpErr) || otpErr.Error() != "Invalid OTP" {
		t.Fatalf("expected OTP verification error, got %v", err)
	}
}

func TestSaveProfileSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			t.Fatalf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		var payload ProfilePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.FullName != "Asha Verma" || payload.PinCode != "560001" {
			t.Fatalf("unexpected payload %+v", payload)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SaveProfile(context.Background(), "tok-1", ProfilePayload{
		FullName: "Asha Verma",
		Mobile:   "9876543210",
		Address:  "12 MG Road",
		City:     "Bengaluru",
		State:    "Karnataka",
		PinCode:  "560001",
		Skills:   []string{"Plumbing"},
	})
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
}

func TestUploadKYCMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("aadhaar_number"); got != "123412341234" {
			t.Fatalf("aadhaar_number = %q", got)
		}
		if got := r.FormValue("address_proof_type"); got != "aadhaar" {
			t.Fatalf("address_proof_type = %q", got)
		}
		for _, name := range []string{"address_proof_file", "photo_file"} {
			if _, _, err := r.FormFile(name); err != nil {
				t.Fatalf("missing file part %s: %v", name, err)
			}
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).UploadKYC(context.Background(), "tok-1", KYCSubmission{
		AadhaarNumber:    "123412341234",
		PANNumber:        "ABCDE1234F",
		AddressProofType: "aadhaar",
		AddressProof:     File{Name: "aadhaar.jpg", Reader: strings.NewReader("proof")},
		Photo:            File{Name: "photo.jpg", Reader: strings.NewReader("photo")},
	})
	if err != nil {
		t.Fatalf("upload kyc: %v", err)
	}
}

func TestSaveBankDetailsMultipartFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("ifsc_code"); got != "HDFC0001234" {
			t.Fatalf("ifsc_code = %q", got)
		}
		if _, _, err := r.FormFile("proof_file"); err != nil {
			t.Fatalf("missing proof_file: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewClient(srv.URL).SaveBankDetails(context.Background(), "tok-1", BankSubmission{
		BankName:      "HDFC Bank",
		AccountNumber: "1234567890",
		IFSCCode:      "HDFC0001234",
		Proof:         File{Name: "cheque.jpg", Reader: strings.NewReader("cheque")},
	})
	if err != nil {
		t.Fatalf("save bank details: %v", err)
	}
}

func TestGetStatusDistinguishesMissingRecordFromOutage(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]string{"detail": "nope"})
			return
		}
		json.NewEncoder(w).Encode(onboarding.StatusSnapshot{
			ProfileStatus: onboarding.StatusCompleted,
			KYCStatus:     onboarding.StatusPending,
			BankStatus:    onboarding.StatusPending,
			OverallStatus: onboarding.StatusPendingReview,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.GetStatus(context.Background(), "tok-1")
	if !errors.Is(err, ErrNoRecord) {
		t.Fatalf("404 should map to ErrNoRecord, got %v", err)
	}

	status = http.StatusBadGateway
	_, err = client.GetStatus(context.Background(), "tok-1")
	if errors.Is(err, ErrNoRecord) {
		t.Fatalf("an outage must not look like a missing record")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected APIError with status 502, got %v", err)
	}

	status = http.StatusOK
	snap, err := client.GetStatus(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	if snap.ProfileStatus != onboarding.StatusCompleted || snap.KYCStatus != onboarding.StatusPending {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}
