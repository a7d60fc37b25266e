// Package door2fy wraps the remote Door2fy engineer-service HTTP API: OTP
// registration, the three onboarding submissions, and the verification status
// snapshot. The bearer token is passed in by the caller on every
// authenticated operation; the client itself holds no credential state.
package door2fy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

const defaultTimeout = 30 * time.Second

// Client performs the six remote operations against a configurable base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the engineer service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// detail is the error body shape the engineer service uses on non-2xx
// responses.
type detail struct {
	Detail string `json:"detail"`
}

// Register starts a sign-in or sign-up for a mobile number or email address
// and triggers OTP delivery. The returned session identifier must be echoed
// back on VerifyOTP.
func (c *Client) Register(ctx context.Context, mode Mode, value string) (RegisterResult, error) {
	body := map[string]string{"mode": string(mode)}
	switch mode {
	case ModeMobile:
		body["mobile"] = value
	case ModeEmail:
		body["email"] = value
	default:
		return RegisterResult{}, fmt.Errorf("unknown register mode %q", mode)
	}

	resp, err := c.postJSON(ctx, "/auth/register", "", body)
	if err != nil {
		return RegisterResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return RegisterResult{}, &RegistrationError{Detail: readDetail(resp.Body)}
	}

	// Some service revisions report the correlation id as "identifier"
	// instead of "session_id"; accept both.
	var payload struct {
		SessionID  string `json:"session_id"`
		Identifier string `json:"identifier"`
		IsNewUser  bool   `json:"is_new_user"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RegisterResult{}, fmt.Errorf("decode register response: %w", err)
	}

	result := RegisterResult{SessionID: payload.SessionID, IsNewUser: payload.IsNewUser, Message: payload.Message}
	if result.SessionID == "" {
		result.SessionID = payload.Identifier
	}
	if result.SessionID == "" {
		return RegisterResult{}, &RegistrationError{Detail: "No identifier received from server"}
	}
	return result, nil
}

// VerifyOTP exchanges the register session and a 6-digit code for a bearer
// token. The caller must persist the token before proceeding.
func (c *Client) VerifyOTP(ctx context.Context, sessionID, otp string) (string, error) {
	resp, err := c.postJSON(ctx, "/auth/verify-otp", "", map[string]string{
		"session_id": sessionID,
		"otp":        otp,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &OTPVerificationError{Detail: readDetail(resp.Body)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", &OTPVerificationError{Detail: "No access token received from server"}
	}
	return payload.AccessToken, nil
}

// SaveProfile submits the profile step.
func (c *Client) SaveProfile(ctx context.Context, token string, payload ProfilePayload) error {
	resp, err := c.postJSON(ctx, "/engineer/profile", token, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Operation: "save profile", Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// UploadKYC submits the identity documents as multipart form data.
func (c *Client) UploadKYC(ctx context.Context, token string, sub KYCSubmission) error {
	fields := map[string]string{
		"aadhaar_number":     sub.AadhaarNumber,
		"pan_number":         sub.PANNumber,
		"address_proof_type": sub.AddressProofType,
	}
	files := map[string]File{
		"address_proof_file": sub.AddressProof,
		"photo_file":         sub.Photo,
	}
	return c.postMultipart(ctx, "/engineer/kyc", token, "upload KYC", fields, files)
}

// SaveBankDetails submits the bank account step as multipart form data.
func (c *Client) SaveBankDetails(ctx context.Context, token string, sub BankSubmission) error {
	fields := map[string]string{
		"bank_name":      sub.BankName,
		"account_number": sub.AccountNumber,
		"ifsc_code":      sub.IFSCCode,
	}
	files := map[string]File{
		"proof_file": sub.Proof,
	}
	return c.postMultipart(ctx, "/engineer/bank", token, "save bank details", fields, files)
}

// GetStatus fetches the verification status snapshot. A 404 maps to
// ErrNoRecord; any other failure is reported as-is so callers do not mistake
// an outage for a fresh account.
func (c *Client) GetStatus(ctx context.Context, token string) (onboarding.StatusSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/engineer/status", nil)
	if err != nil {
		return onboarding.StatusSnapshot{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return onboarding.StatusSnapshot{}, fmt.Errorf("fetch status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return onboarding.StatusSnapshot{}, ErrNoRecord
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return onboarding.StatusSnapshot{}, &APIError{Operation: "fetch status", Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var snap onboarding.StatusSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return onboarding.StatusSnapshot{}, fmt.Errorf("decode status response: %w", err)
	}
	return snap, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, body any) (*http.Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", path, err)
	}
	return resp, nil
}

func (c *Client) postMultipart(ctx context.Context, path, token, operation string, fields map[string]string, files map[string]File) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for name, file := range files {
		part, err := writer.CreateFormFile(name, file.Name)
		if err != nil {
			return fmt.Errorf("create part %s: %w", name, err)
		}
		if _, err := io.Copy(part, file.Reader); err != nil {
			return fmt.Errorf("copy %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Operation: operation, Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func readDetail(r io.Reader) string {
	var d detail
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return ""
	}
	return d.Detail
}
