// Package devapi is an in-memory stand-in for the Door2fy engineer service.
// It implements the six upstream endpoints so the portal can run end-to-end
// on a laptop and so the web handlers can be tested against a real HTTP
// round trip. It is development tooling, not a designed auth service: state
// lives in maps and disappears with the process.
package devapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/door2fy/onboarding-portal/internal/onboarding"
)

const otpTTL = 5 * time.Minute

// registration is one in-flight OTP exchange. The issued code is kept only
// as a bcrypt hash and is consumed on first successful verification.
type registration struct {
	identifier string
	mode       string
	otpHash    []byte
	expiresAt  time.Time
}

// account is one engineer's onboarding record.
type account struct {
	profileStatus onboarding.Status
	kycStatus     onboarding.Status
	bankStatus    onboarding.Status
}

// Server holds the fake service state.
type Server struct {
	mu       sync.Mutex
	logger   *slog.Logger
	fixedOTP string
	regs     map[string]*registration
	tokens   map[string]string
	accounts map[string]*account
}

// New builds an empty fake engineer service.
func New(logger *slog.Logger) *Server {
	return &Server{
		logger:   logger,
		regs:     make(map[string]*registration),
		tokens:   make(map[string]string),
		accounts: make(map[string]*account),
	}
}

// SetFixedOTP makes every subsequent registration issue the given code
// instead of a random one. Handy for local development.
func (s *Server) SetFixedOTP(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixedOTP = code
}

// SetStatuses overrides an engineer's per-step statuses, simulating review
// decisions (including rejections) that the real service would make.
func (s *Server) SetStatuses(identifier string, profile, kyc, bank onboarding.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.accounts[identifier]
	if acc == nil {
		acc = &account{}
		s.accounts[identifier] = acc
	}
	acc.profileStatus = profile
	acc.kycStatus = kyc
	acc.bankStatus = bank
}

// Handler returns the HTTP surface of the fake service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/register", s.handleRegister)
	mux.HandleFunc("/auth/verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("/engineer/profile", s.handleProfile)
	mux.HandleFunc("/engineer/kyc", s.handleKYC)
	mux.HandleFunc("/engineer/bank", s.handleBank)
	mux.HandleFunc("/engineer/status", s.handleStatus)
	return mux
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		Mode   string `json:"mode"`
		Mobile string `json:"mobile"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var identifier string
	switch req.Mode {
	case "mobile":
		identifier = strings.TrimSpace(req.Mobile)
	case "email":
		identifier = strings.ToLower(strings.TrimSpace(req.Email))
	default:
		writeDetail(w, http.StatusBadRequest, "Unknown registration mode")
		return
	}
	if identifier == "" {
		writeDetail(w, http.StatusBadRequest, "Identifier is required")
		return
	}

	code := s.nextOTP()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Failed to issue OTP")
		return
	}

	sessionID := uuid.NewString()

	s.mu.Lock()
	s.regs[sessionID] = &registration{
		identifier: identifier,
		mode:       req.Mode,
		otpHash:    hash,
		expiresAt:  time.Now().Add(otpTTL),
	}
	_, known := s.accounts[identifier]
	s.mu.Unlock()

	// A real deployment delivers the code over SMS or email. Here the log
	// line is the delivery channel.
	s.logger.Info("otp issued", "identifier", identifier, "code", code)

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":  sessionID,
		"is_new_user": !known,
		"message":     "OTP sent to " + identifier,
	})
}

func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
		OTP       string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s.mu.Lock()
	reg, ok := s.regs[req.SessionID]
	if ok && time.Now().After(reg.expiresAt) {
		delete(s.regs, req.SessionID)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		writeDetail(w, http.StatusBadRequest, "OTP expired or session unknown")
		return
	}
	if bcrypt.CompareHashAndPassword(reg.otpHash, []byte(req.OTP)) != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid OTP")
		return
	}

	token := uuid.NewString()

	s.mu.Lock()
	delete(s.regs, req.SessionID)
	s.tokens[token] = reg.identifier
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.authenticate(w, r, http.MethodPost)
	if !ok {
		return
	}

	var payload struct {
		FullName string   `json:"full_name"`
		Skills   []string `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.FullName == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "full_name is required")
		return
	}
	if len(payload.Skills) == 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "at least one skill is required")
		return
	}

	s.mu.Lock()
	acc := s.accounts[identifier]
	if acc == nil {
		acc = &account{kycStatus: onboarding.StatusPending, bankStatus: onboarding.StatusPending}
		s.accounts[identifier] = acc
	}
	acc.profileStatus = onboarding.StatusCompleted
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Profile saved"})
}

func (s *Server) handleKYC(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.authenticate(w, r, http.MethodPost)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	if r.FormValue("aadhaar_number") == "" || r.FormValue("pan_number") == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Aadhaar and PAN numbers are required")
		return
	}
	for _, field := range []string{"address_proof_file", "photo_file"} {
		if _, _, err := r.FormFile(field); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, field+" is required")
			return
		}
	}

	s.mu.Lock()
	acc := s.accounts[identifier]
	if acc == nil {
		s.mu.Unlock()
		writeDetail(w, http.StatusConflict, "Profile must be saved before KYC")
		return
	}
	acc.kycStatus = onboarding.StatusApproved
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "KYC documents received"})
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.authenticate(w, r, http.MethodPost)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	for _, field := range []string{"bank_name", "account_number", "ifsc_code"} {
		if r.FormValue(field) == "" {
			writeDetail(w, http.StatusUnprocessableEntity, field+" is required")
			return
		}
	}
	if _, _, err := r.FormFile("proof_file"); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "proof_file is required")
		return
	}

	s.mu.Lock()
	acc := s.accounts[identifier]
	if acc == nil {
		s.mu.Unlock()
		writeDetail(w, http.StatusConflict, "Profile must be saved before bank details")
		return
	}
	acc.bankStatus = onboarding.StatusApproved
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "Bank details received"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	identifier, ok := s.authenticate(w, r, http.MethodGet)
	if !ok {
		return
	}

	s.mu.Lock()
	acc := s.accounts[identifier]
	var snap onboarding.StatusSnapshot
	if acc != nil {
		snap = onboarding.StatusSnapshot{
			ProfileStatus: acc.profileStatus,
			KYCStatus:     acc.kycStatus,
			BankStatus:    acc.bankStatus,
			OverallStatus: overall(acc),
		}
	}
	s.mu.Unlock()

	if acc == nil {
		writeDetail(w, http.StatusNotFound, "Engineer record not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// authenticate checks the method and bearer token, writing the error response
// itself on failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request, method string) (string, bool) {
	if r.Method != method {
		writeDetail(w, http.StatusMethodNotAllowed, "Method not allowed")
		return "", false
	}

	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}

	s.mu.Lock()
	identifier, ok := s.tokens[token]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
		return "", false
	}
	return identifier, true
}

func overall(acc *account) onboarding.Status {
	if acc.profileStatus.IsRejected() || acc.kycStatus.IsRejected() || acc.bankStatus.IsRejected() {
		return onboarding.StatusRejected
	}
	if acc.profileStatus.IsApproved() && acc.kycStatus.IsApproved() && acc.bankStatus.IsApproved() {
		return onboarding.StatusVerified
	}
	return onboarding.StatusPendingReview
}

func (s *Server) nextOTP() string {
	s.mu.Lock()
	fixed := s.fixedOTP
	s.mu.Unlock()
	if fixed != "" {
		return fixed
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
