package web

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/door2fy/onboarding-portal/internal/door2fy"
	"github.com/door2fy/onboarding-portal/internal/middleware"
	"github.com/door2fy/onboarding-portal/internal/onboarding"
	"github.com/door2fy/onboarding-portal/internal/session"
)

// Dispatch resolves the current step and redirects to its screen. It runs
// once after authentication and once on initial load; the loading state the
// original showed while the status fetch was in flight is simply this
// handler's response time.
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	sess, snap, done, err := h.guard(c, onboarding.StepAuth)
	if done {
		return err
	}
	_ = sess
	return c.Redirect(stepPath(onboarding.Resolve(true, snap)), fiber.StatusSeeOther)
}

// guard loads the session, fetches the status snapshot, and enforces the
// linear pipeline: a screen later than the resolved step cannot be opened,
// while earlier screens stay reachable for back navigation and re-submission.
// When done is true the guard already wrote a response (redirect or error
// page) and err is its result.
func (h *Handler) guard(c *fiber.Ctx, requested onboarding.Step) (session.Session, *onboarding.StatusSnapshot, bool, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return session.Session{}, nil, true, c.Redirect("/onboarding/auth", fiber.StatusSeeOther)
	}
	if !sess.Authenticated() {
		if sess.UpstreamID != "" {
			return session.Session{}, nil, true, c.Redirect("/onboarding/auth/verify", fiber.StatusSeeOther)
		}
		return session.Session{}, nil, true, c.Redirect("/onboarding/auth", fiber.StatusSeeOther)
	}

	snap, err := h.snapshot(c.UserContext(), sess)
	if err != nil {
		if errors.Is(err, errStaleToken) {
			h.destroySession(c, sess)
			return session.Session{}, nil, true, c.Redirect("/onboarding/auth", fiber.StatusSeeOther)
		}
		h.logger.Error("status fetch failed", "error", err)
		return session.Session{}, nil, true, h.render(c, "error", fiber.Map{
			"Message": "We could not reach the verification service. Your progress is safe - please try again.",
			"Retry":   c.OriginalURL(),
		})
	}

	resolved := onboarding.Resolve(true, snap)
	if requested.Index() > resolved.Index() {
		return session.Session{}, nil, true, c.Redirect(stepPath(resolved), fiber.StatusSeeOther)
	}
	return sess, snap, false, nil
}

// ProfileScreen renders the profile form, prefilled with the identifier the
// partner signed in with.
func (h *Handler) ProfileScreen(c *fiber.Ctx) error {
	sess, _, done, err := h.guard(c, onboarding.StepProfile)
	if done {
		return err
	}

	form := onboarding.ProfileForm{}
	if sess.Mode == string(door2fy.ModeEmail) {
		form.Email = sess.Identifier
	} else {
		form.Mobile = sess.Identifier
	}
	return h.render(c, "profile", fiber.Map{
		"Form":        form,
		"Skills":      skillOptions(nil),
		"CurrentStep": 1,
	})
}

// SubmitProfile validates and forwards the profile step.
func (h *Handler) SubmitProfile(c *fiber.Ctx) error {
	sess, _, done, err := h.guard(c, onboarding.StepProfile)
	if done {
		return err
	}

	form := onboarding.ProfileForm{
		FullName: strings.TrimSpace(c.FormValue("full_name")),
		Mobile:   strings.TrimSpace(c.FormValue("mobile")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Address:  strings.TrimSpace(c.FormValue("address")),
		City:     strings.TrimSpace(c.FormValue("city")),
		State:    strings.TrimSpace(c.FormValue("state")),
		PinCode:  strings.TrimSpace(c.FormValue("pin_code")),
		DOB:      strings.TrimSpace(c.FormValue("dob")),
		Skills:   formValues(c, "skills"),
	}

	if verr := form.Validate(); verr != nil {
		return h.render(c, "profile", fiber.Map{
			"Toast":       Toast{Kind: "error", Title: verr.Title, Message: verr.Message},
			"Form":        form,
			"Skills":      skillOptions(form.Skills),
			"CurrentStep": 1,
		})
	}

	payload := door2fy.ProfilePayload{
		FullName: form.FullName,
		Mobile:   form.Mobile,
		Email:    form.Email,
		Address:  form.Address,
		City:     form.City,
		State:    form.State,
		PinCode:  form.PinCode,
		Skills:   form.Skills,
		DOB:      form.DOB,
	}
	if err := h.client.SaveProfile(c.UserContext(), sess.Token, payload); err != nil {
		h.logger.Warn("save profile failed", "error", err)
		return h.render(c, "profile", fiber.Map{
			"Toast":       errorToast("Error", err),
			"Form":        form,
			"Skills":      skillOptions(form.Skills),
			"CurrentStep": 1,
		})
	}

	h.cache.Invalidate(c.UserContext(), sess.ID)
	h.flash(c, successToast("Profile Saved", "Your profile has been submitted"))
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}

// KYCScreen renders the identity-document form.
func (h *Handler) KYCScreen(c *fiber.Ctx) error {
	_, _, done, err := h.guard(c, onboarding.StepKYC)
	if done {
		return err
	}
	return h.render(c, "kyc", fiber.Map{
		"Form":        onboarding.KYCForm{},
		"CurrentStep": 2,
	})
}

// SubmitKYC validates and forwards the KYC step with its two attachments.
func (h *Handler) SubmitKYC(c *fiber.Ctx) error {
	sess, _, done, err := h.guard(c, onboarding.StepKYC)
	if done {
		return err
	}

	photo, photoErr := c.FormFile("photo_file")
	proof, proofErr := c.FormFile("address_proof_file")

	form := onboarding.KYCForm{
		AadhaarNumber:   strings.TrimSpace(c.FormValue("aadhaar_number")),
		PANNumber:       strings.ToUpper(strings.TrimSpace(c.FormValue("pan_number"))),
		HasProfilePhoto: photoErr == nil && photo.Size > 0,
		HasAddressProof: proofErr == nil && proof.Size > 0,
	}

	if verr := form.Validate(); verr != nil {
		return h.render(c, "kyc", fiber.Map{
			"Toast":       Toast{Kind: "error", Title: verr.Title, Message: verr.Message},
			"Form":        form,
			"CurrentStep": 2,
		})
	}

	photoFile, err := openUpload(photo)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read profile photo")
	}
	defer photoFile.Close()
	proofFile, err := openUpload(proof)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read address proof")
	}
	defer proofFile.Close()

	sub := door2fy.KYCSubmission{
		AadhaarNumber:    form.AadhaarNumber,
		PANNumber:        form.PANNumber,
		AddressProofType: "address_proof",
		AddressProof:     door2fy.File{Name: proof.Filename, Reader: proofFile},
		Photo:            door2fy.File{Name: photo.Filename, Reader: photoFile},
	}
	if err := h.client.UploadKYC(c.UserContext(), sess.Token, sub); err != nil {
		h.logger.Warn("kyc upload failed", "error", err)
		return h.render(c, "kyc", fiber.Map{
			"Toast":       errorToast("Error", err),
			"Form":        form,
			"CurrentStep": 2,
		})
	}

	h.cache.Invalidate(c.UserContext(), sess.ID)
	h.flash(c, successToast("KYC Submitted", "Your documents are under review"))
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}

// BankScreen renders the bank-details form.
func (h *Handler) BankScreen(c *fiber.Ctx) error {
	_, _, done, err := h.guard(c, onboarding.StepBank)
	if done {
		return err
	}
	return h.render(c, "bank", fiber.Map{
		"Form":        onboarding.BankForm{},
		"CurrentStep": 3,
	})
}

// SubmitBank validates and forwards the bank step with the cheque/passbook
// attachment.
func (h *Handler) SubmitBank(c *fiber.Ctx) error {
	sess, _, done, err := h.guard(c, onboarding.StepBank)
	if done {
		return err
	}

	proof, proofErr := c.FormFile("proof_file")

	form := onboarding.BankForm{
		AccountHolderName:    strings.TrimSpace(c.FormValue("account_holder_name")),
		AccountNumber:        strings.TrimSpace(c.FormValue("account_number")),
		ConfirmAccountNumber: strings.TrimSpace(c.FormValue("confirm_account_number")),
		IFSCCode:             strings.ToUpper(strings.TrimSpace(c.FormValue("ifsc_code"))),
		BankName:             strings.TrimSpace(c.FormValue("bank_name")),
		HasProof:             proofErr == nil && proof.Size > 0,
	}

	if verr := form.Validate(); verr != nil {
		return h.render(c, "bank", fiber.Map{
			"Toast":       Toast{Kind: "error", Title: verr.Title, Message: verr.Message},
			"Form":        form,
			"CurrentStep": 3,
		})
	}

	proofFile, err := openUpload(proof)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not read proof document")
	}
	defer proofFile.Close()

	sub := door2fy.BankSubmission{
		BankName:      form.BankName,
		AccountNumber: form.AccountNumber,
		IFSCCode:      form.IFSCCode,
		Proof:         door2fy.File{Name: proof.Filename, Reader: proofFile},
	}
	if err := h.client.SaveBankDetails(c.UserContext(), sess.Token, sub); err != nil {
		h.logger.Warn("save bank details failed", "error", err)
		return h.render(c, "bank", fiber.Map{
			"Toast":       errorToast("Error", err),
			"Form":        form,
			"CurrentStep": 3,
		})
	}

	h.cache.Invalidate(c.UserContext(), sess.ID)
	h.flash(c, successToast("Bank Details Submitted", "Your bank details are under review"))
	return c.Redirect("/onboarding", fiber.StatusSeeOther)
}

func openUpload(fh *multipart.FileHeader) (multipart.File, error) {
	if fh == nil {
		return nil, errors.New("missing file")
	}
	return fh.Open()
}

// formValues collects repeated form fields (checkbox groups). Fiber's
// FormValue only returns the first occurrence.
func formValues(c *fiber.Ctx, key string) []string {
	var values []string
	if form, err := c.MultipartForm(); err == nil {
		return form.Value[key]
	}
	for _, v := range c.Request().PostArgs().PeekMulti(key) {
		values = append(values, string(v))
	}
	return values
}

// skillOption is one selectable chip on the profile form.
type skillOption struct {
	Name     string
	Selected bool
}

func skillOptions(selected []string) []skillOption {
	opts := make([]skillOption, 0, len(onboarding.Skills))
	for _, name := range onboarding.Skills {
		opt := skillOption{Name: name}
		for _, s := range selected {
			if s == name {
				opt.Selected = true
				break
			}
		}
		opts = append(opts, opt)
	}
	return opts
}
