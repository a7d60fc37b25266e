// Command devapi runs the in-memory stand-in for the Door2fy engineer
// service on the address the portal expects by default, so the whole
// onboarding flow works on a laptop without the real backend.
//
//	DEVAPI_ADDR       listen address (default :8000)
//	DEVAPI_FIXED_OTP  when set, every sign-in accepts this code
package main

import (
	"net/http"
	"os"

	"github.com/door2fy/onboarding-portal/internal/devapi"
	"github.com/door2fy/onboarding-portal/internal/logging"
)

func main() {
	logger := logging.New("debug", true)

	srv := devapi.New(logger)
	if code := os.Getenv("DEVAPI_FIXED_OTP"); code != "" {
		srv.SetFixedOTP(code)
		logger.Warn("fixed OTP enabled", "code", code)
	}

	addr := os.Getenv("DEVAPI_ADDR")
	if addr == "" {
		addr = ":8000"
	}

	logger.Info("dev engineer service listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
