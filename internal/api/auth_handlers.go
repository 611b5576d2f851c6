package api

import (
	"net/http"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/middleware"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	user, err := rt.auth.Signup(r.Context(), services.SignupInput{
		FullName:            req.FullName,
		Email:               req.Email,
		PhoneNumber:         req.PhoneNumber,
		OrganisationName:    req.OrganisationName,
		OrganisationCountry: req.OrganisationCountry,
		OrganisationSize:    req.OrganisationSize,
		Password:            req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "Account created. Check your email for the verification code.", map[string]interface{}{
		"user": user,
	})
}

func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	result, err := rt.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Logged in successfully", map[string]interface{}{
		"token":            result.Token,
		"user":             result.User,
		"organisationName": result.OrganisationName,
	})
}

func (rt *Router) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	if err := rt.auth.VerifyOTP(r.Context(), req.Email, req.OTP); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Account verified successfully", nil)
}

func (rt *Router) handleResendOTP(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	if err := rt.auth.ResendOTP(r.Context(), uid); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "A new verification code has been sent", nil)
}
