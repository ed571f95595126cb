package httpapi

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/familyvault/internal/common"
)

const maxBodyBytes = 64 << 10

type emailBody struct {
	Email string `json:"email"`
}

type signupBody struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type codeBody struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password,omitempty"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type tokenResponse struct {
	Success      bool   `json:"success"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type grantedDocument struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	AccessLevel string `json:"access_level"`
}

type emergencyResponse struct {
	Success   bool              `json:"success"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Documents []grantedDocument `json:"documents"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

var statusTable = []struct {
	err  error
	code int
}{
	{common.ErrAccessDenied, http.StatusForbidden},
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrMismatch, http.StatusBadRequest},
	{common.ErrConflict, http.StatusConflict},
	{common.ErrorNotFound, http.StatusNotFound},
	{common.ErrExpired, http.StatusGone},
	{common.ErrAlreadyUsed, http.StatusGone},
	{common.ErrTooManyAttempts, http.StatusTooManyRequests},
	{common.ErrDelivery, http.StatusBadGateway},
}

// fail writes err as a JSON error. Guard failures all read the same.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range statusTable {
		if !errors.Is(err, e.err) {
			continue
		}
		msg := e.err.Error()
		switch e.err {
		case common.ErrAccessDenied:
			msg = common.AccessDeniedGenericMessage
		case common.ErrValidation:
			msg = err.Error()
		}
		writeJSON(w, e.code, errorResponse{Error: msg})
		return
	}
	s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: common.ErrorInternal.Error()})
}

func (s *HTTPServer) sendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var in signupBody
	if !decode(w, r, &in) {
		return
	}
	if err := s.accounts.RequestSignup(r.Context(), in.Email, in.Password, in.DisplayName); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) verifySignupOTP(w http.ResponseWriter, r *http.Request) {
	var in codeBody
	if !decode(w, r, &in) {
		return
	}
	pair, err := s.accounts.ConfirmSignup(r.Context(), in.Email, in.Code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Success: true, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (s *HTTPServer) sendPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if !decode(w, r, &in) {
		return
	}
	if err := s.accounts.RequestPasswordReset(r.Context(), in.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) verifyPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var in codeBody
	if !decode(w, r, &in) {
		return
	}
	if err := s.accounts.ResetPassword(r.Context(), in.Email, in.Code, in.NewPassword); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) sendEmergencyOTP(w http.ResponseWriter, r *http.Request) {
	var in emailBody
	if !decode(w, r, &in) {
		return
	}
	if err := s.emergency.RequestAccess(r.Context(), in.Email); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

func (s *HTTPServer) verifyEmergencyOTP(w http.ResponseWriter, r *http.Request) {
	var in codeBody
	if !decode(w, r, &in) {
		return
	}
	grant, err := s.emergency.VerifyAccess(r.Context(), in.Email, in.Code)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := emergencyResponse{
		Success:   true,
		Token:     grant.Token,
		ExpiresAt: grant.ExpiresAt,
		Documents: make([]grantedDocument, 0, len(grant.Documents)),
	}
	for _, d := range grant.Documents {
		out.Documents = append(out.Documents, grantedDocument{
			ID:          d.Document.ID,
			FileName:    d.Document.FileName,
			FileType:    d.Document.FileType,
			FileSize:    d.Document.FileSize,
			AccessLevel: string(d.AccessLevel),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

var verifyPage = template.Must(template.New("verify").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>{{.Title}}</h2>
<p>{{.Text}}</p>
</body></html>`))

func (s *HTTPServer) verifyNominee(w http.ResponseWriter, r *http.Request) {
	page := struct{ Title, Text string }{
		"Email confirmed",
		"You are now a verified Family Vault nominee. You can close this page.",
	}
	code := http.StatusOK

	if _, err := s.nominees.Verify(r.Context(), r.URL.Query().Get("token")); err != nil {
		code = http.StatusBadRequest
		page.Title = "Link not valid"
		page.Text = "This verification link is invalid or has already been used."
		if !errors.Is(err, common.ErrorNotFound) && !errors.Is(err, common.ErrValidation) {
			s.logger.Error(r.Context(), "nominee verification failed", "error", err)
			code = http.StatusInternalServerError
			page.Text = "Something went wrong. Please try again later."
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = verifyPage.Execute(w, page)
}
