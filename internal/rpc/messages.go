package rpc

import "time"

type Empty struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type CodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Settings mirrors an inactivity trigger. LastActivityAt and
// EmergencyAccessGranted are ignored on update.
type Settings struct {
	IsActive               bool      `json:"is_active"`
	InactiveDaysThreshold  int       `json:"inactive_days_threshold"`
	CustomMessage          string    `json:"custom_message,omitempty"`
	NotifyEmail            bool      `json:"notify_email"`
	NotifySMS              bool      `json:"notify_sms"`
	LastActivityAt         time.Time `json:"last_activity_at"`
	EmergencyAccessGranted bool      `json:"emergency_access_granted"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type NomineeRequest struct {
	FullName string `json:"full_name"`
	Relation string `json:"relation"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

type Nominee struct {
	ID         string     `json:"id"`
	FullName   string     `json:"full_name"`
	Relation   string     `json:"relation"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Status     string     `json:"status"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type NomineeList struct {
	Nominees []Nominee `json:"nominees"`
}

type GrantRequest struct {
	NomineeID   string `json:"nominee_id"`
	DocumentID  string `json:"document_id"`
	AccessLevel string `json:"access_level,omitempty"`
}

type Grant struct {
	DocumentID  string `json:"document_id"`
	AccessLevel string `json:"access_level"`
}

type GrantList struct {
	Grants []Grant `json:"grants"`
}

type UploadRequest struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type Document struct {
	ID           string    `json:"id"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	UploadStatus string    `json:"upload_status,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
	AccessLevel  string    `json:"access_level,omitempty"`
}

type UploadResponse struct {
	Document Document `json:"document"`
	URL      string   `json:"url"`
}

type DocumentList struct {
	Documents []Document `json:"documents"`
}

type URLResponse struct {
	URL string `json:"url"`
}

// EmergencyGrant is returned to a nominee after a successful verification.
// Token goes into the nominee_token metadata of later calls.
type EmergencyGrant struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Documents []Document `json:"documents"`
}

type EmergencyURLRequest struct {
	DocumentID string `json:"document_id"`
	Action     string `json:"action"`
}
