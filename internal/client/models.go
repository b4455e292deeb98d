// ABOUTME: Wire models for backend JSON payloads
// ABOUTME: Tolerant ID and timestamp types absorb the backend's mixed encodings

package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a numeric identifier that also decodes from a JSON string
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = ID(n)
	return nil
}

func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// ParseID parses a command-line or form identifier
func ParseID(s string) (ID, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// Time decodes RFC 3339 as well as the backend's zone-less ISO timestamps,
// which are UTC
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp %s", data)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// User is the profile returned by /custom/me
type User struct {
	ID             ID     `json:"id"`
	Email          string `json:"email"`
	IsActive       bool   `json:"is_active"`
	IsVerified     bool   `json:"is_verified"`
	IsSuperuser    bool   `json:"is_superuser"`
	FullName       string `json:"full_name,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// DisplayName prefers the full name over the email
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// TokenResponse is the login and OAuth exchange result
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Session is one active login of the current account
type Session struct {
	ID        ID     `json:"id"`
	CreatedAt Time   `json:"created_at"`
	ExpiresAt Time   `json:"expires_at"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Current   bool   `json:"current"`
	UserID    ID     `json:"user_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}

type sessionsResponse struct {
	Count    int       `json:"count"`
	Sessions []Session `json:"sessions"`
}

// BulkRevokeResult is returned by DELETE /auth/sessions/all
type BulkRevokeResult struct {
	Message        string `json:"message"`
	Count          int    `json:"count"`
	LogoutRequired bool   `json:"logout_required,omitempty"`
}

// AdminUser is a row of /admin/users
type AdminUser struct {
	ID             ID     `json:"id"`
	Email          string `json:"email"`
	FullName       string `json:"full_name,omitempty"`
	IsActive       bool   `json:"is_active"`
	IsVerified     bool   `json:"is_verified"`
	IsSuperuser    bool   `json:"is_superuser"`
	CreatedAt      Time   `json:"created_at"`
	LastLogin      Time   `json:"last_login"`
	LoginType      string `json:"login_type"` // "oauth" or "password"
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type adminUsersResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Users   []AdminUser `json:"users"`
}

// AdminSession is a row of /admin/sessions
type AdminSession struct {
	TokenID      ID     `json:"token_id"`
	UserID       ID     `json:"user_id"`
	UserEmail    string `json:"user_email"`
	UserFullname string `json:"user_fullname,omitempty"`
	CreatedAt    Time   `json:"created_at"`
	ExpiresAt    Time   `json:"expires_at"`
	IsActive     bool   `json:"is_active"`
}

type adminSessionsResponse struct {
	Success  bool           `json:"success"`
	Count    int            `json:"count"`
	Sessions []AdminSession `json:"sessions"`
}

// Folder is a document folder
type Folder struct {
	ID             ID     `json:"id"`
	Name           string `json:"name"`
	ParentID       *ID    `json:"parent_id,omitempty"`
	CreatedAt      Time   `json:"created_at"`
	SubfolderCount int    `json:"subfolder_count"`
	FileCount      int    `json:"file_count"`
}

// FolderList is the /folders/list envelope
type FolderList struct {
	Success bool     `json:"success"`
	Count   int      `json:"count"`
	Folders []Folder `json:"folders"`
}

// CreatedFolder is the result of POST /folders/create
type CreatedFolder struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FolderID ID     `json:"folder_id"`
	Name     string `json:"name"`
}

// PDFDocument is an uploaded file
type PDFDocument struct {
	ID         ID     `json:"id"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
	UploadedAt Time   `json:"uploaded_at"`
	FolderID   *ID    `json:"folder_id,omitempty"`
}

type pdfListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	PDFs    []PDFDocument `json:"pdfs"`
}

// UploadResult is returned by POST /pdf/upload
type UploadResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	FileID   ID     `json:"file_id"`
	ID       ID     `json:"id,omitempty"`
	Filename string `json:"filename"`
}

// DocumentID returns whichever identifier the backend filled in
func (r *UploadResult) DocumentID() ID {
	if r.FileID != 0 {
		return r.FileID
	}
	return r.ID
}

// Choice is one answer option
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one multiple-choice question
type Question struct {
	ID              ID       `json:"id"`
	Text            string   `json:"text"`
	Choices         []Choice `json:"choices"`
	CorrectAnswerID string   `json:"correct_answer_id"`
	Explanation     string   `json:"explanation,omitempty"`
}

// QCM is a generated quiz
type QCM struct {
	PDFTitle  string     `json:"pdf_title"`
	Questions []Question `json:"questions"`
}

// Message is the generic {message} acknowledgement
type Message struct {
	Message string `json:"message"`
	Success bool   `json:"success,omitempty"`
}
