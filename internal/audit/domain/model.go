package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityLogin          ActivityType = "login"
	ActivityLogout         ActivityType = "logout"
	ActivityRegister       ActivityType = "register"
	ActivityPasswordChange ActivityType = "password_change"
	ActivityPinChange      ActivityType = "pin_change"
	ActivityProfileUpdate  ActivityType = "profile_update"
	ActivityKYCSubmission  ActivityType = "kyc_submission"
	ActivityTransaction    ActivityType = "transaction"
	ActivityWalletFunding  ActivityType = "wallet_funding"
	ActivitySupportTicket  ActivityType = "support_ticket"
	ActivityDeviceChange   ActivityType = "device_change"
	ActivitySecurityAlert  ActivityType = "security_alert"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityLogin, ActivityLogout, ActivityRegister, ActivityPasswordChange,
		ActivityPinChange, ActivityProfileUpdate, ActivityKYCSubmission, ActivityTransaction,
		ActivityWalletFunding, ActivitySupportTicket, ActivityDeviceChange, ActivitySecurityAlert:
		return true
	}
	return false
}

func ParseActivityType(value string) (ActivityType, error) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", ErrInvalidType
	}
	return t, nil
}

type ClientSource string

const (
	SourceWeb    ClientSource = "web"
	SourceMobile ClientSource = "mobile"
	SourceAPI    ClientSource = "api"
	SourceAdmin  ClientSource = "admin"
	SourceUSSD   ClientSource = "ussd"
)

func (s ClientSource) Valid() bool {
	switch s {
	case SourceWeb, SourceMobile, SourceAPI, SourceAdmin, SourceUSSD:
		return true
	}
	return false
}

func ParseClientSource(value string) (ClientSource, error) {
	s := ClientSource(strings.ToLower(strings.TrimSpace(value)))
	if !s.Valid() {
		return "", ErrInvalidSource
	}
	return s, nil
}

// AuditLog is append-only; rows are never updated or deleted.
type AuditLog struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	UserID      string            `json:"user_id" gorm:"type:text;not null;index:ix_audit_logs_user_id"`
	Type        ActivityType      `json:"type" gorm:"type:text;not null"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	Source      ClientSource      `json:"source" gorm:"type:text;not null"`
	ClientID    *string           `json:"client_id,omitempty" gorm:"type:text"`
	DeviceInfo  *string           `json:"device_info,omitempty" gorm:"type:text"`
	IPAddress   *string           `json:"ip_address,omitempty" gorm:"type:text"`
	UserAgent   *string           `json:"user_agent,omitempty" gorm:"type:text"`
	Location    *string           `json:"location,omitempty" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null;index:ix_audit_logs_created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
