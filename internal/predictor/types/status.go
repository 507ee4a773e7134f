package types

type StatusRequest struct {
	PrincipalID int64 `json:"principal_id"`
}

type StatusResponse struct {
	OK          bool   `json:"ok"`
	PrincipalID int64  `json:"principal_id"`
	Entitled    bool   `json:"entitled"`
	ExpiresAt   string `json:"expires_at,omitempty"` // RFC3339, empty when not entitled
	ServerTime  string `json:"server_time"`
}

type GrantRequest struct {
	ActingID int64 `json:"acting_id"`
	TargetID int64 `json:"target_id"`
}

type GrantResponse struct {
	OK        bool   `json:"ok"`
	TargetID  int64  `json:"target_id"`
	ExpiresAt string `json:"expires_at"`
}

type RevokeRequest struct {
	ActingID int64 `json:"acting_id"`
	TargetID int64 `json:"target_id"`
}

type RevokeResponse struct {
	OK       bool  `json:"ok"`
	TargetID int64 `json:"target_id"`
	Existed  bool  `json:"existed"`
}

type BroadcastRequest struct {
	ActingID int64  `json:"acting_id"`
	Message  string `json:"message"`
}

type BroadcastResponse struct {
	OK     bool `json:"ok"`
	Sent   int  `json:"sent"`
	Failed int  `json:"failed"`
}
