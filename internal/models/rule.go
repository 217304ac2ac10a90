package models

// IngressRule is a single inbound permission inside a security group.
type IngressRule struct {
	GroupID     string `json:"group_id"`
	Protocol    string `json:"protocol"`
	FromPort    int32  `json:"from_port"`
	ToPort      int32  `json:"to_port"`
	CIDR        string `json:"cidr"`
	Description string `json:"description,omitempty"`
}

// HostCIDR turns a bare address into a single-host IPv4 block.
func HostCIDR(addr string) string {
	return addr + "/32"
}

type Status string

const (
	StatusUnchanged Status = "UNCHANGED" // previous == current, nothing sent
	StatusUpdated   Status = "UPDATED"
	StatusFailed    Status = "FAILED" // authorize did not go through
)

// Outcome summarises one run of the updater.
type Outcome struct {
	Region        string `json:"region"`
	SecurityGroup string `json:"security_group"`
	Previous      string `json:"previous,omitempty"`
	HadPrevious   bool   `json:"had_previous"`
	Current       string `json:"current"`
	Forced        bool   `json:"forced"`
	Status        Status `json:"status"`
	Revoked       bool   `json:"revoked"`
	RevokeError   string `json:"revoke_error,omitempty"`
	Authorized    bool   `json:"authorized"`
}
