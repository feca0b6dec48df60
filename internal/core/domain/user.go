package domain

import "strings"

// Role is the closed set of actor roles. Anything outside the three known
// values collapses to RoleUnknown rather than being carried verbatim.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleFarmer  Role = "FARMER"
	RoleDealer  Role = "DEALER"
	RoleUnknown Role = "UNKNOWN"
)

// ParseRole maps a free-form role string onto the enum, case-insensitively.
func ParseRole(s string) Role {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin
	case "FARMER":
		return RoleFarmer
	case "DEALER":
		return RoleDealer
	default:
		return RoleUnknown
	}
}

func (r Role) String() string { return string(r) }

// Authority converts a role string into the granted authority tag used by
// path authorization: ROLE_ADMIN, ROLE_FARMER, ROLE_DEALER, or ROLE_UNKNOWN
// for anything unrecognized.
func Authority(role string) string {
	return "ROLE_" + string(ParseRole(role))
}

// User is the credential-store record for an account.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Address      string `json:"address,omitempty"`
	Active       bool   `json:"active"`
}

// FarmerProfile is the satellite record created for FARMER accounts at
// sign-up. Username is denormalized so validate-time lookups need no join.
type FarmerProfile struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// DealerProfile is the satellite record created for DEALER accounts.
type DealerProfile struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// RequestIdentity is the per-request materialization of a validated token.
// Role keeps the raw role string from the token; Authority is the mapped
// ROLE_* tag. It lives for a single request/response cycle.
type RequestIdentity struct {
	Username  string
	Role      string
	Authority string
}
