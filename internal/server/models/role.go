package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/eatery/internal/common"
)

// Role is the kind of account a user holds on the platform.
type Role string

const (
	RoleClient   Role = "client"
	RoleOwner    Role = "owner"
	RoleDelivery Role = "delivery"
)

// Roles lists every role accepted at registration.
var Roles = []Role{RoleClient, RoleOwner, RoleDelivery}

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleOwner, RoleDelivery:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role, case-insensitively. "regular" is
// accepted as the customer role. Unknown values are rejected with
// common.ErrorValidation.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r == "regular" {
		r = RoleClient
	}
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrorValidation, s)
	}
	return r, nil
}
