package kernel

import (
	"fmt"

	"empi/internal/pkg/errs"
)

// Role identifies who requests an operation. Guards on the order state
// machine and on quote acceptance are expressed in terms of roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCustomer  Role = "customer"
	RoleLogistics Role = "logistics"
	RoleSystem    Role = "system"
)

// ParseRole maps a wire value onto a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleCustomer, RoleLogistics, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated caller of a command.
type Actor struct {
	Role Role
	ID   string
}

func NewActor(role Role, id string) (Actor, error) {
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{Role: role, ID: id}, nil
}

// SystemActor is used by scheduled jobs and automatic transitions.
func SystemActor() Actor {
	return Actor{Role: RoleSystem, ID: "system"}
}
