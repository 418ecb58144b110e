package domain

// Role is the closed set of profile kinds. It never changes after registration.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleBusiness:
		return true
	default:
		return false
	}
}

// ParseRole converts user input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", Validationf("type must be one of %q, %q", RoleCustomer, RoleBusiness)
	}
	return r, nil
}
