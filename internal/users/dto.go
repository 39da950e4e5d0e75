package users

// CreateUserDTO is the payload an admin submits to create a new account.
// Forms only enforce required-field presence; deeper validation belongs to
// the backend.
type CreateUserDTO struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateUserDTO) Validate() error {
	if d.FirstName == "" {
		return ValidationError{Msg: "first_name is required"}
	}
	if d.LastName == "" {
		return ValidationError{Msg: "last_name is required"}
	}
	if d.Email == "" {
		return ValidationError{Msg: "email is required"}
	}
	if !d.Role.Valid() {
		return ValidationError{Msg: "role must be one of ORGANIZATION_HEAD, ICT_HEAD, STAFF"}
	}
	return nil
}
