package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Length(0, 100)),
		validation.Field(&req.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&req.Password, validation.By(func(value interface{}) error {
			password, _ := value.(string)
			if password == "" {
				// Blank keeps the current password.
				return nil
			}

			return validatePassword(password)
		})),
		validation.Field(&req.Role, validation.Required, validation.In("admin", "seller")),
	)
}
