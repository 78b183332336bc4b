// Package validate provides struct-tag validation for option structs
// passed into the stream and adapters packages.
//
//	type CreateUserCmd struct {
//	    Name  string `validate:"required,min=2"`
//	    Email string `validate:"required,email"`
//	}
//	err := validate.Validate(cmd)
package validate
