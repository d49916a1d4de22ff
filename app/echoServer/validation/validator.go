package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator plugs a shared go-playground validator into echo. Instance
// hands the same *validator.Validate to the controllers.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

func (v *Validator) Instance() *validator.Validate { return v.v }
