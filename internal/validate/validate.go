// Package validate checks admin form input before it is sent to the backend.
// Each check returns the first failing rule as a user-facing error, or nil.
package validate

import (
	"errors"

	"ndphc-monitor/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(userStructLevel, UserForm{})
}

// UserForm is the create/edit user form. A nil Password leaves it unchanged;
// a present but empty one is rejected.
type UserForm struct {
	Email        string     `validate:"required,contains=@"`
	FullName     string     `validate:"required"`
	Password     *string    `validate:"omitnil,min=8"`
	Role         model.Role `validate:"required,oneof=viewer operator editor admin"`
	PowerPlantID *int
}

// userStructLevel runs after the field rules.
func userStructLevel(sl validator.StructLevel) {
	u := sl.Current().Interface().(UserForm)
	if u.Role.RequiresPlant() && (u.PowerPlantID == nil || *u.PowerPlantID == 0) {
		sl.ReportError(u.PowerPlantID, "PowerPlantID", "PowerPlantID", "plant_for_role", "")
	}
}

// messages maps "Struct.Field.tag" to the text shown to the user.
var messages = map[string]string{
	"UserForm.Email.required":              "Email is required",
	"UserForm.Email.contains":              "Please enter a valid email address",
	"UserForm.FullName.required":           "Full name is required",
	"UserForm.Password.min":                "Password must be at least 8 characters long",
	"UserForm.Role.required":               "Role is required",
	"UserForm.Role.oneof":                  "Role must be one of viewer, operator, editor or admin",
	"UserForm.PowerPlantID.plant_for_role": "Operators and Editors must be assigned to a power plant",

	"PowerPlantInput.Name.required":     "Plant name is required",
	"PowerPlantInput.Location.required": "Location is required",
	"PowerPlantInput.TotalCapacity.gt":  "Total capacity must be greater than 0",
	"TurbineInput.Name.required":        "Turbine name is required",
	"TurbineInput.Capacity.gt":          "Capacity must be greater than 0",
}

func User(form UserForm) error {
	return first(validate.Struct(form))
}

func PowerPlant(in model.PowerPlantInput) error {
	return first(validate.Struct(in))
}

func Turbine(in model.TurbineInput) error {
	return first(validate.Struct(in))
}

func first(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]; ok {
		return errors.New(msg)
	}
	return errors.New(fe.Error())
}
