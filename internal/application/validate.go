package application

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Validation groups are explicit rule sets selected by operation: the create
// group requires presence, the edit group leaves absent fields unchanged but
// enforces the same bounds when a field is supplied. Each group is its own
// input struct with its own tags.

var validate = validator.New(validator.WithRequiredStructEnabled())

// RegisterInput is the create-group input for a user.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
	LastName string `json:"last_name" validate:"required,min=3"`
	Username string `json:"username" validate:"required,min=5"`
	Birthday string `json:"birthday" validate:"required,datetime=2006-01-02"`
}

// EditUserInput is the edit-group patch: empty fields are left unchanged.
// Password and roles are never editable through this input.
type EditUserInput struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Name     string `json:"name" validate:"omitempty,min=2"`
	LastName string `json:"last_name" validate:"omitempty,min=3"`
	Username string `json:"username" validate:"omitempty,min=5"`
}

// ActivityInput is the create input for an activity; bulk import applies the
// same rules per record.
type ActivityInput struct {
	Name        string `json:"name" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"required,min=10,max=500"`
	Duration    int    `json:"duration" validate:"required,gte=30,lte=120"`
}

var registerMessages = map[string]string{
	"Email.required":    "Please enter an email",
	"Email.email":       "Please enter a valid email",
	"Password.required": "Please enter a password",
	"Password.min":      "Password must be at least 6 characters long",
	"Name.required":     "Please enter your name",
	"Name.min":          "Name must be at least 2 characters long",
	"LastName.required": "Please enter your last name",
	"LastName.min":      "Last name must be at least 3 characters long",
	"Username.required": "Please enter your username",
	"Username.min":      "Username must be at least 5 characters long",
	"Birthday.required": "Please enter your birthday",
	"Birthday.datetime": "Please enter a valid birthday",
}

var editUserMessages = map[string]string{
	"Email.email":  "Please enter a valid email",
	"Name.min":     "Name must be at least 2 characters long",
	"LastName.min": "Last name must be at least 3 characters long",
	"Username.min": "Username must be at least 5 characters long",
}

var activityMessages = map[string]string{
	"Name.required":        "Activity name cannot be empty",
	"Name.min":             "Activity name must be at least 3 characters long",
	"Name.max":             "Activity name cannot be longer than 255 characters",
	"Description.required": "Activity description cannot be empty",
	"Description.min":      "Activity description must be at least 10 characters long",
	"Description.max":      "Activity description cannot be longer than 500 characters",
	"Duration.required":    "Activity duration cannot be empty",
	"Duration.gte":         "Activity duration must be between 30 and 120 minutes",
	"Duration.lte":         "Activity duration must be between 30 and 120 minutes",
}

func (in RegisterInput) Validate() []string {
	return collectMessages(validate.Struct(in), registerMessages)
}

func (in EditUserInput) Validate() []string {
	return collectMessages(validate.Struct(in), editUserMessages)
}

func (in ActivityInput) Validate() []string {
	return collectMessages(validate.Struct(in), activityMessages)
}

// collectMessages maps every violated rule to its message; it never stops at
// the first violation.
func collectMessages(err error, messages map[string]string) []string {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"invalid input"}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
			out = append(out, msg)
			continue
		}
		out = append(out, fe.StructField()+" is invalid")
	}
	return out
}
