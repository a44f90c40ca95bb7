// Package validation checks a student form draft and reports one message
// per offending field.
//
// The rules come in three PROFILES, one per generation of the student form:
//
//	basic  — name and email must be present
//	email  — basic, plus the email must look like an address
//	strict — email, plus a 10-digit mobile number starting with 6–9
//
// All three use go-playground/validator under the hood. Each field gets a
// validator tag string (e.g. "required,simple_email") and is checked with
// validate.Var, so the rules can vary at runtime without separate structs.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aanand-mishra/student-crud/internal/types"
	"github.com/go-playground/validator/v10"
)

// Profile selects which rule set applies.
type Profile string

const (
	ProfileBasic  Profile = "basic"
	ProfileEmail  Profile = "email"
	ProfileStrict Profile = "strict"
)

// ParseProfile accepts the config spelling of a profile.
func ParseProfile(s string) (Profile, error) {
	switch p := Profile(strings.ToLower(strings.TrimSpace(s))); p {
	case ProfileBasic, ProfileEmail, ProfileStrict:
		return p, nil
	case "":
		return ProfileStrict, nil
	default:
		return "", fmt.Errorf("unknown validation profile %q", s)
	}
}

var (
	// emailPattern is deliberately loose: something@something.something
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

	// mobilePattern is a 10-digit Indian mobile number.
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Messages shown under each field. Keyed by field, then by validator tag.
var messages = map[types.Field]map[string]string{
	types.FieldName: {
		"required": "Name is required",
	},
	types.FieldEmail: {
		"required":     "Email is required",
		"simple_email": "Invalid email format",
	},
	types.FieldPhone: {
		"required":  "Phone number is required",
		"mobile_in": "Enter a valid 10-digit mobile number",
	},
	types.FieldAge: {
		"int_text": "Age must be a whole number",
	},
}

// Validator checks drafts against one profile.
// It is safe for concurrent use: the underlying validator caches are
// goroutine-safe and the rule table is read-only after New.
type Validator struct {
	profile  Profile
	validate *validator.Validate
	rules    map[types.Field]string
}

// New builds a Validator for the given profile.
func New(profile Profile) *Validator {
	v := validator.New()

	// RegisterValidation only fails on an empty tag or a nil func, neither
	// of which can happen here.
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("mobile_in", func(fl validator.FieldLevel) bool {
		return mobilePattern.MatchString(fl.Field().String())
	})
	// Blank (after trimming) passes: the draft treats it as "no age".
	_ = v.RegisterValidation("int_text", func(fl validator.FieldLevel) bool {
		raw := strings.TrimSpace(fl.Field().String())
		if raw == "" {
			return true
		}
		_, err := strconv.Atoi(raw)
		return err == nil
	})

	return &Validator{
		profile:  profile,
		validate: v,
		rules:    rulesFor(profile),
	}
}

// rulesFor returns the validator tag string for every constrained field.
// Fields that are absent from the map (course, file) are unconstrained.
func rulesFor(p Profile) map[types.Field]string {
	rules := map[types.Field]string{
		types.FieldName:  "required",
		types.FieldEmail: "required",
		// Age is never required, but when given it has to be a number.
		types.FieldAge: "omitempty,int_text",
	}
	switch p {
	case ProfileEmail:
		rules[types.FieldEmail] = "required,simple_email"
	case ProfileStrict:
		rules[types.FieldEmail] = "required,simple_email"
		rules[types.FieldPhone] = "required,mobile_in"
	}
	return rules
}

// Profile reports the active rule set.
func (v *Validator) Profile() Profile {
	return v.profile
}

// Draft recomputes every field error from scratch.
// The returned map is empty (never nil) when the draft is valid.
func (v *Validator) Draft(d types.Draft) types.FieldErrors {
	errs := make(types.FieldErrors)

	for _, field := range types.Fields {
		tag, ok := v.rules[field]
		if !ok {
			continue
		}

		err := v.validate.Var(d.Get(field), tag)
		if err == nil {
			continue
		}

		// Var returns ValidationErrors holding exactly one FieldError: the
		// first rule in the tag string that failed.
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			errs[field] = message(field, fieldErrs[0].Tag())
			continue
		}
		errs[field] = message(field, "")
	}

	return errs
}

// Student validates an already-typed record, e.g. one decoded from JSON.
func (v *Validator) Student(s types.Student) types.FieldErrors {
	return v.Draft(types.DraftFrom(s))
}

func message(field types.Field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", field)
}
