package storage

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	tagSlotMinute = "slotminute"
	tagSlotSecond = "slotsecond"
)

var gridMessages = map[string]string{
	tagSlotMinute: "minutes must be 0 or 30",
	tagSlotSecond: "seconds must be 0",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	must(v.RegisterValidation(tagSlotMinute, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && (t.Minute() == 0 || t.Minute() == 30)
	}))
	must(v.RegisterValidation(tagSlotSecond, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.Second() == 0
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldError scopes a validation message to the event field it concerns.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateEventTimes checks that both event boundaries sit on the slot grid:
// minute 0 or 30 and second 0. Each rule runs independently for startsAt and
// endsAt, so a single field can collect both messages. A nil return means the
// event is valid. Start before end is intentionally not checked.
func ValidateEventTimes(e Event) ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, checkGrid("startsAt", e.StartsAt)...)
	errs = append(errs, checkGrid("endsAt", e.EndsAt)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkGrid(field string, t time.Time) ValidationErrors {
	var errs ValidationErrors
	for _, tag := range []string{tagSlotMinute, tagSlotSecond} {
		if err := validate.Var(t, tag); err != nil {
			errs = append(errs, FieldError{Field: field, Message: gridMessages[tag]})
		}
	}
	return errs
}
