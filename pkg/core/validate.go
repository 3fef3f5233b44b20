package core

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// draft is the trimmed form input of an upsert.
type draft struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// fieldMessages holds the user-facing message per field and rule.
var fieldMessages = map[string]string{
	"title":   "Title is required.",
	"content": "Note content is required.",
}

func newDraft(title, content string) draft {
	return draft{
		Title:   strings.TrimSpace(title),
		Content: strings.TrimSpace(content),
	}
}

// check returns a *ValidationError listing every invalid field, or nil.
func (d draft) check() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "Validation failed on '" + fe.Tag() + "'."
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}
