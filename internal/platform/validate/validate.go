// Package validate holds the process validator with english messages
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "ladderbot/internal/platform/errors"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds the validator and its translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// messages name the env var when the field has one
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if tag := fld.Tag.Get("env"); tag != "" && tag != "-" {
				return tag
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates v and returns a Validation error whose message lists every
// failing field; the first failing field is attached
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return perr.Wrap(err, perr.ErrorCodeValidation, "validation error")
	}
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", Messages(ves)), ves[0].Field())
}

// Messages translates each field error, joined with "; "
func Messages(ves validator.ValidationErrors) string {
	t := Get().Translator
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fe.Translate(t))
	}
	return strings.Join(msgs, "; ")
}
