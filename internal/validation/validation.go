// Package validation checks grades before they are written and renders
// failures as Spanish field messages.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"

	"github.com/bigredeye/gradebook/internal/models"
)

// MessageNotANumber is reported for score input that does not parse as a
// finite number.
const MessageNotANumber = "La calificación debe ser un número"

// FieldErrors maps a Grade field name (Name, Score) to its message.
type FieldErrors map[string]string

type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "invalid grade: " + strings.Join(msgs, "; ")
}

// Fields extracts field messages from err if it is a validation error.
func Fields(err error) (FieldErrors, bool) {
	verr := &Error{}
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

var messages = map[string]string{
	"required": "{0} no puede estar vacío",
	"min":      "{0} no puede ser menor a {1}",
	"max":      "{0} no puede ser mayor a {1}",
}

var (
	setupOnce sync.Once
	validate  *govalidator.Validate
	trans     ut.Translator
)

func setup() {
	validate = govalidator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	esLocale := es.New()
	trans, _ = ut.New(esLocale, esLocale).GetTranslator("es")

	for tag, text := range messages {
		text := text
		err := validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			},
			func(ut ut.Translator, fe govalidator.FieldError) string {
				msg, err := ut.T(fe.Tag(), fe.Field(), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			panic(err)
		}
	}
}

// Validate returns nil for a grade that may be persisted.
func Validate(grade *models.Grade) FieldErrors {
	setupOnce.Do(setup)

	err := validate.Struct(grade)
	if err == nil {
		return nil
	}

	fields := make(FieldErrors)
	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if _, ok := fields[fe.StructField()]; !ok {
				fields[fe.StructField()] = fe.Translate(trans)
			}
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Check is Validate in error form.
func Check(grade *models.Grade) error {
	if fields := Validate(grade); fields != nil {
		return &Error{Fields: fields}
	}
	return nil
}
