package interfaces

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	configureBinding sync.Once
	translator       ut.Translator
)

// setupValidation configures gin's validator once per process: unknown
// JSON fields are rejected, fields are named by their json tag and
// errors are rendered in English.
func setupValidation() {
	configureBinding.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("maxbytes", maxBytes)

		english := en.New()
		trans, _ := ut.New(english, english).GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
			return
		}
		_ = v.RegisterTranslation("maxbytes", trans,
			func(t ut.Translator) error {
				return t.Add("maxbytes", "{0} must be at most {1} bytes", true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T("maxbytes", fe.Field(), fe.Param())
				return msg
			},
		)
		translator = trans
	})
}

// maxBytes limits the encoded length of a string. bcrypt rejects
// passwords over 72 bytes, which max= (counting runes) does not catch.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// jsonFieldName makes validation errors name fields as clients send them.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
