package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/chalkline/assistant-api/pkg/api"
)

// Validator wraps gin's binding validator with english translations
// and the service's struct-level rules.
type Validator struct {
	trans ut.Translator
}

func New() *Validator {
	v := &Validator{}

	if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
		engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// A chat conversation with no user turn is a caller error and
		// must never reach the provider client.
		engine.RegisterStructValidation(chatRequestRule, api.ChatRequest{})

		english := en.New()
		uni := ut.New(english, english)
		v.trans, _ = uni.GetTranslator("en")

		_ = en_translations.RegisterDefaultTranslations(engine, v.trans)
	}

	return v
}

func chatRequestRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(api.ChatRequest)
	if !req.HasUserMessage() {
		sl.ReportError(req.Messages, "messages", "Messages", "usermessage", "")
	}
}

// ParseError converts raw validation errors into a clean field->message map.
func (v *Validator) ParseError(err error) map[string]string {
	errMap := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			ns := e.Namespace()
			if i := strings.Index(ns, "."); i != -1 {
				ns = ns[i+1:]
			}

			msg := e.Translate(v.trans)

			switch e.Tag() {
			case "oneof":
				msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
			case "usermessage":
				msg = "at least one message with role \"user\" is required"
			}

			errMap[ns] = msg
		}
		return errMap
	}

	errMap["body"] = "Invalid request body format. Please fix your payload."
	return errMap
}
