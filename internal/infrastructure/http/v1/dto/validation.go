package dto

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules on gin's validator
// and makes field errors report json names.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v.RegisterValidation("notblank", notBlank)
}

// notBlank rejects strings that are empty after trimming.
func notBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationDetails flattens validator errors into field -> message.
func ValidationDetails(err error) map[string]string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fieldPath(fe)] = validationMessage(fe)
	}
	return out
}

// fieldPath drops the root struct name: "CreateOrderRequest.items[0].item_code"
// becomes "items[0].item_code".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "must have at least " + fe.Param() + " entries"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}
