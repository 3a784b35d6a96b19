package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs struct validation and converts failures into request
// errors. Missing fields take precedence over malformed dates; missingCode
// selects the code used for missing fields.
func validateStruct(value any, missingCode apperr.Code) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.InvalidRequest, err)
	}

	var missing, badDates []string
	for _, fe := range verrs {
		if fe.Tag() == "datetime" {
			badDates = append(badDates, fe.Field())
			continue
		}
		missing = append(missing, fe.Field())
	}
	if len(missing) > 0 {
		return apperr.New(missingCode, fmt.Sprintf("missing fields: %s", strings.Join(missing, ", ")))
	}
	return apperr.New(apperr.InvalidDate, fmt.Sprintf("%s must be a YYYY-MM-DD date", strings.Join(badDates, ", ")))
}
