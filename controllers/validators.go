package controllers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"civic-jharkhand-be/apperrors"
	"civic-jharkhand-be/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the "category" and "status" binding tags to gin's
// validator and reports fields by their json or form name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			return value == "" || models.Category(value).Valid()
		})
		_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return models.ReportStatus(fl.Field().String()).Valid()
		})
	})
}

// bindError turns a binding failure into a ValidationError with a readable message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return apperrors.Validation(fe.Field() + " is required")
		case "category":
			return apperrors.Validation("category must be one of Pothole, Streetlight, Trash, Water Leakage, Other")
		case "status":
			return apperrors.Validation("status must be one of Submitted, In Progress, Resolved")
		case "email":
			return apperrors.Validation("email is not valid")
		default:
			return apperrors.Validation(fe.Field() + " failed " + fe.Tag() + " validation")
		}
	}
	return apperrors.Validation(err.Error())
}
