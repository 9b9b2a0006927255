// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("payment_source", validatePaymentSource)
		_ = v.RegisterValidation("account_type", validateAccountType)
		_ = v.RegisterValidation("income_type", validateIncomeType)
	}
}

func validatePaymentSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "bank", "combined":
		return true
	}
	return false
}

func validateAccountType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "cash", "bank":
		return true
	}
	return false
}

func validateIncomeType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "MONTHLY_FEE", "REGISTRATION", "DONATION", "OTHER":
		return true
	}
	return false
}
