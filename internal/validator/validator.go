// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"powcost/internal/filemirror"
	"powcost/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("cost_type", validateCostType)
		_ = v.RegisterValidation("non_negative", validateNonNegative)
		_ = v.RegisterValidation("backup_date", validateBackupDate)
	}
}

func validateCostType(fl validator.FieldLevel) bool {
	return models.CostType(fl.Field().String()).Valid()
}

// validateNonNegative accepts any numeric field that is >= 0. Pointer fields
// are dereferenced by the engine before the check runs.
func validateNonNegative(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.CanFloat() {
		return field.Float() >= 0
	}
	if field.CanInt() {
		return field.Int() >= 0
	}
	return true
}

func validateBackupDate(fl validator.FieldLevel) bool {
	return filemirror.ValidLabel(fl.Field().String())
}
