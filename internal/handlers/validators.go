package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/depositaria/reception_settlement_app/internal/core/domain"
)

func init() {
	registerEnumValidators()
}

// registerEnumValidators hooks the persisted enum checks into gin's request
// binding so an unknown transactionType or movementType fails at bind time.
func registerEnumValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("transactiontype", func(fl validator.FieldLevel) bool {
		return domain.TransactionType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("movementtype", func(fl validator.FieldLevel) bool {
		return domain.MovementType(fl.Field().String()).IsValid()
	})
}
