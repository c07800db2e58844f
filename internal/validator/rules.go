package validator

import (
	"log"

	"rent4u_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules wires the domain enum checks into the validator
// instance. Empty values pass; 'required' handles presence separately.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-property-type", validatePropertyType)
	mustRegister("is-payment-method", validatePaymentMethod)
	mustRegister("is-sort-key", validateSortKey)
}

func validatePropertyType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PropertyType(value) {
	case models.PropertyTypeApartment, models.PropertyTypeHouse, models.PropertyTypeRoom,
		models.PropertyTypeStudio, models.PropertyTypeCommercial:
		return true
	default:
		return false
	}
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PaymentMethod(value) {
	case models.PaymentMethodCreditCard, models.PaymentMethodBankTransfer, models.PaymentMethodPayPal:
		return true
	default:
		return false
	}
}

func validateSortKey(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "price", "date", "rating":
		return true
	default:
		return false
	}
}
