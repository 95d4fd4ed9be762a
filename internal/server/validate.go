package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/IRASUBIZA-SALY-NELSON/isacars-sub000/internal/ride"
)

// registerValidators добавляет доменные правила к gin binding.
// Тег vehicleclass отклоняет неизвестный класс еще на входе.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("vehicleclass", func(fl validator.FieldLevel) bool {
		return ride.ValidVehicleClass(fl.Field().String())
	})
}
