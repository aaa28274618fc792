package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter builds the shared engine with the custom binding rules installed
func NewRouter() *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// registerValidations plugs domain rules into gin's validator engine
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("decimalgt0", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.GreaterThan(decimal.Zero)
	})
}
