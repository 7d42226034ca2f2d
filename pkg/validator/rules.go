package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var namespaceRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)*$`)

// Пространство имён метрик: идентификаторы, разделённые точками ("custom", "host.temp")
func validatorNamespace(fl validator.FieldLevel) bool {
	ns, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return namespaceRe.MatchString(ns)
}

// Строка должна компилироваться как регулярное выражение
func validatorRegexp(fl validator.FieldLevel) bool {
	expr, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := regexp.Compile(expr)
	return err == nil
}
