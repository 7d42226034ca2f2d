package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/leebenson/conform"
)

var (
	valid Validator
	once  sync.Once
)

// Validator валидатор конфигураций. Инициализируется через NewValidator или Get
type Validator struct {
	validator *validator.Validate
}

// NewValidator конструктор валидатора Validator с зарегистрированными правилами
// namespace и regexp
func NewValidator() *Validator {
	v := Validator{
		validator: validator.New(),
	}

	rules := map[string]validator.Func{
		"namespace": validatorNamespace,
		"regexp":    validatorRegexp,
	}
	for tag, fn := range rules {
		if err := v.validator.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return &v
}

// Validate корректировка строк (conform) и валидация структуры
func (m *Validator) Validate(i interface{}) error {
	if err := conform.Strings(i); err != nil {
		return err
	}
	return m.validator.Struct(i)
}

// Get единожды инициализирует и возвращает валидатор
func Get() *Validator {
	once.Do(func() {
		valid = *NewValidator()
	})
	return &valid
}
