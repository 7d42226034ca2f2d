package tool

// Float возвращает указатель на копию v. Используется для необязательных значений
func Float(v float64) *float64 {
	return &v
}

// FloatEqual сравнивает два необязательных значения
func FloatEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
