package tool

import "strings"

// Tag формирует тег метрики в формате "ключ:значение"
func Tag(key, value string) string {
	return key + ":" + value
}

// SplitTag разбивает тег "ключ:значение" по первому двоеточию. Если двоеточия нет,
// весь тег считается ключом с пустым значением
func SplitTag(tag string) (key, value string) {
	idx := strings.Index(tag, ":")
	if idx < 0 {
		return tag, ""
	}
	return tag[:idx], tag[idx+1:]
}
