package utils

import (
	"fmt"
	"regexp"
)

// validator.go - валидация входных данных
//
// Назначение:
// Проверка корректности параметров запросов до обращения к бирже.
// Ошибка валидации означает, что запрос к бирже не выполняется вовсе.

// symbolPattern описывает формат инструмента GRVT: BTC_USDT_Perp
var symbolPattern = regexp.MustCompile(`^[A-Z0-9]+_[A-Z0-9]+_[A-Za-z]+$`)

// ValidateSymbol проверяет формат символа инструмента
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %q", symbol)
	}
	return nil
}

// ClampLimit приводит limit к диапазону [1, max]
//
// Нулевой или отрицательный limit заменяется на def,
// превышение max обрезается до max.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
