package utils

import (
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Конвертация timestamp между единицами измерения, используемыми
// клиентами шлюза (миллисекунды) и биржей GRVT (наносекунды).

const nanosPerMilli = 1_000_000

// MillisToNanos конвертирует Unix timestamp из миллисекунд в наносекунды.
//
// GRVT принимает параметр since в наносекундах, клиенты шлюза передают
// start_time в миллисекундах.
//
// Пример:
//
//	MillisToNanos(1_700_000_000_000) // 1_700_000_000_000_000_000
func MillisToNanos(ms int64) int64 {
	return ms * nanosPerMilli
}

// NanosToMillis конвертирует Unix timestamp из наносекунд в миллисекунды
func NanosToMillis(ns int64) int64 {
	return ns / nanosPerMilli
}

// UnixMillis возвращает текущее время в миллисекундах Unix
func UnixMillis() int64 {
	return time.Now().UnixMilli()
}

// UnixNanos возвращает текущее время в наносекундах Unix
func UnixNanos() int64 {
	return time.Now().UnixNano()
}

// FromUnixMillis конвертирует миллисекунды Unix в time.Time
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// FromUnixNanos конвертирует наносекунды Unix в time.Time
func FromUnixNanos(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
