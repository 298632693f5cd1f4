package models

import "github.com/shopspring/decimal"

// RiskSummary - нормализованное представление риск-параметров аккаунта,
// спроецированное из сырой сводки биржи.
//
// Поля nil, если биржа не прислала соответствующее значение:
// сводка информационная, частичные данные допустимы.
type RiskSummary struct {
	MaintenanceMargin *decimal.Decimal `json:"maintenance_margin"`
	DeriskMargin      *decimal.Decimal `json:"derisk_margin"`
	DeriskRatio       *decimal.Decimal `json:"derisk_ratio"`
}
