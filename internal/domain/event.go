package domain

import "time"

// ChangeKind identifica una mutación del diario.
type ChangeKind string

const (
	DailyLogCreated ChangeKind = "daily_log.created"
	DailyLogUpdated ChangeKind = "daily_log.updated"
	DailyLogDeleted ChangeKind = "daily_log.deleted"
	TradeCreated    ChangeKind = "trade.created"
	TradeUpdated    ChangeKind = "trade.updated"
	TradeDeleted    ChangeKind = "trade.deleted"
)

// ChangeEvent se emite tras cada mutación confirmada para que las vistas
// derivadas (analytics) sepan que su cache quedó obsoleta.
type ChangeEvent struct {
	Kind       ChangeKind
	DailyLogID string
	TradeID    string // vacío en eventos de daily log
	At         time.Time
}
