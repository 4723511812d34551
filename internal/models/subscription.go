package models

import "time"

// Subscription — чат или канал, в который бот регулярно шлёт сигналы.
// Quiet: без служебных сообщений ("ищу дальше", ошибки), только сами сигналы.
// Owner — чат, из которого расписание запустили; только он может его остановить.
type Subscription struct {
	Target    ChatTarget
	Quiet     bool
	Owner     ChatTarget
	CreatedAt time.Time
}
