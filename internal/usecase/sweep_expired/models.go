package sweep_expired

import "time"

// Request модель запроса на очистку просроченных временных записей
type Request struct {
	DryRun           bool // Только показать кандидатов, ничего не удалять
	ThresholdMinutes *int // Переопределение порога очистки (nil - значение из конфигурации)
}

// Response модель ответа очистки
type Response struct {
	DryRun           bool                 // Режим запуска
	ThresholdMinutes int                  // Использованный порог в минутах
	CutoffTime       time.Time            // Записи с expires_at раньше этого момента считаются просроченными
	DeletedCount     int64                // Количество удаленных записей (0 в режиме dry-run)
	Candidates       []ExpiredAppointment // Кандидаты на удаление (заполняется только в dry-run)
}

// ExpiredAppointment краткая информация о просроченной записи
type ExpiredAppointment struct {
	ID           int64
	ConsumerID   int64
	ServiceID    int64
	ServiceTitle string
	ExpiresAt    time.Time
}
