package appointment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/HSM-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

var appointmentColumns = []string{
	"id",
	"consumer_id",
	"provider_id",
	"service_id",
	"appointment_date",
	"appointment_time",
	"status",
	"notes",
	"is_temporary",
	"expires_at",
	"payment_completed",
	"payment_reference",
	"service_title",
	"service_price",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на услуги
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись (временный холд)
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"consumer_id",
			"provider_id",
			"service_id",
			"appointment_date",
			"appointment_time",
			"status",
			"notes",
			"is_temporary",
			"expires_at",
			"payment_completed",
			"payment_reference",
			"service_title",
			"service_price",
		).
		Values(
			appt.ConsumerID,
			appt.ProviderID,
			appt.ServiceID,
			appt.AppointmentDate,
			appt.AppointmentTime,
			appt.Status,
			appt.Notes,
			appt.IsTemporary,
			appt.ExpiresAt,
			appt.PaymentCompleted,
			appt.PaymentReference,
			appt.ServiceTitle,
			appt.ServicePrice,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return appt, nil
}

// GetByID получает запись по ID
// Внутри транзакции строки блокируются через FOR UPDATE — это защита от гонки
// двойной оплаты: mark-paid перечитывает запись под блокировкой перед мутацией
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appt, nil
}

// GetByConsumer получает записи потребителя
// Неоплаченные временные холды скрыты, если не запрошены явно (IncludeTemporary)
func (r *Repository) GetByConsumer(ctx context.Context, filter domain.ConsumerAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"consumer_id": filter.ConsumerID}).
		OrderBy("appointment_date DESC, appointment_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	if !filter.IncludeTemporary {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"is_temporary": false},
			squirrel.Eq{"payment_completed": true},
		})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByConsumer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByConsumer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetByProvider получает записи провайдера
// Неоплаченные временные холды скрыты всегда
func (r *Repository) GetByProvider(ctx context.Context, filter domain.ProviderAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"provider_id": filter.ProviderID}).
		Where(squirrel.Or{
			squirrel.Eq{"is_temporary": false},
			squirrel.Eq{"payment_completed": true},
		}).
		OrderBy("appointment_date DESC, appointment_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": filter.Date.Format(domain.DateFormat)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProvider - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetOccupiedTimes возвращает занятые времена для услуги на дату
// Слот занимают только записи в статусах pending/confirmed — неоплаченные
// временные холды доступность не блокируют
func (r *Repository) GetOccupiedTimes(ctx context.Context, serviceID int64, date time.Time) ([]types.TimeString, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	occupyingStatusStrings := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		occupyingStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("appointment_time").
		From("appointments").
		Where(squirrel.Eq{"service_id": serviceID}).
		Where(squirrel.Eq{"appointment_date": date}).
		Where(squirrel.Eq{"status": occupyingStatusStrings}).
		OrderBy("appointment_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedTimes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedTimes - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	times := make([]types.TimeString, 0)
	for rows.Next() {
		var t types.TimeString
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("%w: GetOccupiedTimes - scan appointment_time: %v", ErrScanRow, err)
		}
		times = append(times, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetOccupiedTimes - rows error: %v", ErrScanRow, err)
	}

	return times, nil
}

// MarkPaid применяет переход оплаты: payment_completed=true, is_temporary=false,
// status=pending, expires_at=NULL, payment_reference (если передан)
// Вызывается только внутри транзакции после перечитывания записи под FOR UPDATE
func (r *Repository) MarkPaid(ctx context.Context, id int64, paymentReference *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("payment_completed", true).
		Set("is_temporary", false).
		Set("status", domain.StatusPending).
		Set("expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if paymentReference != nil {
		updateBuilder = updateBuilder.Set("payment_reference", *paymentReference)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "MarkPaid")
}

// Cancel переводит запись в терминальный статус cancelled (soft-переход)
// Окно холда снимается вместе с флагом is_temporary; заметки перезаписываются, если переданы
func (r *Repository) Cancel(ctx context.Context, id int64, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("is_temporary", false).
		Set("expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// UpdateStatus обновляет статус записи (переходы провайдера)
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, notes *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// ListExpired возвращает неоплаченные временные холды, протухшие раньше порога
// Используется свипером в режиме dry-run
func (r *Repository) ListExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"is_temporary": true}).
		Where(squirrel.Eq{"payment_completed": false}).
		Where(squirrel.Lt{"expires_at": filter.ExpiredBefore}).
		OrderBy("expires_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpired - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// DeleteExpired физически удаляет протухшие неоплаченные холды
// Единственное место жесткого удаления записей; все прочие терминальные
// переходы — смена статуса
func (r *Repository) DeleteExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("appointments").
		Where(squirrel.Eq{"is_temporary": true}).
		Where(squirrel.Eq{"payment_completed": false}).
		Where(squirrel.Lt{"expires_at": filter.ExpiredBefore}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// execExpectingRow выполняет update и маппит отсутствие строк в ErrAppointmentNotFound
func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var createdAt, updatedAt sql.NullTime
	var expiresAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.ConsumerID,
		&appt.ProviderID,
		&appt.ServiceID,
		&appt.AppointmentDate,
		&appt.AppointmentTime,
		&appt.Status,
		&appt.Notes,
		&appt.IsTemporary,
		&expiresAt,
		&appt.PaymentCompleted,
		&appt.PaymentReference,
		&appt.ServiceTitle,
		&appt.ServicePrice,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		appt.ExpiresAt = &expiresAt.Time
	}
	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс записей
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAppointments - scan row: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}
