package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/internal/integrations/identityservice"
	"github.com/m04kA/HSM-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/HSM-AppointmentService/pkg/types"
)

// Фиксированное "сейчас": понедельник 13 октября 2025, 12:00 UTC
var testNow = time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

const (
	consumerID   = int64(1)
	providerID   = int64(5)
	managementID = int64(50)
	strangerID   = int64(99)
)

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, v ...interface{})  {}
func (l *nopLogger) Warn(format string, v ...interface{})  {}
func (l *nopLogger) Error(format string, v ...interface{}) {}

type fakeAppointmentRepo struct {
	appt   *domain.Appointment
	getErr error

	consumerFilter *domain.ConsumerAppointmentsFilter
	providerFilter *domain.ProviderAppointmentsFilter

	updateStatusCalls int
	updatedStatus     domain.AppointmentStatus
	cancelCalls       int
	cancelNotes       *string
	markPaidCalls     int
	paidReference     *string
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.appt, nil
}

func (r *fakeAppointmentRepo) GetByConsumer(ctx context.Context, filter domain.ConsumerAppointmentsFilter) ([]*domain.Appointment, error) {
	r.consumerFilter = &filter
	return []*domain.Appointment{r.appt}, nil
}

func (r *fakeAppointmentRepo) GetByProvider(ctx context.Context, filter domain.ProviderAppointmentsFilter) ([]*domain.Appointment, error) {
	r.providerFilter = &filter
	return []*domain.Appointment{r.appt}, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, notes *string) error {
	r.updateStatusCalls++
	r.updatedStatus = status
	return nil
}

func (r *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, notes *string) error {
	r.cancelCalls++
	r.cancelNotes = notes
	return nil
}

func (r *fakeAppointmentRepo) MarkPaid(ctx context.Context, id int64, paymentReference *string) error {
	r.markPaidCalls++
	r.paidReference = paymentReference
	if r.appt != nil {
		paid := *r.appt
		paid.PaymentCompleted = true
		paid.IsTemporary = false
		paid.Status = domain.StatusPending
		paid.PaymentReference = paymentReference
		r.appt = &paid
	}
	return nil
}

type fakeIdentityClient struct {
	users map[int64]*identityservice.User
}

func (c *fakeIdentityClient) GetUser(ctx context.Context, userID int64) (*identityservice.User, error) {
	if u, ok := c.users[userID]; ok {
		return u, nil
	}
	return nil, identityservice.ErrUserNotFound
}

type fakeTxManager struct{}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeAppointmentRepo) *Service {
	identity := &fakeIdentityClient{users: map[int64]*identityservice.User{
		consumerID:   {ID: consumerID, Role: identityservice.RoleConsumer},
		providerID:   {ID: providerID, Role: identityservice.RoleProvider},
		managementID: {ID: managementID, Role: identityservice.RoleManagement},
		strangerID:   {ID: strangerID, Role: identityservice.RoleConsumer},
	}}
	svc := NewService(repo, identity, &fakeTxManager{}, &nopLogger{})
	svc.timeProvider = &fixedTimeProvider{now: testNow}
	return svc
}

func appointmentWithStatus(status domain.AppointmentStatus) *domain.Appointment {
	appt := &domain.Appointment{
		ID:              101,
		ConsumerID:      consumerID,
		ProviderID:      providerID,
		ServiceID:       10,
		AppointmentDate: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
		AppointmentTime: types.TimeString("10:00"),
		Status:          status,
		ServiceTitle:    "Уборка квартиры",
		ServicePrice:    120.50,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	if status == domain.StatusTemporary {
		expiresAt := testNow.Add(15 * time.Minute)
		appt.IsTemporary = true
		appt.ExpiresAt = &expiresAt
	}
	return appt
}

func TestService_GetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "клиент записи", userID: consumerID},
		{name: "исполнитель записи", userID: providerID},
		{name: "management", userID: managementID},
		{name: "посторонний", userID: strangerID, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusPending)})

			resp, err := svc.GetByID(context.Background(), 101, tt.userID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(101), resp.ID)
			assert.Equal(t, "2025-10-14", resp.AppointmentDate)
			assert.Equal(t, "10:00", resp.AppointmentTime)
		})
	}
}

func TestService_GetByID_ExpiryFields(t *testing.T) {
	t.Run("временная бронь отдает остаток окна", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusTemporary)})

		resp, err := svc.GetByID(context.Background(), 101, consumerID)
		require.NoError(t, err)

		assert.False(t, resp.IsExpired)
		require.NotNil(t, resp.TimeUntilExpirySeconds)
		assert.Equal(t, int64(15*60), *resp.TimeUntilExpirySeconds)
	})

	t.Run("истекший холд помечен isExpired", func(t *testing.T) {
		appt := appointmentWithStatus(domain.StatusTemporary)
		expired := testNow.Add(-time.Minute)
		appt.ExpiresAt = &expired
		svc := newTestService(&fakeAppointmentRepo{appt: appt})

		resp, err := svc.GetByID(context.Background(), 101, consumerID)
		require.NoError(t, err)

		assert.True(t, resp.IsExpired)
		require.NotNil(t, resp.TimeUntilExpirySeconds)
		assert.Equal(t, int64(0), *resp.TimeUntilExpirySeconds)
	})

	t.Run("обычная запись без окна холда", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)})

		resp, err := svc.GetByID(context.Background(), 101, consumerID)
		require.NoError(t, err)

		assert.False(t, resp.IsExpired)
		assert.Nil(t, resp.TimeUntilExpirySeconds)
	})
}

func TestService_GetConsumerAppointments(t *testing.T) {
	t.Run("клиент видит свою историю", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)}
		svc := newTestService(repo)

		resp, err := svc.GetConsumerAppointments(context.Background(), &models.GetConsumerAppointmentsRequest{
			CallerID:   consumerID,
			ConsumerID: consumerID,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
		require.NotNil(t, repo.consumerFilter)
		assert.False(t, repo.consumerFilter.IncludeTemporary, "временные брони по умолчанию скрыты")
	})

	t.Run("includeTemporary пробрасывается в фильтр", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusTemporary)}
		svc := newTestService(repo)

		_, err := svc.GetConsumerAppointments(context.Background(), &models.GetConsumerAppointmentsRequest{
			CallerID:         consumerID,
			ConsumerID:       consumerID,
			IncludeTemporary: true,
		})
		require.NoError(t, err)
		assert.True(t, repo.consumerFilter.IncludeTemporary)
	})

	t.Run("management видит чужую историю", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)})

		_, err := svc.GetConsumerAppointments(context.Background(), &models.GetConsumerAppointmentsRequest{
			CallerID:   managementID,
			ConsumerID: consumerID,
		})
		assert.NoError(t, err)
	})

	t.Run("посторонний не видит чужую историю", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)})

		_, err := svc.GetConsumerAppointments(context.Background(), &models.GetConsumerAppointmentsRequest{
			CallerID:   strangerID,
			ConsumerID: consumerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("некорректный статус в фильтре", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)})

		bad := "unknown"
		_, err := svc.GetConsumerAppointments(context.Background(), &models.GetConsumerAppointmentsRequest{
			CallerID:   consumerID,
			ConsumerID: consumerID,
			Status:     &bad,
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_GetProviderAppointments(t *testing.T) {
	t.Run("исполнитель видит свое расписание с фильтром по дате", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)}
		svc := newTestService(repo)

		date := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
		resp, err := svc.GetProviderAppointments(context.Background(), &models.GetProviderAppointmentsRequest{
			CallerID:   providerID,
			ProviderID: providerID,
			Date:       &date,
		})
		require.NoError(t, err)
		assert.Len(t, resp.Appointments, 1)
		require.NotNil(t, repo.providerFilter)
		require.NotNil(t, repo.providerFilter.Date)
		assert.Equal(t, date, *repo.providerFilter.Date)
	})

	t.Run("посторонний не видит чужое расписание", func(t *testing.T) {
		svc := newTestService(&fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusConfirmed)})

		_, err := svc.GetProviderAppointments(context.Background(), &models.GetProviderAppointmentsRequest{
			CallerID:   strangerID,
			ProviderID: providerID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})
}

func TestService_Cancel(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.AppointmentStatus
		userID  int64
		wantErr error
	}{
		{name: "клиент отменяет временную бронь", status: domain.StatusTemporary, userID: consumerID},
		{name: "клиент отменяет pending", status: domain.StatusPending, userID: consumerID},
		{name: "клиент отменяет confirmed", status: domain.StatusConfirmed, userID: consumerID},
		{name: "клиент не может отменить завершенную", status: domain.StatusCompleted, userID: consumerID, wantErr: ErrCannotCancel},
		{name: "исполнитель не может отменить временную бронь", status: domain.StatusTemporary, userID: providerID, wantErr: ErrCannotCancel},
		{name: "исполнитель отменяет pending", status: domain.StatusPending, userID: providerID},
		{name: "исполнитель отменяет confirmed", status: domain.StatusConfirmed, userID: providerID},
		{name: "management отменяет нетерминальную", status: domain.StatusPending, userID: managementID},
		{name: "management не может отменить отмененную", status: domain.StatusCancelled, userID: managementID, wantErr: ErrCannotCancel},
		{name: "посторонний не может отменить", status: domain.StatusPending, userID: strangerID, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAppointmentRepo{appt: appointmentWithStatus(tt.status)}
			svc := newTestService(repo)

			reason := "изменились планы"
			err := svc.Cancel(context.Background(), 101, &models.CancelAppointmentRequest{
				UserID: tt.userID,
				Reason: &reason,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, repo.cancelCalls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, repo.cancelCalls)
			require.NotNil(t, repo.cancelNotes)
			assert.Equal(t, reason, *repo.cancelNotes)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		userID  int64
		wantErr error
	}{
		{name: "pending -> confirmed", from: domain.StatusPending, to: "confirmed", userID: providerID},
		{name: "pending -> cancelled", from: domain.StatusPending, to: "cancelled", userID: providerID},
		{name: "confirmed -> completed", from: domain.StatusConfirmed, to: "completed", userID: providerID},
		{name: "confirmed -> cancelled", from: domain.StatusConfirmed, to: "cancelled", userID: providerID},
		{name: "pending -> completed запрещен", from: domain.StatusPending, to: "completed", userID: providerID, wantErr: ErrInvalidTransition},
		{name: "completed терминален", from: domain.StatusCompleted, to: "confirmed", userID: providerID, wantErr: ErrInvalidTransition},
		{name: "временная бронь управляется оплатой, не исполнителем", from: domain.StatusTemporary, to: "confirmed", userID: providerID, wantErr: ErrInvalidTransition},
		{name: "неизвестный статус", from: domain.StatusPending, to: "archived", userID: providerID, wantErr: ErrInvalidStatus},
		{name: "клиент не управляет статусом", from: domain.StatusPending, to: "confirmed", userID: consumerID, wantErr: ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAppointmentRepo{appt: appointmentWithStatus(tt.from)}
			svc := newTestService(repo)

			err := svc.UpdateStatus(context.Background(), 101, &models.UpdateStatusRequest{
				UserID: tt.userID,
				Status: tt.to,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, repo.updateStatusCalls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, repo.updateStatusCalls)
			assert.Equal(t, domain.AppointmentStatus(tt.to), repo.updatedStatus)
		})
	}
}

func TestService_MarkPaid(t *testing.T) {
	reference := "simulated_9f36b6a0-0000-0000-0000-000000000000"

	t.Run("успешная оплата временной брони", func(t *testing.T) {
		repo := &fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusTemporary)}
		svc := newTestService(repo)

		resp, err := svc.MarkPaid(context.Background(), 101, &models.MarkPaidRequest{
			UserID:           consumerID,
			PaymentReference: &reference,
		})
		require.NoError(t, err)

		assert.Equal(t, 1, repo.markPaidCalls)
		require.NotNil(t, repo.paidReference)
		assert.Equal(t, reference, *repo.paidReference)

		// Ответ собирается из перечитанной записи
		assert.Equal(t, string(domain.StatusPending), resp.Status)
		assert.True(t, resp.PaymentCompleted)
		assert.False(t, resp.IsTemporary)
		require.NotNil(t, resp.PaymentReference)
		assert.Equal(t, reference, *resp.PaymentReference)
	})

	t.Run("гарды оплаты", func(t *testing.T) {
		tests := []struct {
			name    string
			appt    func() *domain.Appointment
			userID  int64
			wantErr error
		}{
			{
				name:    "чужая запись",
				appt:    func() *domain.Appointment { return appointmentWithStatus(domain.StatusTemporary) },
				userID:  strangerID,
				wantErr: ErrAccessDenied,
			},
			{
				name: "уже оплачена",
				appt: func() *domain.Appointment {
					a := appointmentWithStatus(domain.StatusTemporary)
					a.PaymentCompleted = true
					return a
				},
				userID:  consumerID,
				wantErr: ErrAlreadyPaid,
			},
			{
				name: "не временная",
				appt: func() *domain.Appointment {
					return appointmentWithStatus(domain.StatusPending)
				},
				userID:  consumerID,
				wantErr: ErrNotTemporary,
			},
			{
				name: "холд истек",
				appt: func() *domain.Appointment {
					a := appointmentWithStatus(domain.StatusTemporary)
					expired := testNow.Add(-time.Minute)
					a.ExpiresAt = &expired
					return a
				},
				userID:  consumerID,
				wantErr: ErrHoldExpired,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := &fakeAppointmentRepo{appt: tt.appt()}
				svc := newTestService(repo)

				_, err := svc.MarkPaid(context.Background(), 101, &models.MarkPaidRequest{
					UserID:           tt.userID,
					PaymentReference: &reference,
				})
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, repo.markPaidCalls)
			})
		}
	})

	t.Run("повторная оплата после успеха", func(t *testing.T) {
		// Монотонность mark-paid: второй вызов для той же записи падает
		repo := &fakeAppointmentRepo{appt: appointmentWithStatus(domain.StatusTemporary)}
		svc := newTestService(repo)

		_, err := svc.MarkPaid(context.Background(), 101, &models.MarkPaidRequest{UserID: consumerID, PaymentReference: &reference})
		require.NoError(t, err)

		_, err = svc.MarkPaid(context.Background(), 101, &models.MarkPaidRequest{UserID: consumerID, PaymentReference: &reference})
		assert.ErrorIs(t, err, ErrAlreadyPaid)
		assert.Equal(t, 1, repo.markPaidCalls)
	})
}
