package sweep_expired

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HSM-AppointmentService/internal/domain"
	"github.com/m04kA/HSM-AppointmentService/pkg/ptr"
)

// Фиксированное "сейчас": понедельник 13 октября 2025, 12:00 UTC
var testNow = time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

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
	expired []*domain.Appointment
	deleted int64

	listCalls   int
	deleteCalls int
	lastFilter  domain.ExpiredAppointmentsFilter
}

func (r *fakeAppointmentRepo) ListExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) ([]*domain.Appointment, error) {
	r.listCalls++
	r.lastFilter = filter
	return r.expired, nil
}

func (r *fakeAppointmentRepo) DeleteExpired(ctx context.Context, filter domain.ExpiredAppointmentsFilter) (int64, error) {
	r.deleteCalls++
	r.lastFilter = filter
	return r.deleted, nil
}

func newTestUseCase(repo *fakeAppointmentRepo, defaultThreshold int) *UseCase {
	uc := NewUseCase(repo, defaultThreshold, &nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: testNow}
	return uc
}

func expiredAppointments() []*domain.Appointment {
	expiredAt := testNow.Add(-time.Hour)
	return []*domain.Appointment{
		{ID: 101, ConsumerID: 1, ServiceID: 10, ServiceTitle: "Уборка квартиры", ExpiresAt: &expiredAt},
		{ID: 102, ConsumerID: 2, ServiceID: 11, ServiceTitle: "Мытье окон", ExpiresAt: &expiredAt},
	}
}

func TestUseCase_Execute_DryRun(t *testing.T) {
	repo := &fakeAppointmentRepo{expired: expiredAppointments()}
	uc := newTestUseCase(repo, 30)

	resp, err := uc.Execute(context.Background(), &Request{DryRun: true})
	require.NoError(t, err)

	assert.True(t, resp.DryRun)
	assert.Equal(t, 30, resp.ThresholdMinutes)
	assert.Equal(t, testNow.Add(-30*time.Minute), resp.CutoffTime)
	assert.Equal(t, int64(0), resp.DeletedCount)
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, int64(101), resp.Candidates[0].ID)
	assert.Equal(t, int64(1), resp.Candidates[0].ConsumerID)
	assert.Equal(t, "Уборка квартиры", resp.Candidates[0].ServiceTitle)
	assert.Equal(t, testNow.Add(-time.Hour), resp.Candidates[0].ExpiresAt)

	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 0, repo.deleteCalls, "dry-run ничего не удаляет")
	assert.Equal(t, testNow.Add(-30*time.Minute), repo.lastFilter.ExpiredBefore)
}

func TestUseCase_Execute_RealRun(t *testing.T) {
	repo := &fakeAppointmentRepo{deleted: 5}
	uc := newTestUseCase(repo, 30)

	resp, err := uc.Execute(context.Background(), &Request{DryRun: false})
	require.NoError(t, err)

	assert.False(t, resp.DryRun)
	assert.Equal(t, int64(5), resp.DeletedCount)
	assert.Empty(t, resp.Candidates)

	assert.Equal(t, 0, repo.listCalls)
	assert.Equal(t, 1, repo.deleteCalls)
	assert.Equal(t, testNow.Add(-30*time.Minute), repo.lastFilter.ExpiredBefore)
}

func TestUseCase_Execute_ThresholdOverride(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := newTestUseCase(repo, 30)

	resp, err := uc.Execute(context.Background(), &Request{DryRun: false, ThresholdMinutes: ptr.Ptr(120)})
	require.NoError(t, err)

	assert.Equal(t, 120, resp.ThresholdMinutes)
	assert.Equal(t, testNow.Add(-2*time.Hour), resp.CutoffTime)
	assert.Equal(t, testNow.Add(-2*time.Hour), repo.lastFilter.ExpiredBefore)
}

func TestUseCase_Execute_InvalidThreshold(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	uc := newTestUseCase(repo, 30)

	for _, threshold := range []int{0, -10} {
		_, err := uc.Execute(context.Background(), &Request{ThresholdMinutes: ptr.Ptr(threshold)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
	assert.Equal(t, 0, repo.listCalls)
	assert.Equal(t, 0, repo.deleteCalls)
}

func TestNewUseCase_DefaultThresholdFallback(t *testing.T) {
	// Нулевая конфигурация откатывается на дефолт домена
	repo := &fakeAppointmentRepo{}
	uc := newTestUseCase(repo, 0)

	resp, err := uc.Execute(context.Background(), &Request{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSweepThresholdMinutes, resp.ThresholdMinutes)
}
