package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearline-hq/clearline/modules/kpi/domain/aggregates/event"
	"github.com/clearline-hq/clearline/modules/kpi/services"
	"github.com/clearline-hq/clearline/pkg/eventbus"
	"github.com/clearline-hq/clearline/pkg/itf"
)

type eventFixture struct {
	tenantID uuid.UUID
	repo     *fakeEventRepo
	bus      eventbus.EventBus
	svc      *services.EventService
}

func newEventFixture() *eventFixture {
	f := &eventFixture{
		tenantID: uuid.New(),
		repo:     newFakeEventRepo(),
		bus:      eventbus.NewEventPublisher(logrus.New()),
	}
	f.svc = services.NewEventService(f.repo, f.bus)
	return f
}

func TestEventService_Create(t *testing.T) {
	t.Parallel()

	f := newEventFixture()
	ctx := itf.TenantContext(f.tenantID)

	var published []event.CreatedEvent
	f.bus.Subscribe(func(e event.CreatedEvent) {
		published = append(published, e)
	})

	created, err := f.svc.Create(ctx, &event.CreateDTO{
		CompanyID:  uuid.New(),
		Code:       "FY26",
		Name:       "FY2026 plan",
		FiscalYear: 2026,
	})
	require.NoError(t, err)
	assert.Equal(t, event.StatusDraft, created.Status())
	require.Len(t, published, 1)
	assert.Equal(t, created.ID(), published[0].Result.ID())
}

func TestEventService_Create_DuplicateCode(t *testing.T) {
	t.Parallel()

	f := newEventFixture()
	ctx := itf.TenantContext(f.tenantID)
	companyID := uuid.New()

	dto := &event.CreateDTO{CompanyID: companyID, Code: "FY26", Name: "plan", FiscalYear: 2026}
	_, err := f.svc.Create(ctx, dto)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, &event.CreateDTO{CompanyID: companyID, Code: "FY26", Name: "other", FiscalYear: 2026})
	assert.ErrorIs(t, err, event.ErrDuplicateCode)
}

func TestEventService_Confirm_PublishesOnce(t *testing.T) {
	t.Parallel()

	f := newEventFixture()
	ctx := itf.TenantContext(f.tenantID)
	ev := f.repo.seed(event.New(f.tenantID, uuid.New(), "FY26", "plan", 2026))

	var confirmations int
	f.bus.Subscribe(func(e event.ConfirmedEvent) {
		confirmations++
	})

	first, err := f.svc.Confirm(ctx, ev.ID())
	require.NoError(t, err)
	assert.True(t, first.IsConfirmed())

	second, err := f.svc.Confirm(ctx, ev.ID())
	require.NoError(t, err)
	assert.True(t, second.IsConfirmed())

	assert.Equal(t, 1, confirmations)
}

func TestEventService_Confirm_UnknownEvent(t *testing.T) {
	t.Parallel()

	f := newEventFixture()
	ctx := itf.TenantContext(f.tenantID)

	_, err := f.svc.Confirm(ctx, uuid.New())
	assert.ErrorIs(t, err, event.ErrNotFound)
}
