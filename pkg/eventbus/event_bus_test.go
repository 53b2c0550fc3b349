package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/clearline-hq/clearline/pkg/eventbus"
)

type testEvent struct {
	Name string
}

type otherEvent struct {
	Name string
}

func TestPublish_DispatchesByType(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())

	var got []string
	bus.Subscribe(func(e testEvent) {
		got = append(got, e.Name)
	})
	bus.Subscribe(func(e otherEvent) {
		t.Errorf("unexpected dispatch of %v", e)
	})

	bus.Publish(testEvent{Name: "confirmed"})

	assert.Equal(t, []string{"confirmed"}, got)
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())
	bus.Subscribe(func(e testEvent) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		bus.Publish(testEvent{Name: "x"})
	})
}

func TestSubscribersCount(t *testing.T) {
	t.Parallel()

	bus := eventbus.NewEventPublisher(logrus.New())
	assert.Equal(t, 0, bus.SubscribersCount())

	bus.Subscribe(func(e testEvent) {})
	bus.Subscribe(func(e otherEvent) {})
	assert.Equal(t, 2, bus.SubscribersCount())

	bus.Clear()
	assert.Equal(t, 0, bus.SubscribersCount())
}
