package fulfillment_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/order-tracker/internal/console"
	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/report"
	"github.com/vladislavdragonenkov/order-tracker/internal/service/fulfillment"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/memory"
)

func loggerForTests() *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger.WithField("component", "test")
}

func threeOrders() []domain.Order {
	return []domain.Order{
		{ID: "A1", Customer: "Bob", Items: []domain.Item{{Name: "Tea", Price: 30, Quantity: 2}}},
		{ID: "B2", Customer: "Carol", Items: []domain.Item{{Name: "Pie", Price: 45, Quantity: 1}}},
		{ID: "C3", Customer: "Dave", Items: []domain.Item{{Name: "Soup", Price: 80, Quantity: 3}}},
	}
}

type fixture struct {
	service *fulfillment.Service
	store   domain.CollectionStore
	out     *bytes.Buffer
}

func newFixture(t *testing.T, store domain.CollectionStore, input string, pending, completed []domain.Order) fixture {
	t.Helper()
	ctx := context.Background()
	if store == nil {
		store = memory.NewCollectionStore()
	}
	require.NoError(t, store.Save(ctx, domain.CollectionPending, pending))
	require.NoError(t, store.Save(ctx, domain.CollectionCompleted, completed))

	out := &bytes.Buffer{}
	c := console.New(strings.NewReader(input), out)
	return fixture{
		service: fulfillment.NewService(c, store, nil, nil, loggerForTests()),
		store:   store,
		out:     out,
	}
}

func load(t *testing.T, store domain.CollectionStore, name domain.Collection) []domain.Order {
	t.Helper()
	orders, err := store.Load(context.Background(), name)
	require.NoError(t, err)
	return orders
}

func TestMove_RemovesExactlyOneAndPreservesOrder(t *testing.T) {
	pending := threeOrders()
	completed := []domain.Order{{ID: "Z9", Items: []domain.Item{{Name: "Old", Price: 1, Quantity: 1}}}}

	nextPending, nextCompleted, moved, err := fulfillment.Move(pending, completed, 1)
	require.NoError(t, err)

	require.Equal(t, "B2", moved.ID)
	require.Equal(t, []string{"A1", "C3"}, ids(nextPending))
	require.Equal(t, []string{"Z9", "B2"}, ids(nextCompleted))
	require.Equal(t, pending[1], nextCompleted[1])

	// Входные коллекции не тронуты.
	require.Equal(t, threeOrders(), pending)
	require.Len(t, completed, 1)
}

func TestMove_OutOfRange(t *testing.T) {
	_, _, _, err := fulfillment.Move(threeOrders(), nil, 3)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, _, _, err = fulfillment.Move(threeOrders(), nil, -1)
	require.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestFulfill_Scenario(t *testing.T) {
	pending := threeOrders()[:1]
	f := newFixture(t, nil, "1\n", pending, nil)

	result, err := f.service.Fulfill(context.Background(), load(t, f.store, domain.CollectionPending))
	require.NoError(t, err)
	require.Contains(t, result.Message, "A1")
	require.NotNil(t, result.Order)

	require.Empty(t, load(t, f.store, domain.CollectionPending))
	completed := load(t, f.store, domain.CollectionCompleted)
	require.Equal(t, pending, completed)

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, []domain.Order{*result.Order}, "", true))
	require.Contains(t, buf.String(), "Tea")
	require.Contains(t, buf.String(), "Total: 60")
}

func TestFulfill_CountsChangeByOne(t *testing.T) {
	f := newFixture(t, nil, "2\n", threeOrders(), threeOrders()[:1])

	_, err := f.service.Fulfill(context.Background(), load(t, f.store, domain.CollectionPending))
	require.NoError(t, err)

	require.Equal(t, []string{"A1", "C3"}, ids(load(t, f.store, domain.CollectionPending)))
	require.Equal(t, []string{"A1", "B2"}, ids(load(t, f.store, domain.CollectionCompleted)))
}

func TestFulfill_EmptyPending(t *testing.T) {
	f := newFixture(t, nil, "", nil, nil)

	result, err := f.service.Fulfill(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, fulfillment.MessageNothingPending, result.Message)
	require.Nil(t, result.Order)
	require.Empty(t, f.out.String())
}

func TestFulfill_CancelLeavesCollections(t *testing.T) {
	f := newFixture(t, nil, "\n", threeOrders(), nil)

	result, err := f.service.Fulfill(context.Background(), load(t, f.store, domain.CollectionPending))
	require.NoError(t, err)
	require.Equal(t, fulfillment.MessageCanceled, result.Message)
	require.Nil(t, result.Order)
	require.Equal(t, threeOrders(), load(t, f.store, domain.CollectionPending))
	require.Empty(t, load(t, f.store, domain.CollectionCompleted))
}

func TestFulfill_RepromptsOnInvalidSelection(t *testing.T) {
	f := newFixture(t, nil, "abc\n7\n0\n3\n", threeOrders(), nil)

	result, err := f.service.Fulfill(context.Background(), load(t, f.store, domain.CollectionPending))
	require.NoError(t, err)
	require.Equal(t, "C3", result.Order.ID)

	out := f.out.String()
	require.Contains(t, out, "1. Order ID: A1 - Customer: Bob")
	require.Contains(t, out, domain.ErrSelectionNotNumber.Error())
	require.Contains(t, out, domain.ErrSelectionOutOfRange.Error())
	require.Equal(t, 3, strings.Count(out, console.ErrorPrefix))
}

func TestFulfill_InputClosed(t *testing.T) {
	f := newFixture(t, nil, "abc\n", threeOrders(), nil)

	_, err := f.service.Fulfill(context.Background(), load(t, f.store, domain.CollectionPending))
	require.ErrorIs(t, err, console.ErrInputClosed)
	require.Equal(t, threeOrders(), load(t, f.store, domain.CollectionPending))
}

// atomicStore считает вызовы SaveAll поверх in-memory хранилища.
type atomicStore struct {
	domain.CollectionStore
	saveAllCalls int
	err          error
}

func (s *atomicStore) SaveAll(ctx context.Context, collections map[domain.Collection][]domain.Order) error {
	s.saveAllCalls++
	if s.err != nil {
		return s.err
	}
	for name, orders := range collections {
		if err := s.CollectionStore.Save(ctx, name, orders); err != nil {
			return err
		}
	}
	return nil
}

func TestFulfill_UsesAtomicStoreWhenAvailable(t *testing.T) {
	store := &atomicStore{CollectionStore: memory.NewCollectionStore()}
	f := newFixture(t, store, "1\n", threeOrders(), nil)

	_, err := f.service.Fulfill(context.Background(), threeOrders())
	require.NoError(t, err)
	require.Equal(t, 1, store.saveAllCalls)
	require.Equal(t, []string{"A1"}, ids(load(t, store, domain.CollectionCompleted)))
}

func TestFulfill_AtomicStoreFailure(t *testing.T) {
	store := &atomicStore{CollectionStore: memory.NewCollectionStore()}
	f := newFixture(t, store, "1\n", threeOrders(), nil)
	store.err = errors.New("tx aborted")

	_, err := f.service.Fulfill(context.Background(), threeOrders())
	require.Error(t, err)
	require.Equal(t, threeOrders(), load(t, store, domain.CollectionPending))
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, order := range orders {
		out = append(out, order.ID)
	}
	return out
}
