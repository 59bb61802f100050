package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-tracker/internal/console"
	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/metrics"
	"github.com/vladislavdragonenkov/order-tracker/internal/report"
	"github.com/vladislavdragonenkov/order-tracker/internal/service/fulfillment"
	"github.com/vladislavdragonenkov/order-tracker/internal/service/orders"
)

const promptMenu = "Choose an option (Enter to quit): "

type state int

const (
	stateMenu state = iota
	stateExit
)

// Controller — цикл главного меню.
// Коллекция pending не держится между итерациями: каждое действие перечитывает её из хранилища.
type Controller struct {
	console     *console.Console
	store       domain.CollectionStore
	orders      *orders.Service
	fulfillment *fulfillment.Service
	metrics     *metrics.OrderMetrics
	logger      *log.Entry
}

// NewController собирает меню поверх консоли и хранилища.
func NewController(
	c *console.Console,
	store domain.CollectionStore,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Controller {
	if logger == nil {
		logger = log.WithField("component", "menu")
	}
	return &Controller{
		console:     c,
		store:       store,
		orders:      orders.NewService(orders.NewBuilder(c, m), store, publisher, m, logger.WithField("layer", "orders")),
		fulfillment: fulfillment.NewService(c, store, publisher, m, logger.WithField("layer", "fulfillment")),
		metrics:     m,
		logger:      logger,
	}
}

// Run крутит меню до выбора выхода, конца ввода или отмены ctx.
// Ошибки пользователя печатаются и цикл продолжается; ошибки хранилища возвращаются.
func (c *Controller) Run(ctx context.Context) error {
	for st := stateMenu; st != stateExit; {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()
		raw, err := c.console.Ask(ctx, promptMenu)
		if err != nil {
			switch {
			case errors.Is(err, console.ErrInputClosed):
				c.console.Println()
				return nil
			case domain.IsValidationError(err):
				c.metrics.RecordInputRejected("menu")
				c.console.Error(err)
				continue
			default:
				return err
			}
		}

		choice, err := domain.ValidateMenuChoice(raw)
		if err != nil {
			c.metrics.RecordInputRejected("menu")
			c.console.Error(err)
			continue
		}

		st, err = c.dispatch(ctx, choice)
		if err != nil {
			switch {
			case errors.Is(err, console.ErrInputClosed):
				c.console.Println()
				return nil
			case domain.IsUserError(err):
				c.console.Error(err)
			default:
				return err
			}
		}
	}

	return nil
}

func (c *Controller) dispatch(ctx context.Context, choice domain.MenuChoice) (state, error) {
	if choice == domain.MenuQuit {
		return stateExit, nil
	}

	pending, err := c.loadPending(ctx)
	if err != nil {
		return stateMenu, err
	}

	switch choice {
	case domain.MenuAddOrder:
		result, err := c.orders.Add(ctx, pending)
		if err != nil {
			return stateMenu, err
		}
		c.console.Println(result.Message)
	case domain.MenuReport:
		if err := report.Render(c.console.Out(), pending, report.DefaultTitle, false); err != nil {
			return stateMenu, err
		}
	case domain.MenuFulfill:
		result, err := c.fulfillment.Fulfill(ctx, pending)
		if err != nil {
			return stateMenu, err
		}
		c.console.Println(result.Message)
		if result.Order != nil {
			c.console.Println()
			c.console.Println("Fulfilled order details:")
			if err := report.Render(c.console.Out(), []domain.Order{*result.Order}, "", true); err != nil {
				return stateMenu, err
			}
		}
	}

	return stateMenu, nil
}

func (c *Controller) loadPending(ctx context.Context) ([]domain.Order, error) {
	started := time.Now()
	pending, err := c.store.Load(ctx, domain.CollectionPending)
	if err != nil {
		c.logger.WithError(err).Error("failed to load pending orders")
		return nil, fmt.Errorf("load pending orders: %w", err)
	}
	c.metrics.RecordStoreDuration("load", string(domain.CollectionPending), time.Since(started))
	c.metrics.SetPendingOrders(len(pending))
	return pending, nil
}

func (c *Controller) printMenu() {
	c.console.Println()
	c.console.Println("*************** MENU ***************")
	c.console.Println("1. Add order")
	c.console.Println("2. Print order report")
	c.console.Println("3. Fulfill order")
	c.console.Println("4. Quit")
	c.console.Println("************************************")
}
