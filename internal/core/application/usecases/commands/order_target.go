package commands

import (
	"errors"

	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/guard"
)

// orderTarget is the part shared by every command that acts on one existing
// order: which order, and who is acting.
type orderTarget struct {
	number order.Number
	actor  kernel.Actor

	guard guard.ConstructorGuard
}

func newOrderTarget(number string, actor kernel.Actor) (orderTarget, error) {
	t := orderTarget{guard: guard.NewConstructorGuard()}
	if err := errors.Join(t.setNumber(number), t.setActor(actor)); err != nil {
		return orderTarget{}, err
	}
	return t, nil
}

// Number returns the order the command acts on.
func (t orderTarget) Number() order.Number {
	return t.number
}

// Actor returns who issued the command.
func (t orderTarget) Actor() kernel.Actor {
	return t.actor
}

func (t *orderTarget) setNumber(number string) error {
	n, err := order.ParseNumber(number)
	if err != nil {
		return err
	}
	t.number = n
	return nil
}

func (t *orderTarget) setActor(actor kernel.Actor) error {
	if err := actor.Role.Validate(); err != nil {
		return err
	}
	t.actor = actor
	return nil
}
