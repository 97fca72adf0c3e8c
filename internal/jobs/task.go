package jobs

import (
	"context"

	"github.com/robfig/cron/v3"
)

// Task is a unit of scheduled work. The same task can be run by the
// scheduler, the CLI or a test.
type Task interface {
	Name() string
	Spec() string
	Run(ctx context.Context) error
}

// ValidateSpec reports whether spec is a schedule the manager accepts.
func ValidateSpec(spec string) error {
	_, err := cron.ParseStandard(spec)
	return err
}
