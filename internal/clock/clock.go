package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type System struct{}

func (System) Now() time.Time {
	return time.Now()
}

var Module = fx.Module("clock",
	fx.Provide(func() Clock { return System{} }),
)
