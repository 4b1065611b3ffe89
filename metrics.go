package microioc

import (
	"time"
)

type ResolveHook func(key string, duration time.Duration, err error)

type RegisterHook func(key string)

type DisposeHook func(key string, err error)
