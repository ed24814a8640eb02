package nd

import (
	"github.com/sirupsen/logrus"

	"github.com/joshuapare/ndkit/db"
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/internal/logger"
)

// Options configures an engine. Nil fields take their package defaults.
type Options struct {
	DB     *db.Options
	Alloc  *alloc.Config
	Logger *logrus.Logger
}

// DefaultOptions returns the defaults of every layer.
func DefaultOptions() *Options {
	return &Options{
		DB:     db.DefaultOptions(),
		Alloc:  alloc.DefaultAllocatorConfig(),
		Logger: logger.L,
	}
}

func (o *Options) withDefaults() *Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.Logger != nil {
		out.Logger = o.Logger
	}
	if o.DB != nil {
		c := *o.DB
		out.DB = &c
	}
	if o.Alloc != nil {
		c := *o.Alloc
		out.Alloc = &c
	}
	if out.DB.Logger == nil || o.DB == nil {
		out.DB.Logger = out.Logger
	}
	if out.Alloc.Logger == nil || o.Alloc == nil {
		out.Alloc.Logger = out.Logger
	}
	return out
}
