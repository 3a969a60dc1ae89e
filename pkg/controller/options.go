package controller

import (
	"github.com/goliatone/go-churnform/internal/logger"
	"github.com/goliatone/go-churnform/pkg/presenter"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger routes controller logs through log.
func WithLogger(log *logger.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPresenter replaces the default presenter.
func WithPresenter(p *presenter.Presenter) Option {
	return func(c *Controller) {
		if p != nil {
			c.presenter = p
		}
	}
}
