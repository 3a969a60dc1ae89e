// Package template defines the rendering seam used by the result presenter.
// Concrete engines live in subpackages.
package template
