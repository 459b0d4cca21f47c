//go:build tools

package tools

// Mocks are generated by mockery v3 from .mockery.yaml, used as an installed
// binary rather than through a blank import. Run mockery from the module root
// to regenerate pkg/fault/mocks.
