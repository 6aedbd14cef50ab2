// Package translation defines the boundary between the application core and
// the external services that translate vocabulary words. Providers are
// decorated with an in-process cache so repeated words do not reach the
// remote service.
package translation
