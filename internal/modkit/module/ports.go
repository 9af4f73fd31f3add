// Package module pulls typed ports out of wired modules
package module

import (
	"reflect"

	phttp "ladderbot/internal/platform/net/http"
)

// Module mirrors modkit.Module so port lookups avoid an import cycle
type Module interface {
	Name() string
	Ports() any
	MountRoutes(r phttp.Router)
}

// PortsOf finds a T in m's port set: the set itself, or the first exported
// struct field holding a T
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if v, ok := rv.Field(i).Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring code, panicking when the port is absent
func MustPortsOf[T any](m Module) T {
	v, ok := PortsOf[T](m)
	if !ok {
		panic("module " + m.Name() + ": port " + reflect.TypeFor[T]().String() + " not found")
	}
	return v
}
