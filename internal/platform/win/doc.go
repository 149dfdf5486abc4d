// Package win provides Windows platform support using user32/dwmapi
// window-manager primitives. On other platforms the package compiles as
// an empty stub and registers nothing.
package win
