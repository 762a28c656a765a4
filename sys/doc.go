//go:build cgo

// Package sys is the cgo boundary: it implements raw.HostVar (Var) and
// host.ABI (ABI) against the real C functions ferrite.h declares as
// imported from the host, grounded on orig app/base/src/sys/var.rs's FerVar
// wrapper. The other half of the ABI -- this module's //export'ed
// fer_app_init/fer_app_start/fer_var_init/fer_var_proc_start, grounded on
// orig app/base/src/sys/export.rs -- lives in cmd/ferritebridge instead,
// since cgo requires //export declarations to sit in package main when
// building a c-archive or c-shared object; this package supplies the type
// wrappers cmd/ferritebridge calls through.
//
// Everything outside this package and cmd/ferritebridge -- raw, variable,
// misc, channel, app -- is pure Go and never imports "C", so it stays
// unit-testable without a cgo toolchain via internal/hosttest's fakes.
package sys
