// Command ferritebridge is the c-archive/c-shared entry point: cgo requires
// //export declarations to live in package main when building with
// -buildmode=c-archive or c-shared (see sys.NewVar's doc comment), so this
// is where fer_app_init/fer_app_start/fer_var_init/fer_var_proc_start --
// this module's half of the ABI spec.md SS6 describes -- are actually
// declared. Everything else lives in package sys and is pure Go-callable.
//
// An application links this as a static or shared library alongside its C
// host process; main itself is never invoked by the host (c-archive mode
// requires a main package, but its main func runs only if something execs
// the archive directly, which the host does not do).
package main

/*
#cgo CFLAGS: -I${SRCDIR}/../../sys
#include "ferrite.h"
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/binp-dev/ferrite-go/app"
	"github.com/binp-dev/ferrite-go/raw"
	"github.com/binp-dev/ferrite-go/sys"
	"github.com/binp-dev/ferrite-go/variable"
)

// current is the process-wide App instance: one per process, constructed
// the first time fer_app_init is called.
var current *app.App

// appMain is the application's actual entry point. A real deployment of
// this bridge would replace it with its own application-specific Main (or
// vendor the fer_app_init wiring into its own cmd, substituting its own
// appMain); this no-op stub exists so the bridge is itself a buildable,
// linkable c-archive.
var appMain app.Main = func(vars map[string]*variable.Any) {}

//export fer_app_init
func fer_app_init() {
	log := raw.NewLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
	current = app.New(sys.ABI{}, log)
}

//export fer_app_start
func fer_app_start() {
	current.Start(appMain)
}

//export fer_var_init
func fer_var_init(ptr *C.fer_var_t) {
	current.InitVar(sys.NewVar(unsafe.Pointer(ptr)))
}

//export fer_var_proc_start
func fer_var_proc_start(ptr *C.fer_var_t) {
	current.ProcStart(sys.NewVar(unsafe.Pointer(ptr)))
}

func main() {}
