// Package app wires together the registry, panic-recovery, and application
// entry point: the Go analogue of orig raw/export.rs's fer_app_init /
// fer_app_start / fer_var_init / fer_var_proc_start.
package app

import (
	"fmt"

	"github.com/binp-dev/ferrite-go/host"
	"github.com/binp-dev/ferrite-go/raw"
	"github.com/binp-dev/ferrite-go/variable"
)

// Main is the application-exported symbol spec.md §6 calls for: a
// fixed-named entry point taking the drained registry mapping.
// cmd/ferritebridge's fer_app_start passes its Main to App.Start, whose
// spawned goroutine calls it once it has drained the registry.
type Main func(vars map[string]*variable.Any)

// App holds the process-wide state fer_app_init/fer_app_start install:
// the registry every var_init call populates, and the host ABI app_exit
// routes fatal errors through.
type App struct {
	registry *variable.Registry
	abi      host.ABI
	log      *raw.Logger
}

// New returns an App wired to abi (host.ABI.Exit is called exactly once, by
// Start: with code 1 on a panic from the application's Main, with code 0
// when Main returns). log may be nil.
func New(abi host.ABI, log *raw.Logger) *App {
	return &App{registry: variable.NewRegistry(), abi: abi, log: log}
}

// Init corresponds to fer_app_init: in this Go port there is no global
// panic hook to install (panic recovery is scoped to the goroutine Start
// spawns, see Start's doc comment), so Init exists only to mirror the host
// ABI's two-call init/start sequence and to make the bridge's lifecycle
// explicit at the call site; it performs no work of its own.
func (a *App) Init() {}

// InitVar corresponds to fer_var_init: constructs the control block for a
// freshly-exposed host variable and registers it under its host-assigned
// name. Called once per variable, before Start.
func (a *App) InitVar(hv raw.HostVar) {
	rv := raw.InitVariable(hv, a.log)
	a.registry.Add(rv, a.log)
}

// ProcStart corresponds to fer_var_proc_start: invoked by the host with the
// variable's lock already held (spec.md §6), it drives the control block's
// Idle/Requested -> Processing transition. It must not itself acquire
// v.host's lock -- that lock is not reentrant, and the host is already
// holding it across this call (orig fer_var_proc_start takes no lock of its
// own for the same reason) -- so it calls Variable.ProcBegin directly rather
// than going through a Guard. A protocol violation here (the host calling
// proc_start on a variable already mid-cycle) is unrecoverable from the
// callback's perspective -- there is no caller in the call stack to return
// an error to -- so it panics, to be caught by Start's recover and routed to
// host.ABI.Exit.
func (a *App) ProcStart(hv raw.HostVar) {
	rv := raw.VariableFromUserData(hv, a.log)
	if err := rv.ProcBegin(); err != nil {
		panic(err)
	}
}

// Start corresponds to fer_app_start: it spawns a goroutine that drains the
// registry and calls main, recovering any panic (a protocol violation, or
// any other unrecovered error from application code) and routing it to
// host.ABI.Exit(1), then calling host.ABI.Exit(0) on a clean return --
// the Go replacement for orig's panic::set_hook, scoped to just this
// goroutine rather than the whole process, since Go has no global panic
// hook to install.
func (a *App) Start(main Main) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if a.log != nil {
					a.log.Err().Str("panic", fmt.Sprint(r)).Log("app: recovered panic, exiting")
				}
				a.abi.Exit(1)
				return
			}
			a.abi.Exit(0)
		}()
		main(a.registry.Drain())
	}()
}
