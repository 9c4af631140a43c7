// Package cli is the interactive health dashboard client.
//
// It is a thin presentation layer over store.Store: every command reads the
// current snapshot or invokes one store operation. Typical flow: register or
// log in, record today's stats and workouts, check progress, log out.
//
// Commands:
//   - register / login / logout
//   - profile: update height, weight, age, gender
//   - stats / goals: merge-patch today's values or targets
//   - progress: values against goals
//   - workouts / addworkout / editworkout <id> / delworkout <id>
//   - status: session and stored token details
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
