package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthdash/internal/client/store"
)

// Status prints the session, the stored token and the last outcome of each
// network operation.
func (a *App) Status(ctx context.Context) error {
	snap := a.store.Snapshot()

	if snap.User != nil {
		u := snap.User
		fmt.Fprintf(a.out, "Signed in as %s <%s> (id %s)\n", u.Name, u.Email, u.ID)
		for _, kv := range [][2]string{{"height", u.Height}, {"weight", u.Weight}, {"age", u.Age}, {"gender", u.Gender}} {
			if kv[1] != "" {
				fmt.Fprintf(a.out, "  %s: %s\n", kv[0], kv[1])
			}
		}
	} else {
		fmt.Fprintln(a.out, "Not signed in")
	}

	info, err := a.store.StoredToken(ctx)
	switch {
	case err != nil:
		fmt.Fprintln(a.out, "Stored token: unreadable:", err)
	case !info.Present:
		fmt.Fprintln(a.out, "Stored token: none")
	case info.Expired:
		fmt.Fprintf(a.out, "Stored token: user %s, expired %s\n", info.UserID, info.ExpiresAt.Local().Format(time.DateTime))
	case info.ExpiresAt.IsZero():
		fmt.Fprintf(a.out, "Stored token: user %s, no expiry\n", info.UserID)
	default:
		fmt.Fprintf(a.out, "Stored token: user %s, valid until %s\n", info.UserID, info.ExpiresAt.Local().Format(time.DateTime))
	}

	for _, op := range []store.Operation{store.OpLogin, store.OpRegister, store.OpUpdateProfile} {
		st := snap.Status(op)
		if st.Phase == store.PhaseIdle {
			continue
		}
		if st.Err != nil {
			fmt.Fprintf(a.out, "Last %s: %s (%v)\n", op, st.Phase, st.Err)
		} else {
			fmt.Fprintf(a.out, "Last %s: %s\n", op, st.Phase)
		}
	}
	return nil
}
