// Package diagram owns the point collection a diagram is drawn from.
//
// A [Store] is the single source of truth: the interaction controller, the
// CLI, and the HTTP server all read [State] snapshots from it and request
// changes through its operations. Every successful operation publishes one
// new State to all subscribers; readers never see a half-applied change.
//
// # Snapshots
//
// A State is a value. Its Version increases by one with every published
// change and its Generation identifies the Regenerate call that produced
// the current coordinates:
//
//	store := diagram.NewStore(gen, 10, logger)
//	cancel := store.Subscribe(func(s diagram.State) {
//	    fmt.Println("version", s.Version, "cells", s.Len())
//	})
//	defer cancel()
//
// # Transactions
//
// [Store.Update] applies several edits as one change. The interaction
// controller uses it so a click that blends several neighbors and then
// removes two cells publishes exactly once:
//
//	store.Update(func(tx *diagram.Tx) error {
//	    if err := tx.SetColorAt(1, "#FF0100"); err != nil {
//	        return err
//	    }
//	    tx.RemoveAt(1, 2)
//	    return nil
//	})
//
// # Reset semantics
//
// [Store.ResetColors] resamples every color from the generator's palette. It
// does not restore the colors a generation started with; those draws were
// random and are not recorded.
package diagram
