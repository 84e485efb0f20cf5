// Package notify delivers configuration change notifications to subscribers.
//
// Subscribers register for a named change group ("lyrics",
// "desktop-overlay") and are called synchronously, in registration order,
// whenever the configuration store reports a change to a key in that group.
//
//	n := notify.New[config.Value]()
//	sub := n.Subscribe("lyrics", func(key string, v config.Value) error {
//	    return reloadLyrics()
//	})
//	defer sub.Unsubscribe()
//
// A subscriber that returns an error or panics is logged and skipped; the
// remaining subscribers still run and the caller of Notify never sees the
// failure.
package notify
