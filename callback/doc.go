// Package callback receives the event notifications vhall posts to an
// application.
//
// A [Receiver] is an [http.Handler]. For every request it parses the form,
// validates the event, checks that it was signed by the configured
// credential within the freshness window, rejects replays through a
// [Guard], and dispatches to the function registered for the event name
// with [Receiver.On].
//
//	rc, err := callback.New(cred, callback.WithGuard(callback.NewRedisGuard(rdb, "")))
//	if err != nil {
//		return err
//	}
//	rc.On("live_start", func(ctx context.Context, ev callback.Event) error {
//		return markLive(ctx, ev.WebinarID)
//	})
//	http.Handle("POST /vhall/callback", rc)
//
// Handler errors of type [*errs.Error] are answered with their status
// code; any other error is answered with 500 and its message hidden.
package callback
