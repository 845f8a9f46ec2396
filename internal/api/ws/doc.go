// Package ws provides the view event channel.
//
// The embedded view connects to GET /events and receives server-pushed
// frames. Delivery to each view is buffered and never blocks the caller:
// a view whose buffer is full misses the frame and the emitter gets an
// error back.
//
// Frames (Server → Client):
//   - notification: {id, title, body}
//   - window.state: {action, visible}
//   - window.reload: {}
//   - pong: reply to a client ping
//
// Messages (Client → Server):
//   - ping: keep-alive
//
// Example Usage:
//
//	hub := ws.NewHub(ws.Options{AllowedOrigins: []string{"https://app.acme.com"}}, logger)
//	router.GET("/events", hub.HandleConnection)
//	hub.Emit(types.Frame{Event: types.EventWindowReload})
package ws
