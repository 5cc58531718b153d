// Package wayland is a small pure-Go Wayland client: the wire codec, a
// socket transport that passes descriptors with SCM_RIGHTS, proxies for the
// handful of interfaces an overlay needs, and the [Session] that ties them to
// the renderer.
//
// Only the core protocol objects and zwlr_layer_shell_v1 are implemented.
// Events are decoded on a reader goroutine and handed over a channel;
// handlers always run on the goroutine that calls [Session.Run] (or
// [Client.Next]), so the renderer needs no locking.
//
// Typical use:
//
//	conn, err := wayland.Connect("")
//	if err != nil {
//		return err
//	}
//	s := wayland.NewSession(conn, wayland.Options{Render: render.DefaultOptions()})
//	defer s.Close()
//	if err := s.Setup(ctx); err != nil {
//		return err
//	}
//	return s.Run(ctx)
package wayland
