// Package httpapi exposes the Hub's fMP4 stream over HTTP, per
// spec.md §4.I/§6. Grounded on the teacher's viewer.Start/routes.Register
// split (internal/viewer/viewer.go, internal/viewer/routes/helpers.go):
// one Deps struct carrying every collaborator a handler needs, and a
// single Register entry point wiring handlers onto a caller-owned mux.
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/camstream/camstreamd/internal/hub"
	"github.com/camstream/camstreamd/internal/stream"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// AuthGuard is the opaque capability spec.md §1 defers to an external
// collaborator: something that can say whether a request may open the
// stream. httpapi has no opinion on how Allow decides.
type AuthGuard interface {
	Allow(r *http.Request) bool
}

// AllowAll is a no-op AuthGuard that accepts every request, useful for
// local/dev deployments with no auth layer configured.
type AllowAll struct{}

func (AllowAll) Allow(*http.Request) bool { return true }

// Deps carries every collaborator the HTTP surface needs. Grounded on
// routes.Deps; narrowed to this spec's single stream concern instead of
// the teacher's many routes' worth of node/peer/content/db fields.
type Deps struct {
	Hub   *hub.Hub
	Guard AuthGuard
}

// Register wires the stream endpoint onto mux, in the teacher's
// routes.Register(mux, deps) style.
func Register(mux *http.ServeMux, deps Deps) {
	if deps.Guard == nil {
		deps.Guard = AllowAll{}
	}
	mux.HandleFunc("/stream", streamHandler(deps))
}

// streamHandler implements spec.md §4.I steps 1-4: auth check, Hub
// subscribe, no-store headers grounded on viewer/nocache.go narrowed to
// the single header this media type requires, then a flush loop until
// the session ends or the client disconnects.
func streamHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.Guard.Allow(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		ctx := r.Context()
		sub, err := deps.Hub.Subscribe(ctx)
		if err != nil {
			var closed *streamerr.ChannelClosed
			if errors.As(err, &closed) {
				http.Error(w, "stream unavailable", http.StatusServiceUnavailable)
				return
			}
			// ctx already done; the client is gone, nothing to write.
			return
		}
		defer sub.Cancel()

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)

		sess := stream.New(sub.Config, sub)
		defer sess.Close()

		serveSession(ctx, w, flusher, sess)
	}
}

func serveSession(ctx context.Context, w http.ResponseWriter, flusher http.Flusher, sess *stream.Session) {
	for {
		chunk, err := sess.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("httpapi: stream %s ended: %v", sess.ID(), err)
			}
			return
		}
		if _, err := w.Write(chunk); err != nil {
			return
		}
		flusher.Flush()
	}
}
