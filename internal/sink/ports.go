package sink

import "context"

// Uploader accepts a finished report file and stores it remotely. The caller
// treats the sink as fire-and-forget: content is handed over as-is and the
// returned ref identifies the stored copy.
type Uploader interface {
	Upload(ctx context.Context, name string, content []byte) (ref string, err error)
}
