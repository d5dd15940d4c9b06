package source

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/zoobzio/mirror/gateway"
)

// DefaultMaxFrame bounds a single NDJSON line. GUILD_CREATE frames of large
// guilds run to several megabytes.
const DefaultMaxFrame = 32 << 20

// NDJSON reads one dispatch envelope per line.
type NDJSON struct {
	r        io.Reader
	maxFrame int
}

// NewNDJSON creates a source over r.
func NewNDJSON(r io.Reader) *NDJSON {
	return &NDJSON{r: r, maxFrame: DefaultMaxFrame}
}

// WithMaxFrame overrides the line limit.
func (s *NDJSON) WithMaxFrame(n int) *NDJSON {
	if n > 0 {
		s.maxFrame = n
	}
	return s
}

// Run yields every non-blank line. Undecodable lines are yielded with Err
// set and reading continues.
func (s *NDJSON) Run(ctx context.Context, yield Yield) error {
	sc := bufio.NewScanner(s.r)
	sc.Buffer(make([]byte, 0, min(64*1024, s.maxFrame)), s.maxFrame)

	var seq int64
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		seq++
		raw := bytes.Clone(line)
		ev, err := gateway.DecodeEnvelope(raw)
		if err := yield(ctx, Item{Seq: seq, Raw: raw, Event: ev, Err: err}); err != nil {
			return err
		}
	}
	return sc.Err()
}
