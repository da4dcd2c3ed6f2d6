package notes

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

// streamOutcome is the single terminal transition of one streaming call:
// done, error or timeout. The first writer wins; late markers are dropped.
type streamOutcome struct {
	text string
	err  error
}

// runStream converts the local backend's callback-driven stream into a
// single result. Three terminal transitions exist: a done marker resolves
// with the accumulated text, an error marker fails with the backend's
// message, and a timeout resolves with whatever was accumulated so far, since
// a partial structured-notes draft is more useful to the caller than a hard
// failure.
//
// Backends without streaming support degrade to the blocking call, which is
// trusted to return by itself and gets no adapter timeout.
func (s *noteService) runStream(ctx context.Context, req ai.Request) (string, error) {
	streamer, ok := s.local.(StreamingEngine)
	if !ok {
		res, err := s.local.Chat(ctx, req)
		if err != nil {
			return "", entities.NewBackendError(entities.EngineLocal, err.Error())
		}
		return res.Text, nil
	}

	// Per-call accumulator and timer; nothing is shared across concurrent
	// invocations.
	var (
		mu      sync.Mutex
		sb      strings.Builder
		outcome = make(chan streamOutcome, 1)
	)

	settle := func(o streamOutcome) {
		select {
		case outcome <- o:
		default:
		}
	}

	onChunk := func(fragment string) {
		switch {
		case fragment == ai.StreamDone:
			mu.Lock()
			text := sb.String()
			mu.Unlock()
			settle(streamOutcome{text: text})
		case strings.HasPrefix(fragment, ai.StreamErrorPrefix):
			message := strings.TrimPrefix(fragment, ai.StreamErrorPrefix)
			settle(streamOutcome{err: entities.NewBackendError(entities.EngineLocal, message)})
		default:
			mu.Lock()
			sb.WriteString(fragment)
			mu.Unlock()
		}
	}

	// The stream stops consuming once the call settles, including on
	// timeout.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := streamer.ChatStream(streamCtx, req, onChunk); err != nil {
			settle(streamOutcome{err: entities.NewBackendError(entities.EngineLocal, err.Error())})
		}
	}()

	timeout := s.localCfg.StreamTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case o := <-outcome:
		return o.text, o.err

	case <-timer.C:
		// Silence is best-effort partial success; only explicit error
		// markers are failures.
		mu.Lock()
		partial := sb.String()
		mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("stream timed out, salvaging partial output",
				zap.Duration("timeout", timeout),
				zap.Int("partial_length", len(partial)),
			)
		}
		return partial, nil
	}
}
