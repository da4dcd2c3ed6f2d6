package notes

import (
	"context"
	"strings"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/notegen/internal/domain/entities"
	"github.com/johnquangdev/notegen/pkg/ai"
)

// operation distinguishes the routing policy applied to a request. Strict
// operations fail loudly when the selected backend is unavailable so users
// can trust which backend produced a result; advisory operations may fall
// back silently.
type operation int

const (
	opChat operation = iota
	opNotes
	opQuestion
	opSuggest
)

// resolveStrict applies the selection rule for chat, note generation and
// Q&A: the persisted preference is honored or the call fails, it is never
// silently substituted.
func (s *noteService) resolveStrict(ctx context.Context, op operation) (entities.EngineCapability, error) {
	selected := s.EnginePreference(ctx)

	switch selected {
	case entities.EngineRemote:
		if !s.remote.Configured() {
			return "", entities.ErrEngineNotConfigured
		}
		return entities.EngineRemote, nil

	default: // local
		if s.local.Ready(ctx) {
			return entities.EngineLocal, nil
		}
		// Note generation alone waits for a model still finishing a
		// background load; everything else reports not-ready immediately.
		if op == opNotes && s.awaitLocalReadiness(ctx) {
			return entities.EngineLocal, nil
		}
		return "", entities.ErrEngineNotReady
	}
}

// awaitLocalReadiness retries the readiness probe a fixed number of times
// with a fixed delay. Retries are strictly sequential, never concurrent.
func (s *noteService) awaitLocalReadiness(ctx context.Context) bool {
	retries := s.localCfg.ReadinessRetries
	if retries <= 0 {
		return false
	}

	ready := false
	probe := func() error {
		if s.local.Ready(ctx) {
			ready = true
			return nil
		}
		return entities.ErrEngineNotReady
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(s.localCfg.ReadinessDelay), uint64(retries))
	if err := backoff.Retry(probe, backoff.WithContext(bo, ctx)); err != nil {
		if s.logger != nil {
			s.logger.Warn("local engine still not ready after readiness retries",
				zap.Int("retries", retries),
				zap.Duration("delay", s.localCfg.ReadinessDelay),
			)
		}
		return false
	}
	return ready
}

// resolveAdvisory picks whichever backend is ready for low-stakes suggestion
// calls, preferring the remote backend when both are.
func (s *noteService) resolveAdvisory(ctx context.Context) (entities.EngineCapability, error) {
	if s.remote.Configured() {
		return entities.EngineRemote, nil
	}
	if s.local.Ready(ctx) {
		return entities.EngineLocal, nil
	}
	return "", entities.ErrEngineNotReady
}

// generate dispatches one request to the resolved backend and normalizes the
// outcome into the shared error taxonomy. At most one backend call is
// outstanding at a time.
func (s *noteService) generate(ctx context.Context, engine entities.EngineCapability, req ai.Request) (string, error) {
	switch engine {
	case entities.EngineRemote:
		res, err := s.remote.Chat(ctx, req)
		if err != nil {
			return "", entities.NewBackendError(entities.EngineRemote, err.Error())
		}
		if strings.TrimSpace(res.Text) == "" {
			return "", entities.ErrNoOutput
		}
		return res.Text, nil

	default: // local
		text, err := s.runStream(ctx, req)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", entities.ErrNoOutput
		}
		return text, nil
	}
}

// ChatCompletion routes a raw conversation to the selected backend.
func (s *noteService) ChatCompletion(ctx context.Context, messages []ai.Message, maxTokens int, temperature float64) (string, error) {
	engine, err := s.resolveStrict(ctx, opChat)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, engine, ai.Request{
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
}

// AskQuestion answers a free-form question about one meeting using the
// selected backend.
func (s *noteService) AskQuestion(ctx context.Context, req QuestionRequest) (string, error) {
	engine, err := s.resolveStrict(ctx, opQuestion)
	if err != nil {
		return "", err
	}

	messages := buildQuestionMessages(req)
	answer, err := s.generate(ctx, engine, ai.Request{
		Messages:    messages,
		MaxTokens:   s.synth.AnswerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		return "", err
	}

	if s.logger != nil {
		s.logger.Info("answered meeting question",
			zap.String("engine", string(engine)),
			zap.Int("answer_length", len(answer)),
		)
	}
	return strings.TrimSpace(answer), nil
}
