package llm

import (
	"context"

	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/projectziio/ziio-ai/pkg/metrics"
)

// CompleteWithFallback runs req against req.Model and, when the gateway reports
// 429/503, exactly once more against backup. When the backup fails too the
// primary error is returned.
func CompleteWithFallback(ctx context.Context, gw Gateway, req Request, backup string) (*Response, error) {
	resp, err := gw.Complete(ctx, req)
	if !shouldFallback(err, req.Model, backup) {
		return resp, err
	}
	primary := req.Model
	noteFallback(primary, backup, err)
	req.Model = backup
	resp, ferr := gw.Complete(ctx, req)
	if ferr != nil {
		logger.Warnf("llm: backup model %s failed after %s: %v", backup, primary, ferr)
		return nil, err
	}
	return resp, nil
}

// StreamWithFallback is CompleteWithFallback for streamed completions. The
// decision is made when the stream opens; nothing has been read yet.
func StreamWithFallback(ctx context.Context, gw Gateway, req Request, backup string) (*Stream, error) {
	s, err := gw.Stream(ctx, req)
	if !shouldFallback(err, req.Model, backup) {
		return s, err
	}
	primary := req.Model
	noteFallback(primary, backup, err)
	req.Model = backup
	s, ferr := gw.Stream(ctx, req)
	if ferr != nil {
		logger.Warnf("llm: backup model %s failed after %s: %v", backup, primary, ferr)
		return nil, err
	}
	return s, nil
}

func shouldFallback(err error, primary, backup string) bool {
	return err != nil && backup != "" && backup != primary && IsRetryable(err)
}

func noteFallback(primary, backup string, err error) {
	metrics.LLMFallbacks.WithLabelValues(primary).Inc()
	logger.Infof("llm: %s unavailable (status %d), retrying with %s", primary, StatusCode(err), backup)
}
