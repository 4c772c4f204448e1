package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/iliyamo/assistant-threads/internal/config"
	"github.com/iliyamo/assistant-threads/internal/model"
)

// OpenAIGateway implements Gateway on the OpenAI Assistants API.
type OpenAIGateway struct {
	client       *openai.Client
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *zap.Logger
}

var _ Gateway = (*OpenAIGateway)(nil)

func NewOpenAIGateway(cfg config.OpenAIConfig, logger *zap.Logger) *OpenAIGateway {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	return &OpenAIGateway{
		client:       openai.NewClientWithConfig(oc),
		pollInterval: poll,
		runTimeout:   cfg.RunTimeout,
		logger:       logger,
	}
}

func (g *OpenAIGateway) CreateThread(ctx context.Context) (string, error) {
	th, err := g.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return th.ID, nil
}

func (g *OpenAIGateway) PostMessage(ctx context.Context, threadID string, role model.Role, text string) (Message, error) {
	msg, err := g.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    string(role),
		Content: text,
	})
	if err != nil {
		return Message{}, fmt.Errorf("post message to thread %s: %w", threadID, err)
	}
	return fromOpenAIMessage(msg), nil
}

// RunAndAwait creates a run and polls it until it reaches a terminal state.
// When runTimeout elapses first the last status is returned so the caller
// can tell the client to come back later.
func (g *OpenAIGateway) RunAndAwait(ctx context.Context, threadID, assistantID, instructions string) (Run, error) {
	run, err := g.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID:  assistantID,
		Instructions: instructions,
	})
	if err != nil {
		return Run{}, fmt.Errorf("create run on thread %s: %w", threadID, err)
	}

	waitCtx := ctx
	if g.runTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, g.runTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()

	for !RunStatus(run.Status).Terminal() {
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return Run{}, ctx.Err()
			}
			g.logger.Info("run still processing after wait",
				zap.String("thread_id", threadID),
				zap.String("run_id", run.ID),
				zap.String("status", string(run.Status)),
				zap.Duration("waited", g.runTimeout))
			return Run{ID: run.ID, Status: RunStatus(run.Status)}, nil
		case <-ticker.C:
		}

		next, err := g.client.RetrieveRun(waitCtx, threadID, run.ID)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				continue
			}
			return Run{}, fmt.Errorf("poll run %s on thread %s: %w", run.ID, threadID, err)
		}
		run = next
	}
	return Run{ID: run.ID, Status: RunStatus(run.Status)}, nil
}

func (g *OpenAIGateway) ListMessages(ctx context.Context, threadID string, limit int) ([]Message, error) {
	order := "desc"
	list, err := g.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list messages of thread %s: %w", threadID, err)
	}
	out := make([]Message, 0, len(list.Messages))
	for _, m := range list.Messages {
		out = append(out, fromOpenAIMessage(m))
	}
	return out, nil
}

func fromOpenAIMessage(m openai.Message) Message {
	out := Message{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		Role:      model.Role(m.Role),
		CreatedAt: time.Unix(int64(m.CreatedAt), 0).UTC(),
	}
	if m.AssistantID != nil {
		out.AssistantID = *m.AssistantID
	}
	for _, c := range m.Content {
		if b, ok := fromOpenAIContent(c); ok {
			out.Blocks = append(out.Blocks, b)
		}
	}
	return out
}

func fromOpenAIContent(c openai.MessageContent) (model.ContentBlock, bool) {
	switch model.ContentType(c.Type) {
	case model.ContentText:
		if c.Text == nil {
			return model.ContentBlock{}, false
		}
		return model.TextBlock(c.Text.Value), true
	case model.ContentImageFile:
		if c.ImageFile == nil {
			return model.ContentBlock{}, false
		}
		return model.ContentBlock{Type: model.ContentImageFile, FileID: c.ImageFile.FileID}, true
	case model.ContentImageURL:
		return model.ContentBlock{Type: model.ContentImageURL}, true
	}
	return model.ContentBlock{}, false
}
