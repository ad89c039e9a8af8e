package chatbot

import (
	"context"
	"time"

	"TapaalTracker/internal/mail"

	"go.uber.org/zap"
)

// ChatService answers one message: classify, aggregate, then either render a
// report or ask the model. Nothing is kept between calls.
type ChatService struct {
	classifier *Classifier
	aggregator *Aggregator
	generator  Generator
	logger     *zap.Logger
}

func NewChatService(classifier *Classifier, aggregator *Aggregator, generator Generator, logger *zap.Logger) *ChatService {
	return &ChatService{classifier: classifier, aggregator: aggregator, generator: generator, logger: logger.Named("chatbot")}
}

func (s *ChatService) Reply(ctx context.Context, message string) Reply {
	start := time.Now()
	intent := s.classifier.Classify(message)
	if intent != IntentOpen && mail.FindTrackingCode(message) != "" {
		// only the open branch looks tracking codes up
		intent = IntentOpen
	}

	if intent != IntentOpen {
		reply := FormatTemplate(s.aggregator.Report(ctx, intent))
		s.logger.Debug("chat answered from template", zap.String("intent", string(intent)), zap.Duration("took", time.Since(start)))
		return reply
	}

	snapshot := s.aggregator.Snapshot(ctx, message)
	text, err := s.generator.Generate(ctx, ComposePrompt(snapshot, message))
	if err != nil {
		s.logger.Warn("model call failed, using fallback",
			zap.String("class", string(ClassifyFailure(err))),
			zap.Error(err))
	}
	s.logger.Debug("chat answered by model", zap.Bool("fallback", err != nil), zap.Duration("took", time.Since(start)))
	return FormatModel(text, err)
}
