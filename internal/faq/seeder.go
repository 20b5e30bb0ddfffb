package faq

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"cardbot/internal/infrastructure/qna"
)

type QuestionPoster interface {
	AddQuestion(ctx context.Context, q qna.QuestionRequest) error
}

type Report struct {
	Files   int
	Missing int
	Posted  int
	Failed  int
}

// Seeder posts FAQ entries to the QnA service, one question per entry.
type Seeder struct {
	poster QuestionPoster
	logger *zap.Logger
}

func NewSeeder(poster QuestionPoster, logger *zap.Logger) *Seeder {
	return &Seeder{poster: poster, logger: logger}
}

// SeedFiles processes every file under dir. Missing files and failed posts are
// logged and counted; they do not stop the run.
func (s *Seeder) SeedFiles(ctx context.Context, dir string, files []string) Report {
	var report Report
	for _, name := range files {
		path := filepath.Join(dir, name)
		entries, err := ParseFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("FAQ file not found", zap.String("file", name))
				report.Missing++
				continue
			}
			s.logger.Error("Failed to parse FAQ file", zap.String("file", name), zap.Error(err))
			report.Failed++
			continue
		}

		report.Files++
		s.logger.Info("Processing FAQ file", zap.String("file", name), zap.Int("entries", len(entries)))
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return report
			}
			err := s.poster.AddQuestion(ctx, qna.QuestionRequest{Variants: []string{e.Question}, Answer: e.Answer})
			if err != nil {
				s.logger.Error("Failed to post question", zap.String("question", e.Question), zap.Error(err))
				report.Failed++
				continue
			}
			s.logger.Debug("Posted question", zap.String("question", e.Question))
			report.Posted++
		}
	}
	return report
}
