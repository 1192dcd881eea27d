package seeds

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/questions"
	"github.com/goccy/go-yaml"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

//go:embed data/faqs.yaml
var faqData []byte

type faqSeed struct {
	Question string   `yaml:"question"`
	Answer   string   `yaml:"answer"`
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

func parseFaqs(data []byte) ([]faqSeed, error) {
	var seeds []faqSeed
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, eris.Wrap(err, "seeds: parse faqs")
	}
	for i, s := range seeds {
		if strings.TrimSpace(s.Question) == "" || strings.TrimSpace(s.Answer) == "" {
			return nil, eris.Errorf("seeds: faq %d has no question or answer", i)
		}
		if !questions.ValidCategory(s.Category) {
			return nil, eris.Errorf("seeds: faq %q has unknown category %q", s.Question, s.Category)
		}
	}
	return seeds, nil
}

// SeedFaqs inserts the bundled FAQs that are not already present, matched by
// exact question text. Seeded entries are not flagged as new.
func SeedFaqs(ctx context.Context, store questions.Store) error {
	return seedFaqs(ctx, store, faqData)
}

func seedFaqs(ctx context.Context, store questions.Store, data []byte) error {
	log := zap.L().Named("seeds")

	seeds, err := parseFaqs(data)
	if err != nil {
		return err
	}

	created := 0
	for _, s := range seeds {
		_, err := store.FindFaqByQuestion(ctx, s.Question)
		if err == nil {
			log.Debug("faq exists, skipping", zap.String("question", s.Question))
			continue
		}
		if !errors.Is(err, questions.ErrNotFound) {
			return eris.Wrapf(err, "seeds: look up faq %q", s.Question)
		}

		keywords := s.Keywords
		if len(keywords) == 0 {
			keywords = questions.Keywords(s.Question)
		}
		faq := &questions.DynamicFaq{
			Question: s.Question,
			Answer:   s.Answer,
			Category: s.Category,
			Keywords: keywords,
		}
		if err := store.CreateFaq(ctx, faq); err != nil {
			return eris.Wrapf(err, "seeds: create faq %q", s.Question)
		}
		if err := store.MarkFaqNotNew(ctx, faq.ID.String()); err != nil {
			return eris.Wrapf(err, "seeds: mark faq %q", s.Question)
		}
		created++
	}

	log.Info("seeded faqs", zap.Int("created", created), zap.Int("total", len(seeds)))
	return nil
}
