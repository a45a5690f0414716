package workers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/providers/llm"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/services"
)

// SecondOpinion is the structured score the reviewer model returns. It
// mirrors the engine's axes so the dashboard can show both side by side.
type SecondOpinion struct {
	Anxiety    float64 `json:"anxiety"`
	Agitation  float64 `json:"agitation"`
	Confusion  float64 `json:"confusion"`
	Positivity float64 `json:"positivity"`
	RiskLevel  string  `json:"risk_level"`
	Rationale  string  `json:"rationale"`
}

// ReviewWorkerPool consumes finalize jobs from the review stream and runs
// the optional LLM work on each ended call: transcript embeddings, then the
// second-opinion cross-check. Failures mark the report row and move on; the
// deterministic report is already stored.
type ReviewWorkerPool struct {
	Redis       *redis.Client
	Transcripts pgrepo.TranscriptRepo
	Reports     pgrepo.ReportRepo
	LLM         llm.Provider
	Embedder    llm.Embedder
	Logger      *logrus.Logger

	NumWorkers     int
	Stream         string
	Group          string
	ConsumerPrefix string
}

func (p *ReviewWorkerPool) Start(ctx context.Context) error {
	if p.Stream == "" {
		p.Stream = services.ReviewStream
	}
	if p.Group == "" {
		p.Group = "review-workers"
	}
	if p.ConsumerPrefix == "" {
		p.ConsumerPrefix = "r"
	}
	if p.NumWorkers <= 0 {
		p.NumWorkers = 2
	}
	if p.Logger == nil {
		p.Logger = logrus.New()
	}

	_ = p.Redis.XGroupCreateMkStream(ctx, p.Stream, p.Group, "0").Err() // ignore BUSYGROUP

	for i := 0; i < p.NumWorkers; i++ {
		consumer := p.ConsumerPrefix + "-" + strconv.Itoa(i+1)
		go p.runConsumer(ctx, consumer)
	}
	return nil
}

func (p *ReviewWorkerPool) runConsumer(ctx context.Context, consumer string) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := p.Redis.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    p.Group,
			Consumer: consumer,
			Streams:  []string{p.Stream, ">"},
			Count:    5,
			Block:    5 * time.Second,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		for _, stream := range res {
			for _, msg := range stream.Messages {
				p.handleMsg(ctx, msg)
				_ = p.Redis.XAck(ctx, p.Stream, p.Group, msg.ID).Err()
			}
		}
	}
}

func (p *ReviewWorkerPool) handleMsg(ctx context.Context, msg redis.XMessage) {
	callID, _ := msg.Values["call_id"].(string)
	if callID == "" {
		return
	}
	log := p.Logger.WithField("call_id", callID)

	entries, err := p.Transcripts.ListByCall(ctx, callID, 0)
	if err != nil {
		log.WithError(err).Warn("review: failed to load transcript")
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "failed")
		return
	}

	p.embedTranscript(ctx, log, entries)

	if p.LLM == nil {
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "skipped")
		return
	}
	if len(entries) == 0 {
		log.Warn("review: no transcript available")
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "failed")
		return
	}

	var b strings.Builder
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		b.WriteString(e.Role)
		b.WriteString(": ")
		b.WriteString(e.Text)
		b.WriteString("\n")
	}

	prompt := "You are reviewing a transcript of a phone call between an elderly " +
		"resident with cognitive decline and a companion. Rate the resident's " +
		"anxiety, agitation, confusion and positivity each from 0 to 1, pick a " +
		"risk_level of routine, elevated or critical, and give a one-sentence " +
		"rationale. Answer with a single JSON object with keys anxiety, " +
		"agitation, confusion, positivity, risk_level, rationale and nothing " +
		"else.\n\nTranscript:\n" + b.String()

	reviewCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	raw, err := p.LLM.Complete(reviewCtx, prompt)
	if err != nil {
		log.WithError(err).Warn("review: completion failed")
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "failed")
		return
	}

	opinion, err := parseSecondOpinion(raw)
	if err != nil {
		log.WithError(err).Warn("review: unparseable completion")
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "failed")
		return
	}

	payload, err := json.Marshal(opinion)
	if err != nil {
		_ = p.Reports.SetSecondOpinion(ctx, callID, nil, "failed")
		return
	}
	if err := p.Reports.SetSecondOpinion(ctx, callID, payload, "done"); err != nil {
		log.WithError(err).Error("review: failed to store second opinion")
		return
	}

	status, _ := json.Marshal(map[string]any{
		"type":       "second_opinion",
		"call_id":    callID,
		"risk_level": opinion.RiskLevel,
	})
	_ = p.Redis.Publish(ctx, "call:"+callID+":alerts", status).Err()

	log.Info("review: second opinion stored")
}

// embedTranscript fills the vector column for spoken turns so stored
// transcripts can be searched semantically. Per-entry failures are logged and
// skipped; the transcript rows themselves are already persisted.
func (p *ReviewWorkerPool) embedTranscript(ctx context.Context, log *logrus.Entry, entries []models.TranscriptEntry) {
	if p.Embedder == nil {
		return
	}
	for _, e := range entries {
		if e.Text == "" {
			continue
		}
		vec, err := p.Embedder.Embed(ctx, e.Text)
		if err != nil {
			log.WithError(err).WithField("entry_id", e.ID).Warn("review: embedding failed")
			continue
		}
		if err := p.Transcripts.SetEmbedding(ctx, e.ID, vec); err != nil {
			log.WithError(err).WithField("entry_id", e.ID).Warn("review: failed to store embedding")
		}
	}
}

// parseSecondOpinion tolerates models that wrap the JSON in prose or code
// fences by extracting the outermost object.
func parseSecondOpinion(raw string) (*SecondOpinion, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	var op SecondOpinion
	if err := json.Unmarshal([]byte(raw), &op); err != nil {
		return nil, err
	}
	return &op, nil
}
