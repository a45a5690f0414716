package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/iterator"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
	embed  *vertexgenai.EmbeddingModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName, embedModelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	if embedModelName == "" {
		// 768 dimensions, matching the transcript vector column
		embedModelName = "text-embedding-004"
	}

	return &VertexGemini{
		client: c,
		model:  c.GenerativeModel(modelName),
		embed:  c.EmbeddingModel(embedModelName),
	}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, prompt string) (string, error) {
	it := v.model.GenerateContentStream(ctx, vertexgenai.Text(prompt))

	var b strings.Builder
	for {
		resp, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", err
		}
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(vertexgenai.Text); ok {
					b.WriteString(string(t))
				}
			}
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("vertex: empty completion")
	}
	return out, nil
}

func (v *VertexGemini) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := v.embed.EmbedContent(ctx, vertexgenai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("vertex: empty embedding")
	}
	return res.Embedding.Values, nil
}
