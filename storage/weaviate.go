package storage

import (
	"context"
	"errors"
	"net/http"

	"ewintr.nl/videotime/model"
	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/fault"
	"github.com/weaviate/weaviate/entities/models"
)

const (
	className = "Video"
)

// Weaviate mirrors the video titles into a vector index for search.
type Weaviate struct {
	client *weaviate.Client
}

func NewWeaviate(host, weaviateApiKey, openaiApiKey string) (*Weaviate, error) {
	config := weaviate.Config{
		Scheme:     "https",
		Host:       host,
		AuthConfig: auth.ApiKey{Value: weaviateApiKey},
		Headers: map[string]string{
			"X-OpenAI-Api-Key": openaiApiKey,
		},
	}

	c, err := weaviate.NewClient(config)
	if err != nil {
		return nil, err
	}

	return &Weaviate{client: c}, nil
}

func (w *Weaviate) ResetSchema(ctx context.Context) error {

	// delete old
	if err := missingClass(w.client.Schema().ClassDeleter().WithClassName(className).Do(ctx)); err != nil {
		return err
	}

	// create new
	classObj := &models.Class{
		Class:      className,
		Vectorizer: "text2vec-openai",
		ModuleConfig: map[string]any{
			"text2vec-openai": map[string]any{
				"model":        "ada",
				"modelVersion": "002",
				"type":         "text",
			},
		},
	}

	return w.client.Schema().ClassCreator().WithClass(classObj).Do(ctx)
}

// missingClass drops the error weaviate reports when the class to delete
// does not exist, a 400.
func missingClass(err error) error {
	var status *fault.WeaviateClientError
	if err == nil || (errors.As(err, &status) && status.StatusCode == http.StatusBadRequest) {
		return nil
	}
	return err
}

// Reindex replaces the indexed videos with details.
func (w *Weaviate) Reindex(ctx context.Context, details []model.VideoDetail) error {
	if err := w.ResetSchema(ctx); err != nil {
		return err
	}

	for _, obj := range titleObjects(details) {
		if _, err := w.client.Data().
			Creator().
			WithClassName(className).
			WithID(obj.id).
			WithProperties(obj.props).
			Do(ctx); err != nil {
			return err
		}
	}

	return nil
}

type titleObject struct {
	id    string
	props map[string]any
}

// titleObjects derives a stable object id from the video id. Repeated videos
// are indexed once.
func titleObjects(details []model.VideoDetail) []titleObject {
	seen := map[model.YoutubeVideoID]bool{}
	objs := make([]titleObject, 0, len(details))
	for _, d := range details {
		if seen[d.YoutubeID] {
			continue
		}
		seen[d.YoutubeID] = true
		objs = append(objs, titleObject{
			id: uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.youtube.com/watch?v="+string(d.YoutubeID))).String(),
			props: map[string]any{
				"youtubeId":       string(d.YoutubeID),
				"title":           d.Title,
				"durationSeconds": d.DurationSeconds,
				"publishedAt":     d.PublishedAt,
			},
		})
	}

	return objs
}
