package process

import (
	"context"
	"errors"
	"fmt"

	"ewintr.nl/videotime/model"
	"github.com/sashabaranov/go-openai"
)

// OpenAINarrator writes a one sentence caption for the facts.
type OpenAINarrator struct {
	client *openai.Client
}

func NewOpenAINarrator(client *openai.Client) *OpenAINarrator {
	return &OpenAINarrator{
		client: client,
	}
}

func (n *OpenAINarrator) Name() string {
	return "openai narrator"
}

func (n *OpenAINarrator) Caption(ctx context.Context, st model.Statistics, facts model.DerivedFacts) (string, error) {
	const captionPrompt = `You are a playful science communicator. The user gives you facts about a video channel where physical quantities are measured in units of the average video length.
Answer with exactly one short sentence in the language of a friendly fan. Do not change any of the numbers and do not add introductory phrases.
`

	resp, err := n.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: captionPrompt,
				},

				{
					Role: openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Average video length: %s over %d videos.\nLight travels %s meters during one video.\nLight from the Sun reaches Earth in %s videos.\nLight from the closest star takes %s videos to reach us.",
						st.MeanDuration, st.TotalCount, facts.SpeedOfLight, facts.TimeSunEarth, facts.ClosestStar),
				},
			},
		})

	if err != nil {
		return "", fmt.Errorf("failed to fetch caption: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("failed to fetch caption: no choices in response")
	}

	return resp.Choices[len(resp.Choices)-1].Message.Content, nil
}
