package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIGenerator calls the OpenAI API. It prefers the structured Responses
// endpoint and falls back to Chat Completions with a JSON-object response
// format when the structured call fails for any reason.
type OpenAIGenerator struct {
	model  openai.ChatModel
	client *openai.Client
}

// NewOpenAIGenerator builds a generator with defaults against api.openai.com.
func NewOpenAIGenerator(apiKey string, model openai.ChatModel) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIGenerator{
		model:  model,
		client: &cli,
	}, nil
}

func (c *OpenAIGenerator) Generate(ctx context.Context, system, user string, opts GenerateOptions) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	text, err := c.generateStructured(ctx, system, user, opts)
	if err == nil {
		return text, nil
	}
	return c.generateChat(ctx, system, user, opts)
}

func (c *OpenAIGenerator) generateStructured(ctx context.Context, system, user string, opts GenerateOptions) (string, error) {
	params := responses.ResponseNewParams{
		Model:        shared.ResponsesModel(c.model),
		Instructions: openai.String(system),
		Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(user)},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(opts.MaxTokens)
	}
	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("openai: empty response output")
	}
	return text, nil
}

func (c *OpenAIGenerator) generateChat(ctx context.Context, system, user string, opts GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: buildMessages(system, user),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if opts.Temperature > 0 {
		params.Temperature = openai.Float(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(opts.MaxTokens)
	}
	if len(opts.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: opts.Stop}
	}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(system, user string) []openai.ChatCompletionMessageParamUnion {
	return []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(system),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: openai.String(user),
				},
			},
		},
	}
}

// OpenAIModerator calls the OpenAI Moderations API.
type OpenAIModerator struct {
	model  openai.ModerationModel
	client *openai.Client
}

// NewOpenAIModerator builds a moderator with defaults against api.openai.com.
func NewOpenAIModerator(apiKey string, model openai.ModerationModel) (*OpenAIModerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ModerationModelOmniModerationLatest
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIModerator{
		model:  model,
		client: &cli,
	}, nil
}

func (c *OpenAIModerator) Classify(ctx context.Context, text string) (Classification, error) {
	if c == nil || c.client == nil {
		return Classification{}, fmt.Errorf("nil openai client")
	}
	resp, err := c.client.Moderations.New(ctx, openai.ModerationNewParams{
		Model: c.model,
		Input: openai.ModerationNewParamsInputUnion{OfString: openai.String(text)},
	})
	if err != nil {
		return Classification{}, err
	}
	if len(resp.Results) == 0 {
		return Classification{}, fmt.Errorf("openai: no moderation results")
	}
	r := resp.Results[0]
	return Classification{
		Categories: map[string]bool{
			"harassment":             r.Categories.Harassment,
			"harassment/threatening": r.Categories.HarassmentThreatening,
			"hate":                   r.Categories.Hate,
			"hate/threatening":       r.Categories.HateThreatening,
			"illicit":                r.Categories.Illicit,
			"illicit/violent":        r.Categories.IllicitViolent,
			"self-harm":              r.Categories.SelfHarm,
			"self-harm/instructions": r.Categories.SelfHarmInstructions,
			"self-harm/intent":       r.Categories.SelfHarmIntent,
			"sexual":                 r.Categories.Sexual,
			"sexual/minors":          r.Categories.SexualMinors,
			"violence":               r.Categories.Violence,
			"violence/graphic":       r.Categories.ViolenceGraphic,
		},
		CategoryScores: map[string]float64{
			"harassment":             r.CategoryScores.Harassment,
			"harassment/threatening": r.CategoryScores.HarassmentThreatening,
			"hate":                   r.CategoryScores.Hate,
			"hate/threatening":       r.CategoryScores.HateThreatening,
			"illicit":                r.CategoryScores.Illicit,
			"illicit/violent":        r.CategoryScores.IllicitViolent,
			"self-harm":              r.CategoryScores.SelfHarm,
			"self-harm/instructions": r.CategoryScores.SelfHarmInstructions,
			"self-harm/intent":       r.CategoryScores.SelfHarmIntent,
			"sexual":                 r.CategoryScores.Sexual,
			"sexual/minors":          r.CategoryScores.SexualMinors,
			"violence":               r.CategoryScores.Violence,
			"violence/graphic":       r.CategoryScores.ViolenceGraphic,
		},
	}, nil
}
