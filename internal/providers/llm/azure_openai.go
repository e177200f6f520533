package llm

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// AzureOpenAI implements Provider and Embedder against an Azure OpenAI
// deployment through the langchaingo client.
type AzureOpenAI struct {
	client   *openai.LLM
	embedder embeddings.Embedder
}

type AzureOpenAIConfig struct {
	Endpoint            string
	APIKey              string
	APIVersion          string
	DeploymentName      string
	EmbeddingDeployment string
}

func NewAzureOpenAI(cfg AzureOpenAIConfig) (*AzureOpenAI, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, errors.New("llm: azure openai endpoint and api key are required")
	}

	client, err := openai.New(
		openai.WithAPIType(openai.APITypeAzure),
		openai.WithBaseURL(cfg.Endpoint),
		openai.WithToken(cfg.APIKey),
		openai.WithAPIVersion(cfg.APIVersion),
		openai.WithModel(cfg.DeploymentName),
		openai.WithEmbeddingModel(cfg.EmbeddingDeployment),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &AzureOpenAI{client: client, embedder: embedder}, nil
}

func (p *AzureOpenAI) Close() error { return nil }

func (p *AzureOpenAI) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	msgs := []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	}
	out, err := p.Chat(ctx, msgs, nil, opts)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

func (p *AzureOpenAI) Chat(ctx context.Context, messages []Message, tools []Tool, opts CompletionOptions) (*Message, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		case RoleAssistant:
			mc := llms.MessageContent{Role: llms.ChatMessageTypeAI}
			if m.Content != "" {
				mc.Parts = append(mc.Parts, llms.TextPart(m.Content))
			}
			for _, tc := range m.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}
			content = append(content, mc)
		case RoleTool:
			content = append(content, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: m.ToolID,
					Name:       m.ToolName,
					Content:    m.Content,
				}},
			})
		default:
			content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		}
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.JSONMode {
		callOpts = append(callOpts, llms.WithJSONMode())
	}
	if len(tools) > 0 {
		lcTools := make([]llms.Tool, 0, len(tools))
		for _, t := range tools {
			lcTools = append(lcTools, llms.Tool{
				Type: "function",
				Function: &llms.FunctionDefinition{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		callOpts = append(callOpts, llms.WithTools(lcTools))
	}

	resp, err := p.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("llm: no choices returned from model")
	}

	choice := resp.Choices[0]
	out := &Message{Role: RoleAssistant, Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		if tc.FunctionCall == nil {
			continue
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.FunctionCall.Name,
			Arguments: tc.FunctionCall.Arguments,
		})
	}
	return out, nil
}

func (p *AzureOpenAI) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return []float32{}, nil
	}
	return vecs[0], nil
}
