package llm

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
)

// VertexGemini implements Provider on Vertex AI Gemini. It is the alternate
// completion backend; embeddings always go through the Azure OpenAI provider.
type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error) {
	m := *v.model
	if system != "" {
		m.SystemInstruction = &vertexgenai.Content{
			Parts: []vertexgenai.Part{vertexgenai.Text(system)},
		}
	}
	temp := float32(opts.Temperature)
	m.GenerationConfig.Temperature = &temp
	if opts.MaxTokens > 0 {
		mt := int32(opts.MaxTokens)
		m.GenerationConfig.MaxOutputTokens = &mt
	}
	if opts.JSONMode {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}

	resp, err := m.GenerateContent(ctx, vertexgenai.Text(user))
	if err != nil {
		return "", err
	}
	return flattenCandidates(resp), nil
}

// Chat replays the history through a Gemini chat session. Tool definitions are
// not supported on this backend; the agent chat mode requires the Azure
// provider.
func (v *VertexGemini) Chat(ctx context.Context, messages []Message, tools []Tool, opts CompletionOptions) (*Message, error) {
	if len(tools) > 0 {
		return nil, errors.New("llm: vertex backend does not support tool calls")
	}
	if len(messages) == 0 {
		return nil, errors.New("llm: empty message list")
	}

	m := *v.model
	temp := float32(opts.Temperature)
	m.GenerationConfig.Temperature = &temp
	if opts.MaxTokens > 0 {
		mt := int32(opts.MaxTokens)
		m.GenerationConfig.MaxOutputTokens = &mt
	}
	if opts.JSONMode {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}

	var history []*vertexgenai.Content
	last := messages[len(messages)-1]
	for _, msg := range messages[:len(messages)-1] {
		switch msg.Role {
		case RoleSystem:
			m.SystemInstruction = &vertexgenai.Content{
				Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
			}
		case RoleAssistant:
			history = append(history, &vertexgenai.Content{
				Role:  "model",
				Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
			})
		default:
			history = append(history, &vertexgenai.Content{
				Role:  "user",
				Parts: []vertexgenai.Part{vertexgenai.Text(msg.Content)},
			})
		}
	}

	cs := m.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, vertexgenai.Text(last.Content))
	if err != nil {
		return nil, err
	}
	return &Message{Role: RoleAssistant, Content: flattenCandidates(resp)}, nil
}

func flattenCandidates(resp *vertexgenai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok && string(t) != "" {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}
