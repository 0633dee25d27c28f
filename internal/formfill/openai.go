package formfill

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"formfill/internal/answers"
	"formfill/internal/logger"
)

const fieldPromptTemplate = `I need to fill out this PDF form with the following data: %s

Please analyze this form image and identify where each piece of data should be placed. For each form field you can identify, please provide:

1. The field name/label you see
2. The approximate coordinates (x, y) where text should be placed
3. The estimated width and height of the field
4. Which piece of my data should go in that field

Please format your response as a JSON array like this:
[
  {
    "field_name": "First Name",
    "suggested_data": "John",
    "x": 150,
    "y": 200,
    "width": 200,
    "height": 25,
    "confidence": 0.9
  }
]

Focus on identifying clear, fillable form fields. Be precise with coordinates.`

// OpenAIAnalyzer implements FieldAnalyzer using a vision-capable chat
// model behind an OpenAI-compatible endpoint.
type OpenAIAnalyzer struct {
	client *openai.Client
	config AnalyzerConfig
	log    zerolog.Logger
}

// NewOpenAIAnalyzer creates an analyzer backed by the given client.
func NewOpenAIAnalyzer(client *openai.Client, config AnalyzerConfig) *OpenAIAnalyzer {
	if config.Model == "" {
		config.Model = DefaultAnalyzerConfig().Model
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultAnalyzerConfig().MaxTokens
	}
	return &OpenAIAnalyzer{
		client: client,
		config: config,
		log:    logger.WithComponent("formfill-analyzer"),
	}
}

// AnalyzeForm sends the rendered page and the answer inventory to the
// model and parses the proposed field placements from its reply.
func (a *OpenAIAnalyzer) AnalyzeForm(ctx context.Context, page image.Image, set *answers.AnswerSet) ([]FieldCandidate, error) {
	const op = "AnalyzeForm"

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	encoded, err := encodePageImage(page)
	if err != nil {
		return nil, WrapFillError(op, err, "failed to encode page image")
	}

	prompt := fmt.Sprintf(fieldPromptTemplate, set.Inline())

	a.log.Debug().
		Str("model", a.config.Model).
		Int("answers", set.Len()).
		Msg("Requesting field analysis from model")

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.config.Model,
		MaxTokens: a.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:image/png;base64," + encoded,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, WrapFillError(op, err, "model request failed")
	}

	if len(resp.Choices) == 0 {
		return nil, NewFillError(op, ErrEmptyReply, "")
	}

	reply := resp.Choices[0].Message.Content
	a.log.Debug().
		Int("reply_length", len(reply)).
		Msg("Received field analysis reply")

	candidates, err := extractCandidates(reply)
	if err != nil {
		a.log.Error().
			Err(err).
			Str("reply", reply).
			Msg("Failed to parse model reply")
		return nil, WrapFillError(op, err, "")
	}

	return candidates, nil
}

// candidateWire is the JSON shape the model is asked to produce. Width,
// height and confidence use pointers so that omitted keys fall back to
// defaults rather than zero.
type candidateWire struct {
	FieldName     string   `json:"field_name"`
	SuggestedData string   `json:"suggested_data"`
	X             int      `json:"x"`
	Y             int      `json:"y"`
	Width         *int     `json:"width"`
	Height        *int     `json:"height"`
	Confidence    *float64 `json:"confidence"`
}

// extractCandidates locates the outermost JSON array in the model reply
// and decodes it into field candidates.
func extractCandidates(reply string) ([]FieldCandidate, error) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start == -1 || end == -1 || end < start {
		return nil, ErrUnparsableReply
	}

	var wire []candidateWire
	if err := json.Unmarshal([]byte(reply[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableReply, err)
	}

	candidates := make([]FieldCandidate, 0, len(wire))
	for _, w := range wire {
		c := FieldCandidate{
			FieldName:     w.FieldName,
			SuggestedData: w.SuggestedData,
			X:             w.X,
			Y:             w.Y,
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			Confidence:    0.5,
		}
		if w.Width != nil {
			c.Width = *w.Width
		}
		if w.Height != nil {
			c.Height = *w.Height
		}
		if w.Confidence != nil {
			c.Confidence = *w.Confidence
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

func encodePageImage(page image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, page); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
