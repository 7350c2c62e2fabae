// Package refiner talks to the OpenAI chat-completions API to turn rough job
// notes into a polished posting and to extract categorized skill tags from
// the result. The two calls run sequentially per invocation; skill extraction
// works on the refined text, not the raw notes.
package refiner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/sirupsen/logrus"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/lifecycle"
)

const defaultBaseURL = "https://api.openai.com/v1/"

// Options selects the style of the refined posting.
type Options struct {
	Tone   string // corporate, startup, academic
	Length string // concise, detailed
}

// Skills is the categorized skill extraction for a posting.
type Skills struct {
	MustHave   []string `json:"mustHave"`
	NiceToHave []string `json:"niceToHave"`
}

// Result is a completed refinement: polished text plus extracted skills.
type Result struct {
	RefinedText string
	Skills      Skills
}

// Service is the refinement operation as seen by the handlers.
type Service interface {
	Refine(ctx context.Context, originalText string, opts Options) (*Result, error)
}

// Client calls the OpenAI API.
type Client struct {
	apiKey string
	model  string
	api    *openai.Client
	log    *logrus.Logger
}

// NewClient creates a refinement client. baseURL is overridable for tests;
// pass "" for the real API.
func NewClient(apiKey, model, baseURL string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	// openai-go resolves request paths against the base URL, so the
	// trailing slash is load-bearing.
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		api: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0), // a failed call surfaces to the owner immediately
		),
		log: log,
	}
}

// Refine runs both upstream calls and returns the combined result. Any
// upstream failure aborts the whole invocation; the caller persists nothing,
// so previously saved state is untouched. A skills payload that fails to
// parse is not a failure: the refined text is still usable and the skill sets
// fall back to empty.
func (c *Client) Refine(ctx context.Context, originalText string, opts Options) (*Result, error) {
	if c.apiKey == "" {
		return nil, &lifecycle.UpstreamError{Op: "refine", Err: fmt.Errorf("OPENAI_API_KEY is not configured")}
	}

	refined, err := c.chat(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(c.model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert HR content writer specializing in job descriptions."),
			openai.UserMessage(refinementPrompt(originalText, opts)),
		}),
		Temperature: openai.F(0.7),
	})
	if err != nil {
		return nil, &lifecycle.UpstreamError{Op: "refine", Err: err}
	}

	skillsRaw, err := c.chat(ctx, openai.ChatCompletionNewParams{
		Model: openai.F(openai.ChatModel(c.model)),
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert at analyzing job descriptions and extracting skills. You always respond with valid JSON only."),
			openai.UserMessage(skillsPrompt(refined)),
		}),
		Temperature: openai.F(0.3),
		ResponseFormat: openai.F[openai.ChatCompletionNewParamsResponseFormatUnion](
			openai.ResponseFormatJSONObjectParam{
				Type: openai.F(openai.ResponseFormatJSONObjectTypeJSONObject),
			},
		),
	})
	if err != nil {
		return nil, &lifecycle.UpstreamError{Op: "extract skills", Err: err}
	}

	result := &Result{RefinedText: refined}
	if err := json.Unmarshal([]byte(skillsRaw), &result.Skills); err != nil {
		// Free-form model output; fall back to empty sets rather than
		// discarding the refined text.
		c.log.Warnf("Skills payload unparseable, defaulting to empty sets: %v", err)
		result.Skills = Skills{}
	}
	if result.Skills.MustHave == nil {
		result.Skills.MustHave = []string{}
	}
	if result.Skills.NiceToHave == nil {
		result.Skills.NiceToHave = []string{}
	}
	return result, nil
}

// chat performs one chat-completions call and returns the assistant message.
func (c *Client) chat(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("call OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return resp.Choices[0].Message.Content, nil
}

func refinementPrompt(originalText string, opts Options) string {
	var sb strings.Builder
	sb.WriteString("You are an expert HR content writer. Refine the following job description notes into a professional job posting.\n\n")
	sb.WriteString("Requirements:\n")
	sb.WriteString(fmt.Sprintf("- Tone: %s\n", opts.Tone))
	sb.WriteString(fmt.Sprintf("- Length: %s\n", opts.Length))
	sb.WriteString(`- Remove gender-coded or biased language
- Use formal, professional formatting WITHOUT markdown symbols (no asterisks, no bold markers)
- Format section headers in UPPERCASE or Title Case with proper spacing (e.g., "ABOUT US" or "About Us")
- Use clear sections (About Us, Position/Role, Responsibilities, Requirements, Benefits if applicable)
- Separate sections with blank lines for readability
- Correct grammar and spelling
- Make it compelling and clear
- Use plain text formatting only - no **, no _, no markdown syntax

Original Notes:
`)
	sb.WriteString(originalText)
	sb.WriteString("\n\nProvide ONLY the refined job description text in professional plain text format, no markdown, no explanations.")
	return sb.String()
}

func skillsPrompt(refinedText string) string {
	return fmt.Sprintf(`Analyze this job description and extract all required skills. Categorize them as:
1. Must Have: Critical, required skills (technical skills, certifications, specific experience)
2. Nice to Have: Preferred but not required skills (bonus skills, optional tools)

Job Description:
%s

Return ONLY a JSON object in this exact format with no additional text:
{
  "mustHave": ["skill1", "skill2", ...],
  "niceToHave": ["skill1", "skill2", ...]
}`, refinedText)
}
