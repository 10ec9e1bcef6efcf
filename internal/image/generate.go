package image

import "context"

type TextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// Params is the text-to-image request body.
type Params struct {
	Steps       int          `json:"steps"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	CfgScale    float64      `json:"cfg_scale"`
	Samples     int          `json:"samples"`
	TextPrompts []TextPrompt `json:"text_prompts"`
}

// Generator returns the decoded image bytes and the seed the API used.
type Generator interface {
	Generate(context.Context, Params) ([]byte, string, error)
}
