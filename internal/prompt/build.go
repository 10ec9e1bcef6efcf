package prompt

import (
	"errors"
	"strings"

	"github.com/dmorgan81/imagedesk/internal/config"
	"github.com/dmorgan81/imagedesk/internal/image"
)

type Style string

const (
	Realistic Style = "Realistic"
	ThreeD    Style = "3D"
	Cartoon   Style = "Cartoon"
)

type Quality string

const (
	Standard Quality = "Standard"
	HD       Quality = "HD"
	Ultra    Quality = "Ultra"
)

const (
	DefaultStyle   = Realistic
	DefaultQuality = Standard

	imageSize = 1024
)

type Settings struct {
	Steps    int
	CfgScale float64
}

var qualityPresets = map[Quality]Settings{
	Standard: {Steps: 20, CfgScale: 7},
	HD:       {Steps: 30, CfgScale: 9},
	Ultra:    {Steps: 40, CfgScale: 10},
}

var stylePresets = map[Style]string{
	Realistic: ", ultra realistic, cinematic lighting, hyper-detailed, photorealistic textures",
	ThreeD:    ", 3d render, unreal engine 5 style, octane render, cinematic lighting, hyper-detailed",
	Cartoon:   ", cartoon style, pixar animation, colorful, 2d illustration, smooth lines, cute design",
}

// ErrEmptyPrompt is wrapped by every ValidationError.
var ErrEmptyPrompt = errors.New("please enter a prompt")

type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// Styles returns the style keys in display order.
func Styles() []Style { return []Style{Realistic, ThreeD, Cartoon} }

// Qualities returns the quality keys in display order.
func Qualities() []Quality { return []Quality{Standard, HD, Ultra} }

func StyleSuffix(s Style) (string, bool) {
	suffix, ok := stylePresets[s]
	return suffix, ok
}

func QualitySettings(q Quality) (Settings, bool) {
	settings, ok := qualityPresets[q]
	return settings, ok
}

type Request struct {
	Prompt  string
	Style   Style
	Quality Quality
}

// Build validates the raw form input and returns a request ready to send.
func Build(prompt string, style Style, quality Quality) (Request, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Request{}, &ValidationError{Err: ErrEmptyPrompt}
	}
	if _, ok := stylePresets[style]; !ok {
		return Request{}, &config.ConfigurationError{Key: "style", Reason: "unknown preset " + string(style)}
	}
	if _, ok := qualityPresets[quality]; !ok {
		return Request{}, &config.ConfigurationError{Key: "quality", Reason: "unknown preset " + string(quality)}
	}
	return Request{Prompt: prompt, Style: style, Quality: quality}, nil
}

// EnhancedPrompt is the trimmed prompt followed by the style suffix.
func (r Request) EnhancedPrompt() string {
	return r.Prompt + stylePresets[r.Style]
}

func (r Request) Params() image.Params {
	settings := qualityPresets[r.Quality]
	return image.Params{
		Steps:    settings.Steps,
		Width:    imageSize,
		Height:   imageSize,
		CfgScale: settings.CfgScale,
		Samples:  1,
		TextPrompts: []image.TextPrompt{
			{Text: r.EnhancedPrompt(), Weight: 1},
		},
	}
}

func (r Request) Metadata() map[string]string {
	return map[string]string{
		"prompt":  r.Prompt,
		"style":   string(r.Style),
		"quality": string(r.Quality),
	}
}
