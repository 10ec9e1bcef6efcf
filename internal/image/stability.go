package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	stdimage "image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const Timeout = 90 * time.Second

var errNoArtifacts = errors.New("response has no artifacts")

type artifact struct {
	Base64       string  `json:"base64"`
	Seed         *uint64 `json:"seed,omitempty"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type response struct {
	Artifacts []artifact `json:"artifacts"`
}

type StabilityGenerator struct {
	Client *http.Client
	URL    string
	Key    string
}

func NewStabilityGenerator(i *do.Injector) (Generator, error) {
	return &StabilityGenerator{
		Client: do.MustInvoke[*http.Client](i),
		URL:    do.MustInvokeNamed[string](i, "stability_url"),
		Key:    do.MustInvokeNamed[string](i, "stability_key"),
	}, nil
}

func (g *StabilityGenerator) Generate(ctx context.Context, params Params) ([]byte, string, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("stability").With("steps", params.Steps, "cfg_scale", params.CfgScale)
	log.Info("generating image")

	body, err := json.Marshal(params)
	if err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.URL, bytes.NewReader(body))
	if err != nil {
		return nil, "", err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.Key)

	client := lo.Ternary(g.Client != nil, g.Client, &http.Client{Timeout: Timeout})
	resp, err := client.Do(req)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("generation rejected", "status", resp.StatusCode)
		return nil, "", &ApiError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	img, seed, err := decode(data)
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	log.Info("received image", "bytes", len(img), "seed", seed)

	return img, seed, nil
}

func decode(data []byte) ([]byte, string, error) {
	var body response
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, "", err
	}
	if len(body.Artifacts) == 0 {
		return nil, "", errNoArtifacts
	}
	first := body.Artifacts[0]
	if first.Base64 == "" {
		return nil, "", errors.New("artifact has no base64 field")
	}

	img, err := base64.StdEncoding.DecodeString(first.Base64)
	if err != nil {
		return nil, "", fmt.Errorf("base64: %w", err)
	}
	if _, _, err := stdimage.DecodeConfig(bytes.NewReader(img)); err != nil {
		return nil, "", fmt.Errorf("image: %w", err)
	}

	seed := ""
	if first.Seed != nil {
		seed = strconv.FormatUint(*first.Seed, 10)
	}
	return img, seed, nil
}
