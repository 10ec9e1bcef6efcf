package inject

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/imagedesk/internal/config"
	"github.com/dmorgan81/imagedesk/internal/handle"
	"github.com/dmorgan81/imagedesk/internal/image"
	"github.com/dmorgan81/imagedesk/internal/log"
	"github.com/dmorgan81/imagedesk/internal/page"
	"github.com/dmorgan81/imagedesk/internal/param"
	"github.com/dmorgan81/imagedesk/internal/session"
	"github.com/dmorgan81/imagedesk/internal/store"
	"github.com/gorilla/mux"
	"github.com/samber/do"
)

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})

	// AWS clients are only built when a *_PARAM, BUCKET or DISTRIBUTION needs them.
	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return awsconfig.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: image.Timeout})

	do.Provide[*param.ParameterStoreFetcher](injector, param.NewParameterStoreFetcher)
	do.Provide[config.Config](injector, func(i *do.Injector) (config.Config, error) {
		loader := &config.Loader{
			Env: param.EnvFetcher{},
			Secure: func() (param.Fetcher, error) {
				return do.Invoke[*param.ParameterStoreFetcher](i)
			},
		}
		return loader.Load(ctx)
	})

	do.ProvideNamed[string](injector, "stability_url", func(i *do.Injector) (string, error) {
		return do.MustInvoke[config.Config](i).APIURL, nil
	})
	do.ProvideNamed[string](injector, "stability_key", func(i *do.Injector) (string, error) {
		return do.MustInvoke[config.Config](i).APIKey, nil
	})
	do.ProvideNamed[string](injector, "bucket", func(i *do.Injector) (string, error) {
		return do.MustInvoke[config.Config](i).Bucket, nil
	})
	do.ProvideNamed[string](injector, "distribution", func(i *do.Injector) (string, error) {
		return do.MustInvoke[config.Config](i).Distribution, nil
	})

	do.Provide[image.Generator](injector, image.NewStabilityGenerator)
	do.Provide[*session.Session](injector, session.NewSession)
	do.Provide[*store.S3Uploader](injector, store.NewS3Uploader)
	do.Provide[*store.CloudFrontInvalidator](injector, store.NewCloudFrontInvalidator)
	do.Provide[*store.Saver](injector, newSaver)
	do.Provide[*page.Templator](injector, page.NewTemplator)

	do.Provide[*handle.HtmlHandler](injector, handle.NewHtmlHandler)
	do.Provide[*handle.GenerateHandler](injector, handle.NewGenerateHandler)
	do.Provide[*handle.SaveHandler](injector, handle.NewSaveHandler)
	do.Provide[*handle.ImageHandler](injector, handle.NewImageHandler)
	do.Provide[*handle.EventsHandler](injector, handle.NewEventsHandler)
	do.Provide[*mux.Router](injector, handle.NewRouter)

	do.Provide[*http.Server](injector, func(i *do.Injector) (*http.Server, error) {
		return &http.Server{
			Addr:        do.MustInvoke[config.Config](i).Addr,
			Handler:     do.MustInvoke[*mux.Router](i),
			BaseContext: func(net.Listener) context.Context { return ctx },
		}, nil
	})

	return injector
}

func newSaver(i *do.Injector) (*store.Saver, error) {
	cfg := do.MustInvoke[config.Config](i)
	saver := &store.Saver{
		Source: do.MustInvoke[*session.Session](i),
		Local:  &store.FileUploader{},
		Path:   cfg.OutputPath,
	}
	if cfg.Bucket != "" {
		saver.Remote = do.MustInvoke[*store.S3Uploader](i)
		if cfg.Distribution != "" {
			saver.Invalidator = do.MustInvoke[*store.CloudFrontInvalidator](i)
		}
	}
	return saver, nil
}
