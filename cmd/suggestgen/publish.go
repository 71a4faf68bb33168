package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-suggest/pkg/publish"
)

func newPublishCmd(a *app) *cobra.Command {
	var (
		cacheControl string
		publicRead   bool
	)

	cmd := &cobra.Command{
		Use:     "publish",
		Short:   "Render the dictionary and upload it to S3",
		Example: `  suggestgen publish --source api.yaml --bucket assets --format js --key suggest/suggestions.js`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if a.cfg.Publish.Bucket == "" {
				return errors.New("publish: --bucket is required")
			}

			gen, result, err := a.generate(ctx)
			if err != nil {
				return err
			}
			renderer, err := gen.Renderer(a.cfg.Render.Format)
			if err != nil {
				return err
			}
			body, err := gen.RenderDictionary(ctx, result.Dictionary, renderer.Name(), a.cfg.RenderOptions())
			if err != nil {
				return err
			}

			options := []publish.Option{
				publish.WithCacheControl(cacheControl),
				publish.WithLogger(a.logger),
			}
			if publicRead {
				options = append(options, publish.WithPublicRead())
			}
			publisher, err := publish.NewS3(ctx, a.cfg.Publish.Region, a.cfg.Publish.Bucket, options...)
			if err != nil {
				return err
			}

			key := a.cfg.Publish.Key
			if key == "" {
				key = "suggestions." + renderer.Name()
			}
			location, err := publisher.Publish(ctx, publish.Artifact{
				Key:         key,
				Body:        body,
				ContentType: renderer.ContentType(),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), location)
			return err
		},
	}

	flags := cmd.Flags()
	flags.String("bucket", "", "destination bucket")
	flags.String("key", "", "object key (default suggestions.<format>)")
	flags.String("region", "", "AWS region (default from the AWS configuration)")
	flags.StringVar(&cacheControl, "cache-control", "max-age=300", "Cache-Control header stored with the object")
	flags.BoolVar(&publicRead, "public-read", false, "upload with the public-read ACL")
	addRenderFlags(cmd)
	return cmd
}
