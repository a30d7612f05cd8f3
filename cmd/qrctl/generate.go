// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/qr"
)

func newGenerateCmd() *cobra.Command {
	var (
		item     payload.Item
		size     int
		logoPath string
		outDir   string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Render the simple and structured QR codes of a product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := commandLogger(cmd)
			defer func() { _ = log.Sync() }()

			renderer := qr.NewRenderer(log)
			fallback := qr.NewFallback(qr.NewCompositor(renderer, logoPath, log), renderer, log,
				qr.WithRemoteEndpoint(endpoint))
			svc := qr.NewService(renderer, fallback, log, 1, 1<<14)

			bundle, err := svc.GenerateBundle(cmd.Context(), item, size)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, r := range []struct {
				name     string
				rendered qr.Rendered
			}{
				{"simple", bundle.Simple},
				{"structured", bundle.Structured},
			} {
				result := r.rendered.Result
				if result.Variant == qr.Remote {
					fmt.Fprintf(out, "%s: %s %s\n", r.name, result.Variant, result.URL)
					continue
				}
				path := filepath.Join(outDir, r.name+".png")
				if err := os.WriteFile(path, result.PNG, 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", path, err)
				}
				fmt.Fprintf(out, "%s: %s %s\n", r.name, result.Variant, path)
			}
			fmt.Fprintf(out, "branding_succeeded: %t\n", bundle.BrandingSucceeded)
			return nil
		},
	}

	cmd.Flags().Int64Var(&item.ID, "id", 0, "product id")
	cmd.Flags().StringVar(&item.Code, "code", "", "product code")
	cmd.Flags().StringVar(&item.Name, "name", "", "product name")
	cmd.Flags().StringVar(&item.Price, "price", "0", "product price")
	cmd.Flags().IntVar(&size, "size", 300, "image edge in pixels")
	cmd.Flags().StringVar(&logoPath, "logo", "", "logo image; without it codes render plain")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&endpoint, "endpoint", qr.DefaultRemoteEndpoint, "remote rendering endpoint")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
