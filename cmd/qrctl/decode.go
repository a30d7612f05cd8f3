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
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/qr"
)

func newDecodeCmd() *cobra.Command {
	var imagePath string

	cmd := &cobra.Command{
		Use:   "decode [TEXT]",
		Short: "Print the canonical product code carried by scanned text or a QR image",
		Args: func(cmd *cobra.Command, args []string) error {
			if imagePath == "" && len(args) != 1 {
				return errors.New("expected exactly one TEXT argument or --image")
			}
			if imagePath != "" && len(args) != 0 {
				return errors.New("TEXT and --image are mutually exclusive")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if imagePath != "" {
				img, err := imaging.Open(imagePath)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", imagePath, err)
				}
				if raw, err = qr.ReadText(img); err != nil {
					return err
				}
			} else {
				raw = args[0]
			}

			outcome := payload.Decode(raw)
			if !outcome.OK() {
				return fmt.Errorf("invalid: %s", outcome.Reason)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&imagePath, "image", "", "read the text from a QR code image")
	return cmd
}

func newRemoteURLCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "remote-url TEXT",
		Short: "Print the remote rendering URL used as the last fallback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), qr.RemoteURL(endpoint, args[0]))
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", qr.DefaultRemoteEndpoint, "remote rendering endpoint")
	return cmd
}
