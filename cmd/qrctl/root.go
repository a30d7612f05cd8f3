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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/product-qr/internal/logger"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "qrctl",
		Short: "Render and decode product QR codes",
		Long: `qrctl drives the product QR pipeline from the command line.

Examples:
  qrctl generate --id 7 --code P-0042 --name Widget --price 19.99 --logo ./assets/logo.png --out ./out
  qrctl decode '#P-0042'
  qrctl decode --image ./out/structured.png
  qrctl remote-url '#P-0042'`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newGenerateCmd(), newDecodeCmd(), newRemoteURLCmd())
	return root
}

func commandLogger(cmd *cobra.Command) *zap.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	l, err := logger.New("", level, "stderr")
	if err != nil {
		return zap.NewNop()
	}
	return l
}
