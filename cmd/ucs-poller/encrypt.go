/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carverauto/obmpoller/cmd/ucs-poller/app"
	"github.com/carverauto/obmpoller/pkg/crypto/secrets"
)

var errNoPlaintext = errors.New("no plaintext given")

var encryptCmd = &cobra.Command{
	Use:   "encrypt [plaintext]",
	Short: "Encrypt an OBM password for storage",
	Long: `Encrypt a controller password with the configured key so it can be
stored as ucsPassword in an OBM setting. Without an argument the first line
of stdin is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncrypt,
}

var genKeyCmd = &cobra.Command{
	Use:   "genkey",
	Short: "Generate a random base64 encryption key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key, err := secrets.GenerateKey()
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), key)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(encryptCmd, genKeyCmd)
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := app.LoadConfig(cmd.Context(), configPath)
	if err != nil {
		return err
	}

	cipher, err := cfg.Encryption.Load()
	if err != nil {
		return err
	}

	plaintext, err := readPlaintext(cmd, args)
	if err != nil {
		return err
	}

	ciphertext, err := cipher.Encrypt([]byte(plaintext))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), ciphertext)

	return nil
}

func readPlaintext(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}

		return "", errNoPlaintext
	}

	line := strings.TrimRight(scanner.Text(), "\r\n")
	if line == "" {
		return "", errNoPlaintext
	}

	return line, nil
}
