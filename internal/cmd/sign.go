package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xdg/multihook/internal/secret"
	"github.com/xdg/multihook/internal/term"
)

var signOpts struct {
	secret string
	format string
	file   string
}

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the auth header for a request body",
	Long: `Read a request body from stdin (or --file) and print the header a sender
must include for an endpoint with the given secret and format.

Example:
  curl -X POST -H "$(multihook sign -k s3cret < body.json)" \
       --data-binary @body.json http://127.0.0.1:8080/deploy`,
	Args: cobra.NoArgs,
	RunE: runSign,
}

func init() {
	signCmd.Flags().StringVarP(&signOpts.secret, "secret", "k", "", "shared secret (required)")
	signCmd.Flags().StringVarP(&signOpts.format, "format", "f", "hmac", "secret format: hmac, github or gitlab")
	signCmd.Flags().StringVar(&signOpts.file, "file", "", "read body from file instead of stdin")
	_ = signCmd.MarkFlagRequired("secret")
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	format, err := secret.ParseFormat(signOpts.format)
	if err != nil {
		return err
	}
	if signOpts.secret == "" {
		return errors.New("secret must not be empty")
	}

	var body []byte
	if signOpts.file != "" {
		body, err = os.ReadFile(signOpts.file)
	} else {
		body, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	term.Println(signatureHeader(format, body, []byte(signOpts.secret)))
	return nil
}

// signatureHeader returns "Name: value" for format.
func signatureHeader(format secret.Format, body, key []byte) string {
	if format == secret.FormatGitLab {
		return secret.HeaderGitLabToken + ": " + string(key)
	}
	return secret.HeaderHubSignature256 + ": " + secret.Sign(body, key)
}
