package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rebeliceyang/lazymarv/internal/filter"
)

func runFilterEncode(cmd *cobra.Command, args []string) error {
	var data []byte
	if len(args) == 1 {
		data = []byte(args[0])
	} else {
		var err error
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read filter from stdin: %w", err)
		}
	}
	root, err := filter.UnmarshalJSON([]byte(strings.TrimSpace(string(data))))
	if err != nil {
		return fmt.Errorf("invalid filter JSON: %w", err)
	}
	filter.Normalize(root)
	token, err := filter.Encode(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}

func runFilterDecode(cmd *cobra.Command, args []string) error {
	root, err := filter.Decode(args[0])
	if err != nil {
		return err
	}
	out, err := filter.EncodeIndent(root)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func runFilterDescribe(cmd *cobra.Command, args []string) error {
	root, err := filter.Decode(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), filter.Describe(root))
	return nil
}

// tokenJSON turns a token into the filter JSON the listing endpoint takes
func tokenJSON(token string) (string, error) {
	root, err := filter.Decode(token)
	if err != nil {
		return "", err
	}
	data, err := filter.MarshalJSON(root)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
