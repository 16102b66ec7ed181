package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	resguard "github.com/dhilst/resguard"
)

var (
	logLevel  string
	yamlInput bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "resguard",
		Short:        "Schema tooling for JSON-like data",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	fromjson := &cobra.Command{
		Use:   "fromjson [name]",
		Short: "Infer a record schema from a document on stdin and print it",
		Long: `Reads a JSON document from standard input, infers a record schema tree
rooted at the given name (default "Root"), and writes the schema text to
standard output. Nested schemas are printed before the records that
reference them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFromJSON,
	}
	fromjson.Flags().BoolVar(&yamlInput, "yaml", false, "treat input as YAML instead of JSON")
	root.AddCommand(fromjson)
	return root
}

func runFromJSON(cmd *cobra.Command, args []string) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", logLevel, err)
	}
	logrus.SetLevel(lvl)

	name := "Root"
	if len(args) > 0 {
		name = args[0]
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var tree *resguard.Tree
	if yamlInput {
		tree, err = resguard.InferYAML(name, data)
	} else {
		tree, err = resguard.InferJSON(name, data)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), resguard.Print(tree))
	return nil
}
