package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cqlang/cqlin/internal/cqlfmt"
	"github.com/cqlang/cqlin/scanner"
)

var (
	writeInPlace    bool
	listUnformatted bool
	indentSize      int
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Rewrite CQL files into canonical form",
	Long: `Formats CQL source deterministically: normalized operator spacing,
indentation derived from nesting, collapsed blank lines. Without -w the
formatted text is printed to stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide file or directory paths")
			os.Exit(1)
		}

		files, err := collectFiles(args)
		if err != nil {
			logger.Fatal("Failed to collect input files", zap.Error(err))
		}

		failed := false
		for _, path := range files {
			if err := formatFile(path); err != nil {
				logger.Error("Error formatting file", zap.String("file", path), zap.Error(err))
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

func init() {
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write result back to the source file")
	fmtCmd.Flags().BoolVarP(&listUnformatted, "list", "l", false, "List files whose formatting differs")
	fmtCmd.Flags().IntVar(&indentSize, "indent", 2, "Spaces per indentation level")
}

func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := scanner.New(path).Paths()
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func formatFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	result := cqlfmt.Format(string(source), cqlfmt.Options{IndentSize: indentSize})
	if !result.Success {
		return fmt.Errorf("formatting failed: %v", result.Errors)
	}

	switch {
	case listUnformatted:
		if result.Formatted != string(source) {
			fmt.Println(path)
		}
	case writeInPlace:
		if result.Formatted == string(source) {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(result.Formatted), info.Mode().Perm())
	default:
		fmt.Print(result.Formatted)
	}
	return nil
}
