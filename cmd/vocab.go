package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cqlang/cqlin/internal/grammar"
)

var vocabJsonOutput bool

// vocabCmd prints the completion vocabulary: every keyword, builtin
// function and data type name known to the grammar table. Autocomplete
// hosts consume this list directly.
var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Print the CQL completion vocabulary",
	Run: func(cmd *cobra.Command, args []string) {
		words := grammar.Default().Completions()
		if !vocabJsonOutput {
			for _, w := range words {
				fmt.Println(w)
			}
			return
		}
		d, err := json.Marshal(words)
		if err != nil {
			logger.Fatal("Failed to marshal vocabulary", zap.Error(err))
		}
		fmt.Println(string(d))
	},
}

func init() {
	vocabCmd.Flags().BoolVar(&vocabJsonOutput, "json", false, "Output as a JSON array")
}
