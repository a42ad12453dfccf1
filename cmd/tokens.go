package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cqlang/cqlin/internal/lexer"
)

// tokensCmd dumps the classified token stream of a file. Editor
// integrations drive their syntax highlighting from this output.
var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the classified token stream of a CQL file as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			logger.Fatal("Failed to read file", zap.String("file", args[0]), zap.Error(err))
		}

		tokens := lexer.New(string(source)).Tokenize()
		out := make([]tokenJSON, 0, len(tokens))
		for _, tok := range tokens {
			out = append(out, tokenJSON{
				Kind:  tok.Kind.String(),
				Text:  tok.Text,
				Start: tok.Start,
				End:   tok.End,
			})
		}

		d, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			logger.Fatal("Failed to marshal tokens", zap.Error(err))
		}
		fmt.Println(string(d))
	},
}

type tokenJSON struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}
