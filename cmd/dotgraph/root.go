package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:          "dotgraph <file.dot>",
	Short:        "Parse a DOT file and print the graph it describes",
	Long:         "dotgraph parses a simplified DOT description, builds the directed or undirected graph it declares and prints it.",
	Args:         cobra.ExactArgs(1),
	RunE:         runGraph,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringP("format", "f", formatDebug, "Output format: debug, dot, ast, topo or components")
	rootCmd.Flags().Bool("comments", false, "Skip //, # and /* */ comments")
	rootCmd.Flags().Bool("lint", false, "Lint the description before building and fail on errors")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	_ = viper.BindPFlag("format", rootCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("comments", rootCmd.Flags().Lookup("comments"))
	_ = viper.BindPFlag("lint", rootCmd.Flags().Lookup("lint"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.SetEnvPrefix("DOTGRAPH")
	viper.AutomaticEnv()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
