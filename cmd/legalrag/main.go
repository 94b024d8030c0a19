package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
	docs    []string
	langArg string
	purge   bool
)

var rootCmd = &cobra.Command{
	Use:   "legalrag",
	Short: "Search and question a corpus of legal PDFs",
	Long: `legalrag ingests legal PDFs, splits them into article-aware chunks and
answers searches, article lookups and questions over them in English or Arabic.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config (default ./config.yaml, then ~/.config/legalrag/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringSliceVarP(&docs, "docs", "d", nil, "PDF files or glob patterns (overrides ingest.paths)")
	rootCmd.PersistentFlags().StringVar(&langArg, "lang", "en", "answer language: en or ar")
	rootCmd.PersistentFlags().BoolVar(&purge, "purge-cache", false, "drop cached chunks and re-extract every document")
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
