package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"legalrag/internal/domain"
	"legalrag/internal/service"
	"legalrag/internal/tui"
)

var (
	searchLaw   string
	searchLimit int
	searchJSON  bool
	searchClean bool

	askLaw   string
	askAudio string

	articleSummary bool
	compareFocus   string
	lawsArticles   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank passages matching a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var results []domain.SearchResult
		if searchLaw != "" {
			results, err = a.assistant.SearchScoped(cmd.Context(), args[0], searchLaw, searchLimit)
		} else {
			results, err = a.assistant.Search(cmd.Context(), args[0], searchLimit)
		}
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if searchJSON {
			return printJSON(cmd, results)
		}
		if len(results) == 0 {
			cmd.Println("No results found.")
			return nil
		}
		for i, r := range results {
			cmd.Printf("[%d] %s (%s, page %s) score=%.3f\n", i+1, r.Chunk.LawName, filepath.Base(r.Chunk.Source), r.Chunk.PageLabel(), r.Score)
			text := r.Chunk.Content
			if searchClean {
				text = a.assistant.Readable(cmd.Context(), text, a.lang)
			}
			cmd.Println(text)
			cmd.Println()
		}
		return nil
	},
}

var articleCmd = &cobra.Command{
	Use:   "article [law] [number]",
	Short: "Print one article of a law",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		art := a.assistant.SummarizeArticle(cmd.Context(), args[0], args[1], a.lang)
		if !art.Found {
			cmd.Println(art.Summary)
			return nil
		}
		cmd.Println(art.Text)
		if articleSummary {
			cmd.Println()
			cmd.Println(art.Summary)
		}
		return nil
	},
}

var lawsCmd = &cobra.Command{
	Use:   "laws",
	Short: "List the laws in the corpus",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		for _, law := range a.assistant.Laws() {
			if !lawsArticles {
				cmd.Println(law)
				continue
			}
			cmd.Printf("%s (%d articles)\n", law, len(a.assistant.Articles(law)))
		}
		return nil
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a legal question from the corpus",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && askAudio == "" {
			return fmt.Errorf("give a question or --audio")
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		req := service.Request{Lang: a.lang, Law: askLaw}
		var ans service.Answer
		if askAudio != "" {
			audio, err := os.ReadFile(askAudio)
			if err != nil {
				return err
			}
			var heard string
			heard, ans = a.assistant.AskAudio(cmd.Context(), filepath.Base(askAudio), audio, req)
			if heard != "" {
				cmd.Printf("Q: %s\n\n", heard)
			}
		} else {
			req.Query = args[0]
			ans = a.assistant.Ask(cmd.Context(), req)
		}
		cmd.Println(ans.Text)
		if len(ans.Sources) > 0 {
			cmd.Println()
			cmd.Println("Sources:")
			for _, r := range ans.Sources {
				cmd.Printf("- %s (%s, page %s) score=%.3f\n", r.Chunk.LawName, filepath.Base(r.Chunk.Source), r.Chunk.PageLabel(), r.Score)
			}
		}
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [law] [law]",
	Short: "Compare two laws",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		ans := a.assistant.CompareLaws(cmd.Context(), args[0], args[1], compareFocus, a.lang)
		cmd.Println(ans.Text)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive search",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		summary := fmt.Sprintf("%d laws, %d chunks from %d files", len(a.assistant.Laws()), a.report.Chunks, a.report.Files)
		if n := len(a.report.Failures); n > 0 {
			summary += fmt.Sprintf(", %d failed", n)
		}
		_, err = tea.NewProgram(tui.New(a.assistant, a.lang, summary)).Run()
		return err
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func init() {
	searchCmd.Flags().StringVar(&searchLaw, "law", "", "restrict to one law")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 5, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchClean, "readable", false, "rewrite each passage for reading")

	askCmd.Flags().StringVar(&askLaw, "law", "", "restrict context to one law")
	askCmd.Flags().StringVar(&askAudio, "audio", "", "read the question from an audio file")

	articleCmd.Flags().BoolVar(&articleSummary, "summary", false, "also print a short summary")
	compareCmd.Flags().StringVar(&compareFocus, "focus", "", "aspect to concentrate on")
	lawsCmd.Flags().BoolVar(&lawsArticles, "articles", false, "show how many articles each law marks")

	rootCmd.AddCommand(searchCmd, articleCmd, lawsCmd, askCmd, compareCmd, tuiCmd)
}
