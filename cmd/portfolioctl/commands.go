package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"genai_portfolio/internal/apiclient"
	"genai_portfolio/internal/config"
	"genai_portfolio/internal/domain"
)

const descriptionWidth = 60

type rootOptions struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	verbose    bool

	client *apiclient.Client
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Command-line client for the portfolio API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file providing the client section")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080/api", "API base URL")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log retries to stderr")

	cmd.AddCommand(
		newPromptsCmd(opts),
		newLikeCmd(opts),
		newSubscribeCmd(opts),
		newUnsubscribeCmd(opts),
		newContactCmd(opts),
	)
	return cmd
}

func (o *rootOptions) init(cmd *cobra.Command) error {
	clientCfg := apiclient.Config{
		BaseURL:        o.baseURL,
		Timeout:        o.timeout,
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
	}

	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		clientCfg = apiclient.Config{
			BaseURL:        cfg.Client.BaseURL,
			Timeout:        cfg.Client.Timeout,
			MaxAttempts:    cfg.Client.Retry.MaxAttempts,
			InitialBackoff: cfg.Client.Retry.InitialBackoff,
			MaxBackoff:     cfg.Client.Retry.MaxBackoff,
		}
		if cmd.Flags().Changed("base-url") {
			clientCfg.BaseURL = o.baseURL
		}
		if cmd.Flags().Changed("timeout") {
			clientCfg.Timeout = o.timeout
		}
	}

	level := slog.LevelError
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	o.client = apiclient.New(clientCfg, logger)
	return nil
}

func newPromptsCmd(opts *rootOptions) *cobra.Command {
	var q, category, sort string

	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List prompts with optional search, category and sort",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseSortKey(sort)
			if err != nil {
				return err
			}
			res, err := opts.client.ListPrompts(cmd.Context(), domain.QuerySpec{SearchText: q, Category: category, Sort: key})
			if err != nil {
				return userError(err)
			}
			if res.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "No prompts found. Try clearing the search or category filter.")
				return nil
			}
			renderPrompts(cmd.OutOrStdout(), res.Items, res.Total)
			return nil
		},
	}

	cmd.Flags().StringVarP(&q, "query", "q", "", "search text")
	cmd.Flags().StringVarP(&category, "category", "c", domain.AllCategories, "category filter")
	cmd.Flags().StringVarP(&sort, "sort", "s", "", "sort order: popular, newest or views")
	return cmd
}

func newLikeCmd(opts *rootOptions) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "like <prompt-id>",
		Short: "Like a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if session == "" {
				session = uuid.NewString()
			}
			res, err := opts.client.LikeItem(cmd.Context(), args[0], session)
			if err != nil {
				return userError(err)
			}
			if res.Liked {
				fmt.Fprintf(cmd.OutOrStdout(), "Liked %q (%d likes)\n", res.Prompt.Title, res.Prompt.Metrics.Likes)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Already liked %q (%d likes)\n", res.Prompt.Title, res.Prompt.Metrics.Likes)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&session, "session", "", "session id; a new one is generated when empty")
	return cmd
}

func newSubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Subscribe an email address to the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := opts.client.SubscribeToNewsletter(cmd.Context(), args[0])
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subscribed %s\n", sub.Email)
			return nil
		},
	}
}

func newUnsubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <email>",
		Short: "Remove an email address from the newsletter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.client.UnsubscribeFromNewsletter(cmd.Context(), args[0]); err != nil {
				return userError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Successfully unsubscribed")
			return nil
		},
	}
}

func newContactCmd(opts *rootOptions) *cobra.Command {
	var form domain.ContactForm

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a contact message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := opts.client.SubmitContactForm(cmd.Context(), form)
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message sent (reference %s)\n", sub.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "your email address")
	cmd.Flags().StringVar(&form.Subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&form.Message, "message", "", "message body")
	return cmd
}

// userError surfaces the server's message when it sent one.
func userError(err error) error {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}

func renderPrompts(w io.Writer, prompts []domain.Prompt, total int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: descriptionWidth},
	})

	t.AppendHeader(table.Row{"ID", "Title", "Category", "Description", "Likes", "Views"})
	for _, p := range prompts {
		t.AppendRow(table.Row{
			p.ID,
			p.Title,
			p.Category,
			strings.Join(strings.Fields(p.Description), " "),
			p.Metrics.Likes,
			p.Metrics.Views,
		})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d of %d", len(prompts), total)})
	t.Render()
}
