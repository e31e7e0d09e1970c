package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fixmycity/internal/model"
	"fixmycity/internal/service"
)

func (a *App) feedCommand() *cobra.Command {
	var pages int
	var refresh bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List reports from everyone, newest first",
		Long: `List the shared feed. Pages are fetched one after another and merged,
so a report that moves between pages while you read is shown once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}

			feed := service.NewFeedPaginator(a.client, a.sessions, a.cfg.FeedPageSize, a.cfg.RefreshMinDelay, a.logger)
			if refresh {
				if err := feed.Refresh(cmd.Context()); err != nil {
					return err
				}
			} else if err := feed.FetchPage(cmd.Context(), 1, false); err != nil {
				return err
			}

			for feed.Page() < pages {
				fetched, err := feed.LoadMore(cmd.Context())
				if err != nil {
					return err
				}
				if !fetched {
					break
				}
			}

			return a.printReports(feed.Reports(), feed.HasMore())
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "number of pages to fetch")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch as a pull-to-refresh")
	return cmd
}

func (a *App) submitCommand() *cobra.Command {
	var in model.NewReport
	var compress bool

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new report",
		Example: `  fixmycity submit --title "Broken streetlight" --caption "Out for a week" \
    --place "Cairo Road" --rating 2 --image ./light.jpg --lat -15.41 --lng 28.28`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			images := service.NewImageEncoder(a.cfg.ImageMaxWidth, a.cfg.ImageMaxHeight, compress)
			reports := service.NewReportService(a.client, a.sessions, images, a.logger)

			created, err := reports.Submit(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.done("Report %s submitted", created.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Title, "title", "", "short title")
	f.StringVar(&in.Caption, "caption", "", "description of the issue")
	f.StringVar(&in.Place, "place", "", "where it is")
	f.IntVar(&in.Rating, "rating", model.DefaultRating, "severity from 1 to 5 stars")
	f.StringVar(&in.ImagePath, "image", "", "path to the photo")
	f.Float64Var(&in.Lat, "lat", 0, "latitude")
	f.Float64Var(&in.Lng, "lng", 0, "longitude")
	f.BoolVar(&compress, "compress", false, "downscale and re-encode the photo as JPEG before upload")
	return cmd
}

func (a *App) mineCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.requireSession(); err != nil {
				return err
			}

			mine := service.NewMyReports(a.client, a.sessions, a.cfg.RefreshMinDelay, a.logger)
			if err := mine.Load(cmd.Context()); err != nil {
				return err
			}
			return a.printReports(mine.Reports(), false)
		},
	}
}

func (a *App) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete one of your reports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reports := service.NewReportService(a.client, a.sessions, nil, a.logger)
			if err := reports.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.done("Report Deleted Successfully")
			return nil
		},
	}
}

func (a *App) archiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Upload a JSON snapshot of your reports to the archive bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.requireSession()
			if err != nil {
				return err
			}

			archiver, err := service.NewArchiver(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			mine := service.NewMyReports(a.client, a.sessions, 0, a.logger)
			if err := mine.Load(cmd.Context()); err != nil {
				return err
			}

			key, err := archiver.Archive(cmd.Context(), session, mine.Reports())
			if err != nil {
				return err
			}
			a.done("Archived %d reports to s3://%s/%s", len(mine.Reports()), a.cfg.ArchiveBucket, key)
			return nil
		},
	}
}

func (a *App) printReports(reports []model.Report, hasMore bool) error {
	if a.jsonOutput {
		a.printJSON(reports)
		return nil
	}
	return renderReports(a.out, reports, hasMore)
}

func renderReports(out io.Writer, reports []model.Report, hasMore bool) error {
	if len(reports) == 0 {
		fmt.Fprintln(out, "No reports yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tRATING\tPLACE\tBY\tPUBLISHED")
	for _, r := range reports {
		by := ""
		if r.User != nil {
			by = r.User.FullName()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, r.Rating.Stars(), r.Place, by, model.PublishedOn(r.CreatedAt))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if hasMore {
		fmt.Fprintln(out, "More reports available: use --pages to fetch further.")
	}
	return nil
}
