package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/m-mizutani/goerr/v2"
	"github.com/umbrella-sec/umbrella/pkg/apiclient"
	"github.com/umbrella-sec/umbrella/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

func cmdStats() *cli.Command {
	var (
		apiURL      string
		accessToken string
		username    string
		password    string
	)

	return &cli.Command{
		Name:  "stats",
		Usage: "Fetch and print alert statistics from a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "api-url",
				Usage:       "Base URL of the dashboard API",
				Value:       "http://localhost:8080/api",
				Sources:     cli.EnvVars("UMBRELLA_API_URL"),
				Destination: &apiURL,
			},
			&cli.StringFlag{
				Name:        "access-token",
				Usage:       "Access token for the API (alternative to username/password)",
				Sources:     cli.EnvVars("UMBRELLA_ACCESS_TOKEN"),
				Destination: &accessToken,
			},
			&cli.StringFlag{
				Name:        "username",
				Usage:       "Username to log in with",
				Sources:     cli.EnvVars("UMBRELLA_USERNAME"),
				Destination: &username,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Password to log in with",
				Sources:     cli.EnvVars("UMBRELLA_PASSWORD"),
				Destination: &password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			client := apiclient.New(apiURL, apiclient.WithAccessToken(accessToken))

			if accessToken == "" {
				if username == "" || password == "" {
					return goerr.New("either an access token or username and password are required")
				}
				pair, err := client.Login(ctx, &model.Credentials{
					Username: username,
					Password: password,
				})
				if err != nil {
					return goerr.Wrap(err, "login failed")
				}
				client.SetAccessToken(pair.AccessToken)
			}

			stats, err := client.GetAlertStats(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to fetch alert stats")
			}

			printStats(stats)
			return nil
		},
	}
}

func printStats(stats *model.AlertStats) {
	cards := model.DefaultDashboardConfig().BuildCards(stats)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, card := range cards {
		fmt.Fprintf(w, "%s\t%s\n", card.Title, card.FormattedValue())
	}
	fmt.Fprintln(w)

	printBuckets(w, "Alerts by Severity", stats.BySeverity)
	printBuckets(w, "Alerts by Channel", stats.ByChannel)
	printBuckets(w, "Alerts by Status", stats.ByStatus)

	fmt.Fprintln(w, "Alerts Over Time")
	for _, point := range stats.OverTime {
		fmt.Fprintf(w, "  %s\t%d\n", point.Date, point.Count)
	}

	w.Flush()
}

func printBuckets(w *tabwriter.Writer, title string, buckets []model.StatsBucket) {
	fmt.Fprintln(w, title)
	for _, bucket := range buckets {
		fmt.Fprintf(w, "  %s\t%d\n", bucket.Key, bucket.Count)
	}
	fmt.Fprintln(w)
}
