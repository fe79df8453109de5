package main

import (
	"context"
	"fmt"
	"os"

	ddlambda "github.com/DataDog/datadog-lambda-go"
	"github.com/automuse/studio/scraper"
	"github.com/automuse/studio/utils"
	"github.com/automuse/studio/utils/dotenv"
	flags "github.com/automuse/studio/utils/flag"
	Logger "github.com/automuse/studio/utils/log"
	"github.com/aws/aws-lambda-go/lambda"
)

// scrapecron polls every active feed source once. Deployed as a lambda on a
// cron schedule, it is the "external cron" edge of the idea pipeline. It can
// also run as a plain one-shot binary for local testing.

type scrapeReport struct {
	SourcesPolled int `json:"sources_polled"`
	IdeasCreated  int `json:"ideas_created"`
	Failures      int `json:"failures"`
}

func HandleRequest(ctx context.Context) (scrapeReport, error) {
	report := scrapeReport{}

	db, err := utils.GetDBConnection()
	if err != nil {
		Logger.Log.Error("fail to connect database: ", err)
		return report, err
	}

	results := scraper.ScrapeAllActive(db)
	for id, result := range results {
		report.SourcesPolled++
		report.IdeasCreated += result.IdeasCreated
		if !result.Success {
			report.Failures++
			Logger.Log.Warn("scrape failed for source ", id, ": ", result.Message)
		}
	}

	Logger.Log.Infof("scrape run complete: %d sources, %d ideas, %d failures",
		report.SourcesPolled, report.IdeasCreated, report.Failures)
	return report, nil
}

func main() {
	flags.Parse()

	if err := dotenv.LoadDotEnvs(); err != nil {
		Logger.Log.Fatal("fail to load env: ", err)
	}

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		lambda.Start(ddlambda.WrapFunction(HandleRequest, nil))
		return
	}

	// One-shot local run.
	report, err := HandleRequest(context.Background())
	if err != nil {
		os.Exit(1)
	}
	fmt.Printf("%+v\n", report)
}
